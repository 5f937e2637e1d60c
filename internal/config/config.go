package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved application configuration.
type Config struct {
	Port   string
	DBPath string
	Log    LogConfig
	Timers TimersConfig
	Alarms AlarmsConfig
	Notify NotifyConfig
	Auth   AuthConfig
	UI     UIConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type TimersConfig struct {
	Tick time.Duration
}

type AlarmsConfig struct {
	// PollInterval drives the minute-match fallback check; 0 disables it.
	PollInterval time.Duration
	AutoDisable  bool
}

type NotifyConfig struct {
	SoundPath     string
	Volume        float64
	Icon          string
	FlashInterval time.Duration
	DocumentTitle string
}

type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

type UIConfig struct {
	DefaultTheme string
}

const envPrefix = "TIMEKEEPER"

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "timekeeper.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("timers.tick", time.Second)
	v.SetDefault("alarms.poll_interval", 10*time.Second)
	v.SetDefault("alarms.auto_disable", true)
	v.SetDefault("notify.sound_path", "assets/alarm.mp3")
	v.SetDefault("notify.volume", 0.0)
	v.SetDefault("notify.icon", "/clock-icon.svg")
	v.SetDefault("notify.flash_interval", time.Second)
	v.SetDefault("notify.document_title", "The Clock")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("ui.default_theme", "light")
}

// Load reads configs/config.yml (optional) plus TIMEKEEPER_* environment
// overrides. A missing file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if len(paths) == 0 {
		paths = []string{"configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper resolves and validates a Config from an already populated viper.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:   v.GetString("port"),
		DBPath: v.GetString("db.path"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Timers: TimersConfig{Tick: v.GetDuration("timers.tick")},
		Alarms: AlarmsConfig{
			PollInterval: v.GetDuration("alarms.poll_interval"),
			AutoDisable:  v.GetBool("alarms.auto_disable"),
		},
		Notify: NotifyConfig{
			SoundPath:     v.GetString("notify.sound_path"),
			Volume:        v.GetFloat64("notify.volume"),
			Icon:          v.GetString("notify.icon"),
			FlashInterval: v.GetDuration("notify.flash_interval"),
			DocumentTitle: v.GetString("notify.document_title"),
		},
		Auth: AuthConfig{
			SigningKey: v.GetString("auth.signing_key"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
		},
		UI: UIConfig{DefaultTheme: v.GetString("ui.default_theme")},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Timers.Tick <= 0 {
		return fmt.Errorf("timers.tick must be positive, got %s", c.Timers.Tick)
	}
	if c.Alarms.PollInterval < 0 {
		return fmt.Errorf("alarms.poll_interval must not be negative, got %s", c.Alarms.PollInterval)
	}
	if c.Notify.FlashInterval <= 0 {
		return fmt.Errorf("notify.flash_interval must be positive, got %s", c.Notify.FlashInterval)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	switch c.UI.DefaultTheme {
	case "light", "dark":
	default:
		return fmt.Errorf("ui.default_theme must be light or dark, got %q", c.UI.DefaultTheme)
	}
	return nil
}
