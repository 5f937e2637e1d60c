package service

import (
	"context"
	"sync"

	"timekeeper/internal/logger"
	"timekeeper/internal/models"
	"timekeeper/internal/repository"
)

// PreferenceService holds the per-key UI settings. Absent or unreadable keys
// fall back to defaults.
type PreferenceService struct {
	observers

	snaps        repository.SnapshotRepo
	defaultTheme string
	log          *logger.Logger

	mu    sync.Mutex
	prefs models.Preferences
}

func NewPreferenceService(snaps repository.SnapshotRepo, defaultTheme string, log *logger.Logger) *PreferenceService {
	if defaultTheme != models.ThemeDark {
		defaultTheme = models.ThemeLight
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &PreferenceService{
		snaps:        snaps,
		defaultTheme: defaultTheme,
		log:          log,
		prefs:        defaultPreferences(defaultTheme),
	}
}

func defaultPreferences(theme string) models.Preferences {
	return models.Preferences{
		ClockMode:              models.ClockModeDigital,
		Theme:                  theme,
		NotificationPermission: models.PermissionDefault,
	}
}

func validClockMode(m string) bool {
	return m == models.ClockModeAnalog || m == models.ClockModeDigital
}

func validTheme(t string) bool {
	return t == models.ThemeLight || t == models.ThemeDark
}

func validPermission(p string) bool {
	switch p {
	case models.PermissionGranted, models.PermissionDenied, models.PermissionDefault:
		return true
	}
	return false
}

func (s *PreferenceService) Restore(ctx context.Context) {
	p := defaultPreferences(s.defaultTheme)

	if v, ok := s.loadString(ctx, repository.KeyClockMode); ok && validClockMode(v) {
		p.ClockMode = v
	}
	if v, ok := s.loadString(ctx, repository.KeyTheme); ok && validTheme(v) {
		p.Theme = v
	}
	if v, ok := s.loadString(ctx, repository.KeyNotificationPermission); ok && validPermission(v) {
		p.NotificationPermission = v
	}
	if b, ok, err := s.snaps.LoadBool(ctx, repository.KeyOnboardingDismissed); err != nil {
		s.log.Warnw("unreadable setting, using default", "key", repository.KeyOnboardingDismissed, "error", err)
	} else if ok {
		p.OnboardingDismissed = b
	}

	s.mu.Lock()
	s.prefs = p
	s.mu.Unlock()
	s.publish()
}

func (s *PreferenceService) loadString(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.snaps.LoadString(ctx, key)
	if err != nil {
		s.log.Warnw("unreadable setting, using default", "key", key, "error", err)
		return "", false
	}
	return v, ok
}

func (s *PreferenceService) Get() models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

func (s *PreferenceService) Permission() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.NotificationPermission
}

func (s *PreferenceService) SetClockMode(ctx context.Context, mode string) error {
	if !validClockMode(mode) {
		return ErrInvalidClockMode
	}
	s.setString(ctx, repository.KeyClockMode, mode, func(p *models.Preferences) { p.ClockMode = mode })
	return nil
}

func (s *PreferenceService) ToggleClockMode(ctx context.Context) string {
	next := models.ClockModeAnalog
	if s.Get().ClockMode == models.ClockModeAnalog {
		next = models.ClockModeDigital
	}
	_ = s.SetClockMode(ctx, next)
	return next
}

func (s *PreferenceService) SetTheme(ctx context.Context, theme string) error {
	if !validTheme(theme) {
		return ErrInvalidTheme
	}
	s.setString(ctx, repository.KeyTheme, theme, func(p *models.Preferences) { p.Theme = theme })
	return nil
}

func (s *PreferenceService) ToggleTheme(ctx context.Context) string {
	next := models.ThemeDark
	if s.Get().Theme == models.ThemeDark {
		next = models.ThemeLight
	}
	_ = s.SetTheme(ctx, next)
	return next
}

func (s *PreferenceService) SetNotificationPermission(ctx context.Context, permission string) error {
	if !validPermission(permission) {
		return ErrInvalidPermission
	}
	s.setString(ctx, repository.KeyNotificationPermission, permission, func(p *models.Preferences) {
		p.NotificationPermission = permission
	})
	return nil
}

func (s *PreferenceService) DismissOnboarding(ctx context.Context) {
	s.mu.Lock()
	s.prefs.OnboardingDismissed = true
	if err := s.snaps.SaveBool(ctx, repository.KeyOnboardingDismissed, true); err != nil {
		s.log.Warnw("failed to persist setting", "key", repository.KeyOnboardingDismissed, "error", err)
	}
	s.mu.Unlock()
	s.publish()
}

func (s *PreferenceService) setString(ctx context.Context, key, value string, apply func(p *models.Preferences)) {
	s.mu.Lock()
	apply(&s.prefs)
	if err := s.snaps.SaveString(ctx, key, value); err != nil {
		s.log.Warnw("failed to persist setting", "key", key, "error", err)
	}
	s.mu.Unlock()
	s.publish()
}
