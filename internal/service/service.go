package service

import (
	"context"
	"time"

	"timekeeper/internal/clock"
	"timekeeper/internal/config"
	"timekeeper/internal/logger"
	"timekeeper/internal/models"
	"timekeeper/internal/repository"
)

// Notifier delivers a firing event (timer completion or alarm) to the user.
type Notifier interface {
	Notify(title, body string)
}

type Authorization interface {
	SetupOwner(ctx context.Context, password string) error
	GenerateToken(ctx context.Context, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Timers manages countdown timers and the shared one-second tick loop.
type Timers interface {
	Add(ctx context.Context, p TimerParams) (models.Timer, error)
	AddAt(ctx context.Context, p TargetTimerParams) (models.Timer, error)
	Start(ctx context.Context, id string) (models.Timer, bool)
	Pause(ctx context.Context, id string) (models.Timer, bool)
	Reset(ctx context.Context, id string) (models.Timer, bool)
	Tick(ctx context.Context, id string) (models.Timer, bool)
	Remove(ctx context.Context, id string) bool
	SetActive(ctx context.Context, id string) bool
	Clear(ctx context.Context)
	List() []models.Timer
	Active() (models.Timer, bool)
	Subscribe(fn func()) (cancel func())
}

// Alarms manages daily alarms and keeps the nearest firing armed.
type Alarms interface {
	Add(ctx context.Context, p AlarmParams) (models.Alarm, error)
	Update(ctx context.Context, id string, p AlarmUpdate) (models.Alarm, bool, error)
	Remove(ctx context.Context, id string) bool
	Toggle(ctx context.Context, id string) (models.Alarm, bool)
	List() []models.Alarm
	Next() (NextFiring, bool)
	Subscribe(fn func()) (cancel func())
}

// Memos manages the sticky-note board.
type Memos interface {
	Add(ctx context.Context, p MemoParams) (models.Memo, error)
	Update(ctx context.Context, id string, p MemoUpdate) (models.Memo, bool, error)
	Remove(ctx context.Context, id string) bool
	SetActive(ctx context.Context, id string) bool
	List() []models.Memo
	Active() (models.Memo, bool)
	Subscribe(fn func()) (cancel func())
}

// Preferences exposes the small persisted UI settings.
type Preferences interface {
	Get() models.Preferences
	SetClockMode(ctx context.Context, mode string) error
	ToggleClockMode(ctx context.Context) string
	SetTheme(ctx context.Context, theme string) error
	ToggleTheme(ctx context.Context) string
	DismissOnboarding(ctx context.Context)
	SetNotificationPermission(ctx context.Context, permission string) error
	Permission() string
	Subscribe(fn func()) (cancel func())
}

// ClockFace exposes read-only current time as the widget shows it.
type ClockFace interface {
	Now() models.ClockFace
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.Event, error)
}

// Runner drives the background work (alarm poll) until ctx is canceled.
type Runner interface {
	Run(ctx context.Context)
}

type Service struct {
	Timers        Timers
	Alarms        Alarms
	Memos         Memos
	Preferences   Preferences
	ClockFace     ClockFace
	EventLog      EventLog
	Authorization Authorization
	Runner        Runner

	restorers []restorer
}

type restorer interface {
	Restore(ctx context.Context)
}

// Deps carries the collaborators shared by every sub-service.
type Deps struct {
	Clock    clock.Clock
	Notifier Notifier
	Log      *logger.Logger
	// Preferences is shared with the notification layer when set; otherwise
	// NewService builds its own.
	Preferences *PreferenceService
}

// NewService wires repository layer into concrete services.
func NewService(repos *repository.Repository, cfg *config.Config, deps Deps) *Service {
	clk := deps.Clock
	if clk == nil {
		clk = clock.System
	}
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}

	tick := cfg.Timers.Tick
	if tick <= 0 {
		tick = time.Second
	}

	timers := NewTimerService(repos.Snapshots, repos.EventRepo, deps.Notifier, clk, tick, log.Named("timers"))
	alarms := NewAlarmService(repos.Snapshots, repos.EventRepo, deps.Notifier, clk, AlarmOptions{
		AutoDisable:  cfg.Alarms.AutoDisable,
		PollInterval: cfg.Alarms.PollInterval,
	}, log.Named("alarms"))
	memos := NewMemoService(repos.Snapshots, clk, log.Named("memos"))
	prefs := deps.Preferences
	if prefs == nil {
		prefs = NewPreferenceService(repos.Snapshots, cfg.UI.DefaultTheme, log.Named("preferences"))
	}

	return &Service{
		Timers:        timers,
		Alarms:        alarms,
		Memos:         memos,
		Preferences:   prefs,
		ClockFace:     NewClockFaceService(clk, prefs),
		EventLog:      NewEventLogService(repos.EventRepo),
		Authorization: NewAuthService(repos.Auth, cfg.Auth.SigningKey, cfg.Auth.TokenTTL),
		Runner:        NewRunnerService(timers, alarms, log.Named("runner")),
		restorers:     []restorer{prefs, memos, timers, alarms},
	}
}

// Restore rehydrates every store from its persisted snapshot. Read failures
// fall back to defaults, so startup never fails here.
func (s *Service) Restore(ctx context.Context) {
	for _, r := range s.restorers {
		r.Restore(ctx)
	}
}
