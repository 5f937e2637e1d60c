package service

import "time"

// TimerParams creates a timer from an explicit duration in seconds.
type TimerParams struct {
	Name     string
	Duration int
	Start    bool
}

// TargetTimerParams creates a timer that runs until the next HH:MM.
type TargetTimerParams struct {
	Name   string
	Hour   int
	Minute int
	Start  bool
}

type AlarmParams struct {
	Name      string
	Hour      int
	Minute    int
	IsEnabled bool
}

// AlarmUpdate is a partial edit; nil fields are left alone.
type AlarmUpdate struct {
	Name      *string
	Hour      *int
	Minute    *int
	IsEnabled *bool
}

type MemoParams struct {
	Title   string
	Content string
	Color   string // palette name or hex; empty picks the default
}

// MemoUpdate is a partial edit; nil fields are left alone.
type MemoUpdate struct {
	Title   *string
	Content *string
	Color   *string
}

// NextFiring is the nearest armed alarm occurrence.
type NextFiring struct {
	AlarmID string    `json:"alarm_id"`
	Name    string    `json:"name"`
	At      time.Time `json:"at"`
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "TIMER_COMPLETED", "ALARM_FIRED", ...
}
