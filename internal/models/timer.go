package models

// DefaultTimerName labels timers created without a name.
const DefaultTimerName = "Timer"

// Timer is a countdown. Duration and RemainingTime are whole seconds and
// 0 <= RemainingTime <= Duration holds at all times.
type Timer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Duration      int       `json:"duration"`
	RemainingTime int       `json:"remainingTime"`
	IsRunning     bool      `json:"isRunning"`
	CreatedAt     Timestamp `json:"createdAt"`
}

// TimerStatus is the derived lifecycle state of a timer.
type TimerStatus string

const (
	TimerIdle      TimerStatus = "idle"
	TimerRunning   TimerStatus = "running"
	TimerPaused    TimerStatus = "paused"
	TimerCompleted TimerStatus = "completed"
)

// Status derives the state machine position from the stored fields.
func (t Timer) Status() TimerStatus {
	switch {
	case t.IsRunning:
		return TimerRunning
	case t.RemainingTime == 0:
		return TimerCompleted
	case t.RemainingTime == t.Duration:
		return TimerIdle
	default:
		return TimerPaused
	}
}
