package models

import "time"

// Event types recorded in the activity log.
const (
	EventTimerAdded     = "TIMER_ADDED"
	EventTimerStarted   = "TIMER_STARTED"
	EventTimerPaused    = "TIMER_PAUSED"
	EventTimerReset     = "TIMER_RESET"
	EventTimerRemoved   = "TIMER_REMOVED"
	EventTimerCompleted = "TIMER_COMPLETED"
	EventAlarmAdded     = "ALARM_ADDED"
	EventAlarmUpdated   = "ALARM_UPDATED"
	EventAlarmToggled   = "ALARM_TOGGLED"
	EventAlarmRemoved   = "ALARM_REMOVED"
	EventAlarmFired     = "ALARM_FIRED"
)

// EventTypes lists every type the log records, timers first.
var EventTypes = []string{
	EventTimerAdded, EventTimerStarted, EventTimerPaused, EventTimerReset, EventTimerRemoved, EventTimerCompleted,
	EventAlarmAdded, EventAlarmUpdated, EventAlarmToggled, EventAlarmRemoved, EventAlarmFired,
}

func IsEventType(s string) bool {
	for _, t := range EventTypes {
		if t == s {
			return true
		}
	}
	return false
}

// Event is a single activity log entry.
type Event struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
