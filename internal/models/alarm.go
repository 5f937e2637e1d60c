package models

import "fmt"

// Alarm recurs daily at Hour:Minute local time while enabled.
type Alarm struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Hour        int        `json:"hour"`   // 0-23
	Minute      int        `json:"minute"` // 0-59
	IsEnabled   bool       `json:"isEnabled"`
	CreatedAt   Timestamp  `json:"createdAt"`
	LastFiredAt *Timestamp `json:"lastFiredAt,omitempty"`
}

// Clock renders the alarm time as HH:MM.
func (a Alarm) Clock() string {
	return fmt.Sprintf("%02d:%02d", a.Hour, a.Minute)
}
