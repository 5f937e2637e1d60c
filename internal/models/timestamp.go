package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayout is ISO-8601 with millisecond precision, as browsers emit it.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp is a time.Time that reads either ISO-8601 strings or epoch
// milliseconds and always writes ISO-8601.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to the snapshot precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Millisecond)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(timestampLayout))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("parse timestamp %q: %w", s, err)
		}
		t.Time = parsed
		return nil
	}
	var ms float64
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("parse epoch timestamp %s: %w", b, err)
	}
	t.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}
