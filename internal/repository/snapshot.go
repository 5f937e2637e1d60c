package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"timekeeper/internal/models"
)

// Storage keys, one per persisted collection or setting.
const (
	KeyTimers                 = "timer-storage"
	KeyAlarms                 = "alarm-storage"
	KeyMemos                  = "memo-storage"
	KeyClockMode              = "clock-app-mode"
	KeyTheme                  = "clock-app-theme"
	KeyOnboardingDismissed    = "onboarding-tip-dismissed"
	KeyNotificationPermission = "notification-permission"
)

// snapshotVersion is written into every collection envelope.
const snapshotVersion = 0

// ErrCorruptSnapshot marks a stored value that could not be decoded.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// SnapshotSQLite serializes collections and settings onto a KV store.
type SnapshotSQLite struct {
	kv KV
}

func NewSnapshotSQLite(kv KV) *SnapshotSQLite {
	return &SnapshotSQLite{kv: kv}
}

var _ SnapshotRepo = (*SnapshotSQLite)(nil)

type envelope struct {
	State   map[string]json.RawMessage `json:"state"`
	Version int                        `json:"version"`
}

// encodeCollection wraps items as {"state":{field:[...]},"version":0}.
func encodeCollection(field string, items any) ([]byte, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(raw, []byte("null")) {
		raw = []byte("[]")
	}
	return json.Marshal(envelope{
		State:   map[string]json.RawMessage{field: raw},
		Version: snapshotVersion,
	})
}

// decodeCollection accepts either the envelope form or a bare JSON array.
func decodeCollection(field string, data []byte, dst any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("%w: empty value", ErrCorruptSnapshot)
	}
	if data[0] == '[' {
		if err := json.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
		return nil
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	raw, ok := env.State[field]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return nil
}

func (r *SnapshotSQLite) loadCollection(ctx context.Context, key, field string, dst any) (bool, error) {
	data, ok, err := r.kv.Load(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := decodeCollection(field, data, dst); err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return true, nil
}

func (r *SnapshotSQLite) saveCollection(ctx context.Context, key, field string, items any) error {
	data, err := encodeCollection(field, items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.kv.Save(ctx, key, data)
}

func (r *SnapshotSQLite) LoadTimers(ctx context.Context) ([]models.Timer, error) {
	var out []models.Timer
	if _, err := r.loadCollection(ctx, KeyTimers, "timers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SnapshotSQLite) SaveTimers(ctx context.Context, timers []models.Timer) error {
	return r.saveCollection(ctx, KeyTimers, "timers", timers)
}

func (r *SnapshotSQLite) LoadAlarms(ctx context.Context) ([]models.Alarm, error) {
	var out []models.Alarm
	if _, err := r.loadCollection(ctx, KeyAlarms, "alarms", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SnapshotSQLite) SaveAlarms(ctx context.Context, alarms []models.Alarm) error {
	return r.saveCollection(ctx, KeyAlarms, "alarms", alarms)
}

func (r *SnapshotSQLite) LoadMemos(ctx context.Context) ([]models.Memo, error) {
	var out []models.Memo
	if _, err := r.loadCollection(ctx, KeyMemos, "memos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SnapshotSQLite) SaveMemos(ctx context.Context, memos []models.Memo) error {
	return r.saveCollection(ctx, KeyMemos, "memos", memos)
}

// LoadString reads a scalar setting. Values may be stored raw (`dark`) or
// JSON-encoded (`"dark"`).
func (r *SnapshotSQLite) LoadString(ctx context.Context, key string) (string, bool, error) {
	data, ok, err := r.kv.Load(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}
	return decodeScalar(data), true, nil
}

// SaveString writes a scalar setting JSON-encoded.
func (r *SnapshotSQLite) SaveString(ctx context.Context, key, value string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.kv.Save(ctx, key, data)
}

// LoadBool reads a boolean flag stored as true/false or "true"/"false".
func (r *SnapshotSQLite) LoadBool(ctx context.Context, key string) (bool, bool, error) {
	s, ok, err := r.LoadString(ctx, key)
	if err != nil || !ok {
		return false, ok, err
	}
	b, perr := strconv.ParseBool(s)
	if perr != nil {
		return false, false, fmt.Errorf("%s: %w: %v", key, ErrCorruptSnapshot, perr)
	}
	return b, true, nil
}

func (r *SnapshotSQLite) SaveBool(ctx context.Context, key string, value bool) error {
	return r.kv.Save(ctx, key, []byte(strconv.FormatBool(value)))
}

func decodeScalar(data []byte) string {
	data = bytes.TrimSpace(data)
	var s string
	if len(data) > 0 && data[0] == '"' && json.Unmarshal(data, &s) == nil {
		return s
	}
	return string(data)
}
