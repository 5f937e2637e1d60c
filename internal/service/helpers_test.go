package service

import (
	"context"
	"sync"
	"time"

	"timekeeper/internal/clock"
	"timekeeper/internal/models"
)

// fakeEventRepo is a minimal stub that satisfies the repository.EventRepo interface.
type fakeEventRepo struct {
	mu sync.Mutex

	// captured inputs
	gotCtx  context.Context
	gotFrom time.Time
	gotTo   time.Time
	gotType string
	appends []models.Event

	// configured outputs
	events    []models.Event
	err       error
	appendErr error

	calls int
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.gotCtx = ctx
	f.gotFrom = from
	f.gotTo = to
	f.gotType = typ
	return f.events, f.err
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends = append(f.appends, e)
	return f.appendErr
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.appends))
	for i, e := range f.appends {
		out[i] = e.Type
	}
	return out
}

// memSnapshots is an in-memory repository.SnapshotRepo.
type memSnapshots struct {
	mu      sync.Mutex
	timers  []models.Timer
	alarms  []models.Alarm
	memos   []models.Memo
	strings map[string]string
	bools   map[string]bool

	loadErr error
	saveErr error
	saves   int
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{strings: map[string]string{}, bools: map[string]bool{}}
}

func (m *memSnapshots) LoadTimers(ctx context.Context) ([]models.Timer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Timer(nil), m.timers...), m.loadErr
}

func (m *memSnapshots) SaveTimers(ctx context.Context, timers []models.Timer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.timers = append([]models.Timer(nil), timers...)
	return nil
}

func (m *memSnapshots) LoadAlarms(ctx context.Context) ([]models.Alarm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Alarm(nil), m.alarms...), m.loadErr
}

func (m *memSnapshots) SaveAlarms(ctx context.Context, alarms []models.Alarm) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.alarms = append([]models.Alarm(nil), alarms...)
	return nil
}

func (m *memSnapshots) LoadMemos(ctx context.Context) ([]models.Memo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Memo(nil), m.memos...), m.loadErr
}

func (m *memSnapshots) SaveMemos(ctx context.Context, memos []models.Memo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.memos = append([]models.Memo(nil), memos...)
	return nil
}

func (m *memSnapshots) LoadString(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return "", false, m.loadErr
	}
	v, ok := m.strings[key]
	return v, ok, nil
}

func (m *memSnapshots) SaveString(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.strings[key] = value
	return nil
}

func (m *memSnapshots) LoadBool(ctx context.Context, key string) (bool, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return false, false, m.loadErr
	}
	v, ok := m.bools[key]
	return v, ok, nil
}

func (m *memSnapshots) SaveBool(ctx context.Context, key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.bools[key] = value
	return nil
}

// recordingNotifier captures Notify calls.
type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

type notifyCall struct{ title, body string }

func (r *recordingNotifier) Notify(title, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, notifyCall{title, body})
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recordingNotifier) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.title
	}
	return out
}

func fixedZone(name string, offsetSec int) *time.Location {
	return time.FixedZone(name, offsetSec)
}

func mustTimeIn(loc *time.Location, y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}

// localAt returns a fake clock positioned at the given local wall time.
func localAt(hh, mm, ss int) *clock.Fake {
	return clock.NewFake(time.Date(2025, time.March, 10, hh, mm, ss, 0, time.Local))
}
