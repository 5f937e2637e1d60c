package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"timekeeper/internal/clock"
	"timekeeper/internal/logger"
	"timekeeper/internal/models"
	"timekeeper/internal/repository"

	"github.com/google/uuid"
)

const timerCompleteBody = "Timer complete"

// TimerService owns the countdown timers. All running timers share one
// repeating tick loop, which exists only while at least one timer runs.
type TimerService struct {
	observers

	clk      clock.Clock
	interval time.Duration
	snaps    repository.SnapshotRepo
	events   repository.EventRepo
	notifier Notifier
	log      *logger.Logger

	mu       sync.Mutex
	timers   []models.Timer
	activeID string

	loop     clock.Timer
	loopGen  int
	lastTick time.Time
	carry    time.Duration
}

func NewTimerService(
	snaps repository.SnapshotRepo,
	events repository.EventRepo,
	notifier Notifier,
	clk clock.Clock,
	interval time.Duration,
	log *logger.Logger,
) *TimerService {
	if interval <= 0 {
		interval = time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &TimerService{
		clk:      clk,
		interval: interval,
		snaps:    snaps,
		events:   events,
		notifier: notifier,
		log:      log,
	}
}

// Restore loads the persisted timers. They come back paused; the first one
// becomes active.
func (s *TimerService) Restore(ctx context.Context) {
	timers, err := s.snaps.LoadTimers(ctx)
	if err != nil {
		s.log.Warnw("timer snapshot unreadable, starting empty", "error", err)
		timers = nil
	}

	s.mu.Lock()
	s.timers = s.timers[:0]
	for _, t := range timers {
		if t.ID == "" {
			continue
		}
		if t.Duration < 0 {
			t.Duration = 0
		}
		t.RemainingTime = min(max(t.RemainingTime, 0), t.Duration)
		t.IsRunning = false
		s.timers = append(s.timers, t)
	}
	s.activeID = ""
	if len(s.timers) > 0 {
		s.activeID = s.timers[0].ID
	}
	s.syncLoopLocked()
	s.mu.Unlock()

	s.log.Infow("timers restored", "count", len(timers))
	s.publish()
}

// Add creates a timer. A zero duration yields an already completed timer.
func (s *TimerService) Add(ctx context.Context, p TimerParams) (models.Timer, error) {
	if p.Duration < 0 {
		return models.Timer{}, ErrInvalidDuration
	}
	return s.add(ctx, nameOr(p.Name, models.DefaultTimerName), p.Duration, p.Start), nil
}

// AddAt creates a timer running until the next local HH:MM. A target that is
// not in the future rolls to tomorrow.
func (s *TimerService) AddAt(ctx context.Context, p TargetTimerParams) (models.Timer, error) {
	if !validClockTime(p.Hour, p.Minute) {
		return models.Timer{}, ErrInvalidClockTime
	}
	now := s.clk.Now()
	target := time.Date(now.Year(), now.Month(), now.Day(), p.Hour, p.Minute, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	d := target.Sub(now)
	secs := int((d + time.Second - 1) / time.Second)

	name := nameOr(p.Name, fmt.Sprintf("Timer for %02d:%02d", p.Hour, p.Minute))
	return s.add(ctx, name, secs, p.Start), nil
}

func (s *TimerService) add(ctx context.Context, name string, duration int, start bool) models.Timer {
	t := models.Timer{
		ID:            uuid.NewString(),
		Name:          name,
		Duration:      duration,
		RemainingTime: duration,
		IsRunning:     start && duration > 0,
		CreatedAt:     models.NewTimestamp(s.clk.Now()),
	}

	s.mu.Lock()
	s.timers = append(s.timers, t)
	if s.activeID == "" {
		s.activeID = t.ID
	}
	s.syncLoopLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.record(ctx, models.EventTimerAdded, "Timer "+t.Name+" added", map[string]any{
		"timer_id": t.ID, "duration": t.Duration, "started": t.IsRunning,
	})
	s.publish()
	return t
}

// Start resumes counting down. Running or completed timers are left alone.
func (s *TimerService) Start(ctx context.Context, id string) (models.Timer, bool) {
	return s.mutate(ctx, id, models.EventTimerStarted, func(t *models.Timer) bool {
		if t.IsRunning || t.RemainingTime == 0 {
			return false
		}
		t.IsRunning = true
		return true
	})
}

// Pause stops counting down and keeps the remaining time.
func (s *TimerService) Pause(ctx context.Context, id string) (models.Timer, bool) {
	return s.mutate(ctx, id, models.EventTimerPaused, func(t *models.Timer) bool {
		if !t.IsRunning {
			return false
		}
		t.IsRunning = false
		return true
	})
}

// Reset returns the timer to idle with its full duration.
func (s *TimerService) Reset(ctx context.Context, id string) (models.Timer, bool) {
	return s.mutate(ctx, id, models.EventTimerReset, func(t *models.Timer) bool {
		if !t.IsRunning && t.RemainingTime == t.Duration {
			return false
		}
		t.RemainingTime = t.Duration
		t.IsRunning = false
		return true
	})
}

func (s *TimerService) mutate(ctx context.Context, id, eventType string, apply func(t *models.Timer) bool) (models.Timer, bool) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Timer{}, false
	}
	changed := apply(&s.timers[i])
	t := s.timers[i]
	if changed {
		s.syncLoopLocked()
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if changed {
		s.record(ctx, eventType, "Timer "+t.Name, map[string]any{
			"timer_id": t.ID, "remaining": t.RemainingTime,
		})
		s.publish()
	}
	return t, true
}

// Tick decrements a running timer by exactly one second.
func (s *TimerService) Tick(ctx context.Context, id string) (models.Timer, bool) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Timer{}, false
	}
	before := s.timers[i]
	completed := s.tickLocked(i)
	t := s.timers[i]
	changed := t != before
	if changed {
		s.syncLoopLocked()
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	if completed {
		s.complete(ctx, []models.Timer{t})
	}
	if changed {
		s.publish()
	}
	return t, true
}

// Remove deletes the timer. Removing the active timer promotes the first
// remaining one.
func (s *TimerService) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	t := s.timers[i]
	s.timers = append(s.timers[:i], s.timers[i+1:]...)
	if s.activeID == id {
		s.activeID = ""
		if len(s.timers) > 0 {
			s.activeID = s.timers[0].ID
		}
	}
	s.syncLoopLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.record(ctx, models.EventTimerRemoved, "Timer "+t.Name+" removed", map[string]any{"timer_id": t.ID})
	s.publish()
	return true
}

// SetActive picks the timer surfaced as active. An empty id clears the slot.
func (s *TimerService) SetActive(ctx context.Context, id string) bool {
	s.mu.Lock()
	if id != "" && s.indexLocked(id) < 0 {
		s.mu.Unlock()
		return false
	}
	changed := s.activeID != id
	s.activeID = id
	s.mu.Unlock()

	if changed {
		s.publish()
	}
	return true
}

// Clear removes every timer.
func (s *TimerService) Clear(ctx context.Context) {
	s.mu.Lock()
	n := len(s.timers)
	s.timers = nil
	s.activeID = ""
	s.syncLoopLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	if n > 0 {
		s.record(ctx, models.EventTimerRemoved, "All timers cleared", map[string]any{"count": n})
	}
	s.publish()
}

func (s *TimerService) List() []models.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Timer, len(s.timers))
	copy(out, s.timers)
	return out
}

func (s *TimerService) Get(id string) (models.Timer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.timers[i], true
	}
	return models.Timer{}, false
}

func (s *TimerService) Active() (models.Timer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(s.activeID); i >= 0 {
		return s.timers[i], true
	}
	return models.Timer{}, false
}

// Stop cancels the tick loop. Running timers keep their state.
func (s *TimerService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loop != nil {
		s.loop.Stop()
		s.loop = nil
		s.loopGen++
	}
}

// tickLocked decrements timer i once and reports whether it just completed.
func (s *TimerService) tickLocked(i int) bool {
	t := &s.timers[i]
	if !t.IsRunning || t.RemainingTime <= 0 {
		return false
	}
	t.RemainingTime--
	if t.RemainingTime == 0 {
		t.IsRunning = false
		return true
	}
	return false
}

// syncLoopLocked keeps exactly one tick loop alive while any timer runs and
// none otherwise. A timer started while the loop already runs joins its phase,
// so its first decrement may land less than a second after the start.
func (s *TimerService) syncLoopLocked() {
	running := false
	for _, t := range s.timers {
		if t.IsRunning {
			running = true
			break
		}
	}

	switch {
	case running && s.loop == nil:
		s.loopGen++
		gen := s.loopGen
		s.lastTick = s.clk.Now()
		s.carry = 0
		s.loop = s.clk.Every(s.interval, func() { s.onTick(gen) })
	case !running && s.loop != nil:
		s.loop.Stop()
		s.loop = nil
		s.loopGen++
	}
}

// onTick advances every running timer by the whole seconds elapsed since the
// previous tick, so a late or coalesced tick catches up.
func (s *TimerService) onTick(gen int) {
	s.mu.Lock()
	if gen != s.loopGen {
		s.mu.Unlock()
		return
	}
	now := s.clk.Now()
	if elapsed := now.Sub(s.lastTick); elapsed > 0 {
		s.carry += elapsed
	}
	s.lastTick = now
	steps := int(s.carry / time.Second)
	if steps == 0 {
		s.mu.Unlock()
		return
	}
	s.carry -= time.Duration(steps) * time.Second

	var done []models.Timer
	for i := range s.timers {
		for n := 0; n < steps; n++ {
			if s.tickLocked(i) {
				done = append(done, s.timers[i])
				break
			}
		}
	}
	s.syncLoopLocked()
	ctx := context.Background()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.complete(ctx, done)
	s.publish()
}

func (s *TimerService) complete(ctx context.Context, done []models.Timer) {
	for _, t := range done {
		s.log.Infow("timer completed", "timer_id", t.ID, "name", t.Name)
		if s.notifier != nil {
			s.notifier.Notify(t.Name, timerCompleteBody)
		}
		s.record(ctx, models.EventTimerCompleted, "Timer "+t.Name+" completed", map[string]any{
			"timer_id": t.ID, "duration": t.Duration,
		})
	}
}

func (s *TimerService) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.timers {
		if s.timers[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the collection snapshot. Failures are logged; the
// in-memory state stays authoritative.
func (s *TimerService) persistLocked(ctx context.Context) {
	snapshot := make([]models.Timer, len(s.timers))
	copy(snapshot, s.timers)
	if err := s.snaps.SaveTimers(ctx, snapshot); err != nil {
		s.log.Warnw("failed to persist timers", "error", err)
	}
}

func (s *TimerService) record(ctx context.Context, typ, desc string, meta map[string]any) {
	recordEvent(ctx, s.events, s.clk, s.log, typ, desc, meta)
}
