package service

import (
	"context"
	"sync"
	"time"

	"timekeeper/internal/clock"
	"timekeeper/internal/logger"
	"timekeeper/internal/models"
	"timekeeper/internal/repository"

	"github.com/google/uuid"
)

// dedupWindow suppresses a second firing of the same alarm within a minute.
const dedupWindow = 60 * time.Second

// ComputeNextFiring returns the nearest future occurrence across the enabled
// alarms. An occurrence equal to now counts as past and rolls to tomorrow.
// Ties keep the earlier alarm in the slice.
func ComputeNextFiring(alarms []models.Alarm, now time.Time) (NextFiring, bool) {
	var (
		best  NextFiring
		found bool
	)
	for _, a := range alarms {
		if !a.IsEnabled {
			continue
		}
		at := occurrenceOn(now, a)
		if !at.After(now) {
			at = at.AddDate(0, 0, 1)
		}
		if !found || at.Before(best.At) {
			best = NextFiring{AlarmID: a.ID, Name: a.Name, At: at}
			found = true
		}
	}
	return best, found
}

// occurrenceOn is the alarm's time of day on now's calendar date.
func occurrenceOn(now time.Time, a models.Alarm) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), a.Hour, a.Minute, 0, 0, now.Location())
}

type AlarmOptions struct {
	// AutoDisable switches an alarm off once it fires; otherwise it recurs daily.
	AutoDisable bool
	// PollInterval drives the minute-match fallback check; 0 disables it.
	PollInterval time.Duration
}

// AlarmService owns the alarms and a single deferred callback armed for the
// nearest firing. Every mutation discards the pending callback and re-arms.
type AlarmService struct {
	observers

	clk      clock.Clock
	snaps    repository.SnapshotRepo
	events   repository.EventRepo
	notifier Notifier
	opts     AlarmOptions
	log      *logger.Logger

	mu         sync.Mutex
	alarms     []models.Alarm
	pending    clock.Timer
	pendingGen int
	next       NextFiring
	armed      bool
	poll       clock.Timer

	// scheduledAt is when each alarm's current schedule took effect. The poll
	// only catches occurrences that fall after it.
	scheduledAt map[string]time.Time
}

func NewAlarmService(
	snaps repository.SnapshotRepo,
	events repository.EventRepo,
	notifier Notifier,
	clk clock.Clock,
	opts AlarmOptions,
	log *logger.Logger,
) *AlarmService {
	if log == nil {
		log = logger.NewNop()
	}
	return &AlarmService{
		clk:      clk,
		snaps:    snaps,
		events:   events,
		notifier: notifier,
		opts:     opts,
		log:      log,

		scheduledAt: make(map[string]time.Time),
	}
}

// Restore loads the persisted alarms and arms the nearest one.
func (s *AlarmService) Restore(ctx context.Context) {
	alarms, err := s.snaps.LoadAlarms(ctx)
	if err != nil {
		s.log.Warnw("alarm snapshot unreadable, starting empty", "error", err)
		alarms = nil
	}

	s.mu.Lock()
	s.alarms = s.alarms[:0]
	s.scheduledAt = make(map[string]time.Time)
	now := s.clk.Now()
	for _, a := range alarms {
		if a.ID == "" || !validClockTime(a.Hour, a.Minute) {
			s.log.Warnw("dropping invalid stored alarm", "alarm_id", a.ID, "hour", a.Hour, "minute", a.Minute)
			continue
		}
		s.alarms = append(s.alarms, a)
		s.scheduledAt[a.ID] = now
	}
	s.armLocked()
	s.mu.Unlock()

	s.log.Infow("alarms restored", "count", len(alarms))
	s.publish()
}

func (s *AlarmService) Add(ctx context.Context, p AlarmParams) (models.Alarm, error) {
	if !validClockTime(p.Hour, p.Minute) {
		return models.Alarm{}, ErrInvalidClockTime
	}
	a := models.Alarm{
		ID:        uuid.NewString(),
		Name:      nameOr(p.Name, "Alarm"),
		Hour:      p.Hour,
		Minute:    p.Minute,
		IsEnabled: p.IsEnabled,
		CreatedAt: models.NewTimestamp(s.clk.Now()),
	}

	s.mu.Lock()
	s.alarms = append(s.alarms, a)
	s.scheduledAt[a.ID] = s.clk.Now()
	s.armLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.record(ctx, models.EventAlarmAdded, "Alarm "+a.Name+" added for "+a.Clock(), map[string]any{
		"alarm_id": a.ID, "enabled": a.IsEnabled,
	})
	s.publish()
	return a, nil
}

// Update applies a partial edit. Validation happens before anything changes.
func (s *AlarmService) Update(ctx context.Context, id string, p AlarmUpdate) (models.Alarm, bool, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Alarm{}, false, nil
	}
	a := s.alarms[i]
	if p.Name != nil {
		a.Name = nameOr(*p.Name, a.Name)
	}
	if p.Hour != nil {
		a.Hour = *p.Hour
	}
	if p.Minute != nil {
		a.Minute = *p.Minute
	}
	if p.IsEnabled != nil {
		a.IsEnabled = *p.IsEnabled
	}
	if !validClockTime(a.Hour, a.Minute) {
		s.mu.Unlock()
		return models.Alarm{}, true, ErrInvalidClockTime
	}
	prev := s.alarms[i]
	if a.Hour != prev.Hour || a.Minute != prev.Minute || (a.IsEnabled && !prev.IsEnabled) {
		s.scheduledAt[a.ID] = s.clk.Now()
	}
	s.alarms[i] = a
	s.armLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.record(ctx, models.EventAlarmUpdated, "Alarm "+a.Name+" set to "+a.Clock(), map[string]any{
		"alarm_id": a.ID, "enabled": a.IsEnabled,
	})
	s.publish()
	return a, true, nil
}

func (s *AlarmService) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	a := s.alarms[i]
	s.alarms = append(s.alarms[:i], s.alarms[i+1:]...)
	delete(s.scheduledAt, a.ID)
	s.armLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.record(ctx, models.EventAlarmRemoved, "Alarm "+a.Name+" removed", map[string]any{"alarm_id": a.ID})
	s.publish()
	return true
}

func (s *AlarmService) Toggle(ctx context.Context, id string) (models.Alarm, bool) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return models.Alarm{}, false
	}
	s.alarms[i].IsEnabled = !s.alarms[i].IsEnabled
	a := s.alarms[i]
	if a.IsEnabled {
		s.scheduledAt[a.ID] = s.clk.Now()
	}
	s.armLocked()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.record(ctx, models.EventAlarmToggled, "Alarm "+a.Name+" toggled", map[string]any{
		"alarm_id": a.ID, "enabled": a.IsEnabled,
	})
	s.publish()
	return a, true
}

func (s *AlarmService) List() []models.Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Alarm, len(s.alarms))
	copy(out, s.alarms)
	return out
}

// Next reports the currently armed firing, if any.
func (s *AlarmService) Next() (NextFiring, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next, s.armed
}

// StartPolling begins the minute-match fallback check. It is a no-op when
// the poll interval is zero or polling already runs.
func (s *AlarmService) StartPolling() {
	if s.opts.PollInterval <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poll != nil {
		return
	}
	s.poll = s.clk.Every(s.opts.PollInterval, s.pollOnce)
}

// Stop cancels the pending firing and the poll.
func (s *AlarmService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()
	if s.poll != nil {
		s.poll.Stop()
		s.poll = nil
	}
}

func (s *AlarmService) disarmLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.pendingGen++
	s.next = NextFiring{}
	s.armed = false
}

// armLocked replaces any pending callback with one for the nearest firing.
func (s *AlarmService) armLocked() {
	s.disarmLocked()
	now := s.clk.Now()
	next, ok := ComputeNextFiring(s.alarms, now)
	if !ok {
		return
	}
	gen := s.pendingGen
	s.next = next
	s.armed = true
	s.pending = s.clk.AfterFunc(next.At.Sub(now), func() { s.fire(gen) })
	s.log.Debugw("alarm armed", "alarm_id", next.AlarmID, "at", next.At)
}

// fire handles the deferred callback. Every enabled alarm sharing the armed
// instant fires, unless it already fired within the dedup window.
func (s *AlarmService) fire(gen int) {
	s.mu.Lock()
	if gen != s.pendingGen {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	at := s.next.At
	now := s.clk.Now()

	var fired []models.Alarm
	for i := range s.alarms {
		a := s.alarms[i]
		if !a.IsEnabled || !occurrenceOn(at, a).Equal(at) {
			continue
		}
		if s.firedRecentlyLocked(i, now) {
			continue
		}
		fired = append(fired, s.markFiredLocked(i, now))
	}
	s.armLocked()
	ctx := context.Background()
	if len(fired) > 0 {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	s.announce(ctx, fired, "deferred")
}

// pollOnce fires enabled alarms whose HH:MM matches now and that have not
// fired within the dedup window. It covers callbacks lost to sleep. An alarm
// scheduled inside its own minute is left for tomorrow, like the deferred path.
func (s *AlarmService) pollOnce() {
	s.mu.Lock()
	now := s.clk.Now()
	var fired []models.Alarm
	for i := range s.alarms {
		a := s.alarms[i]
		if !a.IsEnabled || a.Hour != now.Hour() || a.Minute != now.Minute() {
			continue
		}
		if !s.scheduledAt[a.ID].Before(occurrenceOn(now, a)) {
			continue
		}
		if s.firedRecentlyLocked(i, now) {
			continue
		}
		fired = append(fired, s.markFiredLocked(i, now))
	}
	if len(fired) == 0 {
		s.mu.Unlock()
		return
	}
	s.armLocked()
	ctx := context.Background()
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.announce(ctx, fired, "poll")
}

func (s *AlarmService) firedRecentlyLocked(i int, now time.Time) bool {
	last := s.alarms[i].LastFiredAt
	return last != nil && now.Sub(last.Time) < dedupWindow
}

func (s *AlarmService) markFiredLocked(i int, now time.Time) models.Alarm {
	ts := models.NewTimestamp(now)
	s.alarms[i].LastFiredAt = &ts
	if s.opts.AutoDisable {
		s.alarms[i].IsEnabled = false
	}
	return s.alarms[i]
}

func (s *AlarmService) announce(ctx context.Context, fired []models.Alarm, source string) {
	for _, a := range fired {
		s.log.Infow("alarm fired", "alarm_id", a.ID, "name", a.Name, "source", source)
		if s.notifier != nil {
			s.notifier.Notify(a.Name, "Alarm "+a.Clock())
		}
		s.record(ctx, models.EventAlarmFired, "Alarm "+a.Name+" fired", map[string]any{
			"alarm_id": a.ID, "time": a.Clock(), "source": source, "still_enabled": a.IsEnabled,
		})
	}
	if len(fired) > 0 {
		s.publish()
	}
}

func (s *AlarmService) indexLocked(id string) int {
	for i := range s.alarms {
		if s.alarms[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *AlarmService) persistLocked(ctx context.Context) {
	snapshot := make([]models.Alarm, len(s.alarms))
	copy(snapshot, s.alarms)
	if err := s.snaps.SaveAlarms(ctx, snapshot); err != nil {
		s.log.Warnw("failed to persist alarms", "error", err)
	}
}

func (s *AlarmService) record(ctx context.Context, typ, desc string, meta map[string]any) {
	recordEvent(ctx, s.events, s.clk, s.log, typ, desc, meta)
}
