package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"timekeeper/internal/clock"
	"timekeeper/internal/models"
)

type timerFixture struct {
	clk    *clock.Fake
	snaps  *memSnapshots
	events *fakeEventRepo
	notif  *recordingNotifier
	svc    *TimerService
}

func newTimerFixture(t *testing.T, interval time.Duration) *timerFixture {
	t.Helper()
	f := &timerFixture{
		clk:    localAt(12, 0, 0),
		snaps:  newMemSnapshots(),
		events: &fakeEventRepo{},
		notif:  &recordingNotifier{},
	}
	f.svc = NewTimerService(f.snaps, f.events, f.notif, f.clk, interval, nil)
	return f
}

func (f *timerFixture) add(t *testing.T, name string, duration int, start bool) models.Timer {
	t.Helper()
	tm, err := f.svc.Add(context.Background(), TimerParams{Name: name, Duration: duration, Start: start})
	if err != nil {
		t.Fatalf("Add(%q): %v", name, err)
	}
	return tm
}

func TestTimer_TeaCompletesAfterFiveTicks(t *testing.T) {
	f := newTimerFixture(t, time.Second)
	tea := f.add(t, "Tea", 5, true)

	for i := 1; i <= 4; i++ {
		f.clk.Advance(time.Second)
		got, _ := f.svc.Get(tea.ID)
		if got.RemainingTime != 5-i || !got.IsRunning {
			t.Fatalf("after %d ticks: %+v", i, got)
		}
	}
	f.clk.Advance(time.Second)

	got, _ := f.svc.Get(tea.ID)
	if got.RemainingTime != 0 || got.IsRunning {
		t.Fatalf("expected completed timer, got %+v", got)
	}
	if f.notif.count() != 1 || f.notif.titles()[0] != "Tea" {
		t.Fatalf("notify calls = %v", f.notif.titles())
	}
	if f.clk.Pending() != 0 {
		t.Fatalf("tick loop should be released once nothing runs, pending=%d", f.clk.Pending())
	}

	f.clk.Advance(10 * time.Second)
	if f.notif.count() != 1 {
		t.Fatalf("completion notified again: %d", f.notif.count())
	}

	types := f.events.types()
	if types[0] != models.EventTimerAdded || types[len(types)-1] != models.EventTimerCompleted {
		t.Fatalf("event log = %v", types)
	}
}

func TestTimer_TickCompletesExactlyOnce(t *testing.T) {
	f := newTimerFixture(t, time.Second)
	tm := f.add(t, "Eggs", 3, true)
	ctx := context.Background()

	wantRemaining := []int{2, 1, 0, 0, 0}
	wantNotified := []int{0, 0, 1, 1, 1}
	for i := range wantRemaining {
		got, ok := f.svc.Tick(ctx, tm.ID)
		if !ok {
			t.Fatalf("tick %d: timer not found", i+1)
		}
		if got.RemainingTime != wantRemaining[i] {
			t.Fatalf("tick %d: remaining=%d want %d", i+1, got.RemainingTime, wantRemaining[i])
		}
		if n := f.notif.count(); n != wantNotified[i] {
			t.Fatalf("tick %d: notified %d times, want %d", i+1, n, wantNotified[i])
		}
	}
	if got, _ := f.svc.Get(tm.ID); got.Status() != models.TimerCompleted {
		t.Fatalf("status=%s", got.Status())
	}
}

func TestTimer_RemainingIsMonotonicAndNonNegative(t *testing.T) {
	f := newTimerFixture(t, time.Second)
	ctx := context.Background()
	tm := f.add(t, "Run", 7, true)

	prev := tm.RemainingTime
	steps := []func(){
		func() { f.clk.Advance(time.Second) },
		func() { f.svc.Tick(ctx, tm.ID) },
		func() { f.svc.Pause(ctx, tm.ID) },
		func() { f.clk.Advance(3 * time.Second) },
		func() { f.svc.Start(ctx, tm.ID) },
		func() { f.clk.Advance(2500 * time.Millisecond) },
		func() { f.svc.Tick(ctx, tm.ID) },
		func() { f.clk.Advance(20 * time.Second) },
		func() { f.svc.Tick(ctx, tm.ID) },
	}
	for i, step := range steps {
		step()
		got, _ := f.svc.Get(tm.ID)
		if got.RemainingTime > prev || got.RemainingTime < 0 {
			t.Fatalf("step %d: remaining went %d -> %d", i, prev, got.RemainingTime)
		}
		prev = got.RemainingTime
	}
	if prev != 0 || f.notif.count() != 1 {
		t.Fatalf("remaining=%d notified=%d", prev, f.notif.count())
	}
}

func TestTimer_NoOpsLeaveStateUntouched(t *testing.T) {
	f := newTimerFixture(t, time.Second)
	ctx := context.Background()
	tm := f.add(t, "Paused", 10, false)

	before := f.svc.List()
	saves := f.snaps.saves
	active, _ := f.svc.Active()

	if _, ok := f.svc.Pause(ctx, tm.ID); !ok {
		t.Fatalf("pause on known id should report found")
	}
	for _, op := range []func() bool{
		func() bool { _, ok := f.svc.Start(ctx, "missing"); return ok },
		func() bool { _, ok := f.svc.Pause(ctx, "missing"); return ok },
		func() bool { _, ok := f.svc.Reset(ctx, "missing"); return ok },
		func() bool { _, ok := f.svc.Tick(ctx, "missing"); return ok },
		func() bool { return f.svc.Remove(ctx, "missing") },
		func() bool { return f.svc.SetActive(ctx, "missing") },
	} {
		if op() {
			t.Fatalf("unknown id reported as found")
		}
	}

	if after := f.svc.List(); !reflect.DeepEqual(before, after) {
		t.Fatalf("state changed:\nbefore=%+v\nafter=%+v", before, after)
	}
	if a, _ := f.svc.Active(); a != active {
		t.Fatalf("active changed")
	}
	if f.snaps.saves != saves {
		t.Fatalf("no-op persisted: %d -> %d saves", saves, f.snaps.saves)
	}
	if f.clk.Pending() != 0 {
		t.Fatalf("no-op armed a loop")
	}
}

func TestTimer_ZeroDurationIsImmediatelyComplete(t *testing.T) {
	f := newTimerFixture(t, time.Second)
	tm := f.add(t, "", 0, true)

	if tm.Name != models.DefaultTimerName {
		t.Fatalf("name=%q", tm.Name)
	}
	if tm.Status() != models.TimerCompleted || tm.IsRunning {
		t.Fatalf("zero-duration timer: %+v", tm)
	}
	if _, ok := f.svc.Start(context.Background(), tm.ID); !ok {
		t.Fatalf("start should find the timer")
	}
	if got, _ := f.svc.Get(tm.ID); got.IsRunning {
		t.Fatalf("completed timer must not start")
	}
	f.clk.Advance(5 * time.Second)
	if f.notif.count() != 0 || f.clk.Pending() != 0 {
		t.Fatalf("notified=%d pending=%d", f.notif.count(), f.clk.Pending())
	}
}

func TestTimer_NegativeDurationRejected(t *testing.T) {
	f := newTimerFixture(t, time.Second)
	_, err := f.svc.Add(context.Background(), TimerParams{Name: "bad", Duration: -1})
	if !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("err=%v", err)
	}
	if len(f.svc.List()) != 0 || f.snaps.saves != 0 {
		t.Fatalf("state mutated on validation error")
	}
}

func TestTimer_SingleSharedLoop(t *testing.T) {
	f := newTimerFixture(t, time.Second)
	ctx := context.Background()
	a := f.add(t, "A", 10, true)
	b := f.add(t, "B", 10, true)

	if f.clk.Pending() != 1 {
		t.Fatalf("expected one tick loop, pending=%d", f.clk.Pending())
	}
	f.clk.Advance(2 * time.Second)
	ga, _ := f.svc.Get(a.ID)
	gb, _ := f.svc.Get(b.ID)
	if ga.RemainingTime != 8 || gb.RemainingTime != 8 {
		t.Fatalf("each running timer should lose one second per tick: %d %d", ga.RemainingTime, gb.RemainingTime)
	}

	f.svc.Pause(ctx, a.ID)
	if f.clk.Pending() != 1 {
		t.Fatalf("loop must stay while B runs")
	}
	f.svc.Remove(ctx, b.ID)
	if f.clk.Pending() != 0 {
		t.Fatalf("loop must be cancelled with the mutation, pending=%d", f.clk.Pending())
	}
	f.svc.Start(ctx, a.ID)
	if f.clk.Pending() != 1 {
		t.Fatalf("loop must be re-established on start")
	}
	f.svc.Clear(ctx)
	if f.clk.Pending() != 0 || len(f.svc.List()) != 0 {
		t.Fatalf("clear left pending=%d timers=%d", f.clk.Pending(), len(f.svc.List()))
	}
}

func TestTimer_LateStartJoinsLoopPhase(t *testing.T) {
	f := newTimerFixture(t, time.Second)
	first := f.add(t, "First", 5, true)
	f.clk.Advance(900 * time.Millisecond)
	late := f.add(t, "Late", 10, true)

	remaining := func() map[string]int {
		out := map[string]int{}
		for _, tm := range f.svc.List() {
			out[tm.ID] = tm.RemainingTime
		}
		return out
	}

	// the shared loop fires 100ms after Late started and counts it down too
	f.clk.Advance(100 * time.Millisecond)
	if got := remaining(); got[first.ID] != 4 || got[late.ID] != 9 {
		t.Fatalf("after first loop fire: %v", got)
	}
	f.clk.Advance(time.Second)
	if got := remaining(); got[first.ID] != 3 || got[late.ID] != 8 {
		t.Fatalf("after second loop fire: %v", got)
	}
	if f.clk.Pending() != 1 {
		t.Fatalf("expected one shared loop, pending=%d", f.clk.Pending())
	}
}

func TestTimer_CoarseTickCatchesUp(t *testing.T) {
	f := newTimerFixture(t, 2*time.Second)
	tm := f.add(t, "Coarse", 5, true)

	f.clk.Advance(2 * time.Second)
	if got, _ := f.svc.Get(tm.ID); got.RemainingTime != 3 {
		t.Fatalf("remaining=%d, want 3", got.RemainingTime)
	}
	f.clk.Advance(4 * time.Second)
	got, _ := f.svc.Get(tm.ID)
	if got.RemainingTime != 0 || got.IsRunning {
		t.Fatalf("expected completion, got %+v", got)
	}
	if f.notif.count() != 1 {
		t.Fatalf("notified %d times", f.notif.count())
	}
}

func TestTimer_ResetReturnsToIdle(t *testing.T) {
	f := newTimerFixture(t, time.Second)
	ctx := context.Background()
	tm := f.add(t, "R", 4, true)
	f.clk.Advance(4 * time.Second)

	got, _ := f.svc.Reset(ctx, tm.ID)
	if got.Status() != models.TimerIdle || got.RemainingTime != 4 {
		t.Fatalf("after reset: %+v", got)
	}
	f.svc.Start(ctx, tm.ID)
	f.clk.Advance(4 * time.Second)
	if f.notif.count() != 2 {
		t.Fatalf("a reset timer completes again, notified=%d", f.notif.count())
	}
}

func TestTimer_ActivePromotion(t *testing.T) {
	f := newTimerFixture(t, time.Second)
	ctx := context.Background()
	a := f.add(t, "A", 10, false)
	b := f.add(t, "B", 10, false)
	c := f.add(t, "C", 10, false)

	if act, _ := f.svc.Active(); act.ID != a.ID {
		t.Fatalf("first timer should become active")
	}
	f.svc.Remove(ctx, a.ID)
	if act, _ := f.svc.Active(); act.ID != b.ID {
		t.Fatalf("active should promote to first remaining")
	}
	if !f.svc.SetActive(ctx, c.ID) {
		t.Fatalf("SetActive failed")
	}
	f.svc.Remove(ctx, b.ID)
	if act, _ := f.svc.Active(); act.ID != c.ID {
		t.Fatalf("removing a non-active timer must keep the active one")
	}
	f.svc.Remove(ctx, c.ID)
	if _, ok := f.svc.Active(); ok {
		t.Fatalf("active slot should be empty")
	}
}

func TestTimer_AddAtTargetTime(t *testing.T) {
	f := newTimerFixture(t, time.Second)
	ctx := context.Background()

	tm, err := f.svc.AddAt(ctx, TargetTimerParams{Hour: 12, Minute: 30})
	if err != nil {
		t.Fatalf("AddAt: %v", err)
	}
	if tm.Duration != 1800 || tm.Name != "Timer for 12:30" || tm.IsRunning {
		t.Fatalf("unexpected timer %+v", tm)
	}

	tm, err = f.svc.AddAt(ctx, TargetTimerParams{Name: "Lunch", Hour: 12, Minute: 0, Start: true})
	if err != nil {
		t.Fatalf("AddAt: %v", err)
	}
	if tm.Duration != 24*3600 || tm.Name != "Lunch" || !tm.IsRunning {
		t.Fatalf("target equal to now should roll to tomorrow: %+v", tm)
	}

	if _, err := f.svc.AddAt(ctx, TargetTimerParams{Hour: 24}); !errors.Is(err, ErrInvalidClockTime) {
		t.Fatalf("err=%v", err)
	}
}

func TestTimer_RestoreComesBackPausedAndClamped(t *testing.T) {
	f := newTimerFixture(t, time.Second)
	f.snaps.timers = []models.Timer{
		{ID: "t1", Name: "Was running", Duration: 60, RemainingTime: 30, IsRunning: true},
		{ID: "t2", Name: "Broken", Duration: 10, RemainingTime: 99},
		{ID: "", Name: "No id"},
	}
	f.svc.Restore(context.Background())

	got := f.svc.List()
	if len(got) != 2 {
		t.Fatalf("restored %d timers", len(got))
	}
	if got[0].IsRunning || got[0].RemainingTime != 30 {
		t.Fatalf("t1=%+v", got[0])
	}
	if got[1].RemainingTime != 10 {
		t.Fatalf("t2 not clamped: %+v", got[1])
	}
	if act, _ := f.svc.Active(); act.ID != "t1" {
		t.Fatalf("active=%q", act.ID)
	}
	if f.clk.Pending() != 0 {
		t.Fatalf("restored timers must not tick")
	}
}

func TestTimer_RestoreFailureFallsBackToEmpty(t *testing.T) {
	f := newTimerFixture(t, time.Second)
	f.snaps.loadErr = errors.New("corrupt")
	f.svc.Restore(context.Background())
	if len(f.svc.List()) != 0 {
		t.Fatalf("expected empty collection")
	}
}

func TestTimer_PersistFailureKeepsMemoryState(t *testing.T) {
	f := newTimerFixture(t, time.Second)
	f.snaps.saveErr = errors.New("read-only")
	f.add(t, "Kept", 10, false)
	if len(f.svc.List()) != 1 {
		t.Fatalf("in-memory state must survive a failed save")
	}
}

func TestTimer_PersistsEveryMutation(t *testing.T) {
	f := newTimerFixture(t, time.Second)
	tm := f.add(t, "Saved", 3, true)
	f.clk.Advance(time.Second)

	if len(f.snaps.timers) != 1 || f.snaps.timers[0].RemainingTime != 2 {
		t.Fatalf("snapshot=%+v", f.snaps.timers)
	}
	f.svc.Remove(context.Background(), tm.ID)
	if len(f.snaps.timers) != 0 {
		t.Fatalf("removal not persisted")
	}
}

func TestTimer_SubscribeAndCancel(t *testing.T) {
	f := newTimerFixture(t, time.Second)
	n := 0
	cancel := f.svc.Subscribe(func() { n++ })

	f.add(t, "A", 3, false)
	if n != 1 {
		t.Fatalf("expected one change notification, got %d", n)
	}
	cancel()
	cancel()
	f.add(t, "B", 3, false)
	if n != 1 {
		t.Fatalf("cancelled observer still notified")
	}
}
