package hub

import (
	"context"
	"errors"
	"testing"
	"time"

	"timekeeper/internal/clock"
	"timekeeper/internal/models"
	"timekeeper/internal/notify"
)

type memPerms struct {
	value string
	sets  []string
}

func (m *memPerms) Permission() string { return m.value }

func (m *memPerms) SetNotificationPermission(ctx context.Context, p string) error {
	if p != models.PermissionGranted && p != models.PermissionDenied && p != models.PermissionDefault {
		return errors.New("invalid permission")
	}
	m.sets = append(m.sets, p)
	m.value = p
	return nil
}

func drain(c *Client) []Envelope {
	var out []Envelope
	for {
		select {
		case env, ok := <-c.Messages():
			if !ok {
				return out
			}
			out = append(out, env)
		default:
			return out
		}
	}
}

func types(envs []Envelope) []string {
	out := make([]string, len(envs))
	for i, e := range envs {
		out[i] = e.Type
	}
	return out
}

func TestHub_PermissionRequestedOncePerProcess(t *testing.T) {
	perms := &memPerms{value: models.PermissionDefault}
	h := New(Options{Permissions: perms})

	first := h.Register()
	second := h.Register()

	if got := types(drain(first)); len(got) != 1 || got[0] != TypePermissionRequest {
		t.Fatalf("first client got %v", got)
	}
	if got := drain(second); len(got) != 0 {
		t.Fatalf("second client must not be asked again, got %v", types(got))
	}
}

func TestHub_NoPermissionRequestWhenDecided(t *testing.T) {
	for _, p := range []string{models.PermissionGranted, models.PermissionDenied} {
		h := New(Options{Permissions: &memPerms{value: p}})
		if got := drain(h.Register()); len(got) != 0 {
			t.Fatalf("%s: got %v", p, types(got))
		}
	}
}

func TestHub_LateJoinerReceivesTitle(t *testing.T) {
	h := New(Options{Title: "The Clock"})
	h.SetTitle("⏰ Tea")
	c := h.Register()

	got := drain(c)
	if len(got) != 1 || got[0].Type != TypeTitle || got[0].Data.(Title).Title != "⏰ Tea" {
		t.Fatalf("got %+v", got)
	}
}

func TestHub_VisibilityTracksClients(t *testing.T) {
	h := New(Options{})
	if !h.Hidden() {
		t.Fatalf("no clients means hidden")
	}

	focused := 0
	h.OnFocus(func() { focused++ })
	ctx := context.Background()

	a := h.Register()
	b := h.Register()
	if h.Hidden() || focused != 2 {
		t.Fatalf("fresh clients are visible and focused, hidden=%v focused=%d", h.Hidden(), focused)
	}

	if err := h.Handle(ctx, a, []byte(`{"type":"blur"}`)); err != nil {
		t.Fatalf("blur: %v", err)
	}
	if err := h.Handle(ctx, b, []byte(`{"type":"visibility","hidden":true}`)); err != nil {
		t.Fatalf("visibility: %v", err)
	}
	if !h.Hidden() {
		t.Fatalf("all clients blurred should be hidden")
	}

	if err := h.Handle(ctx, a, []byte(`{"type":"focus"}`)); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if h.Hidden() || focused != 3 {
		t.Fatalf("hidden=%v focused=%d", h.Hidden(), focused)
	}

	h.Unregister(a)
	h.Unregister(a)
	if !h.Hidden() {
		t.Fatalf("remaining client is hidden")
	}
}

func TestHub_HandleErrors(t *testing.T) {
	h := New(Options{Permissions: &memPerms{value: models.PermissionDefault}})
	c := h.Register()
	ctx := context.Background()

	if err := h.Handle(ctx, c, []byte(`{`)); err == nil {
		t.Fatalf("expected decode error")
	}
	if err := h.Handle(ctx, c, []byte(`{"type":"dance"}`)); !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("err=%v", err)
	}
	if err := h.Handle(ctx, c, []byte(`{"type":"visibility"}`)); err == nil {
		t.Fatalf("expected missing flag error")
	}
	if err := h.Handle(ctx, c, []byte(`{"type":"permission","value":"maybe"}`)); err == nil {
		t.Fatalf("expected invalid permission error")
	}
}

func TestHub_PermissionMessageUpdatesStore(t *testing.T) {
	perms := &memPerms{value: models.PermissionDefault}
	h := New(Options{Permissions: perms})
	c := h.Register()

	if err := h.Handle(context.Background(), c, []byte(`{"type":"permission","value":"granted"}`)); err != nil {
		t.Fatalf("permission: %v", err)
	}
	if perms.value != models.PermissionGranted {
		t.Fatalf("value=%q", perms.value)
	}
}

func TestHub_ShowAndBroadcast(t *testing.T) {
	h := New(Options{})
	if err := h.Show("Tea", "Timer complete", "/icon.svg"); err != nil {
		t.Fatalf("show without clients: %v", err)
	}

	c := h.Register()
	if err := h.Show("Tea", "Timer complete", "/icon.svg"); err != nil {
		t.Fatalf("show: %v", err)
	}
	got := drain(c)
	if len(got) != 1 || got[0].Type != TypeNotification {
		t.Fatalf("got %v", types(got))
	}
	n := got[0].Data.(Notification)
	if n.Title != "Tea" || n.Body != "Timer complete" || n.Icon != "/icon.svg" {
		t.Fatalf("notification=%+v", n)
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	h := New(Options{})
	slow := h.Register()
	for i := 0; i < sendBuffer+1; i++ {
		h.Broadcast(Envelope{Type: TypeState})
	}
	if h.Clients() != 0 {
		t.Fatalf("slow client should be dropped")
	}
	n := 0
	for range slow.Messages() {
		n++
	}
	if n != sendBuffer {
		t.Fatalf("drained %d queued envelopes", n)
	}
	h.Unregister(slow)
}

func TestHub_VisibleJoinEndsTitleFlash(t *testing.T) {
	h := New(Options{Title: "Timekeeper"})
	clk := clock.NewFake(time.Unix(0, 0))
	flasher := notify.NewTitleFlasher(clk, h, "Timekeeper", time.Second)
	h.OnFocus(func() { flasher.Focus() })

	away := h.Register()
	if err := h.Handle(context.Background(), away, []byte(`{"type":"blur"}`)); err != nil {
		t.Fatalf("blur: %v", err)
	}
	flasher.Start("⏰ Wake")
	clk.Advance(time.Second)
	drain(away)

	joined := h.Register()
	if flasher.Active() {
		t.Fatalf("a visible client joining should stop the flash")
	}
	envs := drain(joined)
	last := envs[len(envs)-1]
	if last.Type != TypeTitle || last.Data.(Title).Title != "Timekeeper" {
		t.Fatalf("joined client should end on the original title, got %+v", envs)
	}
	if clk.Pending() != 0 {
		t.Fatalf("flash callback still pending")
	}
}
