package notify

import (
	"sync"
	"time"

	"timekeeper/internal/clock"
)

// TitleFlasher alternates the document title between its original value and
// an attention variant. At most one repeating handle exists at a time.
type TitleFlasher struct {
	clk      clock.Clock
	sink     TitleSink
	interval time.Duration

	mu        sync.Mutex
	original  string
	attention string
	showing   bool
	handle    clock.Timer
	gen       int
}

func NewTitleFlasher(clk clock.Clock, sink TitleSink, original string, interval time.Duration) *TitleFlasher {
	if interval <= 0 {
		interval = time.Second
	}
	return &TitleFlasher{clk: clk, sink: sink, original: original, interval: interval}
}

// Start begins flashing text. While already flashing, only the text changes;
// the running cadence is reused.
func (f *TitleFlasher) Start(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attention = text
	if f.handle != nil {
		return
	}
	f.gen++
	gen := f.gen
	f.showing = false
	f.handle = f.clk.Every(f.interval, func() { f.flip(gen) })
}

func (f *TitleFlasher) flip(gen int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen || f.handle == nil {
		return
	}
	f.showing = !f.showing
	if f.showing {
		f.sink.SetTitle(f.attention)
	} else {
		f.sink.SetTitle(f.original)
	}
}

// Focus stops flashing and restores the original title. It reports whether
// a flash was active.
func (f *TitleFlasher) Focus() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handle == nil {
		return false
	}
	f.handle.Stop()
	f.handle = nil
	f.gen++
	f.showing = false
	f.sink.SetTitle(f.original)
	return true
}

// Active reports whether the title is currently flashing.
func (f *TitleFlasher) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handle != nil
}

// Original returns the title restored on focus.
func (f *TitleFlasher) Original() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.original
}
