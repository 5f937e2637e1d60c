package service

import "sync"

// observers is a small change-notification registry embedded by the stores.
type observers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func()
}

// Subscribe registers fn to run after every state change. The returned
// cancel func removes it and is safe to call more than once.
func (o *observers) Subscribe(fn func()) (cancel func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fns == nil {
		o.fns = make(map[int]func())
	}
	id := o.next
	o.next++
	o.fns[id] = fn
	return func() {
		o.mu.Lock()
		delete(o.fns, id)
		o.mu.Unlock()
	}
}

func (o *observers) publish() {
	o.mu.Lock()
	fns := make([]func(), 0, len(o.fns))
	for _, fn := range o.fns {
		fns = append(fns, fn)
	}
	o.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
