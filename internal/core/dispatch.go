package core

import "sync"

// Dispatcher routes inbound socket events to handlers by their string
// discriminant. Handlers registered for the same kind run in registration
// order; kinds nobody subscribed to are ignored.
type Dispatcher[E any] struct {
	mu       sync.RWMutex
	handlers map[string][]func(E)
}

func NewDispatcher[E any]() *Dispatcher[E] {
	return &Dispatcher[E]{handlers: make(map[string][]func(E))}
}

func (d *Dispatcher[E]) Subscribe(kind string, fn func(E)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = append(d.handlers[kind], fn)
}

func (d *Dispatcher[E]) Dispatch(kind string, ev E) {
	d.mu.RLock()
	fns := d.handlers[kind]
	d.mu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}
}
