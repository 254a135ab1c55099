// Package input carries global keyboard events from the window to whoever
// subscribed to them.
package input

import "sync"

// Key identifies a physical key.
type Key string

const (
	KeyBackspace Key = "BackSpace"
	KeyDelete    Key = "Delete"
	KeyShift     Key = "Shift"
)

// Phase distinguishes key presses from releases.
type Phase int

const (
	KeyDown Phase = iota
	KeyUp
)

// KeyEvent is a single keyboard event.
type KeyEvent struct {
	Key   Key
	Shift bool
}

// Source is the window-level keyboard event source. Subscribe returns a
// function that removes the handler.
type Source interface {
	Subscribe(phase Phase, h func(KeyEvent)) (unsubscribe func())
}

// Dispatcher is an in-process Source fed by the shell.
type Dispatcher struct {
	mu       sync.Mutex
	next     int
	handlers map[Phase]map[int]func(KeyEvent)
	order    map[Phase][]int
}

// NewDispatcher creates a dispatcher with no subscribers.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[Phase]map[int]func(KeyEvent)),
		order:    make(map[Phase][]int),
	}
}

func (d *Dispatcher) Subscribe(phase Phase, h func(KeyEvent)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.next
	d.next++
	if d.handlers[phase] == nil {
		d.handlers[phase] = make(map[int]func(KeyEvent))
	}
	d.handlers[phase][id] = h
	d.order[phase] = append(d.order[phase], id)

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			delete(d.handlers[phase], id)
			ids := d.order[phase]
			for i, v := range ids {
				if v == id {
					d.order[phase] = append(ids[:i:i], ids[i+1:]...)
					break
				}
			}
		})
	}
}

// Dispatch delivers ev to every handler of phase in subscription order.
func (d *Dispatcher) Dispatch(phase Phase, ev KeyEvent) {
	d.mu.Lock()
	handlers := make([]func(KeyEvent), 0, len(d.order[phase]))
	for _, id := range d.order[phase] {
		handlers = append(handlers, d.handlers[phase][id])
	}
	d.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// Count returns the number of live subscriptions across both phases.
func (d *Dispatcher) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.order[KeyDown]) + len(d.order[KeyUp])
}
