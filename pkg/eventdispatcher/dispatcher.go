package eventdispatcher

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// Listener handles one dispatched event
type Listener func(ctx context.Context, event any) error

type registration struct {
	listener Listener
	priority int
	order    int
	seq      uint64
}

// unordered sorts listeners added without an explicit order after the
// ordered ones of the same priority
const unordered = math.MaxInt

// Dispatcher calls the listeners of an event by priority, highest first.
// Listeners of equal priority run by ascending order, then in registration
// order.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]registration
	seq       uint64
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[string][]registration)}
}

// AddListener registers listener for the named event. It runs after the
// listeners of the same priority added with AddListenerAt.
func (d *Dispatcher) AddListener(event string, listener Listener, priority int) {
	d.AddListenerAt(event, listener, priority, unordered)
}

// AddListenerAt registers listener with an explicit tie-break order.
// Among listeners of equal priority the lowest order runs first, whatever
// the order of the AddListenerAt calls.
func (d *Dispatcher) AddListenerAt(event string, listener Listener, priority, order int) {
	if listener == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	regs := append(d.listeners[event], registration{listener: listener, priority: priority, order: order, seq: d.seq})
	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].priority != regs[j].priority {
			return regs[i].priority > regs[j].priority
		}
		if regs[i].order != regs[j].order {
			return regs[i].order < regs[j].order
		}
		return regs[i].seq < regs[j].seq
	})
	d.listeners[event] = regs
}

// Listeners returns the listeners of the named event in call order
func (d *Dispatcher) Listeners(event string) []Listener {
	d.mu.RLock()
	defer d.mu.RUnlock()

	regs := d.listeners[event]
	out := make([]Listener, len(regs))
	for i, reg := range regs {
		out[i] = reg.listener
	}
	return out
}

// HasListeners reports whether the named event has listeners
func (d *Dispatcher) HasListeners(event string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.listeners[event]) > 0
}

// RemoveListeners drops every listener of the named event
func (d *Dispatcher) RemoveListeners(event string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.listeners, event)
}

// Dispatch calls the listeners of name with event. It stops at the first
// error, when ctx is done or when a StoppableEvent has its propagation
// stopped.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, event any) error {
	stoppable, _ := event.(StoppableEvent)

	for _, listener := range d.Listeners(name) {
		if stoppable != nil && stoppable.IsPropagationStopped() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := listener(ctx, event); err != nil {
			return fmt.Errorf("listener of %q failed: %w", name, err)
		}
	}
	return nil
}

// DispatchEvent dispatches event under its EventName
func (d *Dispatcher) DispatchEvent(ctx context.Context, event any) error {
	return d.Dispatch(ctx, EventName(event), event)
}
