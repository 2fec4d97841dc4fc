package eventdispatcher

import (
	"reflect"
	"sync/atomic"
)

// StoppableEvent is implemented by events whose propagation can be stopped
// by a listener.
type StoppableEvent interface {
	IsPropagationStopped() bool
}

// Event is the generic base event. Embed it in concrete events to make them
// stoppable.
type Event struct {
	stopped atomic.Bool
}

// StopPropagation prevents later listeners from being called
func (e *Event) StopPropagation() {
	e.stopped.Store(true)
}

// IsPropagationStopped implements StoppableEvent
func (e *Event) IsPropagationStopped() bool {
	return e.stopped.Load()
}

// EventName returns the qualified type name of event (import/path.TypeName),
// pointers stripped. It is the name under which listeners inferred from
// their parameter type are registered.
func EventName(event any) string {
	if event == nil {
		return ""
	}

	t := reflect.TypeOf(event)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
