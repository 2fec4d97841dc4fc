package wiring

import (
	"errors"
	"fmt"
)

// EventSubscriber is implemented by classes that describe their own event
// to handler mapping. SubscribeEvents is a class-level query: it must only
// record into the given context and never depend on receiver state.
type EventSubscriber interface {
	SubscribeEvents(s *Subscriptions)
}

// EventSubscriberInterface is the qualified name of EventSubscriber
const EventSubscriberInterface = "github.com/gmapkit/gmapwire/pkg/wiring.EventSubscriber"

// Handler is one (method, priority) pair of a subscription
type Handler struct {
	Method   string
	Priority int
}

// Subscription is a recorded event to handler binding
type Subscription struct {
	Event    string
	Method   string
	Priority int
}

// Subscriptions records the registrations of one subscriber query. A value
// is created per query, so extraction never shares state between queries.
type Subscriptions struct {
	aliases       map[string]string
	subscriptions []Subscription
	errs          []error
}

// NewSubscriptions creates an extraction context. Event names recorded
// through it are remapped with aliases.
func NewSubscriptions(aliases map[string]string) *Subscriptions {
	return &Subscriptions{aliases: aliases}
}

// On binds event to method. An optional priority may follow; it defaults
// to 0. More than one priority is recorded as an error and the binding is
// dropped.
func (s *Subscriptions) On(event, method string, priority ...int) {
	if len(priority) > 1 {
		s.errs = append(s.errs, fmt.Errorf("On(%q, %q) takes at most one priority, got %d", event, method, len(priority)))
		return
	}

	handler := Handler{Method: method}
	if len(priority) == 1 {
		handler.Priority = priority[0]
	}
	s.OnEach(event, handler)
}

// OnEach binds several handlers to event in the given order
func (s *Subscriptions) OnEach(event string, handlers ...Handler) {
	if alias, ok := s.aliases[event]; ok {
		event = alias
	}

	for _, handler := range handlers {
		s.subscriptions = append(s.subscriptions, Subscription{
			Event:    event,
			Method:   handler.Method,
			Priority: handler.Priority,
		})
	}
}

// All returns the recorded subscriptions in declaration order
func (s *Subscriptions) All() []Subscription {
	out := make([]Subscription, len(s.subscriptions))
	copy(out, s.subscriptions)
	return out
}

// Err returns the misuse recorded during the query, if any
func (s *Subscriptions) Err() error {
	return errors.Join(s.errs...)
}

// SubscriberFunc adapts a function to EventSubscriber
type SubscriberFunc func(s *Subscriptions)

// SubscribeEvents implements EventSubscriber
func (f SubscriberFunc) SubscribeEvents(s *Subscriptions) {
	f(s)
}
