package wiring

import (
	"errors"
	"fmt"
)

const (
	// DefaultInvokeMethod is the call-operator method of a listener: the
	// method used when a tag names neither a method nor an event.
	DefaultInvokeMethod = "Handle"

	// DefaultBaseEvent is the generic event type. A listener whose event
	// parameter is declared with it cannot be bound to a specific event.
	DefaultBaseEvent = "github.com/gmapkit/gmapwire/pkg/eventdispatcher.Event"
)

// Options configures a Resolver
type Options struct {
	// Helpers lists the helpers to resolve, in order. Defaults to Helpers.
	Helpers []HelperCategory

	// InvokeMethod defaults to DefaultInvokeMethod
	InvokeMethod string

	// BaseEvent defaults to DefaultBaseEvent
	BaseEvent string

	// Aliases remaps event names, per helper
	Aliases map[HelperCategory]map[string]string

	// StopOnMissingDispatcher stops resolution at the first helper without
	// a dispatcher instead of skipping only that helper.
	StopOnMissingDispatcher bool
}

// Resolver turns listener and subscriber tags into a registration plan.
// It holds no state between calls.
type Resolver struct {
	types TypeResolver
	opts  Options
}

// NewResolver creates a resolver reading class metadata from types
func NewResolver(types TypeResolver, opts Options) *Resolver {
	if len(opts.Helpers) == 0 {
		opts.Helpers = Helpers
	}
	if opts.InvokeMethod == "" {
		opts.InvokeMethod = DefaultInvokeMethod
	}
	if opts.BaseEvent == "" {
		opts.BaseEvent = DefaultBaseEvent
	}
	return &Resolver{types: types, opts: opts}
}

// Resolve builds the registration plan of every helper
func (r *Resolver) Resolve(registry Registry) (*Plan, error) {
	plan := newPlan()

	for _, helper := range r.opts.Helpers {
		if !registry.HasDispatcher(helper) {
			if r.opts.StopOnMissingDispatcher {
				break
			}
			continue
		}

		entries, err := r.ResolveHelper(registry, helper)
		if err != nil {
			return nil, err
		}
		plan.set(helper, entries)
	}

	return plan, nil
}

// ResolveHelper resolves a single helper: listener entries first, then
// subscriber entries. A helper without a dispatcher yields no entries.
func (r *Resolver) ResolveHelper(registry Registry, helper HelperCategory) ([]RegistrationEntry, error) {
	if !registry.HasDispatcher(helper) {
		return nil, nil
	}

	entries, err := r.resolveListeners(registry, helper)
	if err != nil {
		return nil, err
	}

	subscribed, err := r.resolveSubscribers(registry, helper)
	if err != nil {
		return nil, err
	}

	return append(entries, subscribed...), nil
}

func (r *Resolver) resolveListeners(registry Registry, helper HelperCategory) ([]RegistrationEntry, error) {
	var entries []RegistrationEntry
	aliases := r.opts.Aliases[helper]

	for _, service := range registry.FindTaggedServices(helper.ListenerTag()) {
		for _, tag := range service.TagsNamed(helper.ListenerTag()) {
			event, method := tag.Event, tag.Method

			if event == "" {
				if service.HasTag(helper.SubscriberTag()) {
					continue
				}
				if method == "" {
					method = r.opts.InvokeMethod
				}

				inferred, err := r.eventFromTypeDeclaration(helper, service, method)
				if err != nil {
					return nil, err
				}
				event = inferred
			}

			if alias, ok := aliases[event]; ok {
				event = alias
			}

			if method == "" {
				method = r.conventionalMethod(service, event)
			}

			entries = append(entries, RegistrationEntry{
				Helper:    helper,
				Event:     event,
				ServiceID: service.ID,
				Method:    method,
				Priority:  tag.Priority,
				Source:    FromListener,
			})
		}
	}

	return entries, nil
}

// conventionalMethod synthesizes the handler name and falls back to the
// call-operator method when only that one exists.
func (r *Resolver) conventionalMethod(service ServiceDescriptor, event string) string {
	method := ListenerMethodName(event)
	if service.Class == "" {
		return method
	}

	class, err := r.types.Class(service.Class)
	if err != nil {
		return method
	}
	if !class.HasMethod(method) && class.HasMethod(r.opts.InvokeMethod) {
		return r.opts.InvokeMethod
	}
	return method
}

// eventFromTypeDeclaration infers the event from the type of the first
// parameter of the listener method.
func (r *Resolver) eventFromTypeDeclaration(helper HelperCategory, service ServiceDescriptor, method string) (string, error) {
	if service.Class == "" {
		return "", missingEventError(helper, service.ID, "the service has no class")
	}

	class, err := r.types.Class(service.Class)
	if err != nil {
		return "", missingEventError(helper, service.ID, fmt.Sprintf("class %q cannot be found", service.Class))
	}

	m, ok := class.Method(method)
	switch {
	case !ok:
		return "", missingEventError(helper, service.ID, fmt.Sprintf("method %q does not exist", method))
	case len(m.Params) == 0:
		return "", missingEventError(helper, service.ID, fmt.Sprintf("method %q has no parameters", method))
	}

	param := m.Params[0]
	switch {
	case param.Name == "":
		return "", missingEventError(helper, service.ID, fmt.Sprintf("the first parameter of %q has no declared type", method))
	case param.Builtin:
		return "", missingEventError(helper, service.ID, fmt.Sprintf("the first parameter of %q has builtin type %s", method, param.Name))
	case param.Name == r.opts.BaseEvent:
		return "", missingEventError(helper, service.ID, fmt.Sprintf("the first parameter of %q is the generic event type", method))
	}

	return param.Name, nil
}

func (r *Resolver) resolveSubscribers(registry Registry, helper HelperCategory) ([]RegistrationEntry, error) {
	var entries []RegistrationEntry

	for _, service := range registry.FindTaggedServices(helper.SubscriberTag()) {
		class, err := r.types.Class(service.Class)
		if err != nil {
			if !errors.Is(err, ErrClassNotFound) {
				return nil, &ConfigurationError{
					ServiceID: service.ID,
					Helper:    helper,
					Message:   fmt.Sprintf("cannot inspect class %q of service %q", service.Class, service.ID),
					Cause:     err,
				}
			}
			return nil, classNotFoundError(helper, service.ID, service.Class, err)
		}
		if class.Subscriber == nil {
			return nil, notSubscriberError(helper, service.ID)
		}

		subscriptions := NewSubscriptions(r.opts.Aliases[helper])
		if err := querySubscriber(class.Subscriber, subscriptions); err != nil {
			return nil, &ConfigurationError{
				ServiceID: service.ID,
				Helper:    helper,
				Message:   fmt.Sprintf("cannot extract the subscribed events of service %q", service.ID),
				Cause:     err,
			}
		}

		for _, sub := range subscriptions.All() {
			entries = append(entries, RegistrationEntry{
				Helper:    helper,
				Event:     sub.Event,
				ServiceID: service.ID,
				Method:    sub.Method,
				Priority:  sub.Priority,
				Source:    FromSubscriber,
			})
		}
	}

	return entries, nil
}

// ExtractionError is implemented by subscribers that can fail to answer
// the query, such as subscribers replayed from static analysis.
type ExtractionError interface {
	ExtractionErr() error
}

func querySubscriber(subscriber EventSubscriber, subscriptions *Subscriptions) error {
	subscriber.SubscribeEvents(subscriptions)
	if err := subscriptions.Err(); err != nil {
		return err
	}
	if failing, ok := subscriber.(ExtractionError); ok {
		return failing.ExtractionErr()
	}
	return nil
}
