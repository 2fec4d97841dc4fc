package eventdispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrServiceNotFound is returned by a Locator for unknown ids
var ErrServiceNotFound = errors.New("service not found")

// Locator resolves services by container id
type Locator interface {
	Get(id string) (any, error)
}

type entry struct {
	once    sync.Once
	factory func() (any, error)
	service any
	err     error
}

// ServiceLocator is a Locator over registered instances and factories.
// Factories run once, on first lookup.
type ServiceLocator struct {
	mu       sync.RWMutex
	services map[string]*entry
}

// Ensure ServiceLocator implements Locator
var _ Locator = (*ServiceLocator)(nil)

// NewServiceLocator creates an empty locator
func NewServiceLocator() *ServiceLocator {
	return &ServiceLocator{services: make(map[string]*entry)}
}

// Set registers an instance under id
func (l *ServiceLocator) Set(id string, service any) {
	l.Provide(id, func() (any, error) { return service, nil })
}

// Provide registers a factory under id
func (l *ServiceLocator) Provide(id string, factory func() (any, error)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.services[id] = &entry{factory: factory}
}

// Has reports whether id is registered
func (l *ServiceLocator) Has(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, exists := l.services[id]
	return exists
}

// Get implements Locator
func (l *ServiceLocator) Get(id string) (any, error) {
	l.mu.RLock()
	e, exists := l.services[id]
	l.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, id)
	}

	e.once.Do(func() {
		e.service, e.err = e.factory()
	})
	if e.err != nil {
		return nil, fmt.Errorf("failed to create service %s: %w", id, e.err)
	}
	return e.service, nil
}

// Lazy builds a listener that locates the service id on each dispatch and
// hands it to call together with the event. The service is not created
// before the first dispatch.
func Lazy(locator Locator, id string, call func(service any, event any) error) Listener {
	return func(ctx context.Context, event any) error {
		service, err := locator.Get(id)
		if err != nil {
			return err
		}
		return call(service, event)
	}
}

// ErrUnexpectedType is returned by generated listeners handed a service or
// an event they cannot use
var ErrUnexpectedType = errors.New("unexpected type")

// UnexpectedService reports a located service of the wrong type
func UnexpectedService(id string, service any, want string) error {
	return fmt.Errorf("%w: service %s is %T, want %s", ErrUnexpectedType, id, service, want)
}

// UnexpectedEvent reports an event payload of the wrong type
func UnexpectedEvent(event any, want string) error {
	return fmt.Errorf("%w: event is %T, want %s", ErrUnexpectedType, event, want)
}
