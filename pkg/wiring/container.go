package wiring

import (
	"fmt"
	"sync"
)

// Tag is one tag occurrence attached to a service. Empty Event and Method
// mean the attribute was not declared.
type Tag struct {
	Name     string
	Event    string
	Method   string
	Priority int
}

// ServiceDescriptor references a service managed by the host container
type ServiceDescriptor struct {
	// ID is the container identifier of the service
	ID string

	// Class is the fully qualified implementation type (import/path.TypeName).
	// It may be empty when the host does not know it.
	Class string

	// Tags holds every tag occurrence in declaration order
	Tags []Tag
}

// HasTag reports whether the service carries at least one tag with the given name
func (d ServiceDescriptor) HasTag(name string) bool {
	for _, tag := range d.Tags {
		if tag.Name == name {
			return true
		}
	}
	return false
}

// TagsNamed returns the occurrences of the named tag in declaration order
func (d ServiceDescriptor) TagsNamed(name string) []Tag {
	var tags []Tag
	for _, tag := range d.Tags {
		if tag.Name == name {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Registry is the view of the host container the resolver works against
type Registry interface {
	// HasDispatcher reports whether a dispatcher is defined for the helper
	HasDispatcher(helper HelperCategory) bool

	// FindTaggedServices returns the services carrying the tag, in registration order
	FindTaggedServices(tag string) []ServiceDescriptor
}

// Container is an in-memory Registry
type Container struct {
	mu          sync.RWMutex
	order       []string
	services    map[string]ServiceDescriptor
	dispatchers map[HelperCategory]bool
}

// Ensure Container implements Registry
var _ Registry = (*Container)(nil)

// NewContainer creates an empty container
func NewContainer() *Container {
	return &Container{
		services:    make(map[string]ServiceDescriptor),
		dispatchers: make(map[HelperCategory]bool),
	}
}

// DefineDispatcher declares the dispatcher of the given helpers
func (c *Container) DefineDispatcher(helpers ...HelperCategory) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, helper := range helpers {
		c.dispatchers[helper] = true
	}
}

// Register adds a service. Ids must be unique.
func (c *Container) Register(service ServiceDescriptor) error {
	if service.ID == "" {
		return fmt.Errorf("service id cannot be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[service.ID]; exists {
		return fmt.Errorf("service %q is already registered", service.ID)
	}

	tags := make([]Tag, len(service.Tags))
	copy(tags, service.Tags)
	service.Tags = tags

	c.services[service.ID] = service
	c.order = append(c.order, service.ID)
	return nil
}

// Service returns the service registered under id
func (c *Container) Service(id string) (ServiceDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	service, exists := c.services[id]
	return service, exists
}

// Services returns every registered service in registration order
func (c *Container) Services() []ServiceDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	services := make([]ServiceDescriptor, 0, len(c.order))
	for _, id := range c.order {
		services = append(services, c.services[id])
	}
	return services
}

// HasDispatcher implements Registry
func (c *Container) HasDispatcher(helper HelperCategory) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.dispatchers[helper]
}

// FindTaggedServices implements Registry
func (c *Container) FindTaggedServices(tag string) []ServiceDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var services []ServiceDescriptor
	for _, id := range c.order {
		if service := c.services[id]; service.HasTag(tag) {
			services = append(services, service)
		}
	}
	return services
}
