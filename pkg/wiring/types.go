package wiring

import (
	"errors"
	"fmt"
	"sync"
)

// ErrClassNotFound is returned by a TypeResolver for unknown classes
var ErrClassNotFound = errors.New("class not found")

// ParamType describes the declared type of a method parameter
type ParamType struct {
	// Name is the fully qualified type name; empty when no type is declared
	Name string

	// Builtin marks predeclared and unnamed types (int, string, []byte, ...)
	Builtin bool
}

// Method describes a method declared on a class
type Method struct {
	Name   string
	Params []ParamType
}

// Class is the static metadata of a service implementation
type Class struct {
	// Name is the fully qualified type name
	Name string

	// Methods is keyed by method name
	Methods map[string]Method

	// Subscriber answers the class-level subscribed events query. It is nil
	// when the class does not implement EventSubscriber.
	Subscriber EventSubscriber
}

// HasMethod reports whether the class declares the method
func (c *Class) HasMethod(name string) bool {
	if c == nil {
		return false
	}
	_, exists := c.Methods[name]
	return exists
}

// Method returns the named method
func (c *Class) Method(name string) (Method, bool) {
	if c == nil {
		return Method{}, false
	}
	method, exists := c.Methods[name]
	return method, exists
}

// TypeResolver gives the resolver access to class metadata. It is queried
// at configuration time only.
type TypeResolver interface {
	// Class returns the metadata of the named class, or an error wrapping
	// ErrClassNotFound when the class is unknown.
	Class(name string) (*Class, error)
}

// ClassTable is a TypeResolver over classes declared up front
type ClassTable struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// Ensure ClassTable implements TypeResolver
var _ TypeResolver = (*ClassTable)(nil)

// NewClassTable creates a table holding the given classes
func NewClassTable(classes ...*Class) *ClassTable {
	table := &ClassTable{classes: make(map[string]*Class)}
	for _, class := range classes {
		table.Add(class)
	}
	return table
}

// Add registers or replaces a class
func (t *ClassTable) Add(class *Class) {
	if class == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.classes[class.Name] = class
}

// Class implements TypeResolver
func (t *ClassTable) Class(name string) (*Class, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	class, exists := t.classes[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	return class, nil
}
