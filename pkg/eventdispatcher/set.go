package eventdispatcher

import (
	"sort"
	"sync"
)

// Set holds one dispatcher per helper
type Set struct {
	mu          sync.Mutex
	dispatchers map[string]*Dispatcher
}

// NewSet creates an empty set
func NewSet() *Set {
	return &Set{dispatchers: make(map[string]*Dispatcher)}
}

// Dispatcher returns the dispatcher of helper, creating it on first use
func (s *Set) Dispatcher(helper string) *Dispatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, exists := s.dispatchers[helper]
	if !exists {
		d = NewDispatcher()
		s.dispatchers[helper] = d
	}
	return d
}

// Lookup returns the dispatcher of helper without creating it
func (s *Set) Lookup(helper string) (*Dispatcher, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, exists := s.dispatchers[helper]
	return d, exists
}

// Helpers returns the names of the created dispatchers, sorted
func (s *Set) Helpers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.dispatchers))
	for name := range s.dispatchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
