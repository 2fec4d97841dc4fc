package wiring

// EntrySource tells which tag produced a registration entry
type EntrySource int

const (
	FromListener EntrySource = iota
	FromSubscriber
)

// String returns the string representation of the source
func (s EntrySource) String() string {
	switch s {
	case FromListener:
		return "listener"
	case FromSubscriber:
		return "subscriber"
	default:
		return "unknown"
	}
}

// RegistrationEntry binds an event to a service method at a priority
type RegistrationEntry struct {
	Helper    HelperCategory
	Event     string
	ServiceID string
	Method    string
	Priority  int
	Source    EntrySource
}

// ServiceMethod is the callable half of a registration: a lazily resolved
// service reference and the method to call on it.
type ServiceMethod struct {
	ServiceID string
	Method    string
}

// DispatcherDefinition records listener registrations on a dispatcher
// before the dispatcher exists.
type DispatcherDefinition interface {
	AddListener(event string, listener ServiceMethod, priority int)
}

// Plan is the resolved registration plan, one ordered list per helper
type Plan struct {
	helpers []HelperCategory
	entries map[HelperCategory][]RegistrationEntry
}

func newPlan() *Plan {
	return &Plan{entries: make(map[HelperCategory][]RegistrationEntry)}
}

func (p *Plan) set(helper HelperCategory, entries []RegistrationEntry) {
	if _, exists := p.entries[helper]; !exists {
		p.helpers = append(p.helpers, helper)
	}
	p.entries[helper] = entries
}

// Helpers returns the resolved helpers in resolution order. Skipped helpers
// are not listed.
func (p *Plan) Helpers() []HelperCategory {
	out := make([]HelperCategory, len(p.helpers))
	copy(out, p.helpers)
	return out
}

// For returns the entries of a helper in emission order. It is empty for
// helpers without a dispatcher.
func (p *Plan) For(helper HelperCategory) []RegistrationEntry {
	entries := p.entries[helper]
	out := make([]RegistrationEntry, len(entries))
	copy(out, entries)
	return out
}

// All returns every entry, helper by helper
func (p *Plan) All() []RegistrationEntry {
	var out []RegistrationEntry
	for _, helper := range p.helpers {
		out = append(out, p.entries[helper]...)
	}
	return out
}

// Len returns the total number of entries
func (p *Plan) Len() int {
	total := 0
	for _, entries := range p.entries {
		total += len(entries)
	}
	return total
}

// Apply replays the plan on dispatcher definitions. Helpers without a
// definition in the map are left alone.
func (p *Plan) Apply(definitions map[HelperCategory]DispatcherDefinition) {
	for _, helper := range p.helpers {
		definition, ok := definitions[helper]
		if !ok || definition == nil {
			continue
		}
		for _, entry := range p.entries[helper] {
			definition.AddListener(entry.Event, ServiceMethod{
				ServiceID: entry.ServiceID,
				Method:    entry.Method,
			}, entry.Priority)
		}
	}
}
