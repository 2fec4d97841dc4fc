package wiring

import (
	"fmt"
	"strings"
)

// HelperCategory identifies one of the map helpers. Every helper owns an
// independent event dispatcher.
type HelperCategory string

const (
	HelperAPI               HelperCategory = "api"
	HelperMap               HelperCategory = "map"
	HelperStaticMap         HelperCategory = "map.static"
	HelperPlaceAutocomplete HelperCategory = "place_autocomplete"
)

// namePrefix is shared by dispatcher definition ids and tag names
const namePrefix = "google_map.helper."

// Helpers lists every helper category in resolution order.
var Helpers = []HelperCategory{
	HelperAPI,
	HelperMap,
	HelperStaticMap,
	HelperPlaceAutocomplete,
}

// ParseHelperCategory converts a helper name into a HelperCategory
func ParseHelperCategory(name string) (HelperCategory, error) {
	trimmed := strings.TrimSpace(name)
	for _, helper := range Helpers {
		if string(helper) == trimmed {
			return helper, nil
		}
	}

	valid := make([]string, len(Helpers))
	for i, helper := range Helpers {
		valid[i] = string(helper)
	}
	return "", fmt.Errorf("unknown helper %q, expected one of: %s", name, strings.Join(valid, ", "))
}

// String returns the helper name
func (h HelperCategory) String() string {
	return string(h)
}

// DispatcherID returns the id of the helper's dispatcher definition
func (h HelperCategory) DispatcherID() string {
	return namePrefix + string(h) + ".event_dispatcher"
}

// ListenerTag returns the tag name marking listeners of this helper
func (h HelperCategory) ListenerTag() string {
	return namePrefix + string(h) + ".listener"
}

// SubscriberTag returns the tag name marking subscribers of this helper
func (h HelperCategory) SubscriberTag() string {
	return namePrefix + string(h) + ".subscriber"
}
