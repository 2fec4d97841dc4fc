package wiring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListenerMethodName(t *testing.T) {
	tests := []struct {
		event    string
		expected string
	}{
		{"map.after_render", "onMapAfterRender"},
		{"map.static.render", "onMapStaticRender"},
		{"place_autocomplete-init", "onPlaceAutocompleteInit"},
		{"render", "onRender"},
		{"api2.loaded", "onApi2Loaded"},
		{"Already.Pascal", "onAlreadyPascal"},
		{"..double..dot", "onDoubleDot"},
		{"", "on"},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			assert.Equal(t, tt.expected, ListenerMethodName(tt.event))
		})
	}
}

func TestHelperCategory_Names(t *testing.T) {
	assert.Equal(t, "google_map.helper.map.static.event_dispatcher", HelperStaticMap.DispatcherID())
	assert.Equal(t, "google_map.helper.api.listener", HelperAPI.ListenerTag())
	assert.Equal(t, "google_map.helper.place_autocomplete.subscriber", HelperPlaceAutocomplete.SubscriberTag())
}

func TestParseHelperCategory(t *testing.T) {
	helper, err := ParseHelperCategory(" map.static ")
	assert.NoError(t, err)
	assert.Equal(t, HelperStaticMap, helper)

	_, err = ParseHelperCategory("streetview")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "place_autocomplete")
}
