package annotations

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/gmapkit/gmapwire/pkg/wiring"
)

// ListenerAnnotationSchema defines the schema for //gmap::listener annotations
var ListenerAnnotationSchema = AnnotationSchema{
	Type:        ListenerAnnotation,
	Description: "Registers the type as a listener of a helper event dispatcher",
	Repeatable:  true,
	Parameters: map[string]ParameterSpec{
		"Helper": HelperParameterSpec(),
		"Event": {
			Type:        StringType,
			Description: "Event name; inferred from the handler parameter type when omitted",
			Validator:   ValidateNotEmpty,
		},
		"Method": {
			Type:        StringType,
			Description: "Handler method; derived from the event name when omitted",
			Validator:   ValidateMethodName,
		},
		"Priority": {
			Type:        IntType,
			Description: "Listener priority, higher runs first (default 0)",
		},
	},
	Examples: []string{
		"//gmap::listener -Helper=map",
		"//gmap::listener -Helper=map -Event=map.after_render",
		"//gmap::listener -Helper=api -Event=api.load -Method=onLoad -Priority=10",
	},
}

// SubscriberAnnotationSchema defines the schema for //gmap::subscriber annotations
var SubscriberAnnotationSchema = AnnotationSchema{
	Type:        SubscriberAnnotation,
	Description: "Registers an event subscriber on a helper event dispatcher",
	Repeatable:  true,
	Parameters: map[string]ParameterSpec{
		"Helper": HelperParameterSpec(),
	},
	Examples: []string{
		"//gmap::subscriber -Helper=map.static",
	},
}

// ServiceAnnotationSchema defines the schema for //gmap::service annotations
var ServiceAnnotationSchema = AnnotationSchema{
	Type:        ServiceAnnotation,
	Description: "Overrides the container id of the service",
	Parameters: map[string]ParameterSpec{
		"Id": {
			Type:        StringType,
			Required:    true,
			Description: "Container id used to locate the service at dispatch time",
			Validator:   ValidateNotEmpty,
		},
	},
	Examples: []string{
		`//gmap::service -Id=app.map_listener`,
		`//gmap::service -Id="app.static map"`,
	},
}

// HelperParameterSpec is the required helper category parameter
func HelperParameterSpec() ParameterSpec {
	return ParameterSpec{
		Type:        StringType,
		Required:    true,
		Description: "Helper category: api, map, map.static or place_autocomplete",
		Validator:   ValidateHelper,
	}
}

// ValidateHelper accepts the known helper categories
func ValidateHelper(v interface{}) error {
	_, err := wiring.ParseHelperCategory(v.(string))
	return err
}

// ValidateNotEmpty rejects blank strings
func ValidateNotEmpty(v interface{}) error {
	if strings.TrimSpace(v.(string)) == "" {
		return fmt.Errorf("value cannot be empty")
	}
	return nil
}

// ValidateMethodName accepts Go identifiers
func ValidateMethodName(v interface{}) error {
	name := v.(string)
	if !token.IsIdentifier(name) {
		return fmt.Errorf("must be a Go identifier, got '%s'", name)
	}
	return nil
}

// RegisterBuiltinSchemas registers all builtin annotation schemas
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	for _, schema := range GetBuiltinSchemas() {
		if err := registry.Register(schema.Type, schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Type, err)
		}
	}
	return nil
}

// GetBuiltinSchemas returns all builtin annotation schemas
func GetBuiltinSchemas() []AnnotationSchema {
	return []AnnotationSchema{
		ListenerAnnotationSchema,
		SubscriberAnnotationSchema,
		ServiceAnnotationSchema,
	}
}
