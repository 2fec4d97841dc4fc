package annotations

import (
	"fmt"
	"strconv"
)

// Prefix starts every annotation comment
const Prefix = "//gmap::"

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	ListenerAnnotation AnnotationType = iota
	SubscriberAnnotation
	ServiceAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case ListenerAnnotation:
		return "listener"
	case SubscriberAnnotation:
		return "subscriber"
	case ServiceAnnotation:
		return "service"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "listener":
		return ListenerAnnotation, nil
	case "subscriber":
		return SubscriberAnnotation, nil
	case "service":
		return ServiceAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String formats the location as file:line:column
func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// ParsedAnnotation represents a fully parsed annotation with typed parameters
type ParsedAnnotation struct {
	Type       AnnotationType         // Annotation type enum
	Parameters map[string]interface{} // Typed parameters
	Location   SourceLocation         // Source location
	Raw        string                 // Original annotation text
}

// GetString returns a string parameter value with optional default
func (p *ParsedAnnotation) GetString(paramName string, defaultValue ...string) string {
	if value, exists := p.Parameters[paramName]; exists {
		if strValue, ok := value.(string); ok {
			return strValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetInt returns an integer parameter value with optional default
func (p *ParsedAnnotation) GetInt(paramName string, defaultValue ...int) int {
	if value, exists := p.Parameters[paramName]; exists {
		if intValue, ok := value.(int); ok {
			return intValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return 0
}

// HasParameter checks if a parameter exists
func (p *ParsedAnnotation) HasParameter(paramName string) bool {
	_, exists := p.Parameters[paramName]
	return exists
}

// ParameterType represents the type of a parameter
type ParameterType int

const (
	StringType ParameterType = iota
	IntType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case IntType:
		return "int"
	default:
		return "unknown"
	}
}

// ParameterSpec defines the specification for an annotation parameter
type ParameterSpec struct {
	Type        ParameterType           // Parameter type
	Required    bool                    // Whether parameter is required
	Description string                  // Parameter description
	Validator   func(interface{}) error // Custom validator function
}

// AnnotationSchema defines the schema for an annotation type
type AnnotationSchema struct {
	Type        AnnotationType           // Annotation type enum
	Description string                   // Human-readable description
	Repeatable  bool                     // Whether a type may carry it several times
	Parameters  map[string]ParameterSpec // Parameter specifications
	Examples    []string                 // Usage examples
}

// convertValue converts a raw parameter value to the parameter type
func convertValue(raw rawValue, paramType ParameterType) (interface{}, error) {
	switch paramType {
	case StringType:
		return raw.text, nil
	case IntType:
		if raw.kind != numberValue {
			return nil, fmt.Errorf("expected an integer, got %q", raw.text)
		}
		n, err := strconv.Atoi(raw.text)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", raw.text)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unsupported parameter type %d", paramType)
	}
}
