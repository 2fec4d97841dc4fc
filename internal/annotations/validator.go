package annotations

import (
	"fmt"
	"sort"
)

// SchemaValidator validates annotations against their schemas
type SchemaValidator interface {
	Validate(annotation *ParsedAnnotation, schema AnnotationSchema) error
}

type validator struct{}

// NewValidator creates a new schema validator
func NewValidator() SchemaValidator {
	return &validator{}
}

// Validate checks required parameters, parameter types and custom validators.
// Every problem is reported, not only the first one.
func (v *validator) Validate(annotation *ParsedAnnotation, schema AnnotationSchema) error {
	var errs []AnnotationError

	for _, paramName := range sortedParameters(schema) {
		paramSpec := schema.Parameters[paramName]
		if paramSpec.Required && !annotation.HasParameter(paramName) {
			errs = append(errs, &ValidationError{
				Parameter: paramName,
				Expected:  fmt.Sprintf("required parameter of type %s", paramSpec.Type),
				Actual:    "missing",
				Loc:       annotation.Location,
				Hint:      fmt.Sprintf("Add -%s=<value> to the annotation", paramName),
			})
		}
	}

	for _, paramName := range sortedKeys(annotation.Parameters) {
		paramValue := annotation.Parameters[paramName]
		paramSpec, exists := schema.Parameters[paramName]
		if !exists {
			errs = append(errs, &ValidationError{
				Parameter: paramName,
				Expected:  "known parameter",
				Actual:    fmt.Sprintf("unknown parameter '%s'", paramName),
				Loc:       annotation.Location,
				Hint:      fmt.Sprintf("Remove -%s or check parameter name spelling", paramName),
			})
			continue
		}

		if !hasType(paramValue, paramSpec.Type) {
			errs = append(errs, &ValidationError{
				Parameter: paramName,
				Expected:  paramSpec.Type.String(),
				Actual:    fmt.Sprintf("%T", paramValue),
				Loc:       annotation.Location,
				Hint:      fmt.Sprintf("Provide a %s value", paramSpec.Type),
			})
			continue
		}

		if paramSpec.Validator != nil {
			if err := paramSpec.Validator(paramValue); err != nil {
				errs = append(errs, &ValidationError{
					Parameter: paramName,
					Expected:  "valid value",
					Actual:    fmt.Sprintf("%v", paramValue),
					Loc:       annotation.Location,
					Hint:      err.Error(),
				})
			}
		}
	}

	if len(errs) > 0 {
		return &MultipleAnnotationErrors{Errors: errs}
	}
	return nil
}

func hasType(value interface{}, paramType ParameterType) bool {
	switch paramType {
	case StringType:
		_, ok := value.(string)
		return ok
	case IntType:
		_, ok := value.(int)
		return ok
	default:
		return false
	}
}

func sortedParameters(schema AnnotationSchema) []string {
	names := make([]string, 0, len(schema.Parameters))
	for name := range schema.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeys(params map[string]interface{}) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
