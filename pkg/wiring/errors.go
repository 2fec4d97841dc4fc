package wiring

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches every ConfigurationError with errors.Is
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports metadata the resolver could not determine.
// It is fatal: resolution stops at the first one.
type ConfigurationError struct {
	ServiceID string         // offending service
	Helper    HelperCategory // helper being resolved
	Message   string         // human readable requirement
	Cause     error          // underlying error, if any
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrConfiguration) succeed
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func missingEventError(helper HelperCategory, serviceID, reason string) *ConfigurationError {
	return &ConfigurationError{
		ServiceID: serviceID,
		Helper:    helper,
		Message: fmt.Sprintf("Service %q must define the \"event\" attribute on %q tags (%s).",
			serviceID, helper.ListenerTag(), reason),
	}
}

func classNotFoundError(helper HelperCategory, serviceID, class string, cause error) *ConfigurationError {
	return &ConfigurationError{
		ServiceID: serviceID,
		Helper:    helper,
		Message:   fmt.Sprintf("Class %q used for service %q cannot be found.", class, serviceID),
		Cause:     cause,
	}
}

func notSubscriberError(helper HelperCategory, serviceID string) *ConfigurationError {
	return &ConfigurationError{
		ServiceID: serviceID,
		Helper:    helper,
		Message:   fmt.Sprintf("Service %q must implement interface %q.", serviceID, EventSubscriberInterface),
	}
}
