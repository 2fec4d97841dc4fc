package errors

import (
	stderrors "errors"
	"fmt"
)

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target
func As(err error, target any) bool { return stderrors.As(err, target) }

// WrapWithOperation wraps an error with an operation context
func WrapWithOperation(operation, item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s %s", operation, item)
	return Wrap(UnknownErrorCode, message, cause)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configFile, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configFile)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_file", configFile).
		WithContext("operation", operation)
}

// WrapLoadError wraps package loading errors
func WrapLoadError(patterns []string, cause error) *BaseError {
	return Wrap(LoadErrorCode, "failed to load packages", cause).
		WithContext("patterns", patterns).
		WithSuggestions(
			"Check that the packages compile with 'go build'",
			"Run the generator from inside the module",
		)
}

// WrapResolutionError wraps listener and subscriber resolution errors
func WrapResolutionError(cause error) *BaseError {
	return Wrap(ResolutionErrorCode, "failed to resolve helper listeners", cause)
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to generate %s", item)
	return Wrap(GenerationErrorCode, message, cause).
		WithContext("target", item)
}

// ConfigurationError creates a configuration error
func ConfigurationError(configFile, message string) *BaseError {
	fullMessage := fmt.Sprintf("configuration error in '%s': %s", configFile, message)
	return New(ConfigurationErrorCode, fullMessage).
		WithContext("config_file", configFile)
}

// AddToMultiple adds an error to a MultipleErrors, creating it if nil
func AddToMultiple(multiple **MultipleErrors, err WireError) {
	if *multiple == nil {
		*multiple = NewMultipleErrors()
	}
	(*multiple).Add(err)
}
