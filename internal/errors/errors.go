package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess      = 0   // Indicates successful execution.
	ExitErrorGeneric = 1   // Indicates a generic error.
	ExitErrorTask    = 2   // Indicates an evaluation task failed.
	ExitErrorConfig  = 4   // Indicates a configuration error.
	ExitErrorAborted = 130 // Indicates the run was aborted (e.g., SIGINT or monitor abort).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// BindingError represents a failure to resolve the varied-parameter binding
// on the selected learner: either no parameter with the configured name
// exists, or the matched parameter is not numeric.
type BindingError struct {
	// Param is the configured parameter name that failed to bind.
	Param string
	// Message explains why the binding failed.
	Message string
}

// Error returns a formatted message describing the binding failure.
func (e BindingError) Error() string {
	return fmt.Sprintf("parameter binding %q: %s", e.Param, e.Message)
}

// TaskError encapsulates an evaluation task failure while preserving the
// original cause. This allows structured inspection of what went wrong
// inside a worker unit or during subtask preparation.
type TaskError struct {
	// Task names the task that failed (e.g., "prequential[budget=0.5]").
	Task string
	// Cause is the underlying error that triggered this task error.
	Cause error
}

// Error returns the error message including the failing task's name.
func (e TaskError) Error() string {
	return fmt.Sprintf("task %s: %v", e.Task, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e TaskError) Unwrap() error { return e.Cause }

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
