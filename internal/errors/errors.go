package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
// Missing the requested speed-up is a reportable outcome, not a failure, and
// therefore has no dedicated exit code.
const (
	ExitSuccess        = 0   // Indicates successful execution.
	ExitErrorGeneric   = 1   // Indicates a generic error.
	ExitErrorTimeout   = 2   // Indicates the operation timed out.
	ExitErrorConfig    = 4   // Indicates a configuration or input error.
	ExitErrorExecution = 5   // Indicates a probe failed to complete.
	ExitErrorCanceled  = 130 // Indicates the operation was canceled (e.g., SIGINT).
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

// ExecutionError reports that a probe could not complete: a worker failed,
// panicked, or the pool could not be driven to its join point. Threads is
// the thread count of the failed probe.
type ExecutionError struct {
	// Threads is the worker count of the probe that failed.
	Threads int
	// Cause is the underlying failure.
	Cause error
}

// Error returns a formatted message describing the failed probe.
func (e ExecutionError) Error() string {
	return fmt.Sprintf("probe with %d thread(s) failed: %v", e.Threads, e.Cause)
}

// Unwrap returns the original wrapped error.
func (e ExecutionError) Unwrap() error { return e.Cause }

// TimeoutError represents an operation timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// TimeoutFor replaces a context deadline error with a TimeoutError naming
// the operation and its limit. Any other error is returned unchanged.
func TimeoutFor(err error, operation string, limit time.Duration) error {
	if !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return TimeoutError{Operation: operation, Limit: limit}
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the process exit code that describes it.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		configErr     ConfigError
		validationErr ValidationError
		timeoutErr    TimeoutError
		execErr       ExecutionError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeoutErr):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		return ExitErrorConfig
	case errors.As(err, &execErr):
		return ExitErrorExecution
	}
	return ExitErrorGeneric
}

// HandleError writes a human-readable description of err to out and returns
// the matching exit code. It returns ExitSuccess for a nil error.
func HandleError(err error, duration time.Duration, out io.Writer) int {
	code := ExitCodeFor(err)
	switch code {
	case ExitSuccess:
		return code
	case ExitErrorTimeout:
		var timeoutErr TimeoutError
		if errors.As(err, &timeoutErr) {
			fmt.Fprintf(out, "Status: Failure (Timeout). The %s limit of %s was reached after %s.\n",
				timeoutErr.Operation, timeoutErr.Limit, duration)
		} else {
			fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached after %s.\n", duration)
		}
	case ExitErrorCanceled:
		fmt.Fprintf(out, "Status: Canceled by user.\n")
	case ExitErrorConfig:
		fmt.Fprintf(out, "Input error: %v\n", err)
	case ExitErrorExecution:
		fmt.Fprintf(out, "Execution error: %v\n", err)
	default:
		fmt.Fprintf(out, "Status: Failure. Unexpected error: %v\n", err)
	}
	return code
}
