package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types for the nbtest CLI
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrTimeout indicates a notebook exceeded its execution timeout
	ErrTimeout = errors.New("execution timed out")

	// ErrCancelled indicates an operation was cancelled
	ErrCancelled = errors.New("operation cancelled")

	// ErrCellFailed indicates a notebook cell raised during execution
	ErrCellFailed = errors.New("cell execution failed")

	// ErrKernelStartup indicates the kernel process could not be started
	ErrKernelStartup = errors.New("kernel startup failed")

	// ErrMalformed indicates a file is not a valid notebook document
	ErrMalformed = errors.New("malformed notebook")

	// ErrShutdown indicates the system is shutting down
	ErrShutdown = errors.New("system shutting down")
)

// NotebookError wraps an error with the path of the notebook it concerns
type NotebookError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *NotebookError) Error() string {
	return fmt.Sprintf("notebook %q: %v", e.Path, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *NotebookError) Unwrap() error {
	return e.Err
}

// WrapNotebookError wraps an error with notebook path context
func WrapNotebookError(path string, err error) error {
	if err == nil {
		return nil
	}
	return &NotebookError{
		Path: path,
		Err:  err,
	}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 { // Limit to first 10 errors in the message
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else if i == 10 {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// NewMultiError creates a new MultiError from a slice of errors
// It filters out nil errors
func NewMultiError(errors []error) *MultiError {
	m := &MultiError{
		Errors: make([]error, 0, len(errors)),
	}
	for _, err := range errors {
		if err != nil {
			m.Errors = append(m.Errors, err)
		}
	}
	return m
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCancelled checks if an error is a cancellation error
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsCellFailure checks if an error is a cell execution failure
func IsCellFailure(err error) bool {
	return errors.Is(err, ErrCellFailed)
}

// IsKernelStartup checks if an error is a kernel startup failure
func IsKernelStartup(err error) bool {
	return errors.Is(err, ErrKernelStartup)
}

// IsMalformed checks if an error indicates an unparseable notebook document
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	// Check for known error types
	switch {
	case IsTimeout(err):
		return "Notebook execution timed out. Increase the limit with the --timeout flag."
	case IsCancelled(err):
		return "Operation was cancelled."
	case IsCellFailure(err):
		return "A notebook cell raised an error during execution. See the failure message for details."
	case IsKernelStartup(err):
		return "Failed to start the kernel. Check that jupyter is installed and the kernel name is correct."
	case IsMalformed(err):
		return "File is not a valid notebook document. Check that it is well-formed nbformat v4 JSON."
	case errors.Is(err, ErrInvalidConfig):
		return "Invalid configuration. Please check your config file and command-line flags."
	default:
		// Return the original error message for unknown errors
		return err.Error()
	}
}

// CombineErrors combines multiple errors into a single error
// Returns nil if all errors are nil
func CombineErrors(errors ...error) error {
	m := NewMultiError(errors)
	return m.ErrorOrNil()
}

// WrapErrorf wraps an error with a formatted message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
