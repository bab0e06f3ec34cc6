// Package errors provides sentinel errors and structured error details for the cdi CLI.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Input validation sentinels. These are checked before any filesystem write.
var (
	// ErrMissingVersion indicates no version argument was supplied.
	ErrMissingVersion = errors.New("missing version")

	// ErrInvalidVersion indicates the version is not a strict semantic version.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrMissingBaseImage indicates no base image argument was supplied.
	ErrMissingBaseImage = errors.New("missing base image")

	// ErrInvalidBaseImageNamespace indicates the base image is outside the required namespace.
	ErrInvalidBaseImageNamespace = errors.New("invalid base image namespace")

	// ErrInvalidBaseImage indicates the base image is not a well-formed tagged reference.
	ErrInvalidBaseImage = errors.New("invalid base image reference")
)

// ErrWriteFailed indicates a generated file or folder could not be written.
var ErrWriteFailed = errors.New("write failed")

// Sentinels for configuration handling.
var (
	// ErrValidation indicates a configuration validation failure.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a file or directory was not found.
	ErrNotFound = errors.New("not found")
)

// InputError is an input validation failure carrying the diagnostic shown to the user.
type InputError struct {
	// Kind is one of the input validation sentinels.
	Kind error

	// Message is the single-line diagnostic.
	Message string
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel.
func (e *InputError) Unwrap() error {
	return e.Kind
}

// NewInputError creates an InputError with a formatted diagnostic.
func NewInputError(kind error, format string, args ...any) error {
	return &InputError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsInputError reports whether err is any of the input validation failures.
func IsInputError(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr)
}

// WriteError records the path that could not be written.
type WriteError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrWriteFailed and the underlying cause.
func (e *WriteError) Unwrap() []error {
	return []error{ErrWriteFailed, e.Err}
}

// NewWriteError wraps err as a WriteError for path.
func NewWriteError(path string, err error) error {
	return &WriteError{Path: path, Err: err}
}

// DetailError captures structured error information.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file path (optional).
	Location string

	// Field is the field name for schema errors (optional).
	Field string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}
