package cmd

import (
	"errors"

	oerrors "github.com/cypress-io/cypress-docker-images/cdi/internal/errors"
)

// Exit codes.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError covers invalid arguments and write failures.
	ExitGeneralError = 1

	// ExitConfigError indicates the configuration could not be loaded or is invalid.
	ExitConfigError = 2
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitConfigError:
		return "Config Error"
	default:
		return "Unknown"
	}
}

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case oerrors.IsInputError(err), errors.Is(err, oerrors.ErrWriteFailed):
		return ExitGeneralError
	case errors.Is(err, oerrors.ErrValidation), errors.Is(err, oerrors.ErrNotFound):
		return ExitConfigError
	default:
		return ExitGeneralError
	}
}
