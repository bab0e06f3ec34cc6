package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	oerrors "github.com/cypress-io/cypress-docker-images/cdi/internal/errors"
)

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"explicit exit error", NewExitError(errors.New("boom"), ExitConfigError), ExitConfigError},
		{"missing version", oerrors.NewInputError(oerrors.ErrMissingVersion, "missing"), ExitGeneralError},
		{"invalid namespace", oerrors.NewInputError(oerrors.ErrInvalidBaseImageNamespace, "bad"), ExitGeneralError},
		{"write failure", oerrors.NewWriteError("included/3.8.3/Dockerfile", errors.New("disk full")), ExitGeneralError},
		{"validation", oerrors.NewValidationError("bad root", "cdi.yaml", "root", ""), ExitConfigError},
		{"not found", oerrors.NewNotFoundError("missing", "cdi.yaml", ""), ExitConfigError},
		{"wrapped not found", fmt.Errorf("loading: %w", oerrors.ErrNotFound), ExitConfigError},
		{"unknown", errors.New("something else"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFromError(tt.err))
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	inner := oerrors.NewInputError(oerrors.ErrInvalidVersion, "bad version")
	err := NewExitError(inner, ExitGeneralError)

	assert.Equal(t, "bad version", err.Error())
	assert.True(t, errors.Is(err, oerrors.ErrInvalidVersion))
}

func TestExitCodeName(t *testing.T) {
	assert.Equal(t, "Success", ExitCodeName(ExitSuccess))
	assert.Equal(t, "General Error", ExitCodeName(ExitGeneralError))
	assert.Equal(t, "Config Error", ExitCodeName(ExitConfigError))
	assert.Equal(t, "Unknown", ExitCodeName(42))
}
