package main

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cdiBinary string

func TestMain(m *testing.M) {
	// Build the binary once for all tests
	tmpDir, err := os.MkdirTemp("", "cdi-e2e-*")
	if err != nil {
		panic("failed to create temp dir: " + err.Error())
	}

	cdiBinary = filepath.Join(tmpDir, "cdi")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	cmd := exec.CommandContext(ctx, "go", "build", "-o", cdiBinary, ".")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		cancel()
		os.RemoveAll(tmpDir)
		panic("failed to build cdi binary: " + err.Error())
	}
	cancel() // Call cancel explicitly before os.Exit

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// runCDI runs the cdi binary in workDir and returns its output and exit code.
func runCDI(t *testing.T, workDir string, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, cdiBinary, args...)
	cmd.Dir = workDir

	stdoutBytes, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(stdoutBytes), string(exitErr.Stderr), exitErr.ExitCode()
	}
	require.NoError(t, err)

	return string(stdoutBytes), "", 0
}

func TestE2E_Included(t *testing.T) {
	dir := t.TempDir()

	stdout, stderr, code := runCDI(t, dir, "included", "3.8.3", "cypress/browsers:node12.6.0-chrome77", "--skip-delegates")
	require.Equal(t, 0, code, "stderr: %s", stderr)

	target := filepath.Join(dir, "included", "3.8.3")
	assert.FileExists(t, filepath.Join(target, "Dockerfile"))
	assert.FileExists(t, filepath.Join(target, "README.md"))
	assert.FileExists(t, filepath.Join(target, "build.sh"))
	assert.Contains(t, stdout, "Please add the newly generated folder")

	_, stderr, code = runCDI(t, dir, "included", "3.8.3", "cypress/browsers:node12.6.0-chrome77", "--skip-delegates")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.DirExists(t, filepath.Join(dir, "included", "3.8.3-node12.6.0-chrome77"))
}

func TestE2E_InvalidInputExitsOne(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"missing version", []string{"included"}, `expected Cypress version argument like "3.8.3"`},
		{"bad version", []string{"included", "3.8", "cypress/browsers:12"}, `but it was "3.8"`},
		{"missing base image", []string{"included", "3.8.3"}, "expected base Docker image tag"},
		{"wrong namespace", []string{"included", "3.8.3", "cypress/base:12"}, `"cypress/browsers:*"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			_, stderr, code := runCDI(t, dir, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.message)
			assert.NoDirExists(t, filepath.Join(dir, "included"))
		})
	}
}

func TestE2E_DelegateFailureDoesNotFailRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cdi.yaml"), []byte(`delegates:
  - name: missing
    command: cdi-e2e-command-that-does-not-exist
`), 0o644))

	_, stderr, code := runCDI(t, dir, "included", "3.8.3", "cypress/browsers:node12.6.0-chrome77")
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.FileExists(t, filepath.Join(dir, "included", "3.8.3", "Dockerfile"))
}

func TestE2E_InvalidConfigExitsTwo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cdi.yaml"), []byte("root: \"\"\nimage: \"Not A Repo\"\n"), 0o644))

	_, stderr, code := runCDI(t, dir, "config", "vet")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "validation failed")
}

func TestE2E_VerboseLogsExitStatus(t *testing.T) {
	dir := t.TempDir()

	_, stderr, code := runCDI(t, dir, "-v", "included", "3.8")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "command failed")
	assert.Contains(t, stderr, "General Error")
}
