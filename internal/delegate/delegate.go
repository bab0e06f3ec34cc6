// Package delegate launches the follow-up generation steps that run after a
// build context is written: config generation, README changelog update and
// the commit prompt.
//
// Launching is fire-and-forget. A launched task is never waited on, its exit
// status is never read and it is not cancelled when the launcher exits.
// Callers must not expect back-pressure or failure reports from a task.
package delegate

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"text/template"

	"golang.org/x/term"

	"github.com/cypress-io/cypress-docker-images/cdi/internal/output"
)

// DefaultLabel is the fixed category label passed to delegates.
const DefaultLabel = "included"

// Spec describes a follow-up step. Args are text/template strings rendered
// with Vars.
type Spec struct {
	Name        string
	Command     string
	Args        []string
	Interactive bool
}

// Vars are the values available to Spec args.
type Vars struct {
	// Label is the fixed artifact category ("included").
	Label string

	// Category is the resolved output folder name.
	Category string

	// BaseImage is the full base image reference.
	BaseImage string

	// Version is the validated version.
	Version string
}

// Task is a fully rendered command line ready to launch.
type Task struct {
	Name        string
	Command     string
	Args        []string
	Interactive bool
}

// String returns the command line for logging.
func (t Task) String() string {
	return fmt.Sprintf("%s %v", t.Command, t.Args)
}

// DefaultSpecs returns the follow-up steps in launch order.
func DefaultSpecs() []Spec {
	return []Spec{
		{
			Name:    "config",
			Command: "node",
			Args:    []string{"scripts/generate-config.js", "{{.Label}}", "{{.Category}}"},
		},
		{
			Name:    "readme",
			Command: "node",
			Args:    []string{"scripts/generate-included-readme.js", "{{.Category}}", "{{.BaseImage}}"},
		},
		{
			Name:        "commit",
			Command:     "node",
			Args:        []string{"scripts/generate-commit.js", "{{.Label}}", "{{.Category}}"},
			Interactive: true,
		},
	}
}

// Build renders specs into tasks, keeping their order.
func Build(specs []Spec, vars Vars) ([]Task, error) {
	tasks := make([]Task, 0, len(specs))
	for _, s := range specs {
		args := make([]string, 0, len(s.Args))
		for _, a := range s.Args {
			rendered, err := renderArg(a, vars)
			if err != nil {
				return nil, fmt.Errorf("delegate %s: %w", s.Name, err)
			}
			args = append(args, rendered)
		}
		tasks = append(tasks, Task{
			Name:        s.Name,
			Command:     s.Command,
			Args:        args,
			Interactive: s.Interactive,
		})
	}
	return tasks, nil
}

func renderArg(arg string, vars Vars) (string, error) {
	tmpl, err := template.New("arg").Option("missingkey=error").Parse(arg)
	if err != nil {
		return "", fmt.Errorf("parsing argument %q: %w", arg, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("rendering argument %q: %w", arg, err)
	}
	return buf.String(), nil
}

// Launcher starts a task without waiting for it.
type Launcher interface {
	Launch(task Task) error
}

// ExecLauncher launches tasks as child processes sharing the parent's stdio.
type ExecLauncher struct {
	// Dir is the working directory of launched processes. Empty means the
	// current directory.
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecLauncher returns a launcher wired to the process stdio.
func NewExecLauncher() *ExecLauncher {
	return &ExecLauncher{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Launch starts the process and releases it. exec.Command is used rather
// than exec.CommandContext so nothing can kill the child later.
func (l *ExecLauncher) Launch(task Task) error {
	cmd := exec.Command(task.Command, task.Args...) //nolint:gosec // commands come from the generator config
	cmd.Dir = l.Dir
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

// Dispatcher launches tasks in order.
type Dispatcher struct {
	launcher   Launcher
	isTerminal func() bool
}

// NewDispatcher creates a dispatcher using launcher.
func NewDispatcher(launcher Launcher) *Dispatcher {
	return &Dispatcher{
		launcher:   launcher,
		isTerminal: stdinIsTerminal,
	}
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Dispatch launches every task in order and returns how many started. A task
// that fails to start is logged and skipped; it never stops later tasks and
// is not reported to the caller as an error.
func (d *Dispatcher) Dispatch(tasks []Task) int {
	started := 0
	for _, task := range tasks {
		if task.Interactive && !d.isTerminal() {
			output.Warn("delegate expects an interactive terminal", "name", task.Name)
		}

		output.Debug("launching delegate", "name", task.Name, "command", task.String())
		if err := d.launcher.Launch(task); err != nil {
			output.Warn("delegate failed to start", "name", task.Name, "error", err)
			continue
		}
		started++
	}
	return started
}
