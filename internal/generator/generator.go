// Package generator creates an included image build context: it validates
// the inputs, picks the output folder, writes the Dockerfile, README and
// build script, then launches the follow-up steps.
package generator

import (
	"fmt"

	"github.com/cypress-io/cypress-docker-images/cdi/internal/delegate"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/layout"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/output"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/templates"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/validate"
)

// Options configures a generation run.
type Options struct {
	// Version and BaseImage are the raw positional arguments.
	Version   string
	BaseImage string

	// Root is the folder build contexts are created under.
	Root string

	// Namespace is the required base image namespace/repository.
	Namespace string

	// Image is the repository of the locally built image.
	Image string

	// Label is passed to delegates as the artifact category.
	Label string

	// Delegates are launched in order after the files are written.
	Delegates []delegate.Spec

	// SkipDelegates writes the files without launching delegates.
	SkipDelegates bool

	// DryRun renders without creating folders, writing files or launching delegates.
	DryRun bool

	// Exists overrides the folder existence check. Nil uses the filesystem.
	Exists layout.ExistsFunc

	// Launcher overrides how delegates are started. Nil starts processes.
	Launcher delegate.Launcher
}

// Result describes a completed run.
type Result struct {
	Inputs     *validate.Inputs
	Resolution layout.Resolution
	Artifacts  templates.Artifacts

	// Files are the written paths, empty for a dry run.
	Files []string

	// Tasks are the delegate command lines, launched unless skipped.
	Tasks []delegate.Task

	// Launched is how many delegates started.
	Launched int
}

// Generator runs the generation pipeline.
type Generator struct {
	opts Options
}

// New creates a generator. Empty options fall back to the package defaults.
func New(opts Options) *Generator {
	if opts.Root == "" {
		opts.Root = layout.DefaultRoot
	}
	if opts.Namespace == "" {
		opts.Namespace = validate.DefaultNamespace
	}
	if opts.Image == "" {
		opts.Image = templates.DefaultImage
	}
	if opts.Label == "" {
		opts.Label = delegate.DefaultLabel
	}
	if opts.Delegates == nil {
		opts.Delegates = delegate.DefaultSpecs()
	}
	if opts.Launcher == nil {
		opts.Launcher = delegate.NewExecLauncher()
	}
	return &Generator{opts: opts}
}

// Generate runs validate, resolve, render, persist and delegate in that
// order. Validation, rendering and delegate argument rendering complete
// before anything touches the filesystem.
func (g *Generator) Generate() (*Result, error) {
	inputs, err := validate.Validate(g.opts.Version, g.opts.BaseImage, g.opts.Namespace)
	if err != nil {
		return nil, err
	}

	output.Debug("generating build context",
		"version", inputs.Version,
		"baseImage", inputs.BaseImage,
		"root", g.opts.Root,
		"dryRun", g.opts.DryRun)

	// Everything that can fail without touching the disk runs before the
	// output folder is created.
	resolver := layout.NewResolver(g.opts.Root, g.opts.Exists)
	res := resolver.Plan(inputs.Version, inputs.Tag)

	artifacts, err := templates.NewRenderer(templates.Data{
		Version:   inputs.Version,
		BaseImage: inputs.BaseImage,
		Category:  res.Category,
		Image:     g.opts.Image,
	}).Render()
	if err != nil {
		return nil, fmt.Errorf("rendering templates: %w", err)
	}

	tasks, err := delegate.Build(g.opts.Delegates, delegate.Vars{
		Label:     g.opts.Label,
		Category:  res.Category,
		BaseImage: inputs.BaseImage,
		Version:   inputs.Version,
	})
	if err != nil {
		return nil, err
	}

	if !g.opts.DryRun {
		if err := resolver.Create(inputs.Version, res); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Inputs:     inputs,
		Resolution: res,
		Artifacts:  artifacts,
		Tasks:      tasks,
	}

	if g.opts.DryRun {
		return result, nil
	}

	files, err := templates.Persist(res.Dir, artifacts)
	result.Files = files
	if err != nil {
		return result, err
	}

	if g.opts.SkipDelegates {
		output.Debug("skipping delegates", "count", len(tasks))
		return result, nil
	}

	// Delegates are not awaited; their failures never reach the caller.
	result.Launched = delegate.NewDispatcher(g.opts.Launcher).Dispatch(tasks)

	return result, nil
}
