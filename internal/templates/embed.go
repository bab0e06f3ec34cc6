// Package templates renders the Dockerfile, README and build script of an
// included image build context from embedded templates.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	oerrors "github.com/cypress-io/cypress-docker-images/cdi/internal/errors"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/output"
)

//go:embed files/*.tmpl
var filesFS embed.FS

// DefaultImage is the repository locally built images are tagged under.
const DefaultImage = "cypress/included"

// Generated file names.
const (
	DockerfileName  = "Dockerfile"
	ReadmeName      = "README.md"
	BuildScriptName = "build.sh"
)

// Data is substituted literally into every template. text/template performs
// no escaping, which is what Dockerfiles, markdown and shell scripts need.
type Data struct {
	// Version is the package version installed by the Dockerfile.
	Version string

	// BaseImage is the full base image reference used in FROM.
	BaseImage string

	// Category is the leaf name of the output folder and the local image tag.
	Category string

	// Image is the repository of the locally built image.
	Image string

	// Command is the command that regenerates the files, quoted in provenance comments.
	Command string
}

// RegenerateCommand returns the command line that reproduces a build context.
func RegenerateCommand(version, baseImage string) string {
	return fmt.Sprintf("cdi included %s %s", version, baseImage)
}

// Artifact is one rendered file.
type Artifact struct {
	// Name is the file name inside the output folder.
	Name string

	// Description is shown next to the file in summaries.
	Description string

	// Content is the rendered text, ending in exactly one newline.
	Content []byte

	// Executable marks files that get execute permission for everyone.
	Executable bool
}

// Artifacts are the three files of a build context.
type Artifacts struct {
	BuildRecipe Artifact
	UsageDoc    Artifact
	BuildScript Artifact
}

// All returns the artifacts in write order.
func (a Artifacts) All() []Artifact {
	return []Artifact{a.BuildRecipe, a.UsageDoc, a.BuildScript}
}

// Renderer renders the build context templates.
type Renderer struct {
	data Data
}

// NewRenderer creates a renderer. Empty Image and Command fields are filled
// with DefaultImage and RegenerateCommand.
func NewRenderer(data Data) *Renderer {
	if data.Image == "" {
		data.Image = DefaultImage
	}
	if data.Command == "" {
		data.Command = RegenerateCommand(data.Version, data.BaseImage)
	}
	return &Renderer{data: data}
}

// Render renders all three artifacts. Rendering is deterministic: the same
// Data always yields byte-identical content.
func (r *Renderer) Render() (Artifacts, error) {
	recipe, err := r.renderFile(DockerfileName)
	if err != nil {
		return Artifacts{}, err
	}
	doc, err := r.renderFile(ReadmeName)
	if err != nil {
		return Artifacts{}, err
	}
	script, err := r.renderFile(BuildScriptName)
	if err != nil {
		return Artifacts{}, err
	}

	return Artifacts{
		BuildRecipe: Artifact{Name: DockerfileName, Description: "build recipe", Content: recipe},
		UsageDoc:    Artifact{Name: ReadmeName, Description: "usage", Content: doc},
		BuildScript: Artifact{Name: BuildScriptName, Description: "local build helper", Content: script, Executable: true},
	}, nil
}

// renderFile executes files/<name>.tmpl and normalizes surrounding whitespace.
func (r *Renderer) renderFile(name string) ([]byte, error) {
	path := "files/" + name + ".tmpl"

	content, err := fs.ReadFile(filesFS, path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", path, err)
	}

	return Normalize(buf.Bytes()), nil
}

// Normalize trims leading and trailing whitespace and ends the text with a
// single newline.
func Normalize(content []byte) []byte {
	return []byte(strings.TrimSpace(string(content)) + "\n")
}

// Persist writes the artifacts into dir, overwriting existing files. Writes
// are not transactional: on failure, files written before the failing one
// stay on disk and a rerun overwrites them. It returns the written paths.
func Persist(dir string, artifacts Artifacts) ([]string, error) {
	written := make([]string, 0, 3)

	for _, a := range artifacts.All() {
		path := filepath.Join(dir, a.Name)

		if err := os.WriteFile(path, a.Content, 0o644); err != nil {
			return written, oerrors.NewWriteError(path, err)
		}

		if a.Executable {
			if err := makeExecutable(path); err != nil {
				return written, oerrors.NewWriteError(path, err)
			}
		}

		output.Info("saved", "path", path)
		written = append(written, path)
	}

	return written, nil
}

// makeExecutable adds execute permission for user, group and others.
func makeExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.Chmod(path, info.Mode().Perm()|0o111)
}
