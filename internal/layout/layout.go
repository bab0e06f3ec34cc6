// Package layout decides where a generated build context is written.
package layout

import (
	"os"
	"path/filepath"

	oerrors "github.com/cypress-io/cypress-docker-images/cdi/internal/errors"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/output"
)

// DefaultRoot is the folder all generated build contexts live under.
const DefaultRoot = "included"

// ExistsFunc reports whether a directory already exists at path.
type ExistsFunc func(path string) bool

// DirExists is the ExistsFunc backed by the local filesystem.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Resolution is the outcome of choosing an output folder.
type Resolution struct {
	// Dir is the chosen folder, relative to the working directory.
	Dir string

	// Category is the leaf segment of Dir.
	Category string

	// Fallback is true when the version folder was taken and Dir is the
	// version-tag folder instead.
	Fallback bool
}

// ResolvePath picks root/version, or root/version-tag when root/version
// already exists. The fallback is taken once; a second collision is not
// retried and the fallback folder is reused.
func ResolvePath(root, version, tag string, exists ExistsFunc) Resolution {
	primary := filepath.Join(root, version)
	if !exists(primary) {
		return Resolution{Dir: primary, Category: version}
	}

	category := version + "-" + tag
	return Resolution{
		Dir:      filepath.Join(root, category),
		Category: category,
		Fallback: true,
	}
}

// Resolver resolves and creates output folders.
type Resolver struct {
	root   string
	exists ExistsFunc
}

// NewResolver creates a Resolver rooted at root. A nil exists uses DirExists.
func NewResolver(root string, exists ExistsFunc) *Resolver {
	if exists == nil {
		exists = DirExists
	}
	return &Resolver{root: root, exists: exists}
}

// Plan resolves the folder without touching the filesystem.
func (r *Resolver) Plan(version, tag string) Resolution {
	return ResolvePath(r.root, version, tag, r.exists)
}

// Create logs the choice made by Plan and creates res.Dir with any missing
// parents.
func (r *Resolver) Create(version string, res Resolution) error {
	if res.Fallback {
		output.Info("existing folder found", "path", filepath.Join(r.root, version))
		if r.exists(res.Dir) {
			output.Warn("fallback folder also exists, files will be overwritten", "path", res.Dir)
		}
	}
	output.Info("creating folder", "path", res.Dir)

	if err := os.MkdirAll(res.Dir, 0o755); err != nil {
		return oerrors.NewWriteError(res.Dir, err)
	}
	return nil
}
