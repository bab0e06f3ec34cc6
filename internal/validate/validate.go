// Package validate checks the version and base image arguments before anything
// is written to disk.
package validate

import (
	"strings"

	"github.com/distribution/reference"
	"golang.org/x/mod/semver"

	oerrors "github.com/cypress-io/cypress-docker-images/cdi/internal/errors"
)

// DefaultNamespace is the repository every base image must come from.
const DefaultNamespace = "cypress/browsers"

// Inputs are the accepted, immutable generation inputs.
type Inputs struct {
	// Version is the strict semantic version, used verbatim.
	Version string

	// BaseImage is the full base image reference, e.g. "cypress/browsers:node12.6.0-chrome77".
	BaseImage string

	// Tag is the portion of BaseImage after its first ':'.
	Tag string
}

// IsStrictSemver reports whether v is exactly MAJOR.MINOR.PATCH with optional
// pre-release and build metadata. A leading "v", shorthand forms like "1.2"
// and ranges are rejected.
func IsStrictSemver(v string) bool {
	if v == "" || v[0] == 'v' {
		return false
	}
	sv := "v" + v
	if !semver.IsValid(sv) {
		return false
	}
	// Canonical expands "v1.2" to "v1.2.0" and drops build metadata.
	return semver.Canonical(sv) == strings.TrimSuffix(sv, semver.Build(sv))
}

// Validate checks both arguments against namespace. Checks run in argument
// order so the first missing or malformed argument is the one reported.
func Validate(version, baseImage, namespace string) (*Inputs, error) {
	if version == "" {
		return nil, oerrors.NewInputError(oerrors.ErrMissingVersion,
			`expected Cypress version argument like "3.8.3"`)
	}
	if !IsStrictSemver(version) {
		return nil, oerrors.NewInputError(oerrors.ErrInvalidVersion,
			`expected Cypress version argument like "3.8.3" but it was %q`, version)
	}

	if baseImage == "" {
		return nil, oerrors.NewInputError(oerrors.ErrMissingBaseImage,
			`expected base Docker image tag like "%s:node12.6.0-chrome77"`, namespace)
	}
	if !strings.HasPrefix(baseImage, namespace+":") {
		return nil, oerrors.NewInputError(oerrors.ErrInvalidBaseImageNamespace,
			`expected the base Docker image tag to be one of "%s:*" but it was %q`, namespace, baseImage)
	}

	tag, err := parseTag(baseImage)
	if err != nil {
		return nil, err
	}

	return &Inputs{
		Version:   version,
		BaseImage: baseImage,
		Tag:       tag,
	}, nil
}

// parseTag requires baseImage to be a well-formed tagged reference without a
// digest and returns its tag. For such references the tag is exactly the text
// after the first ':'.
func parseTag(baseImage string) (string, error) {
	named, err := reference.ParseNormalizedNamed(baseImage)
	if err != nil {
		return "", oerrors.NewInputError(oerrors.ErrInvalidBaseImage,
			"base Docker image %q is not a valid image reference: %v", baseImage, err)
	}
	if _, ok := named.(reference.Digested); ok {
		return "", oerrors.NewInputError(oerrors.ErrInvalidBaseImage,
			"base Docker image %q must not pin a digest", baseImage)
	}
	tagged, ok := named.(reference.Tagged)
	if !ok {
		return "", oerrors.NewInputError(oerrors.ErrInvalidBaseImage,
			"base Docker image %q has no tag", baseImage)
	}
	return tagged.Tag(), nil
}
