// Package config provides configuration loading and management.
package config

import (
	"github.com/cypress-io/cypress-docker-images/cdi/internal/delegate"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/layout"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/templates"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/validate"
)

// BaseImageConfig constrains the base image argument.
type BaseImageConfig struct {
	// Namespace is the namespace/repository every base image must use.
	// Env: CDI_BASEIMAGE_NAMESPACE, Default: cypress/browsers
	Namespace string `json:"namespace" yaml:"namespace" mapstructure:"namespace"`
}

// DelegateConfig is one follow-up step launched after generation.
type DelegateConfig struct {
	Name    string   `json:"name" yaml:"name" mapstructure:"name"`
	Command string   `json:"command" yaml:"command" mapstructure:"command"`
	Args    []string `json:"args,omitempty" yaml:"args,omitempty" mapstructure:"args"`

	// Interactive marks steps that read from the terminal.
	Interactive bool `json:"interactive,omitempty" yaml:"interactive,omitempty" mapstructure:"interactive"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `json:"timestamps,omitempty" yaml:"timestamps,omitempty" mapstructure:"timestamps"`
}

// Config represents the cdi configuration, loaded from cdi.yaml.
type Config struct {
	// Root is the folder build contexts are generated under.
	// Env: CDI_ROOT, Default: included
	Root string `json:"root" yaml:"root" mapstructure:"root"`

	// Image is the repository locally built images are tagged under.
	// Env: CDI_IMAGE, Default: cypress/included
	Image string `json:"image" yaml:"image" mapstructure:"image"`

	// Label is the category label passed to delegates.
	// Env: CDI_LABEL, Default: included
	Label string `json:"label" yaml:"label" mapstructure:"label"`

	// BaseImage constrains the base image argument.
	BaseImage BaseImageConfig `json:"baseImage" yaml:"baseImage" mapstructure:"baseImage"`

	// Delegates are launched in order after the files are written.
	Delegates []DelegateConfig `json:"delegates,omitempty" yaml:"delegates,omitempty" mapstructure:"delegates"`

	// Log contains logging-related settings.
	Log LogConfig `json:"log" yaml:"log,omitempty" mapstructure:"log"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `cdi config init` to generate the initial config file.
func DefaultConfig() *Config {
	specs := delegate.DefaultSpecs()
	delegates := make([]DelegateConfig, 0, len(specs))
	for _, s := range specs {
		delegates = append(delegates, DelegateConfig{
			Name:        s.Name,
			Command:     s.Command,
			Args:        s.Args,
			Interactive: s.Interactive,
		})
	}

	return &Config{
		Root:      layout.DefaultRoot,
		Image:     templates.DefaultImage,
		Label:     delegate.DefaultLabel,
		BaseImage: BaseImageConfig{Namespace: validate.DefaultNamespace},
		Delegates: delegates,
	}
}

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c *Config) WithDefaults() *Config {
	def := DefaultConfig()
	out := *c

	if out.Root == "" {
		out.Root = def.Root
	}
	if out.Image == "" {
		out.Image = def.Image
	}
	if out.Label == "" {
		out.Label = def.Label
	}
	if out.BaseImage.Namespace == "" {
		out.BaseImage.Namespace = def.BaseImage.Namespace
	}
	if len(out.Delegates) == 0 {
		out.Delegates = def.Delegates
	}

	return &out
}

// DelegateSpecs converts the configured delegates for the delegate package.
func (c *Config) DelegateSpecs() []delegate.Spec {
	specs := make([]delegate.Spec, 0, len(c.Delegates))
	for _, d := range c.Delegates {
		specs = append(specs, delegate.Spec{
			Name:        d.Name,
			Command:     d.Command,
			Args:        d.Args,
			Interactive: d.Interactive,
		})
	}
	return specs
}
