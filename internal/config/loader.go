package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	oerrors "github.com/cypress-io/cypress-docker-images/cdi/internal/errors"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/output"
)

// Environment variable prefix for cdi configuration.
const envPrefix = "CDI"

// Loader handles loading and merging configuration from multiple sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	// CDI_ROOT, CDI_IMAGE, CDI_LABEL, CDI_BASEIMAGE_NAMESPACE
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("root", def.Root)
	v.SetDefault("image", def.Image)
	v.SetDefault("label", def.Label)
	v.SetDefault("baseImage.namespace", def.BaseImage.Namespace)

	return &Loader{v: v}
}

// Load loads configuration from path. A missing file at the default path is
// not an error; a missing file the user asked for is. Environment variables
// take precedence over file values.
func (l *Loader) Load(path ConfigPath) (*Config, error) {
	exists, err := FileExists(path.Path)
	if err != nil {
		return nil, fmt.Errorf("checking config file: %w", err)
	}

	if exists {
		l.v.SetConfigFile(path.Path)
		l.v.SetConfigType("yaml")
		if err := l.v.ReadInConfig(); err != nil {
			return nil, oerrors.NewValidationError(
				fmt.Sprintf("reading config file: %v", err), path.Path, "", "")
		}
		output.Debug("config file loaded", "path", path.Path, "source", path.Source)
	} else if path.Explicit() {
		return nil, oerrors.NewNotFoundError("configuration file not found", path.Path,
			"Run 'cdi config init' to create a default configuration")
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg.WithDefaults(), nil
}

// Load resolves, loads and validates the configuration in one step.
func Load(flagValue string) (*Config, error) {
	path := ResolveConfigPath(flagValue)

	cfg, err := NewLoader().Load(path)
	if err != nil {
		return nil, err
	}

	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(cfg); err != nil {
		return nil, oerrors.NewValidationError(err.Error(), path.Path, firstField(err),
			"Run 'cdi config init --force' to restore the defaults")
	}

	return cfg, nil
}

// firstField returns the first failing config key of a schema error.
func firstField(err error) string {
	var errs ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return errs[0].Field
	}
	return ""
}
