package config

import (
	"os"
)

// DefaultConfigFile is read from the working directory when no path is given.
const DefaultConfigFile = "cdi.yaml"

// envConfig names the environment variable holding the config path.
const envConfig = "CDI_CONFIG"

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ConfigPath is a resolved config file path.
type ConfigPath struct {
	Path   string
	Source ConfigSource
}

// Explicit reports whether the user asked for this path.
func (p ConfigPath) Explicit() bool {
	return p.Source != SourceDefault
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) CDI_CONFIG env, (3) ./cdi.yaml
func ResolveConfigPath(flagValue string) ConfigPath {
	if flagValue != "" {
		return ConfigPath{Path: flagValue, Source: SourceFlag}
	}
	if env := os.Getenv(envConfig); env != "" {
		return ConfigPath{Path: env, Source: SourceEnv}
	}
	return ConfigPath{Path: DefaultConfigFile, Source: SourceDefault}
}

// FileExists reports whether a regular file exists at path.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}
