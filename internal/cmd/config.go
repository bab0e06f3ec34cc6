package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cypress-io/cypress-docker-images/cdi/internal/config"
	oerrors "github.com/cypress-io/cypress-docker-images/cdi/internal/errors"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/output"
)

var configInitForce bool

// configHeader is prepended to files written by config init.
const configHeader = "# cdi configuration\n# Generated by 'cdi config init'. Environment variables (CDI_*) override these values.\n\n"

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Manage generator configuration",
		Long: `Manage the cdi configuration file.

The config path is resolved using precedence:
  --config flag > CDI_CONFIG env > ./cdi.yaml`,
	}

	c.AddCommand(NewConfigInitCmd())
	c.AddCommand(NewConfigVetCmd())

	return c
}

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	configInitForce = false

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file with default values",
		Long: `Create a cdi configuration file with default values.

The file is written to ./cdi.yaml unless --config or CDI_CONFIG name
another location.

Examples:
  # Write ./cdi.yaml
  cdi config init

  # Overwrite an existing file
  cdi config init --force`,
		RunE: runConfigInit,
	}

	c.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite existing config file")

	return c
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := config.ResolveConfigPath(configFlag).Path

	exists, err := config.FileExists(path)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if exists && !configInitForce {
		return NewExitError(
			fmt.Errorf("config file already exists at %s (use --force to overwrite)", path),
			ExitGeneralError,
		)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append([]byte(configHeader), data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return oerrors.NewWriteError(path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config file created: %s\n", path)
	return nil
}

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the cdi configuration file.

Checks performed:
  1. Config file exists at the resolved path
  2. Config file is valid YAML
  3. Values satisfy the embedded CUE schema

Examples:
  # Validate ./cdi.yaml
  cdi config vet

  # Validate another file
  cdi config vet --config ci/cdi.yaml`,
		RunE: runConfigVet,
	}
}

func runConfigVet(cmd *cobra.Command, _ []string) error {
	path := config.ResolveConfigPath(configFlag)

	output.Debug("validating config", "path", path.Path, "source", path.Source)

	exists, err := config.FileExists(path.Path)
	if err != nil {
		return NewExitError(fmt.Errorf("checking config file %s: %w", path.Path, err), ExitConfigError)
	}
	if !exists {
		return NewExitError(
			oerrors.NewNotFoundError("configuration file not found", path.Path,
				"Run 'cdi config init' to create a default configuration"),
			ExitConfigError,
		)
	}

	if _, err := config.Load(configFlag); err != nil {
		return NewExitError(err, ExitConfigError)
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.FormatCheckmark("Config is valid: "+path.Path))
	return nil
}
