// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cypress-io/cypress-docker-images/cdi/internal/config"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/output"
)

var (
	// Global flags
	configFlag     string
	verboseFlag    bool
	timestampsFlag bool

	// Loaded during PersistentPreRunE. A load error is kept rather than
	// returned so commands that do not need configuration still run.
	cdiConfig *config.Config
	configErr error
)

// NewRootCmd creates the root command for the cdi CLI.
func NewRootCmd() *cobra.Command {
	cdiConfig, configErr = nil, nil

	rootCmd := &cobra.Command{
		Use:   "cdi",
		Short: "Cypress Docker images generator",
		Long: `cdi generates versioned Docker build contexts for Cypress images.

It provides commands to:
  - Generate an included image folder (Dockerfile, README.md, build.sh)
  - Initialize and validate the generator configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: CDI_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewIncludedCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals loads configuration and sets up logging.
func initializeGlobals(cmd *cobra.Command) error {
	cdiConfig, configErr = config.Load(configFlag)

	// Precedence: flag (if explicitly set) > config > default (on)
	logCfg := output.LogConfig{Verbose: verboseFlag}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	} else if cdiConfig != nil && cdiConfig.Log.Timestamps != nil {
		logCfg.Timestamps = cdiConfig.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	if configErr != nil {
		output.Debug("config load error", "error", configErr)
	} else {
		output.Debug("initializing CLI",
			"config", config.ResolveConfigPath(configFlag).Path,
			"root", cdiConfig.Root,
			"namespace", cdiConfig.BaseImage.Namespace,
			"image", cdiConfig.Image,
		)
	}

	return nil
}

// GetConfig returns the loaded configuration, loading it on first use when
// the command ran without the root command.
func GetConfig() (*config.Config, error) {
	if cdiConfig == nil && configErr == nil {
		cdiConfig, configErr = config.Load(configFlag)
	}
	return cdiConfig, configErr
}
