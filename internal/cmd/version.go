package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cypress-io/cypress-docker-images/cdi/internal/output"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show cdi version information.

Displays:
  - cdi version, commit, and build date
  - Go version and the CUE SDK used for config validation`,
		RunE: runVersion,
	}
}

func runVersion(_ *cobra.Command, _ []string) error {
	output.Println(version.Get().String())
	return nil
}
