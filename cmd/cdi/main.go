// Package main is the entry point for the cdi CLI.
package main

import (
	"fmt"
	"os"

	"github.com/cypress-io/cypress-docker-images/cdi/internal/cmd"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/output"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		code := cmd.ExitCodeFromError(err)
		output.Debug("command failed", "code", code, "status", cmd.ExitCodeName(code))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(code)
	}
}
