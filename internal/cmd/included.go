package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cypress-io/cypress-docker-images/cdi/internal/delegate"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/generator"
	"github.com/cypress-io/cypress-docker-images/cdi/internal/output"
)

var (
	includedRootFlag          string
	includedSkipDelegatesFlag bool
	includedDryRunFlag        bool
)

// newLauncher starts delegate processes. Tests replace it.
var newLauncher = func() delegate.Launcher {
	return delegate.NewExecLauncher()
}

// NewIncludedCmd creates the included command.
func NewIncludedCmd() *cobra.Command {
	includedRootFlag, includedSkipDelegatesFlag, includedDryRunFlag = "", false, false

	c := &cobra.Command{
		Use:   "included <version> <base-image>",
		Short: "Generate a cypress/included build context",
		Long: `Generate a Docker build context for a cypress/included image.

Writes a Dockerfile, README.md and an executable build.sh into
included/<version>. When that folder already exists the files go to
included/<version>-<base-image-tag> instead.

After the files are written, the follow-up scripts that update the CI
config, regenerate the README index and prepare the commit are started
in the background.

Arguments:
  version      Cypress version, strict semver (3.8.3)
  base-image   cypress/browsers image with a tag

Examples:
  # Generate included/3.8.3
  cdi included 3.8.3 cypress/browsers:node12.6.0-chrome77

  # Preview the files without writing anything
  cdi included 3.8.3 cypress/browsers:node12.6.0-chrome77 --dry-run

  # Generate under another folder and skip the follow-up scripts
  cdi included 3.8.3 cypress/browsers:node12.6.0-chrome77 --root out --skip-delegates`,
		Args: cobra.MaximumNArgs(2),
		RunE: runIncluded,
	}

	c.Flags().StringVar(&includedRootFlag, "root", "", "Folder to generate build contexts under (env: CDI_ROOT)")
	c.Flags().BoolVar(&includedSkipDelegatesFlag, "skip-delegates", false, "Write files without starting follow-up scripts")
	c.Flags().BoolVar(&includedDryRunFlag, "dry-run", false, "Print the generated files without writing them")

	return c
}

func runIncluded(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return NewExitError(err, ExitConfigError)
	}

	// Missing positionals are reported by validation.
	var version, baseImage string
	if len(args) > 0 {
		version = args[0]
	}
	if len(args) > 1 {
		baseImage = args[1]
	}

	root := cfg.Root
	if includedRootFlag != "" {
		root = includedRootFlag
	}

	result, err := generator.New(generator.Options{
		Version:       version,
		BaseImage:     baseImage,
		Root:          root,
		Namespace:     cfg.BaseImage.Namespace,
		Image:         cfg.Image,
		Label:         cfg.Label,
		Delegates:     cfg.DelegateSpecs(),
		SkipDelegates: includedSkipDelegatesFlag,
		DryRun:        includedDryRunFlag,
		Launcher:      newLauncher(),
	}).Generate()
	if err != nil {
		return NewExitError(err, ExitCodeFromError(err))
	}

	if includedDryRunFlag {
		printDryRun(cmd, result)
		return nil
	}

	printSummary(result)
	return nil
}

// printDryRun writes every rendered artifact and delegate to the command output.
func printDryRun(cmd *cobra.Command, result *generator.Result) {
	w := cmd.OutOrStdout()
	for _, a := range result.Artifacts.All() {
		fmt.Fprintf(w, "--- %s\n", a.Name)
		fmt.Fprint(w, string(a.Content))
	}
	for _, t := range result.Tasks {
		fmt.Fprintf(w, "--- delegate %s: %s\n", t.Name, t.String())
	}
}

func printSummary(result *generator.Result) {
	entries := make([]output.FileEntry, 0, len(result.Artifacts.All()))
	for _, a := range result.Artifacts.All() {
		entries = append(entries, output.FileEntry{Name: a.Name, Description: a.Description})
	}

	output.Println(output.FormatCheckmark(
		fmt.Sprintf("Generated %s in %s", output.FormatNoun(result.Resolution.Category), result.Resolution.Dir)))
	output.Println(output.RenderFileTree(result.Resolution.Dir, entries))
	output.Println("")
	output.Println(fmt.Sprintf("Please add the newly generated folder %s to Git", result.Resolution.Dir))
	output.Println("Build the Docker container locally to make sure it is correct")

	if result.Launched > 0 {
		output.Info("follow-up scripts started", "count", result.Launched)
	}
}
