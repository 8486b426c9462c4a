package cli

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stencil-tools/stencil/internal/migrator"
	"github.com/stencil-tools/stencil/internal/scanner"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [resources...]",
	Short: "Convert legacy package.json metadata to resource.hcl",
	Long: `Convert legacy package.json metadata to resource.hcl.

Resources that predate resource.hcl carry their schema under the "stencil"
key of package.json. Migration generates an equivalent resource.hcl and
removes the legacy section from the manifest; every other manifest key is
preserved.

Resources that already have a resource.hcl, or carry no legacy metadata,
are skipped. Re-running migrate is always safe.

Examples:
  # Migrate every resource in the workspace
  stencil migrate

  # Migrate specific resources by name
  stencil migrate hero pricing-table`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringP("path", "p", ".", "Workspace directory")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	workDir, _ := cmd.Flags().GetString("path")

	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	// Colors for output
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Printf("%s Scanning %s\n", cyan("→"), absPath)

	// Migration must see every directory, configured or not.
	scanOpts := scanner.Options{
		WorkDir:            absPath,
		LoadConfig:         false,
		ValidateSchema:     false,
		RequirePackageJSON: false,
	}
	resources, err := scanner.New(scanOpts).Scan()
	if err != nil {
		return err
	}

	if len(args) > 0 {
		resources, err = scanner.Select(resources, args)
		if err != nil {
			return err
		}
	}

	summary := migrator.New().Migrate(resources)

	for _, o := range summary.Outcomes {
		switch o.Status {
		case migrator.StatusMigrated:
			fmt.Printf("%s %s migrated\n", green("✓"), o.Resource.ID())
		case migrator.StatusSkipped:
			if verbose > 0 {
				fmt.Printf("  %s skipped: %s\n", o.Resource.ID(), o.Reason)
			}
		case migrator.StatusFailed:
			fmt.Printf("%s %s: %v\n", red("✗"), o.Resource.ID(), o.Err)
		}
	}

	migrated, skipped, failed := summary.Counts()
	fmt.Printf("%s %d migrated, %d skipped, %d failed\n", green("✓"), migrated, skipped, failed)

	switch {
	case failed == 0:
		return nil
	case migrated == 0:
		return fmt.Errorf("migration failed for all %d candidates", failed)
	default:
		return partialErr(migrated, failed)
	}
}
