package cli

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stencil-tools/stencil/internal/packager"
	"github.com/stencil-tools/stencil/internal/scanner"
)

var packageCmd = &cobra.Command{
	Use:   "package [resources...]",
	Short: "Create distributable archives from resources",
	Long: `Create distributable archives from resources.

Each resource is archived to {name}-{version}.tar.gz with a single
{name}-{version}/ top-level directory inside, excluding patterns like
.git, node_modules, and .env.

Packaging reads each resource's package.json for name and version but
does not validate schemas. With explicit resource names, an unknown name
fails before any archive is written; a failure mid-batch leaves the
archives already produced on disk.

Examples:
  # Package every resource in the workspace
  stencil package

  # Package specific resources by name
  stencil package hero pricing-table

  # Package into a custom output directory
  stencil package -o /tmp/archives`,
	RunE: runPackage,
}

func init() {
	rootCmd.AddCommand(packageCmd)
	packageCmd.Flags().StringP("output", "o", "dist", "Output directory for archives")
	packageCmd.Flags().StringP("path", "p", ".", "Workspace directory")
}

func runPackage(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
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

	// Packaging needs manifests only, not schemas.
	scanOpts := scanner.Options{
		WorkDir:            absPath,
		LoadConfig:         false,
		ValidateSchema:     false,
		RequirePackageJSON: true,
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

	if len(resources) == 0 {
		fmt.Printf("%s No resources to package\n", green("✓"))
		return nil
	}

	outDir := output
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(absPath, output)
	}

	summary := packager.New(outDir).Package(resources)

	for _, r := range summary.Succeeded {
		fmt.Printf("%s %s\n", green("✓"), r.Path)
		fmt.Printf("  Size: %s\n", humanize.Bytes(uint64(r.Size)))
		fmt.Printf("  Integrity: %s\n", r.Integrity)
	}
	for _, f := range summary.Failed {
		fmt.Printf("%s %s: %v\n", red("✗"), f.Resource.ID(), f.Err)
	}

	switch {
	case len(summary.Failed) == 0:
		fmt.Printf("%s Packaged %d resources\n", green("✓"), len(summary.Succeeded))
		return nil
	case len(summary.Succeeded) == 0:
		return fmt.Errorf("packaging failed for all %d resources", len(summary.Failed))
	default:
		return partialErr(len(summary.Succeeded), len(summary.Failed))
	}
}
