package cli

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stencil-tools/stencil/internal/builder"
	"github.com/stencil-tools/stencil/internal/bundler"
	"github.com/stencil-tools/stencil/internal/config"
	"github.com/stencil-tools/stencil/internal/scanner"
)

var buildCmd = &cobra.Command{
	Use:   "build [resources...]",
	Short: "Bundle resources into versioned distribution output",
	Long: `Bundle resources into versioned distribution output.

Discovers resources under the blocks/ and templates/ collections, validates
each resource's schema, and bundles each source entry point into
dist/{name}/{version}/ with its manifest and build metadata.

Build discovery is strict: any invalid resource aborts the run before
anything is bundled. With explicit resource names, only the named resources
are built.

Examples:
  # Build every resource in the workspace
  stencil build

  # Build specific resources by name
  stencil build hero pricing-table

  # Build into a custom output directory
  stencil build -o out`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("output", "o", "dist", "Output directory")
	buildCmd.Flags().StringP("path", "p", ".", "Workspace directory")
	buildCmd.Flags().Bool("no-minify", false, "Disable minification")
	buildCmd.Flags().Bool("sourcemap", false, "Emit external sourcemaps")
	buildCmd.Flags().String("target", "", "Bundle target (default from stencil.hcl, then es2020)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	workDir, _ := cmd.Flags().GetString("path")
	noMinify, _ := cmd.Flags().GetBool("no-minify")
	sourcemap, _ := cmd.Flags().GetBool("sourcemap")
	target, _ := cmd.Flags().GetString("target")

	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	// Colors for output
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	ws, err := config.LoadWorkspace(absPath)
	if err != nil {
		return err
	}

	opts := bundler.DefaultOptions()
	if ws.Bundler != nil {
		if ws.Bundler.Minify != nil {
			opts.Minify = *ws.Bundler.Minify
		}
		if ws.Bundler.Sourcemap != nil {
			opts.Sourcemap = *ws.Bundler.Sourcemap
		}
		if ws.Bundler.Target != "" {
			opts.Target = ws.Bundler.Target
		}
	}
	if noMinify {
		opts.Minify = false
	}
	if sourcemap {
		opts.Sourcemap = true
	}
	if target != "" {
		opts.Target = target
	}

	fmt.Printf("%s Scanning %s\n", cyan("→"), absPath)

	scanOpts := scanner.DefaultOptions(absPath)
	scanOpts.Strict = true
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
		fmt.Printf("%s No resources to build\n", green("✓"))
		return nil
	}

	b := builder.New(filepath.Join(absPath, output), bundler.NewESBuild(), opts).
		WithCommit(builder.HeadCommit(absPath))

	summary := b.Build(cmd.Context(), resources)

	for _, r := range summary.Succeeded {
		fmt.Printf("%s %s@%s\n", green("✓"), r.Resource.Manifest.Name, r.Resource.Manifest.Version)
		fmt.Printf("  Output: %s\n", r.OutDir)
		fmt.Printf("  Script: %s\n", humanize.Bytes(uint64(r.ScriptSize)))
	}
	for _, f := range summary.Failed {
		fmt.Printf("%s %s: %v\n", red("✗"), f.Resource.ID(), f.Err)
	}

	switch {
	case len(summary.Failed) == 0:
		fmt.Printf("%s Built %d resources\n", green("✓"), len(summary.Succeeded))
		return nil
	case len(summary.Succeeded) == 0:
		return fmt.Errorf("build failed for all %d resources", len(summary.Failed))
	default:
		return partialErr(len(summary.Succeeded), len(summary.Failed))
	}
}
