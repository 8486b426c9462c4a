package cli

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stencil-tools/stencil/internal/scanner"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List resources in the workspace",
	Long: `List resources in the workspace.

Discovery is lenient: resources with problems are skipped with a warning
instead of failing the command.

Examples:
  # List every resource
  stencil list

  # List only blocks
  stencil list -t block`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("type", "t", "", "Filter by resource type (block or template)")
	listCmd.Flags().StringP("path", "p", ".", "Workspace directory")
}

func runList(cmd *cobra.Command, args []string) error {
	typeFilter, _ := cmd.Flags().GetString("type")
	workDir, _ := cmd.Flags().GetString("path")

	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	scanOpts := scanner.DefaultOptions(absPath)
	scanOpts.LoadPreview = true
	resources, err := scanner.New(scanOpts).Scan()
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	count := 0
	for _, res := range resources {
		if typeFilter != "" && string(res.Type) != typeFilter {
			continue
		}
		count++

		version := ""
		if res.Manifest != nil {
			version = "@" + res.Manifest.Version
		}
		fmt.Printf("%s%s %s\n", cyan(res.ID()), version, res.DisplayName)
		if res.Description != "" {
			fmt.Printf("  %s\n", res.Description)
		}
		if res.Category != "" {
			fmt.Printf("  %s\n", faint("category: "+res.Category))
		}
		if res.Preview == "" {
			fmt.Printf("  %s\n", faint("no preview"))
		}
	}

	if count == 0 {
		fmt.Println("No resources found")
		return nil
	}

	fmt.Printf("\n%d resources\n", count)
	return nil
}
