package cli

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stencil-tools/stencil/internal/scaffold"
	"github.com/stencil-tools/stencil/internal/scanner"
)

var newCmd = &cobra.Command{
	Use:   "new <block|template> <name>",
	Short: "Scaffold a new resource",
	Long: `Scaffold a new resource.

Creates a resource directory under blocks/ or templates/ with a starter
resource.hcl, package.json, source entry point, and preview page.

Examples:
  # Create a new block
  stencil new block hero

  # Create a new template with a display name
  stencil new template landing-page -n "Landing Page"`,
	Args: cobra.ExactArgs(2),
	RunE: runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringP("name", "n", "", "Display name (defaults to the slug)")
	newCmd.Flags().StringP("description", "d", "", "Short description")
	newCmd.Flags().StringP("path", "p", ".", "Workspace directory")
}

func runNew(cmd *cobra.Command, args []string) error {
	rtype := scanner.ResourceType(args[0])
	if rtype != scanner.TypeBlock && rtype != scanner.TypeTemplate {
		return fmt.Errorf("unknown resource type %q (expected block or template)", args[0])
	}

	displayName, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")
	workDir, _ := cmd.Flags().GetString("path")

	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	result, err := scaffold.Scaffold(scaffold.Options{
		WorkDir:     absPath,
		Type:        rtype,
		Name:        args[1],
		DisplayName: displayName,
		Description: description,
	})
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Created %s %s in %s\n", green("✓"), rtype, args[1], result.Dir)
	for _, f := range result.Files {
		fmt.Printf("  %s\n", f)
	}
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Edit resource.hcl to define the content schema")
	fmt.Println("  2. Implement src/index.ts")
	fmt.Println("  3. Run 'stencil build' to bundle the resource")

	return nil
}
