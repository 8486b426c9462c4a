// Package cli implements the command-line interface for stencil.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose int
)

// rootCmd is the base command for stencil
var rootCmd = &cobra.Command{
	Use:   "stencil",
	Short: "A build and packaging toolchain for CMS blocks and templates",
	Long: `Stencil manages the content blocks and page templates of a CMS workspace.
It discovers resources under the blocks/ and templates/ collections, validates
their content schemas, bundles them for distribution, and migrates resources
from legacy package.json metadata to the resource.hcl configuration format.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Increase verbosity (-v info, -vv debug)")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Fprintf(os.Stderr, "%s %v\n", red("✗"), err)
		return mapExitCode(err)
	}
	return ExitOK
}

// GetRootCmd returns the root command for testing
func GetRootCmd() *cobra.Command {
	return rootCmd
}
