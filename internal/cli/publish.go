package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stencil-tools/stencil/internal/config"
	"github.com/stencil-tools/stencil/internal/publisher"
)

var publishCmd = &cobra.Command{
	Use:   "publish <archive>",
	Short: "Publish a resource archive to a registry",
	Long: `Publish a resource archive to a registry.

The archive must follow the naming convention {name}-{version}.tar.gz.
The registry URL determines the upload method:

  file://path     - Copy archive and update local registry.json
  s3://bucket/... - Upload via AWS SDK
  az://account/...    - Upload via Azure SDK
  https://...     - Output manual upload instructions (read-only)

The registry defaults to the url of the registry block in stencil.hcl.

Examples:
  # Publish to a local registry
  stencil publish hero-1.2.0.tar.gz -r file:///path/to/registry

  # Publish to S3
  stencil publish hero-1.2.0.tar.gz -r s3://my-bucket/registry

  # Publish to Azure Blob Storage
  stencil publish hero-1.2.0.tar.gz -r az://myaccount/mycontainer/registry

  # Get manual instructions for HTTPS registry
  stencil publish hero-1.2.0.tar.gz -r https://example.com/registry`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringP("registry", "r", "", "Registry URL (default from stencil.hcl)")
	publishCmd.Flags().StringP("path", "p", ".", "Workspace directory")
}

func runPublish(cmd *cobra.Command, args []string) error {
	archivePath := args[0]
	registryURL, _ := cmd.Flags().GetString("registry")
	workDir, _ := cmd.Flags().GetString("path")

	if registryURL == "" {
		ws, err := config.LoadWorkspace(workDir)
		if err != nil {
			return err
		}
		registryURL = ws.RegistryURL()
	}
	if registryURL == "" {
		return fmt.Errorf("no registry URL: pass --registry or add a registry block to %s", config.WorkspaceFileName)
	}

	// Colors for output
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Printf("%s Publishing %s to %s\n", cyan("→"), archivePath, registryURL)

	pub, err := publisher.New(registryURL)
	if err != nil {
		return err
	}

	result, err := pub.Publish(archivePath)
	if err != nil {
		return err
	}

	fmt.Printf("  Resource: %s@%s\n", result.Name, result.Version)
	fmt.Printf("  URL: %s\n", result.URL)
	fmt.Printf("  Integrity: %s\n", result.Integrity)

	// If manual instructions are provided (HTTPS), display them
	if result.ManualInstructions != "" {
		fmt.Printf("\n%s Manual steps required:\n\n", yellow("!"))
		fmt.Println(result.ManualInstructions)
	} else {
		fmt.Printf("%s Publish complete\n", green("✓"))
	}

	return nil
}
