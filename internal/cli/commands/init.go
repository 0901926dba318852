package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/sfcatalog/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new catalog project",
		Long: `Initialize a catalog project with a starter catalog.yaml and credentials.yaml.

This creates:
  - catalog.yaml with a table data set
  - credentials.yaml reading the connection from SNOWFLAKE_* variables
  - .gitignore keeping credentials.yaml out of version control

Use --example to add every data set type and a sample CSV file to save.`,
		Example: `  # Initialize in current directory
  sfcatalog init

  # Initialize with every data set type and sample data
  sfcatalog init --example

  # Initialize in a new directory
  sfcatalog init my-pipeline --example

  # Force overwrite existing files
  sfcatalog init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

			name := "minimal"
			if example {
				name = "example"
			}
			return runInit(r, name, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Create an example project with every data set type and sample data")

	return cmd
}

func runInit(r *output.Renderer, templateName, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "catalog.yaml")); err == nil && !force {
		return fmt.Errorf("catalog.yaml already exists. Use --force to overwrite")
	}

	if err := copyTemplate(templateName, dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, err := listTemplateFiles(templateName)
	if err != nil {
		return fmt.Errorf("failed to list template files: %w", err)
	}
	for _, f := range files {
		r.Println("  created " + f)
	}

	r.Success("catalog project initialized")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Export SNOWFLAKE_ACCOUNT, SNOWFLAKE_USER and SNOWFLAKE_PASSWORD")
	r.Println("  2. Run 'sfcatalog doctor' to check the connection")
	if templateName == "example" {
		r.Println("  3. Run 'sfcatalog save orders --from data/orders.csv'")
	} else {
		r.Println("  3. Run 'sfcatalog list' to see the data sets")
	}
	return nil
}
