package commands

import (
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the data sets of the catalog",
		Long: `List every data set declared in the catalog with its type.

Output adapts to environment:
  - Terminal: table
  - Piped/Scripted: CSV

Use --output to override: auto, text, csv, json`,
		Example: `  # List data sets (auto-detect output format)
  sfcatalog list

  # List data sets as JSON
  sfcatalog list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	entries := cmdCtx.Catalog.List()
	rows := make([][]any, len(entries))
	for i, e := range entries {
		rows[i] = []any{e.Name, e.Type}
	}
	return cmdCtx.Renderer.Table([]string{"name", "type"}, rows)
}
