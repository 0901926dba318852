package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "load <dataset>",
		Short: "Load a data set and print it",
		Long: `Load a data set and print the result.

Tables and queries print as rows; name data sets print the resolved name.`,
		Example: `  # Preview a table
  sfcatalog load orders --limit 20

  # Export a query result as CSV
  sfcatalog load recent_orders -o csv > recent_orders.csv`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDatasets,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}

			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := cmdCtx.Catalog.LoadLimit(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Value(data)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of rows to load (0 loads everything)")

	return cmd
}
