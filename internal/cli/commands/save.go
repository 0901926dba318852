package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSaveCommand creates the save command.
func NewSaveCommand() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "save <dataset>",
		Short: "Save a CSV file to a data set",
		Long: `Read a CSV file with a header row and save it to a data set.

Column types are inferred from the values: integers, floats, booleans and
timestamps map to warehouse types, everything else is stored as text.
The database, schema and table are created when they do not exist.`,
		Example: `  # Save a file
  sfcatalog save orders --from orders.csv

  # Save from standard input
  cat orders.csv | sfcatalog save orders --from -`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDatasets,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readFrame(cmd, from)
			if err != nil {
				return err
			}

			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cmdCtx.Catalog.Save(cmd.Context(), args[0], f); err != nil {
				return err
			}
			cmdCtx.Renderer.Success(fmt.Sprintf("saved %d rows to %s", f.Len(), args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "CSV file to save (- for standard input)")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}
