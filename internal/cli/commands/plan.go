package commands

import (
	"github.com/leapstack-labs/sfcatalog/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewPlanCommand creates the plan command.
func NewPlanCommand() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "plan <dataset>",
		Short: "Print the DDL a save would run",
		Long: `Print the CREATE statements a save of the CSV file would run, without
connecting to the warehouse.`,
		Example:           `  sfcatalog plan orders --from orders.csv`,
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

			plan, err := cmdCtx.Catalog.Plan(args[0], f)
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(plan.Statements())
			}
			for _, stmt := range plan.Statements() {
				r.Println(stmt + ";")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "CSV file with the data to plan for (- for standard input)")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}
