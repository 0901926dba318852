package commands

import (
	"github.com/spf13/cobra"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <dataset>",
		Short: "Show the configuration of a data set",
		Long: `Show the resolved configuration of a data set as YAML (or JSON with --output json).
Credentials are referenced by name and never printed.`,
		Example:           `  sfcatalog describe orders`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDatasets,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			desc, err := cmdCtx.Catalog.Describe(args[0])
			if err != nil {
				return err
			}
			return cmdCtx.Renderer.Map(desc)
		},
	}

	return cmd
}
