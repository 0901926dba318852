package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Input string
	Limit int
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query <credentials> [SQL]",
		Short: "Run SQL with a credentials entry",
		Long: `Run SQL against the warehouse of a credentials entry and print the result.

SQL is read from the arguments, from --input, or from piped standard input.
When invoked without SQL on a terminal, enters an interactive shell.`,
		Example: `  # Execute SQL directly
  sfcatalog query dev "SELECT CURRENT_WAREHOUSE()"

  # Run a file and export the result as CSV
  sfcatalog query dev -i report.sql -o csv > report.csv

  # Interactive mode
  sfcatalog query dev`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeCredentials,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum number of rows to print (0 prints everything)")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	if opts.Limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	credentials := args[0]

	var sqlQuery string
	switch {
	case len(args) > 1:
		sqlQuery = strings.Join(args[1:], " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(cmd.InOrStdin()):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		return runQueryREPL(cmd, cmdCtx, credentials, opts)
	}

	sqlQuery = strings.TrimSuffix(strings.TrimSpace(sqlQuery), ";")
	if sqlQuery == "" {
		return fmt.Errorf("no SQL to run")
	}

	f, err := cmdCtx.Catalog.Query(cmd.Context(), credentials, sqlQuery)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if opts.Limit > 0 {
		f = f.Head(opts.Limit)
	}
	return cmdCtx.Renderer.Frame(f)
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
