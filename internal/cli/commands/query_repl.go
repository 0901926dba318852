package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/sfcatalog/internal/cli/config"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "sfcatalog> "
	replContPrompt = "     ...> "
	historyFile    = ".sfcatalog_history"
)

func runQueryREPL(cmd *cobra.Command, cmdCtx *CommandContext, credentials string, opts *QueryOptions) error {
	ctx := cmd.Context()

	// History lives next to the catalog
	var history string
	if file := config.GetConfigFileUsed(); file != "" {
		history = filepath.Join(filepath.Dir(file), historyFile)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     history,
		AutoComplete:    newDatasetCompleter(cmdCtx),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	s := &replSession{
		cmdCtx:      cmdCtx,
		credentials: credentials,
		limit:       opts.Limit,
		out:         cmd.OutOrStdout(),
		errOut:      cmd.ErrOrStderr(),
	}

	_, _ = fmt.Fprintf(s.out, "sfcatalog query shell (credentials: %s)\n", credentials)
	_, _ = fmt.Fprintln(s.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(s.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}

		prompt, quit := s.handleLine(ctx, line)
		if quit {
			return nil
		}
		rl.SetPrompt(prompt)
	}
}

// replSession is the state of one interactive query shell.
type replSession struct {
	cmdCtx      *CommandContext
	credentials string
	limit       int
	out, errOut io.Writer

	buf strings.Builder
}

// handleLine processes one line of input and returns the next prompt.
// SQL accumulates until a line ends with a semicolon.
func (s *replSession) handleLine(ctx context.Context, line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		if s.buf.Len() > 0 {
			return replContPrompt, false
		}
		return replPrompt, false
	}

	if s.buf.Len() == 0 && strings.HasPrefix(line, ".") {
		return replPrompt, s.handleDotCommand(ctx, line)
	}

	s.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		s.buf.WriteString(" ")
		return replContPrompt, false
	}

	query := strings.TrimSuffix(s.buf.String(), ";")
	s.buf.Reset()

	f, err := s.cmdCtx.Catalog.Query(ctx, s.credentials, query)
	if err == nil {
		if s.limit > 0 {
			f = f.Head(s.limit)
		}
		err = s.cmdCtx.Renderer.Frame(f)
	}
	if err != nil {
		s.printError(err)
	}
	return replPrompt, false
}

// handleDotCommand runs a shell command and reports whether to quit.
func (s *replSession) handleDotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	r := s.cmdCtx.Renderer

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".datasets":
		entries := s.cmdCtx.Catalog.List()
		rows := make([][]any, len(entries))
		for i, e := range entries {
			rows[i] = []any{e.Name, e.Type}
		}
		if err := r.Table([]string{"name", "type"}, rows); err != nil {
			s.printError(err)
		}

	case ".describe", ".load":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(s.errOut, "Usage: %s <dataset>\n", command)
			return false
		}
		var err error
		if command == ".describe" {
			var desc map[string]any
			if desc, err = s.cmdCtx.Catalog.Describe(parts[1]); err == nil {
				err = r.Map(desc)
			}
		} else {
			var data any
			if data, err = s.cmdCtx.Catalog.LoadLimit(ctx, parts[1], s.limit); err == nil {
				err = r.Value(data)
			}
		}
		if err != nil {
			s.printError(err)
		}

	case ".limit":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(s.out, "limit: %d\n", s.limit)
			return false
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 0 {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .limit <rows> (0 prints everything)")
			return false
		}
		s.limit = n

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func (s *replSession) printError(err error) {
	_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help              Show this help message
  .datasets          List the data sets of the catalog
  .describe <name>   Describe a data set
  .load <name>       Load a data set and print it
  .limit [rows]      Show or set the row limit (0 prints everything)
  .quit / .exit      Exit the shell

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for data set names
`
	_, _ = fmt.Fprintln(w, help)
}

// newDatasetCompleter creates a readline completer for dot-commands and
// data set names.
func newDatasetCompleter(cmdCtx *CommandContext) *readline.PrefixCompleter {
	entries := cmdCtx.Catalog.List()
	names := make([]readline.PrefixCompleterInterface, len(entries))
	for i, e := range entries {
		names[i] = readline.PcItem(e.Name)
	}

	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".datasets"),
		readline.PcItem(".describe", names...),
		readline.PcItem(".load", names...),
		readline.PcItem(".limit"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
