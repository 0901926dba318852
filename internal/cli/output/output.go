// Package output renders command results for terminals, pipes and scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/leapstack-labs/sfcatalog/pkg/adapter"
	"github.com/leapstack-labs/sfcatalog/pkg/frame"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Mode selects the output format.
type Mode string

// Output modes.
const (
	ModeAuto Mode = "auto" // text on a terminal, csv otherwise
	ModeText Mode = "text"
	ModeCSV  Mode = "csv"
	ModeJSON Mode = "json"
)

// Modes lists the accepted --output values.
var Modes = []string{string(ModeAuto), string(ModeText), string(ModeCSV), string(ModeJSON)}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
	mode   Mode
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{out: out, errOut: errOut, isTTY: isTTY, mode: mode}
}

// EffectiveMode resolves ModeAuto against the terminal state.
func (r *Renderer) EffectiveMode() Mode {
	switch r.mode {
	case ModeText, ModeCSV, ModeJSON:
		return r.mode
	default:
		if r.isTTY {
			return ModeText
		}
		return ModeCSV
	}
}

// Println writes a line to standard output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Success writes a status line to standard error.
func (r *Renderer) Success(msg string) {
	r.status(text.FgGreen, "✓ "+msg)
}

// Warning writes a warning line to standard error.
func (r *Renderer) Warning(msg string) {
	r.status(text.FgYellow, "! "+msg)
}

func (r *Renderer) status(color text.Color, msg string) {
	if r.isTTY {
		msg = color.Sprint(msg)
	}
	_, _ = fmt.Fprintln(r.errOut, msg)
}

// Table renders rows under a header.
func (r *Renderer) Table(header []string, rows [][]any) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		records := make([]map[string]any, len(rows))
		for i, row := range rows {
			rec := make(map[string]any, len(header))
			for j, h := range header {
				if j < len(row) {
					rec[h] = row[j]
				}
			}
			records[i] = rec
		}
		return r.JSON(records)
	case ModeCSV:
		cols := make([]frame.Column, len(header))
		for i, h := range header {
			cols[i] = frame.Column{Name: h, Type: frame.TypeObject}
		}
		return frame.WriteCSV(r.out, frame.New(cols, rows))
	default:
		t := table.NewWriter()
		t.SetOutputMirror(r.out)
		t.SetStyle(table.StyleLight)

		headerRow := make(table.Row, len(header))
		for i, h := range header {
			headerRow[i] = h
		}
		t.AppendHeader(headerRow)
		for _, row := range rows {
			t.AppendRow(table.Row(row))
		}
		t.Render()
		return nil
	}
}

// Frame renders a data frame.
func (r *Renderer) Frame(f *frame.Frame) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.Table(f.ColumnNames(), f.Rows)
	case ModeCSV:
		return frame.WriteCSV(r.out, f)
	default:
		if f.Len() == 0 {
			r.Println("(0 rows)")
			return nil
		}
		rows := make([][]any, len(f.Rows))
		for i, row := range f.Rows {
			cells := make([]any, len(row))
			for j, v := range row {
				cells[j] = formatCell(v)
			}
			rows[i] = cells
		}
		if err := r.Table(f.ColumnNames(), rows); err != nil {
			return err
		}
		r.Println(fmt.Sprintf("(%d rows)", f.Len()))
		return nil
	}
}

// Value renders the result of a load: frames as tables, adapters as a
// connection summary, anything else as a single value.
func (r *Renderer) Value(v any) error {
	switch v := v.(type) {
	case *frame.Frame:
		return r.Frame(v)
	case adapter.Adapter:
		return r.Map(adapter.Describe(v))
	}
	if r.EffectiveMode() == ModeJSON {
		return r.JSON(v)
	}
	r.Println(frame.FormatValue(v))
	return nil
}

// Map renders a description map: YAML unless JSON was requested.
func (r *Renderer) Map(m map[string]any) error {
	if r.EffectiveMode() == ModeJSON {
		return r.JSON(m)
	}
	return r.YAML(m)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as YAML.
func (r *Renderer) YAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func formatCell(v any) string {
	if v == nil {
		return "NULL"
	}
	return frame.FormatValue(v)
}
