package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// TimestampLayout is the layout used when writing datetime values.
const TimestampLayout = "2006-01-02 15:04:05.999999999"

// ReadCSV reads a CSV document with a header row into a frame.
// Column types are inferred from the values; empty cells are nil.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return New(nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV records: %w", err)
	}

	columns := make([]Column, len(header))
	for i, name := range header {
		columns[i] = Column{Name: strings.TrimSpace(name), Type: inferStringType(records, i)}
	}

	rows := make([][]any, len(records))
	for r, record := range records {
		row := make([]any, len(columns))
		for i, col := range columns {
			if i >= len(record) {
				continue
			}
			v, err := parseValue(record[i], col.Type)
			if err != nil {
				return nil, fmt.Errorf("failed to parse row %d column %q: %w", r+1, col.Name, err)
			}
			row[i] = v
		}
		rows[r] = row
	}

	return New(columns, rows), nil
}

// inferStringType picks the narrowest tag that parses every non-empty cell.
func inferStringType(records [][]string, col int) string {
	candidates := []string{TypeInt64, TypeFloat64, TypeBool, TypeDatetime}
	seen := false
	for _, record := range records {
		if col >= len(record) || record[col] == "" {
			continue
		}
		seen = true
		kept := candidates[:0]
		for _, tag := range candidates {
			if _, err := parseValue(record[col], tag); err == nil {
				kept = append(kept, tag)
			}
		}
		candidates = kept
		if len(candidates) == 0 {
			return TypeObject
		}
	}
	if !seen {
		return TypeObject
	}
	return candidates[0]
}

func parseValue(s, tag string) (any, error) {
	if s == "" {
		return nil, nil
	}
	switch tag {
	case TypeInt, TypeInt64:
		return strconv.ParseInt(s, 10, 64)
	case TypeFloat64:
		return strconv.ParseFloat(s, 64)
	case TypeBool:
		switch strings.ToLower(s) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean %q", s)
	case TypeDatetime:
		return cast.ToTimeE(s)
	default:
		return s, nil
	}
}

// WriteCSV writes the frame with a header row. Nil values are written as
// empty fields.
func WriteCSV(w io.Writer, f *Frame) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(f.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(f.Columns))
	for _, row := range f.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = FormatValue(row[i])
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// FormatValue renders a single value as text.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		return val.Format(TimestampLayout)
	case []byte:
		return string(val)
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}
