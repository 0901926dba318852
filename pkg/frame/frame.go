// Package frame provides a minimal column-typed table used to move data
// between files, the warehouse and the table writer.
package frame

import "time"

// Source type tags. These are the tags the table writer maps to warehouse types.
const (
	TypeInt      = "int"
	TypeInt64    = "int64"
	TypeFloat64  = "float64"
	TypeBool     = "bool"
	TypeDatetime = "datetime64[ns]"
	TypeCategory = "category"
	TypeObject   = "object"
)

// Column is a named, typed column of a Frame.
type Column struct {
	Name string
	Type string
}

// Frame is an ordered list of columns plus row-major values.
// Each row has one value per column; nil is a missing value.
type Frame struct {
	Columns []Column
	Rows    [][]any
}

// New creates a frame from columns and rows.
func New(columns []Column, rows [][]any) *Frame {
	return &Frame{Columns: columns, Rows: rows}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// ColumnNames returns the column names in order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// Rename returns a copy whose column names have been passed through fn.
// The receiver is not modified; row values are shared.
func (f *Frame) Rename(fn func(string) string) *Frame {
	cols := make([]Column, len(f.Columns))
	for i, c := range f.Columns {
		cols[i] = Column{Name: fn(c.Name), Type: c.Type}
	}
	rows := make([][]any, len(f.Rows))
	copy(rows, f.Rows)
	return &Frame{Columns: cols, Rows: rows}
}

// Head returns a frame holding at most the first n rows.
// A non-positive n returns all rows.
func (f *Frame) Head(n int) *Frame {
	if n <= 0 || n >= len(f.Rows) {
		return f
	}
	return &Frame{Columns: f.Columns, Rows: f.Rows[:n]}
}

// Column returns the values of column i.
func (f *Frame) Column(i int) []any {
	values := make([]any, len(f.Rows))
	for r, row := range f.Rows {
		if i < len(row) {
			values[r] = row[i]
		}
	}
	return values
}

// InferType returns the narrowest type tag that describes every
// non-nil value. Columns without values are TypeObject.
func InferType(values []any) string {
	tag := ""
	for _, v := range values {
		if v == nil {
			continue
		}
		t := typeOf(v)
		switch {
		case tag == "":
			tag = t
		case tag == t:
		case (tag == TypeInt64 && t == TypeFloat64) || (tag == TypeFloat64 && t == TypeInt64):
			tag = TypeFloat64
		default:
			return TypeObject
		}
	}
	if tag == "" {
		return TypeObject
	}
	return tag
}

func typeOf(v any) string {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInt64
	case float32, float64:
		return TypeFloat64
	case bool:
		return TypeBool
	case time.Time:
		return TypeDatetime
	default:
		return TypeObject
	}
}
