package frame

import (
	"database/sql"
	"fmt"
	"strings"
)

// FromRows drains rows into a frame. Column types come from the driver's
// database type names when available and are inferred otherwise.
// The caller still owns rows and must close it.
func FromRows(rows *sql.Rows) (*Frame, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to get column types: %w", err)
	}

	var data [][]any
	for rows.Next() {
		values := make([]any, len(colTypes))
		ptrs := make([]any, len(colTypes))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	f := New(make([]Column, len(colTypes)), data)
	for i, ct := range colTypes {
		tag := typeFromDatabase(ct)
		if tag == "" {
			tag = InferType(f.Column(i))
		}
		f.Columns[i] = Column{Name: ct.Name(), Type: tag}
	}
	return f, nil
}

// typeFromDatabase maps warehouse type names to source tags.
// An empty result means the name was not recognized.
func typeFromDatabase(ct *sql.ColumnType) string {
	switch strings.ToUpper(ct.DatabaseTypeName()) {
	case "FIXED", "NUMBER", "DECIMAL", "NUMERIC":
		if _, scale, ok := ct.DecimalSize(); ok && scale > 0 {
			return TypeFloat64
		}
		return TypeInt64
	case "INT", "INTEGER", "BIGINT", "SMALLINT", "TINYINT", "BYTEINT":
		return TypeInt64
	case "REAL", "FLOAT", "FLOAT4", "FLOAT8", "DOUBLE":
		return TypeFloat64
	case "BOOLEAN":
		return TypeBool
	case "DATE", "DATETIME", "TIMESTAMP", "TIMESTAMP_NTZ", "TIMESTAMP_LTZ", "TIMESTAMP_TZ":
		return TypeDatetime
	case "TEXT", "VARCHAR", "STRING", "CHAR", "VARIANT", "OBJECT", "ARRAY", "BINARY", "TIME":
		return TypeObject
	}
	return ""
}
