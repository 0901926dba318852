package core

import "strings"

// TargetTable identifies a table by database, schema and name.
type TargetTable struct {
	Database string `mapstructure:"database"`
	Schema   string `mapstructure:"schema"`
	Name     string `mapstructure:"table_name"`
}

// Validate reports the first empty component as a ConfigurationError.
func (t TargetTable) Validate() error {
	for _, f := range []struct{ field, value string }{
		{"table_name", t.Name},
		{"schema", t.Schema},
		{"database", t.Database},
	} {
		if strings.TrimSpace(f.value) == "" {
			return &ConfigurationError{Field: f.field}
		}
	}
	return nil
}

// String returns the dotted database.schema.table form.
func (t TargetTable) String() string {
	return t.Database + "." + t.Schema + "." + t.Name
}
