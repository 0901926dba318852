package core

import (
	"database/sql"
	"strings"
)

// AdapterConfig holds configuration for connecting to a warehouse.
// One AdapterConfig is one named entry of the credentials file.
type AdapterConfig struct {
	Type      string            `koanf:"type" mapstructure:"type"` // snowflake
	Account   string            `koanf:"account" mapstructure:"account"`
	User      string            `koanf:"user" mapstructure:"user"`
	Password  string            `koanf:"password" mapstructure:"password"`
	Host      string            `koanf:"host" mapstructure:"host"`
	Port      int               `koanf:"port" mapstructure:"port"`
	Database  string            `koanf:"database" mapstructure:"database"`
	Schema    string            `koanf:"schema" mapstructure:"schema"`
	Warehouse string            `koanf:"warehouse" mapstructure:"warehouse"`
	Role      string            `koanf:"role" mapstructure:"role"`
	Options   map[string]string `koanf:"options" mapstructure:"options"`

	// Params holds adapter-specific configuration (e.g. bulk load chunk size)
	Params map[string]any `koanf:"params" mapstructure:"params"`
}

// Validate checks that the credentials carry at least a user.
// name is the credentials entry name and is only used in the error.
func (c *AdapterConfig) Validate(name string) error {
	if c == nil || strings.TrimSpace(c.User) == "" {
		return &ConfigurationError{
			Dataset: name,
			Field:   "credentials",
			Reason:  "'user', 'password', and 'account' must be passed, see docs for other connection methods",
		}
	}
	return nil
}

// Redacted returns a copy with the password masked.
func (c AdapterConfig) Redacted() AdapterConfig {
	if c.Password != "" {
		c.Password = "****"
	}
	return c
}

// Rows wraps sql.Rows to provide a consistent interface.
type Rows struct {
	*sql.Rows
}

// CopyStatus is one row of a bulk COPY result, one per staged file.
type CopyStatus struct {
	File       string
	Status     string
	RowsParsed int64
	RowsLoaded int64
	FirstError string
}

// LoadResult is what a bulk-load primitive reports.
type LoadResult struct {
	Success bool
	Chunks  int
	Rows    int64
	Output  []CopyStatus
}
