// Package adapter provides the warehouse adapter contract used by the
// table writer and the data sets.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves by credentials type in their init() functions.
package adapter

import (
	"context"

	"github.com/leapstack-labs/sfcatalog/pkg/core"
	"github.com/leapstack-labs/sfcatalog/pkg/frame"
)

type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Rows is an alias for core.Rows.
	Rows = core.Rows
)

// Adapter defines the interface that all warehouse adapters must implement.
type Adapter interface {
	// Connect establishes a connection using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows (e.g., USE, CREATE).
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// QueryFrame executes a query and materializes the result.
	QueryFrame(ctx context.Context, sql string) (*frame.Frame, error)

	// BulkLoad loads f into table in the session's current database and
	// schema. Column names are used as given.
	BulkLoad(ctx context.Context, f *frame.Frame, table string) (*core.LoadResult, error)

	// DialectName returns the name of the SQL dialect spoken by the adapter.
	DialectName() string
}

// Describer is implemented by adapters that can summarize their
// connection without exposing secrets.
type Describer interface {
	Describe() map[string]any
}

// Describe returns a printable summary of a. Adapters that do not
// implement Describer report only their dialect.
func Describe(a Adapter) map[string]any {
	desc := map[string]any{}
	if d, ok := a.(Describer); ok {
		for k, v := range d.Describe() {
			desc[k] = v
		}
	}
	desc["dialect"] = a.DialectName()
	return desc
}
