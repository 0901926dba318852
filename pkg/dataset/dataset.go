// Package dataset defines the contract between a pipeline catalog and its
// data sets, the registry of data set types, and the connection pool the
// warehouse-backed data sets share.
package dataset

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/sfcatalog/pkg/adapter"
	"github.com/leapstack-labs/sfcatalog/pkg/tablewriter"
)

// Dataset is a named source or sink of data.
type Dataset interface {
	// Load reads the data set.
	Load(ctx context.Context) (any, error)

	// Save writes data to the data set.
	Save(ctx context.Context, data any) error

	// Describe returns the data set's configuration for display.
	Describe() map[string]any
}

// Connector hands out the shared connection of a credentials entry.
// *Handle is the production implementation.
type Connector interface {
	Conn(ctx context.Context) (adapter.Adapter, error)
	Writer(ctx context.Context) (*tablewriter.Writer, error)
}

// Error wraps a failed data set operation with the data set name.
type Error struct {
	Dataset string
	Op      string // "load" or "save"
	Err     error
}

func (e *Error) Error() string {
	verb := "loading data from"
	if e.Op == "save" {
		verb = "saving data to"
	}
	return fmt.Sprintf("failed while %s data set %q: %v", verb, e.Dataset, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// LimitLoader is implemented by data sets that can read a bounded number
// of rows without reading everything first.
type LimitLoader interface {
	LoadLimit(ctx context.Context, limit int) (any, error)
}
