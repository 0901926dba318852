package testutil

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/leapstack-labs/sfcatalog/pkg/core"
	"github.com/leapstack-labs/sfcatalog/pkg/frame"
)

// FakeAdapter is an in-memory warehouse adapter. It records executed
// statements and bulk loads; queries are served by DB when set, usually
// a sqlmock connection.
type FakeAdapter struct {
	DB *sql.DB

	ConnectErr error
	ExecErr    map[string]error
	LoadErr    error
	Result     *core.LoadResult

	mu         sync.Mutex
	cfg        core.AdapterConfig
	connects   int
	closed     bool
	statements []string
	loads      []Load
}

// Load is one recorded BulkLoad call.
type Load struct {
	Table string
	Frame *frame.Frame
}

// Connect records the config and fails with ConnectErr when set.
func (a *FakeAdapter) Connect(_ context.Context, cfg core.AdapterConfig) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connects++
	if a.ConnectErr != nil {
		return a.ConnectErr
	}
	a.cfg = cfg
	return nil
}

// Close marks the adapter closed.
func (a *FakeAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

// Exec records sql and returns the configured error for it, if any.
func (a *FakeAdapter) Exec(_ context.Context, sql string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.statements = append(a.statements, sql)
	return a.ExecErr[sql]
}

// Query runs sql against DB.
func (a *FakeAdapter) Query(ctx context.Context, sql string) (*core.Rows, error) {
	if a.DB == nil {
		return nil, errors.New("fake adapter has no query backend")
	}
	a.mu.Lock()
	a.statements = append(a.statements, sql)
	a.mu.Unlock()

	rows, err := a.DB.QueryContext(ctx, sql)
	if err != nil {
		return nil, err
	}
	return &core.Rows{Rows: rows}, nil
}

// QueryFrame runs sql against DB and reads the result into a frame.
func (a *FakeAdapter) QueryFrame(ctx context.Context, sql string) (*frame.Frame, error) {
	rows, err := a.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return frame.FromRows(rows.Rows)
}

// BulkLoad records the load and returns Result, or a successful result
// covering every row.
func (a *FakeAdapter) BulkLoad(_ context.Context, f *frame.Frame, table string) (*core.LoadResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loads = append(a.loads, Load{Table: table, Frame: f})
	if a.LoadErr != nil {
		return nil, a.LoadErr
	}
	if a.Result != nil {
		return a.Result, nil
	}
	return &core.LoadResult{Success: true, Chunks: 1, Rows: int64(f.Len())}, nil
}

// DialectName returns "snowflake".
func (a *FakeAdapter) DialectName() string { return "snowflake" }

// Statements returns the executed statements in order.
func (a *FakeAdapter) Statements() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.statements...)
}

// Loads returns the recorded bulk loads.
func (a *FakeAdapter) Loads() []Load {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Load(nil), a.loads...)
}

// Connects returns how many times Connect was called.
func (a *FakeAdapter) Connects() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connects
}

// Closed reports whether Close was called.
func (a *FakeAdapter) Closed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

// Config returns the config passed to the last successful Connect.
func (a *FakeAdapter) Config() core.AdapterConfig {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}
