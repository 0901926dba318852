package tablewriter

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/sfcatalog/pkg/core"
	"github.com/leapstack-labs/sfcatalog/pkg/dialects/snowflake"
	"github.com/leapstack-labs/sfcatalog/pkg/frame"
)

var errNoFrame = errors.New("no frame to write")

// Conn is the part of a warehouse connection the writer needs.
type Conn interface {
	Exec(ctx context.Context, sql string) error
	BulkLoad(ctx context.Context, f *frame.Frame, table string) (*core.LoadResult, error)
}

// Writer creates and loads tables over a single connection.
// Calls to Write are serialized.
type Writer struct {
	conn   Conn
	logger *slog.Logger
	mu     sync.Mutex
}

// New creates a writer for conn.
func New(conn Conn, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{conn: conn, logger: logger}
}

// Write validates table, ensures it exists and bulk loads f into it.
func (w *Writer) Write(ctx context.Context, table core.TargetTable, f *frame.Frame, ifExists IfExists) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := table.Validate(); err != nil {
		return false, err
	}
	if f == nil {
		return false, errNoFrame
	}

	for _, c := range f.Columns {
		if !IsMapped(c.Type) {
			w.logger.Debug("column type not mapped, using default",
				"column", c.Name, "type", c.Type, "default", DefaultType)
		}
	}

	if err := w.ExecuteCreatePlan(ctx, BuildCreatePlan(table, f.Columns, ifExists)); err != nil {
		return false, err
	}
	return w.BulkWrite(ctx, table, f)
}

// ExecuteCreatePlan runs the plan's statements in order and stops at the
// first failure. Statements that already ran are not undone.
func (w *Writer) ExecuteCreatePlan(ctx context.Context, plan CreatePlan) error {
	for i, stmt := range plan.Statements() {
		w.logger.Debug("executing DDL", "statement", i, "sql", stmt)
		if err := w.conn.Exec(ctx, stmt); err != nil {
			return &core.ExecutionError{Op: "create", Statement: i, SQL: stmt, Err: err}
		}
	}
	return nil
}

// BulkWrite switches the session to the table's database and schema and
// loads a copy of f with sanitized column names. It reports only whether
// the load succeeded.
func (w *Writer) BulkWrite(ctx context.Context, table core.TargetTable, f *frame.Frame) (bool, error) {
	if f == nil {
		return false, errNoFrame
	}

	db := SanitizeIdentifier(table.Database)
	schema := SanitizeIdentifier(table.Schema)

	for _, use := range []struct{ op, sql string }{
		{"use database", "USE DATABASE " + snowflake.QuoteIdentifier(db)},
		{"use schema", "USE SCHEMA " + snowflake.QualifiedName(db, schema)},
	} {
		if err := w.conn.Exec(ctx, use.sql); err != nil {
			return false, &core.ExecutionError{Op: use.op, Statement: -1, SQL: use.sql, Err: err}
		}
	}

	name := SanitizeIdentifier(table.Name)
	res, err := w.conn.BulkLoad(ctx, f.Rename(SanitizeIdentifier), name)
	if err != nil {
		return false, &core.ExecutionError{Op: "bulk_write", Statement: -1, Err: err}
	}
	if res == nil {
		return false, &core.ExecutionError{Op: "bulk_write", Statement: -1, Err: errors.New("loader returned no result")}
	}

	w.logger.Debug("bulk write finished",
		"table", table.String(),
		"success", res.Success,
		"chunks", res.Chunks,
		"rows", res.Rows)
	return res.Success, nil
}
