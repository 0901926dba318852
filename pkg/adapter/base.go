package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sfcatalog/pkg/core"
	"github.com/leapstack-labs/sfcatalog/pkg/frame"
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, Query and QueryFrame implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.AdapterConfig
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing warehouse connection", "account", b.Cfg.Account)
		}
		return b.DB.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	_, err := b.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a SQL statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string) (*core.Rows, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return &core.Rows{Rows: rows}, nil
}

// QueryFrame executes a query and reads every row into a frame.
func (b *BaseSQLAdapter) QueryFrame(ctx context.Context, sqlStr string) (*frame.Frame, error) {
	rows, err := b.Query(ctx, sqlStr)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	f, err := frame.FromRows(rows.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read query result: %w", err)
	}
	return f, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// Describe summarizes the connection. The password is masked.
func (b *BaseSQLAdapter) Describe() map[string]any {
	cfg := b.Cfg.Redacted()
	desc := map[string]any{
		"type":      cfg.Type,
		"account":   cfg.Account,
		"user":      cfg.User,
		"warehouse": cfg.Warehouse,
		"database":  cfg.Database,
		"schema":    cfg.Schema,
		"role":      cfg.Role,
		"connected": b.IsConnected(),
	}
	if cfg.Password != "" {
		desc["password"] = cfg.Password
	}
	return desc
}
