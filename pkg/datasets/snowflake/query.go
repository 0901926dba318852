package snowflake

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/sfcatalog/pkg/core"
	"github.com/leapstack-labs/sfcatalog/pkg/dataset"
)

// LoadArgs are optional load settings.
type LoadArgs struct {
	// Limit caps the number of rows read; zero reads everything.
	Limit int `mapstructure:"limit"`
}

// QueryConfig configures a QueryDataset.
type QueryConfig struct {
	SQL         string   `mapstructure:"sql"`
	Credentials string   `mapstructure:"credentials"`
	LoadArgs    LoadArgs `mapstructure:"load_args"`
}

// QueryDataset loads the result of a SQL query. It is read-only.
type QueryDataset struct {
	name   string
	cfg    QueryConfig
	conn   dataset.Connector
	logger *slog.Logger
}

// NewQueryDataset creates a query data set.
func NewQueryDataset(name string, cfg QueryConfig, conn dataset.Connector, logger *slog.Logger) (*QueryDataset, error) {
	if strings.TrimSpace(cfg.SQL) == "" {
		return nil, &core.ConfigurationError{Dataset: name, Field: "sql"}
	}
	if conn == nil {
		return nil, fmt.Errorf("query data set %q requires a connection", name)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &QueryDataset{name: name, cfg: cfg, conn: conn, logger: logger}, nil
}

// Load runs the query and returns a *frame.Frame.
func (d *QueryDataset) Load(ctx context.Context) (any, error) {
	return d.LoadLimit(ctx, d.cfg.LoadArgs.Limit)
}

// LoadLimit runs the query reading at most limit rows; zero reads everything.
func (d *QueryDataset) LoadLimit(ctx context.Context, limit int) (any, error) {
	conn, err := d.conn.Conn(ctx)
	if err != nil {
		return nil, err
	}
	query := withLimit(d.cfg.SQL, limit)
	d.logger.Debug("running query", slog.String("dataset", d.name), slog.String("sql", query))

	f, err := conn.QueryFrame(ctx, query)
	if err != nil {
		return nil, &core.ExecutionError{Op: "load", Statement: -1, SQL: query, Err: err}
	}
	return f, nil
}

// Save does nothing; query data sets are read-only.
func (d *QueryDataset) Save(context.Context, any) error {
	d.logger.Debug("ignoring save to read-only data set", slog.String("dataset", d.name))
	return nil
}

// Describe returns the query and the credentials entry name.
func (d *QueryDataset) Describe() map[string]any {
	desc := map[string]any{
		"sql":         d.cfg.SQL,
		"credentials": d.cfg.Credentials,
	}
	if d.cfg.LoadArgs.Limit > 0 {
		desc["load_args"] = map[string]any{"limit": d.cfg.LoadArgs.Limit}
	}
	return desc
}

// withLimit wraps query in a LIMIT when limit is positive.
func withLimit(query string, limit int) string {
	if limit <= 0 {
		return query
	}
	query = strings.TrimRight(strings.TrimSpace(query), ";")
	return fmt.Sprintf("SELECT * FROM (%s) LIMIT %d", query, limit)
}

func newQueryDataset(name string, args map[string]any, env dataset.Env) (dataset.Dataset, error) {
	var cfg QueryConfig
	if err := dataset.Decode(name, args, &cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.SQL) == "" {
		return nil, &core.ConfigurationError{Dataset: name, Field: "sql"}
	}
	conn, err := env.Connector(cfg.Credentials)
	if err != nil {
		return nil, dataset.Attribute(name, err)
	}
	return NewQueryDataset(name, cfg, conn, env.Logger)
}
