// Package snowflake provides a Snowflake warehouse adapter for sfcatalog.
package snowflake

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/sfcatalog/pkg/adapter"
	"github.com/leapstack-labs/sfcatalog/pkg/core"
	dialect "github.com/leapstack-labs/sfcatalog/pkg/dialects/snowflake"
	sf "github.com/snowflakedb/gosnowflake"
)

// Adapter implements the adapter.Adapter interface for Snowflake.
type Adapter struct {
	adapter.BaseSQLAdapter
	params Params

	// stageName returns the name of a new temporary stage
	stageName func() string
}

// New creates a new Snowflake adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
		params:         Params{ChunkSize: DefaultChunkSize, Parallel: DefaultParallel},
		stageName:      newStageName,
	}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return dialect.Config.Name
}

// Connect establishes a connection to Snowflake.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}

	dsn, err := buildDSN(cfg, params)
	if err != nil {
		return err
	}

	a.Logger.Debug("connecting to snowflake",
		slog.String("account", cfg.Account),
		slog.String("user", cfg.User),
		slog.String("warehouse", cfg.Warehouse),
		slog.String("role", cfg.Role))

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return translateError(err)
	}

	// USE statements and temporary stages live in the session
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		connErr := translateError(err)
		a.Logger.Error("snowflake connection failed",
			slog.Int("code", connErr.Code),
			slog.String("sqlstate", connErr.SQLState),
			slog.String("message", connErr.Message),
			slog.String("query_id", connErr.QueryID))
		return connErr
	}

	a.DB = db
	a.Cfg = cfg
	a.params = params
	return nil
}

// buildDSN constructs a gosnowflake DSN from credentials.
func buildDSN(cfg adapter.Config, params Params) (string, error) {
	sfParams := make(map[string]*string, len(cfg.Options)+1)
	for k, v := range cfg.Options {
		sfParams[k] = &v
	}
	if params.QueryTag != "" {
		tag := params.QueryTag
		sfParams["query_tag"] = &tag
	}

	dsn, err := sf.DSN(&sf.Config{
		Account:      cfg.Account,
		User:         cfg.User,
		Password:     cfg.Password,
		Host:         cfg.Host,
		Port:         cfg.Port,
		Database:     cfg.Database,
		Schema:       cfg.Schema,
		Warehouse:    cfg.Warehouse,
		Role:         cfg.Role,
		LoginTimeout: params.LoginTimeout,
		Params:       sfParams,
	})
	if err != nil {
		return "", &core.ConfigurationError{
			Field:  "credentials",
			Reason: "invalid snowflake credentials: " + err.Error(),
		}
	}
	return dsn, nil
}

// translateError turns driver errors into a ConnectionError carrying the
// Snowflake error code, SQL state, message and query id when available.
func translateError(err error) *core.ConnectionError {
	var sfErr *sf.SnowflakeError
	if errors.As(err, &sfErr) {
		return &core.ConnectionError{
			Code:     sfErr.Number,
			SQLState: sfErr.SQLState,
			Message:  sfErr.Message,
			QueryID:  sfErr.QueryID,
			Err:      err,
		}
	}
	return &core.ConnectionError{Message: err.Error(), Err: err}
}

func newStageName() string {
	return "SFCATALOG_STAGE_" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
