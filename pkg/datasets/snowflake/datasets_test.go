package snowflake

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/sfcatalog/internal/testutil"
	"github.com/leapstack-labs/sfcatalog/pkg/adapter"
	"github.com/leapstack-labs/sfcatalog/pkg/core"
	"github.com/leapstack-labs/sfcatalog/pkg/dataset"
	"github.com/leapstack-labs/sfcatalog/pkg/frame"
	"github.com/leapstack-labs/sfcatalog/pkg/tablewriter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConnector serves a single FakeAdapter.
type fakeConnector struct {
	fake   *testutil.FakeAdapter
	writer *tablewriter.Writer
	err    error
}

func newFakeConnector(t *testing.T) *fakeConnector {
	t.Helper()
	fake := &testutil.FakeAdapter{}
	return &fakeConnector{fake: fake, writer: tablewriter.New(fake, testutil.NewTestLogger(t))}
}

func (c *fakeConnector) Conn(context.Context) (adapter.Adapter, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.fake, nil
}

func (c *fakeConnector) Writer(context.Context) (*tablewriter.Writer, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.writer, nil
}

// withMockDB attaches a sqlmock query backend to the connector's adapter.
func (c *fakeConnector) withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	c.fake.DB = db
	return mock
}

func ordersFrame() *frame.Frame {
	return frame.New(
		[]frame.Column{{Name: "id", Type: frame.TypeInt64}, {Name: "name", Type: frame.TypeObject}},
		[][]any{{int64(1), "a"}, {int64(2), "b"}},
	)
}

func TestNewTableDataset_Validation(t *testing.T) {
	conn := newFakeConnector(t)

	tests := []struct {
		name      string
		cfg       TableConfig
		wantField string
	}{
		{"missing table", TableConfig{TargetTable: core.TargetTable{Database: "D", Schema: "S"}}, "table_name"},
		{"missing schema", TableConfig{TargetTable: core.TargetTable{Database: "D", Name: "T"}}, "schema"},
		{"missing database", TableConfig{TargetTable: core.TargetTable{Schema: "S", Name: "T"}}, "database"},
		{"bad if_exists", TableConfig{TargetTable: core.TargetTable{Database: "D", Schema: "S", Name: "T"}, SaveArgs: SaveArgs{IfExists: "upsert"}}, "if_exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTableDataset("orders", tt.cfg, conn, nil)
			var cfgErr *core.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantField, cfgErr.Field)
			assert.Equal(t, "orders", cfgErr.Dataset)
		})
	}
}

func TestTableDataset_Save(t *testing.T) {
	conn := newFakeConnector(t)
	ds, err := NewTableDataset("orders", TableConfig{
		TargetTable: core.TargetTable{Database: "D", Schema: "S", Name: "T!"},
		SaveArgs:    SaveArgs{IfExists: "replace"},
	}, conn, testutil.NewTestLogger(t))
	require.NoError(t, err)

	f := ordersFrame()
	require.NoError(t, ds.Save(context.Background(), f))

	assert.Equal(t, []string{
		`CREATE DATABASE IF NOT EXISTS "D"`,
		`CREATE SCHEMA IF NOT EXISTS "D"."S"`,
		`CREATE OR REPLACE TABLE "D"."S"."T" ( "id" int, "name" varchar(16777216) )`,
		`USE DATABASE "D"`,
		`USE SCHEMA "D"."S"`,
	}, conn.fake.Statements())

	loads := conn.fake.Loads()
	require.Len(t, loads, 1)
	assert.Equal(t, "T", loads[0].Table)
	assert.Equal(t, 2, loads[0].Frame.Len())
}

func TestTableDataset_Save_DefaultsToCreateIfAbsent(t *testing.T) {
	conn := newFakeConnector(t)
	ds, err := NewTableDataset("orders", TableConfig{
		TargetTable: core.TargetTable{Database: "D", Schema: "S", Name: "T"},
	}, conn, nil)
	require.NoError(t, err)

	require.NoError(t, ds.Save(context.Background(), ordersFrame()))
	assert.Contains(t, conn.fake.Statements()[2], "CREATE TABLE IF NOT EXISTS")
}

func TestTableDataset_Save_IncompleteLoad(t *testing.T) {
	conn := newFakeConnector(t)
	conn.fake.Result = &core.LoadResult{Success: false, Chunks: 1}
	ds, err := NewTableDataset("orders", TableConfig{
		TargetTable: core.TargetTable{Database: "D", Schema: "S", Name: "T"},
	}, conn, nil)
	require.NoError(t, err)

	err = ds.Save(context.Background(), ordersFrame())
	var execErr *core.ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "save", execErr.Op)
	assert.ErrorIs(t, err, ErrIncompleteLoad)
}

func TestTableDataset_Save_DDLFailure(t *testing.T) {
	conn := newFakeConnector(t)
	denied := errors.New("SQL access control error")
	conn.fake.ExecErr = map[string]error{`CREATE DATABASE IF NOT EXISTS "D"`: denied}
	ds, err := NewTableDataset("orders", TableConfig{
		TargetTable: core.TargetTable{Database: "D", Schema: "S", Name: "T"},
	}, conn, nil)
	require.NoError(t, err)

	err = ds.Save(context.Background(), ordersFrame())
	var execErr *core.ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, 0, execErr.Statement)
	assert.ErrorIs(t, err, denied)
	assert.Empty(t, conn.fake.Loads())
}

func TestTableDataset_Save_WrongType(t *testing.T) {
	ds, err := NewTableDataset("orders", TableConfig{
		TargetTable: core.TargetTable{Database: "D", Schema: "S", Name: "T"},
	}, newFakeConnector(t), nil)
	require.NoError(t, err)

	err = ds.Save(context.Background(), []map[string]any{{"id": 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected *frame.Frame")
}

func TestTableDataset_Save_ConnectionError(t *testing.T) {
	conn := newFakeConnector(t)
	conn.err = &core.ConnectionError{Code: 250001, Message: "Could not connect to Snowflake backend"}
	ds, err := NewTableDataset("orders", TableConfig{
		TargetTable: core.TargetTable{Database: "D", Schema: "S", Name: "T"},
	}, conn, nil)
	require.NoError(t, err)

	err = ds.Save(context.Background(), ordersFrame())
	var connErr *core.ConnectionError
	assert.True(t, errors.As(err, &connErr))
}

func TestTableDataset_Load(t *testing.T) {
	conn := newFakeConnector(t)
	mock := conn.withMockDB(t)
	mock.ExpectQuery(`SELECT * FROM "RAW"."LANDING"."ORDERS"`).WillReturnRows(
		sqlmock.NewRows([]string{"ID", "NAME"}).AddRow(1, "a").AddRow(2, "b"))

	ds, err := NewTableDataset("orders", TableConfig{
		TargetTable: core.TargetTable{Database: "RAW", Schema: "LANDING", Name: "ORDERS"},
	}, conn, nil)
	require.NoError(t, err)

	got, err := ds.Load(context.Background())
	require.NoError(t, err)

	f, ok := got.(*frame.Frame)
	require.True(t, ok)
	assert.Equal(t, []string{"ID", "NAME"}, f.ColumnNames())
	assert.Equal(t, 2, f.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableDataset_Load_EmptyIsNotAnError(t *testing.T) {
	conn := newFakeConnector(t)
	mock := conn.withMockDB(t)
	mock.ExpectQuery(`SELECT * FROM "D"."S"."T"`).WillReturnRows(sqlmock.NewRows([]string{"ID"}))

	ds, err := NewTableDataset("t", TableConfig{TargetTable: core.TargetTable{Database: "D", Schema: "S", Name: "T"}}, conn, nil)
	require.NoError(t, err)

	got, err := ds.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, got.(*frame.Frame).Len())
}

func TestTableDataset_Load_Failure(t *testing.T) {
	conn := newFakeConnector(t)
	mock := conn.withMockDB(t)
	mock.ExpectQuery(`SELECT * FROM (SELECT * FROM "D"."S"."T") LIMIT 5`).
		WillReturnError(errors.New("does not exist or not authorized"))

	ds, err := NewTableDataset("t", TableConfig{
		TargetTable: core.TargetTable{Database: "D", Schema: "S", Name: "T"},
		LoadArgs:    LoadArgs{Limit: 5},
	}, conn, nil)
	require.NoError(t, err)

	got, err := ds.Load(context.Background())
	assert.Nil(t, got)
	var execErr *core.ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "load", execErr.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableDataset_PlanAndDescribe(t *testing.T) {
	ds, err := NewTableDataset("orders", TableConfig{
		TargetTable: core.TargetTable{Database: "D", Schema: "S", Name: "T!"},
		Credentials: "dev",
		SaveArgs:    SaveArgs{IfExists: "replace"},
	}, newFakeConnector(t), nil)
	require.NoError(t, err)

	plan := ds.Plan(ordersFrame())
	assert.Equal(t, `CREATE OR REPLACE TABLE "D"."S"."T" ( "id" int, "name" varchar(16777216) )`, plan.Table)

	assert.NotPanics(t, func() {
		plan = ds.Plan(nil)
	})
	assert.Equal(t, `CREATE DATABASE IF NOT EXISTS "D"`, plan.Database)

	assert.Equal(t, map[string]any{
		"table_name":  "T!",
		"schema":      "S",
		"database":    "D",
		"credentials": "dev",
		"save_args":   map[string]any{"if_exists": "replace"},
	}, ds.Describe())
}

func TestQueryDataset(t *testing.T) {
	conn := newFakeConnector(t)
	mock := conn.withMockDB(t)
	mock.ExpectQuery("SELECT 1 AS ONE").WillReturnRows(sqlmock.NewRows([]string{"ONE"}).AddRow(1))

	ds, err := NewQueryDataset("one", QueryConfig{SQL: "SELECT 1 AS ONE", Credentials: "dev"}, conn, testutil.NewTestLogger(t))
	require.NoError(t, err)

	got, err := ds.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(1)}}, got.(*frame.Frame).Rows)

	// read-only
	assert.NoError(t, ds.Save(context.Background(), ordersFrame()))
	assert.Empty(t, conn.fake.Loads())

	assert.Equal(t, map[string]any{"sql": "SELECT 1 AS ONE", "credentials": "dev"}, ds.Describe())
}

func TestQueryDataset_Validation(t *testing.T) {
	_, err := NewQueryDataset("q", QueryConfig{SQL: "  "}, newFakeConnector(t), nil)
	var cfgErr *core.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "sql", cfgErr.Field)

	_, err = NewQueryDataset("q", QueryConfig{SQL: "SELECT 1"}, nil, nil)
	assert.Error(t, err)
}

func TestWithLimit(t *testing.T) {
	assert.Equal(t, "SELECT 1", withLimit("SELECT 1", 0))
	assert.Equal(t, "SELECT * FROM (SELECT a FROM t) LIMIT 10", withLimit("SELECT a FROM t;", 10))
}

func TestSessionDataset(t *testing.T) {
	conn := newFakeConnector(t)
	ds, err := NewSessionDataset("session", SessionConfig{Credentials: "dev"}, conn)
	require.NoError(t, err)

	got, err := ds.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, conn.fake, got)

	assert.NoError(t, ds.Save(context.Background(), nil))
	assert.Equal(t, map[string]any{"credentials": "dev"}, ds.Describe())

	_, err = NewSessionDataset("session", SessionConfig{}, nil)
	assert.Error(t, err)
}

func TestFactories(t *testing.T) {
	pool := dataset.NewPool(map[string]core.AdapterConfig{
		"dev":     {Type: "snowflake", Account: "acct", User: "u", Password: "pw"},
		"no_user": {Type: "snowflake", Account: "acct"},
	}, nil)
	env := dataset.Env{Pool: pool, Logger: testutil.NewTestLogger(t)}

	t.Run("table", func(t *testing.T) {
		ds, err := dataset.New(TypeTable, "orders", map[string]any{
			"table_name":  "ORDERS",
			"schema":      "LANDING",
			"database":    "RAW",
			"credentials": "dev",
			"save_args":   map[string]any{"if_exists": "replace"},
		}, env)
		require.NoError(t, err)
		assert.IsType(t, &TableDataset{}, ds)
		assert.Equal(t, "ORDERS", ds.Describe()["table_name"])
	})

	t.Run("table missing name", func(t *testing.T) {
		_, err := dataset.New(TypeTable, "orders", map[string]any{
			"schema":      "LANDING",
			"database":    "RAW",
			"credentials": "dev",
		}, env)
		var cfgErr *core.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "table_name", cfgErr.Field)
	})

	t.Run("query without user", func(t *testing.T) {
		_, err := dataset.New(TypeQuery, "q", map[string]any{
			"sql":         "SELECT 1",
			"credentials": "no_user",
		}, env)
		var cfgErr *core.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Contains(t, err.Error(), "'user', 'password', and 'account' must be passed")
	})

	t.Run("query without sql", func(t *testing.T) {
		_, err := dataset.New(TypeQuery, "q", map[string]any{"credentials": "dev"}, env)
		var cfgErr *core.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "sql", cfgErr.Field)
	})

	t.Run("session shares the handle", func(t *testing.T) {
		ds, err := dataset.New(TypeSession, "session", map[string]any{"credentials": "dev"}, env)
		require.NoError(t, err)
		h, err := pool.Handle("dev")
		require.NoError(t, err)
		assert.Same(t, h, ds.(*SessionDataset).conn)
	})

	t.Run("unknown argument", func(t *testing.T) {
		_, err := dataset.New(TypeSession, "session", map[string]any{"credentials": "dev", "warehouse": "X"}, env)
		var cfgErr *core.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr))
	})
}

func TestQueryDataset_LoadLimit(t *testing.T) {
	conn := newFakeConnector(t)
	mock := conn.withMockDB(t)
	mock.ExpectQuery("SELECT * FROM (SELECT a FROM t) LIMIT 3").
		WillReturnRows(sqlmock.NewRows([]string{"A"}).AddRow("x"))

	ds, err := NewQueryDataset("q", QueryConfig{SQL: "SELECT a FROM t"}, conn, nil)
	require.NoError(t, err)

	var _ dataset.LimitLoader = ds
	got, err := ds.LoadLimit(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, got.(*frame.Frame).Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}
