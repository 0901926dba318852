package catalog

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/sfcatalog/internal/config"
	"github.com/leapstack-labs/sfcatalog/internal/testutil"
	"github.com/leapstack-labs/sfcatalog/pkg/adapter"
	"github.com/leapstack-labs/sfcatalog/pkg/core"
	"github.com/leapstack-labs/sfcatalog/pkg/dataset"
	"github.com/leapstack-labs/sfcatalog/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *config.Catalog {
	return &config.Catalog{
		Datasets: map[string]config.DatasetConfig{
			"orders": {
				"type":        "snowflake.TableDataset",
				"table_name":  "ORDERS",
				"schema":      "LANDING",
				"database":    "RAW",
				"credentials": "dev",
				"save_args":   map[string]any{"if_exists": "replace"},
			},
			"recent_orders": {
				"type":        "snowflake.QueryDataset",
				"sql":         "SELECT ID FROM RAW.LANDING.ORDERS",
				"credentials": "dev",
			},
			"orders_ref": {
				"type":       "dummies.TableNameDataset",
				"table_name": "ORDERS",
				"schema":     "LANDING",
				"database":   "RAW",
			},
		},
		Credentials: map[string]core.AdapterConfig{
			"dev": {Type: "snowflake", Account: "xy12345", User: "loader", Password: "pw"},
		},
	}
}

// newTestCatalog builds a catalog whose connections are a single shared fake.
func newTestCatalog(t *testing.T) (*Catalog, *testutil.FakeAdapter) {
	t.Helper()
	fake := &testutil.FakeAdapter{}
	c, err := New(Config{
		Catalog: testCatalog(),
		Logger:  testutil.NewTestLogger(t),
		AdapterFactory: func(core.AdapterConfig, *slog.Logger) (adapter.Adapter, error) {
			return fake, nil
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, fake
}

func sampleFrame() *frame.Frame {
	return frame.New(
		[]frame.Column{{Name: "id", Type: frame.TypeInt64}, {Name: "name", Type: frame.TypeObject}},
		[][]any{{int64(1), "a"}, {int64(2), "b"}, {int64(3), "c"}},
	)
}

func TestNew_List(t *testing.T) {
	c, fake := newTestCatalog(t)

	entries := c.List()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"orders", "orders_ref", "recent_orders"}, names)
	assert.Equal(t, "dummies.TableNameDataset", entries[1].Type)

	// connections are lazy
	assert.Zero(t, fake.Connects())
}

func TestNew_AggregatesErrors(t *testing.T) {
	cfg := &config.Catalog{
		Datasets: map[string]config.DatasetConfig{
			"no_table":  {"type": "snowflake.TableDataset", "schema": "S", "database": "D", "credentials": "dev"},
			"no_sproc":  {"type": "dummies.SprocNameDataset"},
			"bad_type":  {"type": "parquet.ParquetDataset"},
			"good_name": {"type": "dummies.SprocNameDataset", "sproc_name": "P"},
		},
		Credentials: map[string]core.AdapterConfig{"dev": {Type: "snowflake", User: "u"}},
	}

	_, err := New(Config{Catalog: cfg})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "'table_name' argument cannot be empty.")
	assert.Contains(t, msg, "'sproc_name' argument cannot be empty.")
	assert.Contains(t, msg, "parquet.ParquetDataset")
	assert.NotContains(t, msg, "good_name")

	var unknown *dataset.UnknownTypeError
	assert.True(t, errors.As(err, &unknown))
}

func TestNew_MissingUser(t *testing.T) {
	cfg := &config.Catalog{
		Datasets: map[string]config.DatasetConfig{
			"q": {"type": "snowflake.QueryDataset", "sql": "SELECT 1", "credentials": "dev"},
		},
		Credentials: map[string]core.AdapterConfig{"dev": {Type: "snowflake", Account: "a"}},
	}

	_, err := New(Config{Catalog: cfg})
	var cfgErr *core.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "'user', 'password', and 'account' must be passed")
}

func TestNew_Empty(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)
	assert.Empty(t, c.List())
	assert.NoError(t, c.Close())
}

func TestDescribe(t *testing.T) {
	c, _ := newTestCatalog(t)

	desc, err := c.Describe("orders")
	require.NoError(t, err)
	assert.Equal(t, "snowflake.TableDataset", desc["type"])
	assert.Equal(t, "ORDERS", desc["table_name"])
	assert.Equal(t, map[string]any{"if_exists": "replace"}, desc["save_args"])

	_, err = c.Describe("missing")
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, []string{"orders", "orders_ref", "recent_orders"}, notFound.Available)
	assert.Contains(t, err.Error(), "catalog.yaml")
}

func TestLoad_Dummy(t *testing.T) {
	c, fake := newTestCatalog(t)

	got, err := c.Load(context.Background(), "orders_ref")
	require.NoError(t, err)
	assert.Equal(t, "RAW.LANDING.ORDERS", got)
	assert.Zero(t, fake.Connects())
}

func TestLoadLimit_Query(t *testing.T) {
	c, fake := newTestCatalog(t)
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	fake.DB = db

	mock.ExpectQuery("SELECT * FROM (SELECT ID FROM RAW.LANDING.ORDERS) LIMIT 2").
		WillReturnRows(sqlmock.NewRows([]string{"ID"}).AddRow(1).AddRow(2))

	got, err := c.LoadLimit(context.Background(), "recent_orders", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, got.(*frame.Frame).Len())
	assert.Equal(t, 1, fake.Connects())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_FailureIsWrapped(t *testing.T) {
	c, fake := newTestCatalog(t)
	fake.ConnectErr = &core.ConnectionError{Code: 390100, SQLState: "08004", Message: "Incorrect username or password was specified."}

	_, err := c.Load(context.Background(), "recent_orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed while loading data from data set "recent_orders"`)

	var dsErr *dataset.Error
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, "load", dsErr.Op)

	var connErr *core.ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, 390100, connErr.Code)
}

func TestSave(t *testing.T) {
	c, fake := newTestCatalog(t)

	require.NoError(t, c.Save(context.Background(), "orders", sampleFrame()))

	stmts := fake.Statements()
	require.Len(t, stmts, 5)
	assert.Equal(t, `CREATE OR REPLACE TABLE "RAW"."LANDING"."ORDERS" ( "id" int, "name" varchar(16777216) )`, stmts[2])
	require.Len(t, fake.Loads(), 1)
	assert.Equal(t, "ORDERS", fake.Loads()[0].Table)
}

func TestSave_FailureIsWrapped(t *testing.T) {
	c, fake := newTestCatalog(t)
	fake.LoadErr = errors.New("stage upload failed")

	err := c.Save(context.Background(), "orders", sampleFrame())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed while saving data to data set "orders"`)

	var execErr *core.ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "bulk_write", execErr.Op)
}

func TestSave_ReadOnlyIsNoop(t *testing.T) {
	c, fake := newTestCatalog(t)
	require.NoError(t, c.Save(context.Background(), "recent_orders", sampleFrame()))
	assert.Empty(t, fake.Loads())
}

func TestPlan(t *testing.T) {
	c, fake := newTestCatalog(t)

	plan, err := c.Plan("orders", sampleFrame())
	require.NoError(t, err)
	assert.Equal(t, []string{
		`CREATE DATABASE IF NOT EXISTS "RAW"`,
		`CREATE SCHEMA IF NOT EXISTS "RAW"."LANDING"`,
		`CREATE OR REPLACE TABLE "RAW"."LANDING"."ORDERS" ( "id" int, "name" varchar(16777216) )`,
	}, plan.Statements())
	assert.Empty(t, fake.Statements())

	_, err = c.Plan("orders_ref", sampleFrame())
	assert.ErrorContains(t, err, "does not create tables")

	_, err = c.Plan("orders", nil)
	assert.ErrorContains(t, err, "no frame to plan")
}

func TestClose(t *testing.T) {
	c, fake := newTestCatalog(t)
	_, err := c.Load(context.Background(), "recent_orders")
	require.Error(t, err) // no query backend on the fake

	require.NoError(t, c.Close())
	assert.True(t, fake.Closed())
}

func TestPing(t *testing.T) {
	c, fake := newTestCatalog(t)

	assert.Equal(t, []string{"dev"}, c.Credentials())
	require.NoError(t, c.Ping(context.Background(), "dev"))
	assert.Equal(t, []string{pingStatement}, fake.Statements())

	fake.ExecErr = map[string]error{pingStatement: errors.New("warehouse suspended")}
	err := c.Ping(context.Background(), "dev")
	assert.ErrorContains(t, err, "warehouse suspended")

	var cfgErr *core.ConfigurationError
	assert.ErrorAs(t, c.Ping(context.Background(), "prod"), &cfgErr)
}

func TestQuery(t *testing.T) {
	c, fake := newTestCatalog(t)
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	fake.DB = db

	mock.ExpectQuery("SELECT CURRENT_WAREHOUSE() AS WH").
		WillReturnRows(sqlmock.NewRows([]string{"WH"}).AddRow("LOAD_WH"))

	f, err := c.Query(context.Background(), "dev", "SELECT CURRENT_WAREHOUSE() AS WH")
	require.NoError(t, err)
	assert.Equal(t, []string{"WH"}, f.ColumnNames())
	assert.Equal(t, "LOAD_WH", f.Rows[0][0])
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = c.Query(context.Background(), "prod", "SELECT 1")
	assert.Error(t, err)
}
