package tablewriter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leapstack-labs/sfcatalog/pkg/core"
	"github.com/leapstack-labs/sfcatalog/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCreatePlan(t *testing.T) {
	table := core.TargetTable{Database: "D", Schema: "S", Name: "T!"}
	columns := []frame.Column{{Name: "id", Type: "int64"}, {Name: "name", Type: "object"}}

	tests := []struct {
		name     string
		ifExists IfExists
		want     CreatePlan
	}{
		{
			name:     "create if absent",
			ifExists: IfExistsFail,
			want: CreatePlan{
				Database: `CREATE DATABASE IF NOT EXISTS "D"`,
				Schema:   `CREATE SCHEMA IF NOT EXISTS "D"."S"`,
				Table:    `CREATE TABLE IF NOT EXISTS "D"."S"."T" ( "id" int, "name" varchar(16777216) )`,
			},
		},
		{
			name:     "append creates if absent",
			ifExists: IfExistsAppend,
			want: CreatePlan{
				Database: `CREATE DATABASE IF NOT EXISTS "D"`,
				Schema:   `CREATE SCHEMA IF NOT EXISTS "D"."S"`,
				Table:    `CREATE TABLE IF NOT EXISTS "D"."S"."T" ( "id" int, "name" varchar(16777216) )`,
			},
		},
		{
			name:     "replace",
			ifExists: IfExistsReplace,
			want: CreatePlan{
				Database: `CREATE DATABASE IF NOT EXISTS "D"`,
				Schema:   `CREATE SCHEMA IF NOT EXISTS "D"."S"`,
				Table:    `CREATE OR REPLACE TABLE "D"."S"."T" ( "id" int, "name" varchar(16777216) )`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildCreatePlan(table, columns, tt.ifExists)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BuildCreatePlan() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildCreatePlan_SanitizesEveryIdentifier(t *testing.T) {
	table := core.TargetTable{Database: "my-db", Schema: "raw data", Name: "My Table-1!"}
	columns := []frame.Column{{Name: `col"; DROP`, Type: "bool"}, {Name: "at", Type: "datetime64[ns]"}, {Name: "x", Type: "float64"}}

	plan := BuildCreatePlan(table, columns, IfExistsReplace)

	assert.Equal(t, `CREATE DATABASE IF NOT EXISTS "mydb"`, plan.Database)
	assert.Equal(t, `CREATE SCHEMA IF NOT EXISTS "mydb"."rawdata"`, plan.Schema)
	assert.Equal(t,
		`CREATE OR REPLACE TABLE "mydb"."rawdata"."MyTable1" ( "colDROP" boolean, "at" datetime, "x" float8 )`,
		plan.Table)
}

func TestBuildCreatePlan_ZeroColumns(t *testing.T) {
	plan := BuildCreatePlan(core.TargetTable{Database: "D", Schema: "S", Name: "T"}, nil, IfExistsFail)

	stmts := plan.Statements()
	require.Len(t, stmts, 3)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "D"."S"."T" (  )`, stmts[2])
}

func TestCreatePlan_StatementOrder(t *testing.T) {
	plan := BuildCreatePlan(core.TargetTable{Database: "D", Schema: "S", Name: "T"},
		[]frame.Column{{Name: "a", Type: "int"}}, IfExistsFail)

	stmts := plan.Statements()
	require.Len(t, stmts, 3)
	assert.Contains(t, stmts[0], "CREATE DATABASE")
	assert.Contains(t, stmts[1], "CREATE SCHEMA")
	assert.Contains(t, stmts[2], "CREATE TABLE")
}

func TestBuildCreatePlan_Deterministic(t *testing.T) {
	table := core.TargetTable{Database: "D", Schema: "S", Name: "T"}
	columns := []frame.Column{{Name: "b", Type: "int"}, {Name: "a", Type: "object"}}

	first := BuildCreatePlan(table, columns, IfExistsFail)
	second := BuildCreatePlan(table, columns, IfExistsFail)
	assert.Equal(t, first, second)
	assert.Contains(t, first.Table, `( "b" int, "a" varchar(16777216) )`)
}

func TestParseIfExists(t *testing.T) {
	tests := []struct {
		in      string
		want    IfExists
		wantErr bool
	}{
		{"", IfExistsFail, false},
		{"fail", IfExistsFail, false},
		{"append", IfExistsAppend, false},
		{"replace", IfExistsReplace, false},
		{" Replace ", IfExistsReplace, false},
		{"truncate", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIfExists(tt.in)
			if tt.wantErr {
				var cfgErr *core.ConfigurationError
				require.True(t, errors.As(err, &cfgErr))
				assert.Equal(t, "if_exists", cfgErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
