package tablewriter

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sfcatalog/pkg/core"
	"github.com/leapstack-labs/sfcatalog/pkg/dialects/snowflake"
	"github.com/leapstack-labs/sfcatalog/pkg/frame"
)

// IfExists selects what happens when the target table already exists.
type IfExists string

// Supported IfExists values. Anything but IfExistsReplace keeps an
// existing table.
const (
	IfExistsFail    IfExists = "fail"
	IfExistsAppend  IfExists = "append"
	IfExistsReplace IfExists = "replace"
)

// ParseIfExists validates a configured if_exists value. Empty means fail.
func ParseIfExists(s string) (IfExists, error) {
	switch v := IfExists(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return IfExistsFail, nil
	case IfExistsFail, IfExistsAppend, IfExistsReplace:
		return v, nil
	}
	return "", &core.ConfigurationError{
		Field:  "if_exists",
		Reason: fmt.Sprintf("invalid if_exists value %q, expected one of: fail, append, replace", s),
	}
}

// CreatePlan holds the three DDL statements that prepare a target table.
type CreatePlan struct {
	Database string
	Schema   string
	Table    string
}

// Statements returns the statements in execution order.
func (p CreatePlan) Statements() []string {
	return []string{p.Database, p.Schema, p.Table}
}

// BuildCreatePlan builds the DDL for table with the given columns.
func BuildCreatePlan(table core.TargetTable, columns []frame.Column, ifExists IfExists) CreatePlan {
	db := SanitizeIdentifier(table.Database)
	schema := SanitizeIdentifier(table.Schema)
	name := SanitizeIdentifier(table.Name)

	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = snowflake.QuoteIdentifier(SanitizeIdentifier(c.Name)) + " " + MapType(c.Type)
	}

	create := "CREATE TABLE IF NOT EXISTS"
	if ifExists == IfExistsReplace {
		create = "CREATE OR REPLACE TABLE"
	}

	return CreatePlan{
		Database: "CREATE DATABASE IF NOT EXISTS " + snowflake.QuoteIdentifier(db),
		Schema:   "CREATE SCHEMA IF NOT EXISTS " + snowflake.QualifiedName(db, schema),
		Table: fmt.Sprintf("%s %s ( %s )",
			create, snowflake.QualifiedName(db, schema, name), strings.Join(defs, ", ")),
	}
}
