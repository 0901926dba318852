// Package tablewriter turns a frame into a Snowflake table.
//
// A save is a linear pipeline: validate the target, build a CreatePlan of
// three DDL statements, execute it, switch the session to the target
// database and schema, then hand a copy of the frame with sanitized column
// names to the bulk loader. Every identifier that reaches SQL is sanitized
// and double-quoted.
package tablewriter
