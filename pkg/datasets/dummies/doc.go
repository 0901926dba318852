// Package dummies provides data sets that resolve symbolic warehouse names
// instead of moving data. Pipeline steps that run inside the warehouse only
// need to know where a table or stored procedure lives.
package dummies
