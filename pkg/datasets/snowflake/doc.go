// Package snowflake provides catalog data sets backed by a Snowflake
// warehouse: a read-only query, a table that can be loaded and saved, and
// the shared session itself.
//
// Import this package with a blank identifier to register the types:
//
//	import _ "github.com/leapstack-labs/sfcatalog/pkg/datasets/snowflake"
package snowflake
