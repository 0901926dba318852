// Package snowflake provides the Snowflake SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package snowflake

import (
	"strings"

	"github.com/leapstack-labs/sfcatalog/pkg/core"
)

// Config is the Snowflake SQL dialect configuration.
var Config = &core.DialectConfig{
	Name:          "snowflake",
	DefaultSchema: "PUBLIC",
	Identifiers: core.IdentifierConfig{
		Quote:         `"`,
		QuoteEnd:      `"`,
		Escape:        `""`,
		Normalization: core.NormUppercase, // Snowflake normalizes to uppercase
	},
	DataTypes: dataTypes,
}

// QuoteIdentifier wraps name in double quotes, doubling embedded quotes.
// Quoted identifiers are case-sensitive in Snowflake.
func QuoteIdentifier(name string) string {
	id := Config.Identifiers
	return id.Quote + strings.ReplaceAll(name, id.Quote, id.Escape) + id.QuoteEnd
}

// QualifiedName quotes each part and joins them with dots.
func QualifiedName(parts ...string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = QuoteIdentifier(p)
	}
	return strings.Join(quoted, ".")
}

// IsDataType reports whether typ (optionally with a length suffix such as
// varchar(16777216)) names a type the dialect accepts.
func IsDataType(typ string) bool {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(typ)), "(")
	for _, t := range Config.DataTypes {
		if t == base {
			return true
		}
	}
	return false
}
