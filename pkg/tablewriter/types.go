package tablewriter

import "unicode"

// DefaultType is the warehouse type used for unmapped source types.
const DefaultType = "varchar(16777216)"

// ColumnTypeMap maps frame type tags to Snowflake DDL types.
var ColumnTypeMap = map[string]string{
	"int":            "int",
	"int64":          "int",
	"object":         DefaultType,
	"datetime64[ns]": "datetime",
	"float64":        "float8",
	"bool":           "boolean",
	"category":       DefaultType,
	"other":          DefaultType,
}

// MapType returns the Snowflake type for a frame type tag, falling back
// to DefaultType.
func MapType(sourceType string) string {
	if t, ok := ColumnTypeMap[sourceType]; ok {
		return t
	}
	return DefaultType
}

// IsMapped reports whether sourceType has an explicit mapping.
func IsMapped(sourceType string) bool {
	_, ok := ColumnTypeMap[sourceType]
	return ok
}

// SanitizeIdentifier drops every rune that is not a letter, digit or underscore.
func SanitizeIdentifier(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, r)
		}
	}
	return string(out)
}
