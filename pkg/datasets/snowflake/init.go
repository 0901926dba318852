package snowflake

import (
	"github.com/leapstack-labs/sfcatalog/pkg/dataset"

	// Register the warehouse adapter the data sets connect through
	_ "github.com/leapstack-labs/sfcatalog/pkg/adapters/snowflake"
)

// Registered type names.
const (
	TypeQuery   = "snowflake.QueryDataset"
	TypeTable   = "snowflake.TableDataset"
	TypeSession = "snowflake.SessionDataset"
)

func init() {
	dataset.Register(TypeQuery, newQueryDataset)
	dataset.Register(TypeTable, newTableDataset)
	dataset.Register(TypeSession, newSessionDataset)
}
