package dummies

import "github.com/leapstack-labs/sfcatalog/pkg/dataset"

// Registered type names.
const (
	TypeTableName = "dummies.TableNameDataset"
	TypeSprocName = "dummies.SprocNameDataset"
)

func init() {
	dataset.Register(TypeTableName, newTableNameDataset)
	dataset.Register(TypeSprocName, newSprocNameDataset)
}
