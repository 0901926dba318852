package dummies

import (
	"context"

	"github.com/leapstack-labs/sfcatalog/pkg/core"
	"github.com/leapstack-labs/sfcatalog/pkg/dataset"
)

// TableNameDataset resolves to the qualified name of a table.
type TableNameDataset struct {
	name  string
	table core.TargetTable
}

// NewTableNameDataset creates a table-name data set.
func NewTableNameDataset(name string, table core.TargetTable) (*TableNameDataset, error) {
	if err := table.Validate(); err != nil {
		return nil, dataset.Attribute(name, err)
	}
	return &TableNameDataset{name: name, table: table}, nil
}

// QualifiedName returns "<database>.<schema>.<table_name>".
func (d *TableNameDataset) QualifiedName() string {
	return d.table.String()
}

// Load returns the qualified table name.
func (d *TableNameDataset) Load(context.Context) (any, error) {
	return d.QualifiedName(), nil
}

// Save ignores data; the table is written by whatever produced it.
func (d *TableNameDataset) Save(context.Context, any) error { return nil }

// Describe returns the table coordinates.
func (d *TableNameDataset) Describe() map[string]any {
	return map[string]any{
		"table_name": d.table.Name,
		"schema":     d.table.Schema,
		"database":   d.table.Database,
	}
}

func newTableNameDataset(name string, args map[string]any, _ dataset.Env) (dataset.Dataset, error) {
	var cfg struct {
		core.TargetTable `mapstructure:",squash"`
	}
	if err := dataset.Decode(name, args, &cfg); err != nil {
		return nil, err
	}
	return NewTableNameDataset(name, cfg.TargetTable)
}
