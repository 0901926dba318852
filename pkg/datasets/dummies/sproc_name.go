package dummies

import (
	"context"
	"strings"

	"github.com/leapstack-labs/sfcatalog/pkg/core"
	"github.com/leapstack-labs/sfcatalog/pkg/dataset"
)

// SprocNameDataset resolves to a stored procedure name.
type SprocNameDataset struct {
	name  string
	sproc string
}

// NewSprocNameDataset creates a stored-procedure-name data set.
func NewSprocNameDataset(name, sproc string) (*SprocNameDataset, error) {
	if strings.TrimSpace(sproc) == "" {
		return nil, &core.ConfigurationError{Dataset: name, Field: "sproc_name"}
	}
	return &SprocNameDataset{name: name, sproc: sproc}, nil
}

// Load returns the procedure name.
func (d *SprocNameDataset) Load(context.Context) (any, error) {
	return d.sproc, nil
}

// Save ignores data.
func (d *SprocNameDataset) Save(context.Context, any) error { return nil }

// Describe returns the procedure name.
func (d *SprocNameDataset) Describe() map[string]any {
	return map[string]any{"sproc_name": d.sproc}
}

func newSprocNameDataset(name string, args map[string]any, _ dataset.Env) (dataset.Dataset, error) {
	var cfg struct {
		SprocName string `mapstructure:"sproc_name"`
	}
	if err := dataset.Decode(name, args, &cfg); err != nil {
		return nil, err
	}
	return NewSprocNameDataset(name, cfg.SprocName)
}
