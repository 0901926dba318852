package snowflake

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/sfcatalog/pkg/dataset"
)

// SessionConfig configures a SessionDataset.
type SessionConfig struct {
	Credentials string `mapstructure:"credentials"`
}

// SessionDataset exposes the shared warehouse connection of a credentials
// entry so pipeline steps can run their own statements on it.
type SessionDataset struct {
	name string
	cfg  SessionConfig
	conn dataset.Connector
}

// NewSessionDataset creates a session data set.
func NewSessionDataset(name string, cfg SessionConfig, conn dataset.Connector) (*SessionDataset, error) {
	if conn == nil {
		return nil, fmt.Errorf("session data set %q requires a connection", name)
	}
	return &SessionDataset{name: name, cfg: cfg, conn: conn}, nil
}

// Load connects if needed and returns the shared adapter.Adapter.
func (d *SessionDataset) Load(ctx context.Context) (any, error) {
	return d.conn.Conn(ctx)
}

// Save does nothing.
func (d *SessionDataset) Save(context.Context, any) error { return nil }

// Describe returns the credentials entry name.
func (d *SessionDataset) Describe() map[string]any {
	return map[string]any{"credentials": d.cfg.Credentials}
}

func newSessionDataset(name string, args map[string]any, env dataset.Env) (dataset.Dataset, error) {
	var cfg SessionConfig
	if err := dataset.Decode(name, args, &cfg); err != nil {
		return nil, err
	}
	conn, err := env.Connector(cfg.Credentials)
	if err != nil {
		return nil, dataset.Attribute(name, err)
	}
	return NewSessionDataset(name, cfg, conn)
}
