package snowflake

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/sfcatalog/pkg/core"
)

// Bulk load defaults.
const (
	DefaultChunkSize = 100_000
	DefaultParallel  = 4
)

// Params holds Snowflake-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// ChunkSize is the number of rows per staged file.
	ChunkSize int `mapstructure:"chunk_size"`

	// Parallel bounds how many chunk files are encoded at once.
	Parallel int `mapstructure:"parallel"`

	// AutoCompress gzips staged files during PUT (default true).
	AutoCompress *bool `mapstructure:"auto_compress"`

	// QueryTag is attached to every statement of the session.
	QueryTag string `mapstructure:"query_tag"`

	// LoginTimeout bounds the login request (e.g. "30s").
	LoginTimeout time.Duration `mapstructure:"login_timeout"`
}

// ParseParams decodes raw params and applies defaults.
func ParseParams(raw map[string]any) (Params, error) {
	var p Params
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &p,
	})
	if err != nil {
		return p, fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return p, &core.ConfigurationError{Field: "params", Reason: fmt.Sprintf("invalid snowflake params: %v", err)}
	}

	if p.ChunkSize <= 0 {
		p.ChunkSize = DefaultChunkSize
	}
	if p.Parallel <= 0 {
		p.Parallel = DefaultParallel
	}
	if p.AutoCompress == nil {
		compress := true
		p.AutoCompress = &compress
	}
	return p, nil
}
