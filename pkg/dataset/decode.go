package dataset

import (
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/sfcatalog/pkg/core"
)

// Decode decodes catalog arguments into out, a pointer to a config struct
// with mapstructure tags. Unknown keys are rejected.
func Decode(name string, args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(args); err != nil {
		return &core.ConfigurationError{Dataset: name, Field: "arguments", Reason: err.Error()}
	}
	return nil
}

// Attribute fills in the data set name of a ConfigurationError that lacks one.
func Attribute(name string, err error) error {
	var cfgErr *core.ConfigurationError
	if errors.As(err, &cfgErr) && cfgErr.Dataset == "" {
		cfgErr.Dataset = name
	}
	return err
}
