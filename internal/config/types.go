// Package config provides the catalog configuration shared by the CLI and
// any other tool that opens a catalog.
// This package is decoupled from CLI concerns: it knows the file layout,
// defaults and validation, but not flags or output settings.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/sfcatalog/pkg/adapter"
	"github.com/leapstack-labs/sfcatalog/pkg/core"
)

// DatasetConfig is one catalog entry. The "type" key selects the data set
// implementation; every other key is passed to it as an argument.
type DatasetConfig map[string]any

// Type returns the registered type name of the entry.
func (d DatasetConfig) Type() string {
	s, _ := d["type"].(string)
	return strings.TrimSpace(s)
}

// Args returns the entry without its "type" key.
func (d DatasetConfig) Args() map[string]any {
	args := make(map[string]any, len(d))
	for k, v := range d {
		if k != "type" {
			args[k] = v
		}
	}
	return args
}

// Catalog holds the data set definitions and the named credentials they
// connect with.
type Catalog struct {
	Datasets    map[string]DatasetConfig      `koanf:"datasets"`
	Credentials map[string]core.AdapterConfig `koanf:"credentials"`
}

// DatasetNames returns the data set names (sorted).
func (c *Catalog) DatasetNames() []string {
	names := make([]string, 0, len(c.Datasets))
	for name := range c.Datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CredentialNames returns the credentials entry names (sorted).
func (c *Catalog) CredentialNames() []string {
	names := make([]string, 0, len(c.Credentials))
	for name := range c.Credentials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every data set names a type and every credentials
// entry names a registered adapter.
func (c *Catalog) Validate() error {
	for _, name := range c.DatasetNames() {
		if c.Datasets[name].Type() == "" {
			return &core.ConfigurationError{Dataset: name, Field: "type"}
		}
	}

	names := make([]string, 0, len(c.Credentials))
	for name := range c.Credentials {
		names = append(names, name)
	}
	sort.Strings(names)

	// Use adapter registry as single source of truth
	for _, name := range names {
		typ := strings.ToLower(c.Credentials[name].Type)
		if !adapter.IsRegistered(typ) {
			return fmt.Errorf("invalid credentials %q: %w", name, &adapter.UnknownAdapterError{
				Type:      c.Credentials[name].Type,
				Available: adapter.ListAdapters(),
			})
		}
	}
	return nil
}
