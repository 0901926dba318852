// Package config provides configuration management for the sfcatalog CLI.
//
// This package extends the shared catalog types from internal/config with
// CLI-specific fields (output mode, verbosity, log file) and layers
// environment variables and flags over the catalog files.
package config

import (
	sharedcfg "github.com/leapstack-labs/sfcatalog/internal/config"
)

// Catalog is an alias for the shared catalog configuration.
// This allows CLI code to use config.Catalog without importing internal/config.
type Catalog = sharedcfg.Catalog

// DatasetConfig is an alias for the shared catalog entry type.
type DatasetConfig = sharedcfg.DatasetConfig

// Config holds all CLI configuration options.
type Config struct {
	Catalog `koanf:",squash"`

	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
	LogFile      string `koanf:"log_file"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultOutput = sharedcfg.DefaultOutput
	EnvPrefix     = "SFCATALOG_"
)
