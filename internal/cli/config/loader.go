package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	intconfig "github.com/leapstack-labs/sfcatalog/internal/config"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// Flags that select files rather than config keys.
var fileFlags = map[string]bool{"config": true, "credentials": true}

// Package-level koanf instance and config file tracking
var (
	k                   = koanf.New(".")
	configFileUsed      string
	credentialsFileUsed string
	currentConfig       *Config // Stores the loaded config for access by commands
)

// findCatalogUpward searches upward from startDir for a catalog file.
// Returns the file and the directory it was found from, or empty strings
// if not found within maxUpwardSearchLevels.
func findCatalogUpward(startDir string) (string, string) {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if path := intconfig.FindCatalogFile(dir); path != "" {
			return path, dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return "", ""
}

// resolveFiles picks the catalog and credentials files.
// Priority: explicit paths > files found upward from the working directory.
// An explicit catalog path anchors the credentials lookup to its directory.
func resolveFiles(cfgFile, credentialsFile string) (string, string) {
	var root string
	if cfgFile != "" {
		root = filepath.Dir(cfgFile)
	} else if cwd, err := os.Getwd(); err == nil {
		cfgFile, root = findCatalogUpward(cwd)
	}

	if credentialsFile == "" && root != "" {
		credentialsFile = intconfig.FindCredentialsFile(root)
	}
	return cfgFile, credentialsFile
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	credentialsFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from the catalog and credentials files,
// environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > credentials file > catalog file > defaults
func LoadConfig(cfgFile, credentialsFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"verbose":  false,
		"output":   DefaultOutput,
		"log_file": "",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load catalog and credentials files
	configFileUsed, credentialsFileUsed = resolveFiles(cfgFile, credentialsFile)
	if err := intconfig.LoadFiles(k, configFileUsed, credentialsFileUsed); err != nil {
		return nil, err
	}

	// 3. Load environment variables (SFCATALOG_ prefix)
	// Transform: SFCATALOG_LOG_FILE -> log_file,
	// SFCATALOG_CREDENTIALS__DEV__PASSWORD -> credentials.dev.password
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed || fileFlags[f.Name] {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Expand ${VAR} references and apply credential defaults
	intconfig.ApplyDefaults(&cfg.Catalog)

	if err := cfg.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog configuration: %w", err)
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// GetConfigFileUsed returns the path to the catalog file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCredentialsFileUsed returns the path to the credentials file being used, if any.
func GetCredentialsFileUsed() string {
	return credentialsFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.New(slog.DiscardHandler)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
