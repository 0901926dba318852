package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/sfcatalog/internal/catalog"
	"github.com/leapstack-labs/sfcatalog/internal/cli/config"
	"github.com/leapstack-labs/sfcatalog/internal/cli/output"
	"github.com/leapstack-labs/sfcatalog/pkg/dataset"
	"github.com/leapstack-labs/sfcatalog/pkg/frame"
	"github.com/spf13/cobra"
)

// adapterFactory overrides the registry-backed adapter constructor when set.
var adapterFactory dataset.AdapterFactory

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Catalog  *catalog.Catalog
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with catalog and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	cat, err := catalog.New(catalog.Config{
		Catalog:        &cfg.Catalog,
		Logger:         logger,
		AdapterFactory: adapterFactory,
	})
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		if err := cat.Close(); err != nil {
			logger.Warn("failed to close connections", "error", err)
		}
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Catalog:  cat,
		Renderer: r,
	}, cleanup, nil
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		Verbose:      os.Getenv(config.EnvPrefix+"VERBOSE") == "true",
		OutputFormat: getEnvOrDefault(config.EnvPrefix+"OUTPUT", config.DefaultOutput),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// readFrame reads a CSV file into a frame. "-" reads standard input.
func readFrame(cmd *cobra.Command, path string) (*frame.Frame, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("--from is required")
	}
	if path == "-" {
		return frame.ReadCSV(cmd.InOrStdin())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	fr, err := frame.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return fr, nil
}

// completeDatasets completes data set names from the catalog file.
func completeDatasets(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfgFile, _ := cmd.Flags().GetString("config")
	credentialsFile, _ := cmd.Flags().GetString("credentials")
	cfg, err := config.LoadConfig(cfgFile, credentialsFile, nil)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return cfg.DatasetNames(), cobra.ShellCompDirectiveNoFileComp
}

// completeCredentials completes credentials entry names.
func completeCredentials(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfgFile, _ := cmd.Flags().GetString("config")
	credentialsFile, _ := cmd.Flags().GetString("credentials")
	cfg, err := config.LoadConfig(cfgFile, credentialsFile, nil)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return cfg.CredentialNames(), cobra.ShellCompDirectiveNoFileComp
}
