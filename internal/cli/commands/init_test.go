package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/sfcatalog/internal/cli/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:      "init empty directory",
			args:      []string{},
			wantFiles: []string{"catalog.yaml", "credentials.yaml", ".gitignore"},
		},
		{
			name:      "init example",
			args:      []string{"--example"},
			wantFiles: []string{"catalog.yaml", "credentials.yaml", ".gitignore", "data/orders.csv"},
		},
		{
			name: "init existing catalog without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "catalog.yaml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing catalog with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "catalog.yaml"), []byte("existing"), 0600)
			},
			args:      []string{"--force"},
			wantFiles: []string{"catalog.yaml", "credentials.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				_, err := os.Stat(filepath.Join(tmpDir, f))
				assert.False(t, os.IsNotExist(err), "expected file %q to exist", f)
			}
		})
	}
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "--force flag should exist")
	assert.NotNil(t, cmd.Flags().Lookup("example"), "--example flag should exist")
}

func TestInitKeepsExistingFiles(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "credentials.yaml"), []byte("mine: {}\n"), 0600))

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{tmpDir})
	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile(filepath.Join(tmpDir, "credentials.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "mine: {}\n", string(content))
}

func TestInitCreatesLoadableCatalog(t *testing.T) {
	t.Setenv("SNOWFLAKE_ACCOUNT", "xy12345")
	t.Setenv("SNOWFLAKE_USER", "loader")
	t.Setenv("SNOWFLAKE_PASSWORD", "pw")

	tmpDir := filepath.Join(t.TempDir(), "pipeline")
	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{tmpDir, "--example"})
	require.NoError(t, cmd.Execute())

	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	cfg, err := config.LoadConfig(filepath.Join(tmpDir, "catalog.yaml"), "", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"large_orders", "orders", "orders_table", "refresh_orders", "session"}, cfg.DatasetNames())
	require.Contains(t, cfg.Credentials, "snowflake")
	assert.Equal(t, "xy12345", cfg.Credentials["snowflake"].Account)
	assert.Equal(t, "pw", cfg.Credentials["snowflake"].Password)
}

func TestRelTemplatePath(t *testing.T) {
	assert.Equal(t, "", relTemplatePath("templates/minimal", "templates/minimal"))
	assert.Equal(t, "catalog.yaml", relTemplatePath("templates/minimal", "templates/minimal/catalog.yaml"))
	assert.Equal(t, ".gitignore", relTemplatePath("templates/minimal", "templates/minimal/gitignore"))
	assert.Equal(t, "data/orders.csv", relTemplatePath("templates/example", "templates/example/data/orders.csv"))
}
