package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConfigCommand(flags *RunFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	addOutputFlags(cmd, flags)
	addResolveFlags(cmd, flags)
	return cmd
}

func TestLoadConfig_Defaults(t *testing.T) {
	flags := &RunFlags{}
	cmd := newConfigCommand(flags)
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := LoadConfig(cmd, &RootOptions{}, flags)
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Out)
	assert.Equal(t, 5, cfg.MaxDepth)
	assert.Equal(t, "xlsx", cfg.Clean.Format)
	assert.True(t, cfg.Manifest)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cimtab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_depth: 2
workers: 3
clean:
  format: csv
  drop_enrichment: true
`), 0o644))

	flags := &RunFlags{}
	cmd := newConfigCommand(flags)
	require.NoError(t, cmd.ParseFlags([]string{"--max-depth", "1", "--out", dir, "--no-manifest"}))

	cfg, err := LoadConfig(cmd, &RootOptions{Config: path}, flags)
	require.NoError(t, err)

	// From flags
	assert.Equal(t, 1, cfg.MaxDepth)
	assert.Equal(t, dir, cfg.Out)
	assert.False(t, cfg.Manifest)

	// From file, untouched by flag defaults
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "csv", cfg.Clean.Format)
	assert.True(t, cfg.Clean.DropEnrichment)
}

func TestLoadConfig_Invalid(t *testing.T) {
	flags := &RunFlags{}
	cmd := newConfigCommand(flags)
	require.NoError(t, cmd.ParseFlags([]string{"--clean-format", "parquet"}))

	_, err := LoadConfig(cmd, &RootOptions{}, flags)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	flags := &RunFlags{}
	cmd := newConfigCommand(flags)
	require.NoError(t, cmd.ParseFlags(nil))

	_, err := LoadConfig(cmd, &RootOptions{Config: filepath.Join(t.TempDir(), "none.yaml")}, flags)
	require.Error(t, err)
	assert.Equal(t, ErrCodeNotFound, errorCode(err, ErrCodeConfig))
}
