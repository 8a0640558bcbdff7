package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5, cfg.MaxDepth)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.Equal(t, Output{Dir: "eq_enriched", Format: "csv"}, cfg.Enriched)
	assert.Equal(t, Clean{Dir: "eq_clean", Format: "xlsx"}, cfg.Clean)
	assert.True(t, cfg.Manifest)
	require.NoError(t, cfg.Validate())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverlaysDefaults(t *testing.T) {
	p := writeFile(t, "cimtab.yaml", `
max_depth: 3
clean:
  format: csv
  drop_enrichment: true
`)

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxDepth)
	assert.Equal(t, "csv", cfg.Clean.Format)
	assert.True(t, cfg.Clean.DropEnrichment)
	assert.Equal(t, "eq_clean", cfg.Clean.Dir, "unset keys keep their defaults")
	assert.Equal(t, "csv", cfg.Enriched.Format)
	require.NoError(t, cfg.Validate())
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "cimtab.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadTOML(t *testing.T) {
	p := writeFile(t, "cimtab.toml", `
out = "build"
workers = 2
member = "model_EQ.xml"
manifest = false

[enriched]
format = "sqlite"
`)

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "build", cfg.Out)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "model_EQ.xml", cfg.Member)
	assert.False(t, cfg.Manifest)
	assert.Equal(t, Output{Dir: "eq_enriched", Format: "sqlite"}, cfg.Enriched)
	require.NoError(t, cfg.Validate())
}

func TestLoadJSON(t *testing.T) {
	cfg, err := Load(writeFile(t, "cimtab.json", `{"max_depth": 0}`))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MaxDepth)
	require.NoError(t, cfg.Validate())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"cimtab.yaml", "max_dept: 3\n"},
		{"cimtab.toml", "max_dept = 3\n"},
		{"cimtab.json", `{"max_dept": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.name, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "cimtab.ini", "x=1"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(writeFile(t, "cimtab.yaml", "max_depth: [1"))
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"negative depth", func(c *Config) { c.MaxDepth = -1 }, "max_depth"},
		{"huge depth", func(c *Config) { c.MaxDepth = 1000 }, "max_depth"},
		{"zero workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"bad enriched format", func(c *Config) { c.Enriched.Format = "parquet" }, "enriched.format"},
		{"bad clean format", func(c *Config) { c.Clean.Format = "XLS" }, "clean.format"},
		{"empty clean dir", func(c *Config) { c.Clean.Dir = "" }, "clean.dir"},
		{"empty out", func(c *Config) { c.Out = "" }, "out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestDirectories(t *testing.T) {
	cfg := Default()
	cfg.Out = "build"

	assert.Equal(t, filepath.Join("build", "eq_enriched"), cfg.EnrichedDir())
	assert.Equal(t, filepath.Join("build", "eq_clean"), cfg.CleanDir())
	assert.Equal(t, filepath.Join("build", "manifest.json"), cfg.ManifestPath())

	abs := filepath.Join(t.TempDir(), "clean")
	cfg.Clean.Dir = abs
	assert.Equal(t, abs, cfg.CleanDir())
}
