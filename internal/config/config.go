// Package config loads and validates run configuration.
//
// Values are layered: Default, then an optional YAML, TOML or JSON file,
// then command-line flags. The merged result is checked against the
// embedded CUE schema before use.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config file format")

// Output selects where and how one table view is written.
type Output struct {
	Dir    string `json:"dir" yaml:"dir" toml:"dir"`
	Format string `json:"format" yaml:"format" toml:"format"`
}

// Clean configures the clean view output.
type Clean struct {
	Dir            string `json:"dir" yaml:"dir" toml:"dir"`
	Format         string `json:"format" yaml:"format" toml:"format"`
	DropEnrichment bool   `json:"drop_enrichment" yaml:"drop_enrichment" toml:"drop_enrichment"`
}

// Config is the complete run configuration.
type Config struct {
	// Out is the output root. Relative view directories and the manifest
	// are placed under it.
	Out string `json:"out" yaml:"out" toml:"out"`

	// MaxDepth bounds reference hops during enrichment. Zero disables enrichment.
	MaxDepth int `json:"max_depth" yaml:"max_depth" toml:"max_depth"`

	// Workers is the number of goroutines resolving references.
	Workers int `json:"workers" yaml:"workers" toml:"workers"`

	// Member names the ZIP member to read. Empty selects the first XML member.
	Member string `json:"member" yaml:"member" toml:"member"`

	Enriched Output `json:"enriched" yaml:"enriched" toml:"enriched"`
	Clean    Clean  `json:"clean" yaml:"clean" toml:"clean"`

	// Manifest enables writing manifest.json to Out.
	Manifest bool `json:"manifest" yaml:"manifest" toml:"manifest"`
}

// Default returns the built-in configuration: enriched CSV files in
// eq_enriched and clean XLSX workbooks in eq_clean.
func Default() *Config {
	return &Config{
		Out:      ".",
		MaxDepth: 5,
		Workers:  runtime.GOMAXPROCS(0),
		Enriched: Output{Dir: "eq_enriched", Format: "csv"},
		Clean:    Clean{Dir: "eq_clean", Format: "xlsx"},
		Manifest: true,
	}
}

// Load returns Default overlaid with the file at path. An empty path
// yields the defaults. Keys not known to Config are rejected.
// The result is not validated; call Validate after applying flags.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	return cfg, nil
}

// Validate checks c against the embedded schema. The returned error lists
// every violation, one per line.
func (c *Config) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	value := def.Unify(ctx.Encode(c))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config:\n%s", strings.TrimSpace(cueerrors.Details(err, nil)))
	}
	return nil
}

// EnrichedDir returns the enriched output directory, resolved against Out.
func (c *Config) EnrichedDir() string {
	return c.resolve(c.Enriched.Dir)
}

// CleanDir returns the clean output directory, resolved against Out.
func (c *Config) CleanDir() string {
	return c.resolve(c.Clean.Dir)
}

// ManifestPath returns where manifest.json is written.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.Out, "manifest.json")
}

func (c *Config) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Out, dir)
}
