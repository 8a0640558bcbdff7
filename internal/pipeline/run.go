package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/cimtab/internal/config"
	"github.com/roach88/cimtab/internal/diag"
	"github.com/roach88/cimtab/internal/table"
	"github.com/roach88/cimtab/internal/writer"
)

// ClassEntry describes the outputs of one class in the manifest.
type ClassEntry struct {
	Class           string `json:"class"`
	Rows            int    `json:"rows"`
	EnrichedColumns int    `json:"enriched_columns"`
	CleanColumns    int    `json:"clean_columns"`
	EnrichedDigest  string `json:"enriched_digest"`
	CleanDigest     string `json:"clean_digest"`
	Enriched        string `json:"enriched"`
	Clean           string `json:"clean"`
}

// Manifest summarises a conversion run. It is written as manifest.json.
type Manifest struct {
	RunID       string            `json:"run_id"`
	Input       string            `json:"input"`
	Member      string            `json:"member,omitempty"`
	Objects     int               `json:"objects"`
	MaxDepth    int               `json:"max_depth"`
	Classes     []ClassEntry      `json:"classes"`
	Diagnostics map[diag.Kind]int `json:"diagnostics"`
}

// Result is returned by Run.
type Result struct {
	Manifest Manifest

	// ManifestPath is empty when manifest writing is disabled.
	ManifestPath string

	Summary diag.Summary
}

// Run converts the input and writes every class table in both views.
// Diagnostics never fail a run; I/O and parse errors do.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.config()
	log := opts.logger()

	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = UUIDv7Generator{}
	}
	runID := runIDs.Generate()
	log.Info("run started", "run_id", runID, "input", opts.Input)

	model, err := Load(ctx, opts)
	if err != nil {
		return nil, err
	}

	sinks := newSinks(runID)
	defer func() {
		if closeErr := sinks.Close(); closeErr != nil {
			log.Error("error closing output", "error", closeErr)
		}
	}()

	m := Manifest{
		RunID:    runID,
		Input:    model.Input,
		Member:   model.Member,
		Objects:  len(model.Objects),
		MaxDepth: cfg.MaxDepth,
		Classes:  make([]ClassEntry, 0, len(model.Tables)),
	}

	for _, ct := range model.Tables {
		entry, err := writeClass(ctx, cfg, sinks, ct)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		log.Debug("class written", "class", ct.Class, "rows", entry.Rows, "enriched", entry.Enriched, "clean", entry.Clean)
		m.Classes = append(m.Classes, entry)
	}
	log.Info("tables written", "classes", len(m.Classes), "enriched_dir", cfg.EnrichedDir(), "clean_dir", cfg.CleanDir())

	summary := model.Diags.Summarize(diag.DefaultSampleSize)
	m.Diagnostics = summary.Counts
	if !summary.Empty() {
		log.Warn("diagnostics recorded", "total", summary.Total)
	}

	res := &Result{Manifest: m, Summary: summary}
	if cfg.Manifest {
		res.ManifestPath = cfg.ManifestPath()
		if err := writeManifest(res.ManifestPath, m); err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		log.Info("manifest written", "path", res.ManifestPath)
	}
	return res, nil
}

func writeClass(ctx context.Context, cfg *config.Config, sinks *sinks, ct ClassTables) (ClassEntry, error) {
	entry := ClassEntry{
		Class:           ct.Class,
		Rows:            ct.Enriched.Len(),
		EnrichedColumns: len(ct.Enriched.Header),
		CleanColumns:    len(ct.Clean.Header),
	}

	views := []struct {
		view   string
		t      *table.Table
		format string
		dir    string
		digest *string
		loc    *string
	}{
		{table.ViewEnriched, ct.Enriched, cfg.Enriched.Format, cfg.EnrichedDir(), &entry.EnrichedDigest, &entry.Enriched},
		{table.ViewClean, ct.Clean, cfg.Clean.Format, cfg.CleanDir(), &entry.CleanDigest, &entry.Clean},
	}

	for _, v := range views {
		name := table.Name(ct.Class, v.view)
		w, err := sinks.get(v.format, v.dir)
		if err != nil {
			return entry, err
		}
		loc, err := w.Write(ctx, name, v.t)
		if err != nil {
			return entry, err
		}
		digest, err := v.t.Digest(name)
		if err != nil {
			return entry, err
		}
		*v.loc = loc
		*v.digest = digest
	}
	return entry, nil
}

// sinks shares one writer per (format, directory) so that both views can
// go to the same SQLite database.
type sinks struct {
	runID   string
	writers map[string]writer.Writer
	order   []string
}

func newSinks(runID string) *sinks {
	return &sinks{runID: runID, writers: make(map[string]writer.Writer)}
}

func (s *sinks) get(format, dir string) (writer.Writer, error) {
	f, err := writer.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	key := string(f) + "\x00" + filepath.Clean(dir)
	if w, ok := s.writers[key]; ok {
		return w, nil
	}
	w, err := writer.New(f, dir, writer.WithRunID(s.runID))
	if err != nil {
		return nil, err
	}
	s.writers[key] = w
	s.order = append(s.order, key)
	return w, nil
}

func (s *sinks) Close() error {
	var first error
	for _, key := range s.order {
		if err := s.writers[key].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func writeManifest(path string, m Manifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
