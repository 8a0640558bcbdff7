// Package pipeline runs a conversion end to end: open the input, parse and
// build objects, index them, resolve references, assemble class tables and
// write both views plus the run manifest.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/cimtab/internal/archive"
	"github.com/roach88/cimtab/internal/cim"
	"github.com/roach88/cimtab/internal/config"
	"github.com/roach88/cimtab/internal/diag"
	"github.com/roach88/cimtab/internal/index"
	"github.com/roach88/cimtab/internal/rdfxml"
	"github.com/roach88/cimtab/internal/resolve"
	"github.com/roach88/cimtab/internal/table"
)

// ErrParse marks input that is not well-formed XML.
var ErrParse = errors.New("parse failed")

// Options configures a pipeline run.
type Options struct {
	// Input is the .zip or .xml file to convert.
	Input string

	// Config holds the validated run configuration. Nil uses config.Default().
	Config *config.Config

	// Logger receives progress and diagnostics. Nil uses slog.Default().
	Logger *slog.Logger

	// RunIDs overrides the run identifier generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs RunIDGenerator
}

func (o Options) config() *config.Config {
	if o.Config == nil {
		return config.Default()
	}
	return o.Config
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// ClassTables holds both views of one class.
type ClassTables struct {
	Class    string
	Enriched *table.Table
	Clean    *table.Table
}

// Model is a converted document held in memory.
type Model struct {
	Input   string
	Member  string
	Objects []*cim.Object
	Records []*cim.Record
	Tables  []ClassTables
	Diags   *diag.Collector
}

// document reads and builds the objects of the input document.
func document(opts Options, diags *diag.Collector) (*archive.Document, []*cim.Object, error) {
	cfg := opts.config()
	log := opts.logger()

	doc, err := archive.Open(opts.Input, cfg.Member)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline: %w", err)
	}
	defer doc.Close()
	log.Info("reading document", "path", doc.Path, "member", doc.Member)

	root, err := rdfxml.Parse(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline: %w: %s: %w", ErrParse, opts.Input, err)
	}

	objects := rdfxml.Build(root, diags)
	log.Info("objects built", "objects", len(objects))
	return doc, objects, nil
}

// Load converts the input in memory without writing anything.
func Load(ctx context.Context, opts Options) (*Model, error) {
	cfg := opts.config()
	log := opts.logger()
	diags := diag.NewCollector(log)

	doc, objects, err := document(opts, diags)
	if err != nil {
		return nil, err
	}

	idx := index.Build(objects, diags)
	r := resolve.New(idx, diags, resolve.WithMaxDepth(cfg.MaxDepth), resolve.WithWorkers(cfg.Workers))
	records, err := r.ResolveAll(ctx, objects)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	log.Info("references resolved", "objects", len(records), "max_depth", r.MaxDepth(), "workers", cfg.Workers)

	enriched := table.Assemble(records)
	tables := make([]ClassTables, len(enriched))
	for i, t := range enriched {
		tables[i] = ClassTables{
			Class:    t.Class,
			Enriched: t,
			Clean:    table.Clean(t, table.CleanOptions{DropEnrichment: cfg.Clean.DropEnrichment}),
		}
	}
	log.Info("tables assembled", "classes", len(tables))

	return &Model{
		Input:   doc.Path,
		Member:  doc.Member,
		Objects: objects,
		Records: records,
		Tables:  tables,
		Diags:   diags,
	}, nil
}

// ClassCount is the number of objects of one class.
type ClassCount struct {
	Class   string `json:"class"`
	Objects int    `json:"objects"`
}

// Classes lists the classes of the input in discovery order without
// resolving references.
func Classes(ctx context.Context, opts Options) ([]ClassCount, *diag.Collector, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("pipeline: %w", err)
	}
	diags := diag.NewCollector(opts.logger())
	_, objects, err := document(opts, diags)
	if err != nil {
		return nil, nil, err
	}

	var counts []ClassCount
	pos := make(map[string]int)
	for _, obj := range objects {
		i, ok := pos[obj.Class]
		if !ok {
			i = len(counts)
			pos[obj.Class] = i
			counts = append(counts, ClassCount{Class: obj.Class})
		}
		counts[i].Objects++
	}
	return counts, diags, nil
}
