// Package writer stores class tables as CSV files, XLSX workbooks or
// tables in a SQLite database.
package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/cimtab/internal/table"
)

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatCSV, FormatXLSX, FormatSQLite}

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want csv, xlsx or sqlite)", s)
}

// Writer stores named tables in one output directory.
type Writer interface {
	// Write stores t under name and returns where it went: a file path,
	// or "<db path>#<table>" for SQLite.
	Write(ctx context.Context, name string, t *table.Table) (string, error)

	// Close releases resources held by the writer.
	Close() error
}

// Option configures a writer.
type Option func(*options)

type options struct {
	runID string
}

// WithRunID tags written tables with the run identifier where the format
// has room for it.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}

// New creates the output directory and returns a writer for format.
func New(format Format, dir string, opts ...Option) (Writer, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	switch format {
	case FormatCSV:
		return &csvWriter{dir: dir}, nil
	case FormatXLSX:
		return &xlsxWriter{dir: dir}, nil
	case FormatSQLite:
		w, err := openSQLite(dir, o)
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// fileName turns a table name into a safe base name.
// CIM class names are plain identifiers, but nothing in the input enforces it.
func fileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}

func outputPath(dir, name, ext string) string {
	return filepath.Join(dir, fileName(name)+"."+ext)
}
