package writer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/roach88/cimtab/internal/store"
	"github.com/roach88/cimtab/internal/table"
)

// DatabaseName is the file created in the output directory by the SQLite writer.
const DatabaseName = "tables.db"

type sqliteWriter struct {
	path  string
	store *store.Store
	runID string
}

func openSQLite(dir string, o options) (*sqliteWriter, error) {
	path := filepath.Join(dir, DatabaseName)
	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &sqliteWriter{path: path, store: s, runID: o.runID}, nil
}

// Write stores t as a table of the same name inside the database.
func (w *sqliteWriter) Write(ctx context.Context, name string, t *table.Table) (string, error) {
	if err := w.store.WriteTable(ctx, name, t, store.WithRunID(w.runID)); err != nil {
		return "", err
	}
	return w.path + "#" + name, nil
}

func (w *sqliteWriter) Close() error {
	return w.store.Close()
}
