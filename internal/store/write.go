package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/cimtab/internal/table"
)

// WriteOption configures WriteTable.
type WriteOption func(*writeConfig)

type writeConfig struct {
	runID string
}

// WithRunID records the run that produced the table in the catalog.
func WithRunID(id string) WriteOption {
	return func(c *writeConfig) {
		c.runID = id
	}
}

// WriteTable stores t under name, replacing any earlier table of that name.
// The physical table and its catalog entry are written in one transaction.
//
// The view recorded in the catalog is name with the "<Class>_" prefix removed.
func (s *Store) WriteTable(ctx context.Context, name string, t *table.Table, opts ...WriteOption) error {
	var cfg writeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	cols := physicalColumns(t.Header)
	headerJSON, err := marshalNames(t.Header)
	if err != nil {
		return fmt.Errorf("write table %s: %w", name, err)
	}
	colsJSON, err := marshalNames(cols)
	if err != nil {
		return fmt.Errorf("write table %s: %w", name, err)
	}
	digest, err := t.Digest(name)
	if err != nil {
		return fmt.Errorf("write table %s: %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write table %s: begin: %w", name, err)
	}
	defer tx.Rollback()

	if err := createTable(ctx, tx, name, cols); err != nil {
		return fmt.Errorf("write table %s: %w", name, err)
	}
	if err := insertRows(ctx, tx, name, cols, t.Rows); err != nil {
		return fmt.Errorf("write table %s: %w", name, err)
	}

	view := strings.TrimPrefix(name, t.Class+"_")
	_, err = tx.ExecContext(ctx, `
		INSERT INTO cim_tables
		(name, class, view, header, columns, row_count, digest, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			class = excluded.class,
			view = excluded.view,
			header = excluded.header,
			columns = excluded.columns,
			row_count = excluded.row_count,
			digest = excluded.digest,
			run_id = excluded.run_id
	`,
		name,
		t.Class,
		view,
		headerJSON,
		colsJSON,
		len(t.Rows),
		digest,
		cfg.runID,
	)
	if err != nil {
		return fmt.Errorf("write table %s: catalog: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write table %s: commit: %w", name, err)
	}
	return nil
}

func createTable(ctx context.Context, tx *sql.Tx, name string, cols []string) error {
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return fmt.Errorf("drop: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (%s INTEGER PRIMARY KEY", quoteIdent(name), rowColumn)
	for _, c := range cols {
		fmt.Fprintf(&b, ", %s TEXT NOT NULL DEFAULT ''", quoteIdent(c))
	}
	b.WriteString(")")

	if _, err := tx.ExecContext(ctx, b.String()); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, name string, cols []string, rows [][]string) error {
	quoted := make([]string, 0, len(cols)+1)
	quoted = append(quoted, rowColumn)
	for _, c := range cols {
		quoted = append(quoted, quoteIdent(c))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(quoted)), ", ")

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(quoted, ", "), placeholders,
	))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(quoted))
	for i, row := range rows {
		args[0] = i
		for j := range cols {
			args[j+1] = ""
			if j < len(row) {
				args[j+1] = row[j]
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return nil
}
