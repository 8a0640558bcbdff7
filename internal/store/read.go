package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/cimtab/internal/table"
)

// ErrTableNotFound is returned by ReadTable for names missing from the catalog.
var ErrTableNotFound = errors.New("table not found")

// TableInfo is one catalog entry.
type TableInfo struct {
	Name   string
	Class  string
	View   string
	Header []string
	Rows   int
	Digest string
	RunID  string
}

// Tables returns the catalog ordered by name.
// Results are ordered deterministically: ORDER BY name COLLATE BINARY.
//
// Returns an empty slice (not nil) if the database holds no tables.
func (s *Store) Tables(ctx context.Context) ([]TableInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, class, view, header, row_count, digest, run_id
		FROM cim_tables
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	infos := []TableInfo{}
	for rows.Next() {
		var info TableInfo
		var header string
		if err := rows.Scan(&info.Name, &info.Class, &info.View, &header, &info.Rows, &info.Digest, &info.RunID); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		if info.Header, err = unmarshalNames(header); err != nil {
			return nil, fmt.Errorf("table %s: %w", info.Name, err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return infos, nil
}

// ReadTable loads the table stored under name, with rows in write order.
func (s *Store) ReadTable(ctx context.Context, name string) (*table.Table, error) {
	var class, headerJSON, colsJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT class, header, columns FROM cim_tables WHERE name = ?
	`, name).Scan(&class, &headerJSON, &colsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read table %s: %w", name, ErrTableNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}

	header, err := unmarshalNames(headerJSON)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}
	cols, err := unmarshalNames(colsJSON)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}
	if len(cols) != len(header) {
		return nil, fmt.Errorf("read table %s: catalog has %d columns for %d header names", name, len(cols), len(header))
	}

	t := &table.Table{Class: class, Header: header, Rows: [][]string{}}

	quoted := make([]string, 0, len(cols)+1)
	quoted = append(quoted, rowColumn)
	for _, c := range cols {
		quoted = append(quoted, quoteIdent(c))
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY %s ASC",
		strings.Join(quoted, ", "), quoteIdent(name), rowColumn,
	))
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var seq int64
		row := make([]string, len(cols))
		dest := make([]any, len(cols)+1)
		dest[0] = &seq
		for i := range row {
			dest[i+1] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("read table %s: scan: %w", name, err)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read table %s: iterate: %w", name, err)
	}
	return t, nil
}
