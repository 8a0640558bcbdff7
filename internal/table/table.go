// Package table assembles flattened records into one rectangular table per
// CIM class and derives the reduced clean view of each table.
package table

import (
	"fmt"
	"strings"

	"github.com/roach88/cimtab/internal/cim"
)

// Table is the rectangular view of all records of one class.
type Table struct {
	// Class is the CIM class every row belongs to.
	Class string

	// Header lists column names in first-seen order.
	Header []string

	// Rows are aligned with Header; missing cells are empty strings.
	Rows [][]string
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the position of name in the header, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at row i under column name.
func (t *Table) Cell(i int, name string) (string, bool) {
	j := t.Column(name)
	if j < 0 || i < 0 || i >= len(t.Rows) {
		return "", false
	}
	return t.Rows[i][j], true
}

// Digest returns the content digest of the table under the given name.
func (t *Table) Digest(name string) (string, error) {
	d, err := cim.TableDigest(name, t.Header, t.Rows)
	if err != nil {
		return "", fmt.Errorf("table %s: %w", t.Class, err)
	}
	return d, nil
}

// Name returns the output name of a table view, e.g. "ACLineSegment_enriched".
func Name(class, view string) string {
	return class + "_" + view
}

// Output view suffixes.
const (
	ViewEnriched = "enriched"
	ViewClean    = "clean"
)

// Assemble groups records by class. Tables are ordered by the first record
// of each class, rows keep input order, and each header is the union of the
// class's columns in first-seen order.
func Assemble(records []*cim.Record) []*Table {
	var tables []*Table
	byClass := make(map[string]*builder)

	for _, rec := range records {
		if rec == nil {
			continue
		}
		b, ok := byClass[rec.Class]
		if !ok {
			b = &builder{t: &Table{Class: rec.Class}, pos: make(map[string]int)}
			byClass[rec.Class] = b
			tables = append(tables, b.t)
		}
		b.add(rec)
	}

	for _, b := range byClass {
		b.pad()
	}
	return tables
}

type builder struct {
	t   *Table
	pos map[string]int
}

func (b *builder) add(rec *cim.Record) {
	row := make([]string, len(b.t.Header), len(b.t.Header)+len(rec.Columns))
	for _, c := range rec.Columns {
		j, ok := b.pos[c.Name]
		if !ok {
			j = len(b.t.Header)
			b.pos[c.Name] = j
			b.t.Header = append(b.t.Header, c.Name)
		}
		for len(row) <= j {
			row = append(row, "")
		}
		row[j] = c.Value
	}
	b.t.Rows = append(b.t.Rows, row)
}

// pad widens rows created before later columns were discovered.
func (b *builder) pad() {
	width := len(b.t.Header)
	for i, row := range b.t.Rows {
		for len(row) < width {
			row = append(row, "")
		}
		b.t.Rows[i] = row
	}
}

// CleanOptions controls Clean.
type CleanOptions struct {
	// DropEnrichment removes every column spliced in from a referenced object.
	DropEnrichment bool
}

// Clean returns a projected copy of t without the identifier column, raw
// reference columns, mRID columns and element-attribute columns. Retained
// values are copied unchanged and t is not modified.
func Clean(t *Table, opts CleanOptions) *Table {
	var keep []int
	out := &Table{Class: t.Class}
	for j, name := range t.Header {
		if dropFromClean(name, opts) {
			continue
		}
		keep = append(keep, j)
		out.Header = append(out.Header, name)
	}

	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]string, len(keep))
		for k, j := range keep {
			r[k] = row[j]
		}
		out.Rows[i] = r
	}
	return out
}

func dropFromClean(name string, opts CleanOptions) bool {
	switch {
	case name == cim.IDColumn:
		return true
	case cim.IsReferenceColumn(name):
		return true
	case cim.IsMRIDColumn(name):
		return true
	case strings.HasPrefix(name, cim.AttrPrefix):
		return true
	case opts.DropEnrichment && cim.IsEnrichmentColumn(name):
		return true
	}
	return false
}
