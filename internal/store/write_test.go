package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/roach88/cimtab/internal/table"
)

func TestWriteTable_Basic(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	tbl := createTestTable()

	if err := s.WriteTable(ctx, "ACLineSegment_enriched", tbl, WithRunID("run-1")); err != nil {
		t.Fatalf("WriteTable() failed: %v", err)
	}

	var class, view, runID string
	var rowCount int
	err := s.db.QueryRow(`
		SELECT class, view, row_count, run_id FROM cim_tables WHERE name = ?
	`, "ACLineSegment_enriched").Scan(&class, &view, &rowCount, &runID)
	if err != nil {
		t.Fatalf("catalog query failed: %v", err)
	}

	if class != "ACLineSegment" {
		t.Errorf("class = %q, want %q", class, "ACLineSegment")
	}
	if view != "enriched" {
		t.Errorf("view = %q, want %q", view, "enriched")
	}
	if rowCount != 2 {
		t.Errorf("row_count = %d, want 2", rowCount)
	}
	if runID != "run-1" {
		t.Errorf("run_id = %q, want %q", runID, "run-1")
	}

	columns := getTableColumns(t, s.db, `"ACLineSegment_enriched"`)
	want := append([]string{"_row"}, tbl.Header...)
	if !reflect.DeepEqual(columns, want) {
		t.Errorf("physical columns = %v, want %v", columns, want)
	}
}

func TestWriteTable_ReplacesExisting(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first := createTestTable()
	if err := s.WriteTable(ctx, "ACLineSegment_enriched", first); err != nil {
		t.Fatalf("first WriteTable() failed: %v", err)
	}

	second := &table.Table{Class: "ACLineSegment", Header: []string{"rdf_ID"}, Rows: [][]string{{"_ln9"}}}
	if err := s.WriteTable(ctx, "ACLineSegment_enriched", second); err != nil {
		t.Fatalf("second WriteTable() failed: %v", err)
	}

	got, err := s.ReadTable(ctx, "ACLineSegment_enriched")
	if err != nil {
		t.Fatalf("ReadTable() failed: %v", err)
	}
	if !reflect.DeepEqual(got.Rows, second.Rows) {
		t.Errorf("rows = %v, want %v", got.Rows, second.Rows)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM cim_tables").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("catalog has %d entries, want 1", count)
	}
}

func TestWriteTable_CaseInsensitiveColumnNames(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	tbl := &table.Table{
		Class:  "Thing",
		Header: []string{"rdf_ID", "mRID", "MRID", "mrid"},
		Rows:   [][]string{{"_1", "a", "b", "c"}},
	}
	if err := s.WriteTable(ctx, "Thing_enriched", tbl); err != nil {
		t.Fatalf("WriteTable() failed: %v", err)
	}

	got, err := s.ReadTable(ctx, "Thing_enriched")
	if err != nil {
		t.Fatalf("ReadTable() failed: %v", err)
	}
	if !reflect.DeepEqual(got.Header, tbl.Header) {
		t.Errorf("header = %v, want %v", got.Header, tbl.Header)
	}
	if !reflect.DeepEqual(got.Rows, tbl.Rows) {
		t.Errorf("rows = %v, want %v", got.Rows, tbl.Rows)
	}
}

func TestWriteTable_QuotesIdentifiers(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	tbl := &table.Table{
		Class:  `Odd"Class`,
		Header: []string{"rdf_ID", `say "hi"`, "select"},
		Rows:   [][]string{{"_1", "x", "y"}},
	}
	if err := s.WriteTable(ctx, table.Name(tbl.Class, table.ViewClean), tbl); err != nil {
		t.Fatalf("WriteTable() failed: %v", err)
	}

	got, err := s.ReadTable(ctx, table.Name(tbl.Class, table.ViewClean))
	if err != nil {
		t.Fatalf("ReadTable() failed: %v", err)
	}
	if !reflect.DeepEqual(got.Rows, tbl.Rows) {
		t.Errorf("rows = %v, want %v", got.Rows, tbl.Rows)
	}
}

func TestWriteTable_CanceledContext(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.WriteTable(ctx, "ACLineSegment_enriched", createTestTable()); err == nil {
		t.Error("expected error for canceled context, got nil")
	}
}

func TestPhysicalColumns(t *testing.T) {
	tests := []struct {
		header []string
		want   []string
	}{
		{[]string{"a", "b"}, []string{"a", "b"}},
		{[]string{"mRID", "mrid", "MRID"}, []string{"mRID", "mrid_2", "MRID_3"}},
		{[]string{"_row", "x"}, []string{"_row_2", "x"}},
		{[]string{"a", "a_2", "A"}, []string{"a", "a_2", "A_3"}},
	}

	for _, tt := range tests {
		got := physicalColumns(tt.header)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("physicalColumns(%v) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
