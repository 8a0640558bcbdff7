package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/cimtab/internal/table"
)

// createTestStore creates a new store in a temporary directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestTable returns a small enriched ACLineSegment table.
func createTestTable() *table.Table {
	return &table.Table{
		Class: "ACLineSegment",
		Header: []string{
			"rdf_ID",
			"Conductor.length",
			"ConductingEquipment.BaseVoltage__resource",
			"ConductingEquipment.BaseVoltage__BaseVoltage.BaseVoltage.nominalVoltage",
		},
		Rows: [][]string{
			{"_ln1", "12.3", "_bv1", "110"},
			{"_ln2", "", "_bv1", "110"},
		},
	}
}
