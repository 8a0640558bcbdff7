package harness

import (
	"fmt"
	"slices"

	"github.com/roach88/cimtab/internal/cim"
	"github.com/roach88/cimtab/internal/diag"
	"github.com/roach88/cimtab/internal/pipeline"
	"github.com/roach88/cimtab/internal/table"
)

// check evaluates a single assertion against model.
func check(model *pipeline.Model, a Assertion) error {
	switch a.Type {
	case AssertCell:
		return checkCell(model, a)
	case AssertAbsentColumn:
		return checkAbsentColumn(model, a)
	case AssertHeader:
		return checkHeader(model, a)
	case AssertRowCount:
		return checkRowCount(model, a)
	case AssertDiagnosticCount:
		return checkDiagnosticCount(model, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func findClass(model *pipeline.Model, class string) (pipeline.ClassTables, error) {
	for _, ct := range model.Tables {
		if ct.Class == class {
			return ct, nil
		}
	}
	return pipeline.ClassTables{}, fmt.Errorf("no table for class %s", class)
}

func view(ct pipeline.ClassTables, name string) *table.Table {
	if name == table.ViewClean {
		return ct.Clean
	}
	return ct.Enriched
}

func viewName(a Assertion) string {
	if a.View == "" {
		return table.ViewEnriched
	}
	return a.View
}

func checkCell(model *pipeline.Model, a Assertion) error {
	ct, err := findClass(model, a.Class)
	if err != nil {
		return err
	}

	row := -1
	for i := range ct.Enriched.Rows {
		if id, _ := ct.Enriched.Cell(i, cim.IDColumn); id == a.ID {
			row = i
			break
		}
	}
	if row < 0 {
		return fmt.Errorf("%s has no row %s", a.Class, a.ID)
	}

	t := view(ct, viewName(a))
	got, ok := t.Cell(row, a.Column)
	if !ok {
		return fmt.Errorf("%s has no column %s", table.Name(a.Class, viewName(a)), a.Column)
	}
	if got != *a.Equals {
		return fmt.Errorf("%s[%s].%s = %q, want %q", table.Name(a.Class, viewName(a)), a.ID, a.Column, got, *a.Equals)
	}
	return nil
}

func checkAbsentColumn(model *pipeline.Model, a Assertion) error {
	ct, err := findClass(model, a.Class)
	if err != nil {
		return err
	}
	if view(ct, viewName(a)).Column(a.Column) >= 0 {
		return fmt.Errorf("%s has column %s", table.Name(a.Class, viewName(a)), a.Column)
	}
	return nil
}

func checkHeader(model *pipeline.Model, a Assertion) error {
	ct, err := findClass(model, a.Class)
	if err != nil {
		return err
	}
	got := view(ct, viewName(a)).Header
	if !slices.Equal(got, a.Columns) {
		return fmt.Errorf("%s header = %v, want %v", table.Name(a.Class, viewName(a)), got, a.Columns)
	}
	return nil
}

func checkRowCount(model *pipeline.Model, a Assertion) error {
	got := 0
	if ct, err := findClass(model, a.Class); err == nil {
		got = ct.Enriched.Len()
	}
	if got != *a.Count {
		return fmt.Errorf("%s has %d rows, want %d", a.Class, got, *a.Count)
	}
	return nil
}

func checkDiagnosticCount(model *pipeline.Model, a Assertion) error {
	got := model.Diags.Count(diag.Kind(a.Kind))
	if got != *a.Count {
		return fmt.Errorf("%d %s diagnostic(s), want %d", got, a.Kind, *a.Count)
	}
	return nil
}
