package writer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/cimtab/internal/table"
)

// maxSheetName is the Excel limit on worksheet names, in characters.
const maxSheetName = 31

type xlsxWriter struct {
	dir string
}

// Write writes a single-sheet workbook named after the table's class.
func (w *xlsxWriter) Write(ctx context.Context, name string, t *table.Table) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Class)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	if err := setRow(sw, 1, t.Header); err != nil {
		return "", fmt.Errorf("write %s: header: %w", name, err)
	}
	for i, row := range t.Rows {
		if err := setRow(sw, i+2, row); err != nil {
			return "", fmt.Errorf("write %s: row %d: %w", name, i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	path := outputPath(w.dir, name, "xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

func (w *xlsxWriter) Close() error {
	return nil
}

func setRow(sw *excelize.StreamWriter, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return sw.SetRow(cell, row)
}

// sheetName maps a class name to a valid worksheet name.
func sheetName(class string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, class)
	name = strings.Trim(name, "'")
	if name == "" {
		return "Sheet1"
	}
	if utf8.RuneCountInString(name) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}
	return name
}
