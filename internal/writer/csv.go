package writer

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/roach88/cimtab/internal/table"
)

type csvWriter struct {
	dir string
}

// Write writes a UTF-8 CSV file with a header row.
func (w *csvWriter) Write(ctx context.Context, name string, t *table.Table) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := outputPath(w.dir, name, "csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(t.Header); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

func (w *csvWriter) Close() error {
	return nil
}
