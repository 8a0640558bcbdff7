package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/cimtab/internal/config"
	"github.com/roach88/cimtab/internal/pipeline"
)

// Run executes a scenario: the document is written to a temporary file,
// converted in memory and checked against every assertion.
//
// A conversion error is returned as err; failed assertions are reported
// through the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	doc, err := scenario.Render()
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "cimtab-scenario-")
	if err != nil {
		return nil, fmt.Errorf("create scenario dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "document.xml")
	if err := os.WriteFile(input, []byte(doc), 0o644); err != nil {
		return nil, fmt.Errorf("write scenario document: %w", err)
	}

	model, err := pipeline.Load(ctx, pipeline.Options{
		Input:  input,
		Config: scenario.config(dir),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	result.Model = model
	for i, a := range scenario.Assertions {
		if err := check(model, a); err != nil {
			result.AddError(fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return result, nil
}

func (s *Scenario) config(out string) *config.Config {
	cfg := config.Default()
	cfg.Out = out
	cfg.Workers = max(s.Options.Workers, 1)
	cfg.Clean.DropEnrichment = s.Options.DropEnrichment
	if s.Options.MaxDepth != nil {
		cfg.MaxDepth = *s.Options.MaxDepth
	}
	return cfg
}
