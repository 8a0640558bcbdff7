package harness

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/cimtab/internal/diag"
	"github.com/roach88/cimtab/internal/pipeline"
	"github.com/roach88/cimtab/internal/table"
)

// Snapshot renders every table of model in both views followed by the
// diagnostics. The output depends only on the document and options, never
// on worker scheduling.
func Snapshot(name string, model *pipeline.Model) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# scenario: %s\n", name)

	for _, ct := range model.Tables {
		for _, v := range []struct {
			name string
			t    *table.Table
		}{
			{table.Name(ct.Class, table.ViewEnriched), ct.Enriched},
			{table.Name(ct.Class, table.ViewClean), ct.Clean},
		} {
			fmt.Fprintf(&buf, "\n## %s\n", v.name)
			w := csv.NewWriter(&buf)
			if err := w.Write(v.t.Header); err != nil {
				return nil, err
			}
			if err := w.WriteAll(v.t.Rows); err != nil {
				return nil, err
			}
		}
	}

	buf.WriteString("\n## diagnostics\n")
	for _, d := range model.Diags.All() {
		buf.WriteString(diagnosticLine(d))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// diagnosticLine formats a diagnostic without its free-text message.
func diagnosticLine(d diag.Diagnostic) string {
	s := string(d.Kind)
	for _, kv := range [][2]string{
		{"object", d.Subject},
		{"field", d.Field},
		{"target", d.Target},
	} {
		if kv[1] != "" {
			s += " " + kv[0] + "=" + kv[1]
		}
	}
	if d.Line > 0 {
		s += fmt.Sprintf(" line=%d", d.Line)
	}
	return s
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	snapshot, err := Snapshot(scenario.Name, result.Model)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapshot)

	return result, nil
}
