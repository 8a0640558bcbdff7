package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cimtab/internal/diag"
)

// TestGolden runs every scenario under testdata/scenarios against its
// golden snapshot.
func TestGolden(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios", "")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		s, err := LoadScenario(file)
		require.NoError(t, err)

		t.Run(s.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, result.Errors)
		})
	}
}

func TestDiagnosticLine(t *testing.T) {
	tests := []struct {
		d    diag.Diagnostic
		want string
	}{
		{
			d:    diag.Diagnostic{Kind: diag.MalformedRecord, Class: "Terminal", Line: 4, Message: "ignored"},
			want: "MALFORMED_RECORD line=4",
		},
		{
			d:    diag.Diagnostic{Kind: diag.UnresolvedReference, Subject: "_t1", Field: "Terminal.ConnectivityNode__resource", Target: "_x"},
			want: "UNRESOLVED_REFERENCE object=_t1 field=Terminal.ConnectivityNode__resource target=_x",
		},
		{
			d:    diag.Diagnostic{Kind: diag.DuplicateIdentifier, Subject: "_a", Line: 12},
			want: "DUPLICATE_IDENTIFIER object=_a line=12",
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, diagnosticLine(tt.d))
	}
}
