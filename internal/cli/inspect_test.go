package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectCommand_Text(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeSampleDocument(t, tmpDir)

	out, _, err := execute(t, NewInspectCommand(&RootOptions{Format: "text"}), input)
	require.NoError(t, err)

	assert.Contains(t, out, "6 object(s), 6 class(es)")
	assert.Contains(t, out, "CLASS")
	assert.Contains(t, out, "Terminal")
	assert.Contains(t, out, "No diagnostics")

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "inspect writes nothing")
}

func TestInspectCommand_JSON(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeSampleDocument(t, tmpDir)

	out, _, err := execute(t, NewInspectCommand(&RootOptions{Format: "json"}), "--max-depth", "0", input)
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   InspectResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 6, resp.Data.Objects)
	require.Len(t, resp.Data.Classes, 6)

	// Terminal: rdf_ID, name, sequenceNumber and two raw references; no enrichment at depth 0.
	term := resp.Data.Classes[5]
	assert.Equal(t, "Terminal", term.Class)
	assert.Equal(t, 1, term.Rows)
	assert.Equal(t, 5, term.EnrichedColumns)
	assert.Equal(t, 2, term.CleanColumns)
	assert.Nil(t, term.Header)
	assert.Positive(t, resp.Data.Diagnostics.Total)
}

func TestInspectCommand_VerboseHeaders(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeSampleDocument(t, tmpDir)

	out, _, err := execute(t, NewInspectCommand(&RootOptions{Format: "text", Verbose: true}), input)
	require.NoError(t, err)
	assert.Contains(t, out, "Terminal.ConductingEquipment__ACLineSegment.Conductor.length")
}

func TestInspectCommand_MissingInput(t *testing.T) {
	_, _, err := execute(t, NewInspectCommand(&RootOptions{Format: "text"}), filepath.Join(t.TempDir(), "none.zip"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
