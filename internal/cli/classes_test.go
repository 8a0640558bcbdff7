package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cimtab/internal/pipeline"
)

func TestClassesCommand_Text(t *testing.T) {
	input := writeSampleDocument(t, t.TempDir())

	out, _, err := execute(t, NewClassesCommand(&RootOptions{Format: "text"}), input)
	require.NoError(t, err)
	assert.Contains(t, out, "BaseVoltage")
	assert.Contains(t, out, "ACLineSegment")
	assert.Less(t, strings.Index(out, "BaseVoltage"), strings.Index(out, "Terminal"), "document order")
}

func TestClassesCommand_JSON(t *testing.T) {
	input := writeSampleDocument(t, t.TempDir())

	out, _, err := execute(t, NewClassesCommand(&RootOptions{Format: "json"}), input)
	require.NoError(t, err)

	var resp struct {
		Status string                `json:"status"`
		Data   []pipeline.ClassCount `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 6)
	assert.Equal(t, pipeline.ClassCount{Class: "BaseVoltage", Objects: 1}, resp.Data[0])
	assert.Equal(t, pipeline.ClassCount{Class: "Terminal", Objects: 1}, resp.Data[5])
}
