package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cimtab/internal/cim"
)

func record(class, id string, cols ...string) *cim.Record {
	rec := cim.NewRecord(class, id)
	for i := 0; i+1 < len(cols); i += 2 {
		rec.Columns = append(rec.Columns, cim.Column{Name: cols[i], Value: cols[i+1]})
	}
	return rec
}

func TestAssembleGroupsByClassInDiscoveryOrder(t *testing.T) {
	tables := Assemble([]*cim.Record{
		record("Terminal", "_t1", "name", "T1"),
		record("BaseVoltage", "_bv1", "nominalVoltage", "110"),
		record("Terminal", "_t2", "name", "T2", "sequenceNumber", "2"),
		nil,
	})

	require.Len(t, tables, 2)
	assert.Equal(t, "Terminal", tables[0].Class)
	assert.Equal(t, "BaseVoltage", tables[1].Class)

	term := tables[0]
	assert.Equal(t, []string{cim.IDColumn, "name", "sequenceNumber"}, term.Header)
	assert.Equal(t, [][]string{
		{"_t1", "T1", ""},
		{"_t2", "T2", "2"},
	}, term.Rows)
	assert.Equal(t, 2, term.Len())
}

func TestAssembleUnionKeepsFirstSeenOrder(t *testing.T) {
	tables := Assemble([]*cim.Record{
		record("A", "_1", "x", "1"),
		record("A", "_2", "y", "2", "x", "3"),
		record("A", "_3", "z", "4"),
	})

	require.Len(t, tables, 1)
	tbl := tables[0]
	assert.Equal(t, []string{cim.IDColumn, "x", "y", "z"}, tbl.Header)
	for _, row := range tbl.Rows {
		assert.Len(t, row, len(tbl.Header), "every row is rectangular")
	}

	v, ok := tbl.Cell(1, "x")
	require.True(t, ok)
	assert.Equal(t, "3", v)

	v, ok = tbl.Cell(0, "z")
	require.True(t, ok)
	assert.Empty(t, v)

	_, ok = tbl.Cell(0, "missing")
	assert.False(t, ok)
	_, ok = tbl.Cell(9, "x")
	assert.False(t, ok)
}

func TestAssembleEmpty(t *testing.T) {
	assert.Empty(t, Assemble(nil))
}

func scenarioTable() *Table {
	return Assemble([]*cim.Record{record("ACLineSegment", "_ln1",
		"length", "12.3",
		"ConductingEquipment.BaseVoltage__resource", "_bv1",
		"ConductingEquipment.BaseVoltage__BaseVoltage.nominalVoltage", "110",
	)})[0]
}

func TestCleanKeepsEnrichmentByDefault(t *testing.T) {
	clean := Clean(scenarioTable(), CleanOptions{})

	assert.Equal(t, []string{"length", "ConductingEquipment.BaseVoltage__BaseVoltage.nominalVoltage"}, clean.Header)
	assert.Equal(t, [][]string{{"12.3", "110"}}, clean.Rows)
}

func TestCleanDropEnrichment(t *testing.T) {
	clean := Clean(scenarioTable(), CleanOptions{DropEnrichment: true})

	assert.Equal(t, []string{"length"}, clean.Header)
	assert.Equal(t, [][]string{{"12.3"}}, clean.Rows)
}

func TestCleanDropsIdentifierColumns(t *testing.T) {
	src := Assemble([]*cim.Record{record("BaseVoltage", "_bv1",
		"@origin", "export",
		"IdentifiedObject.mRID", "bv1",
		"IdentifiedObject.name", "110 kV",
		"VoltageLevel.BaseVoltage__resource", "_x",
		"X__Y.Z__resource", "_y",
		"X__Y.IdentifiedObject.MRID", "deadbeef",
		"mRID", "plain",
	)})[0]

	clean := Clean(src, CleanOptions{})
	assert.Equal(t, []string{"IdentifiedObject.name"}, clean.Header)
	assert.Equal(t, [][]string{{"110 kV"}}, clean.Rows)
}

func TestCleanIsPure(t *testing.T) {
	src := scenarioTable()
	header := append([]string(nil), src.Header...)
	rows := [][]string{append([]string(nil), src.Rows[0]...)}

	clean := Clean(src, CleanOptions{DropEnrichment: true})
	clean.Rows[0][0] = "changed"

	assert.Equal(t, header, src.Header)
	assert.Equal(t, rows, src.Rows)
}

func TestCleanColumnsAreSubsetWithSameValues(t *testing.T) {
	src := scenarioTable()
	clean := Clean(src, CleanOptions{})

	for _, name := range clean.Header {
		j := src.Column(name)
		require.GreaterOrEqual(t, j, 0, name)
		for i := range src.Rows {
			got, _ := clean.Cell(i, name)
			assert.Equal(t, src.Rows[i][j], got)
		}
	}
}

func TestDigestIsStableAndNameSensitive(t *testing.T) {
	a, err := scenarioTable().Digest(Name("ACLineSegment", ViewEnriched))
	require.NoError(t, err)
	b, err := scenarioTable().Digest(Name("ACLineSegment", ViewEnriched))
	require.NoError(t, err)
	c, err := scenarioTable().Digest(Name("ACLineSegment", ViewClean))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestName(t *testing.T) {
	assert.Equal(t, "Terminal_enriched", Name("Terminal", ViewEnriched))
	assert.Equal(t, "Terminal_clean", Name("Terminal", ViewClean))
}
