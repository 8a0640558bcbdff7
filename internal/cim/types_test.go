package cim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldColumn(t *testing.T) {
	assert.Equal(t, "ACLineSegment.length", Field{Name: "ACLineSegment.length", Kind: Scalar}.Column())
	assert.Equal(t, "ConductingEquipment.BaseVoltage__resource",
		Field{Name: "ConductingEquipment.BaseVoltage", Kind: Reference}.Column())
}

func TestObjectSetLastWriteWins(t *testing.T) {
	obj := &Object{ID: "_ln1", Class: "ACLineSegment"}

	assert.False(t, obj.Set(Field{Name: "IdentifiedObject.name", Value: "first"}))
	assert.False(t, obj.Set(Field{Name: "ACLineSegment.r", Value: "0.1"}))
	assert.True(t, obj.Set(Field{Name: "IdentifiedObject.name", Value: "second"}))

	require.Len(t, obj.Fields, 2)
	assert.Equal(t, "IdentifiedObject.name", obj.Fields[0].Name, "replacement keeps first position")
	assert.Equal(t, "second", obj.Fields[0].Value)
}

func TestObjectSetScalarAndReferenceDoNotCollide(t *testing.T) {
	obj := &Object{ID: "_t1", Class: "Terminal"}
	obj.Set(Field{Name: "Terminal.ConnectivityNode", Kind: Scalar, Value: "text"})
	obj.Set(Field{Name: "Terminal.ConnectivityNode", Kind: Reference, Value: "_cn1"})

	assert.Len(t, obj.Fields, 2)
	refs := obj.References()
	require.Len(t, refs, 1)
	assert.Equal(t, "_cn1", refs[0].Value)

	f, ok := obj.Field("Terminal.ConnectivityNode__resource")
	require.True(t, ok)
	assert.Equal(t, Reference, f.Kind)
}

func TestRecordAccessors(t *testing.T) {
	rec := NewRecord("BaseVoltage", "_bv1")
	rec.Columns = append(rec.Columns, Column{Name: "BaseVoltage.nominalVoltage", Value: "110"})

	v, ok := rec.Get(IDColumn)
	require.True(t, ok)
	assert.Equal(t, "_bv1", v)
	assert.True(t, rec.Has("BaseVoltage.nominalVoltage"))
	assert.False(t, rec.Has("missing"))
	assert.Equal(t, []string{IDColumn, "BaseVoltage.nominalVoltage"}, rec.Names())
}

func TestColumnClassifiers(t *testing.T) {
	tests := []struct {
		name       string
		reference  bool
		enrichment bool
		mrid       bool
	}{
		{"length", false, false, false},
		{"ConductingEquipment.BaseVoltage__resource", true, false, false},
		{"ConductingEquipment.BaseVoltage__BaseVoltage.nominalVoltage", false, true, false},
		{"Terminal.ConductingEquipment__ACLineSegment.Equipment.EquipmentContainer__resource", true, true, false},
		{"IdentifiedObject.mRID", false, false, true},
		{"x__BaseVoltage.IdentifiedObject.MRID", false, true, true},
		{"mRID", false, false, true},
		{"@about", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.reference, IsReferenceColumn(tt.name))
			assert.Equal(t, tt.enrichment, IsEnrichmentColumn(tt.name))
			assert.Equal(t, tt.mrid, IsMRIDColumn(tt.name))
		})
	}
}

func TestFieldKindString(t *testing.T) {
	assert.Equal(t, "scalar", Scalar.String())
	assert.Equal(t, "reference", Reference.String())
	assert.Equal(t, "unknown", FieldKind(9).String())
}
