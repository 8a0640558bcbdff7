package testutil

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentIsWellFormed(t *testing.T) {
	for _, ns := range []Namespaces{CIM16, CIM100} {
		doc := ns.Document(SampleNetwork()...)

		dec := xml.NewDecoder(strings.NewReader(doc))
		for {
			_, err := dec.Token()
			if err != nil {
				assert.ErrorIs(t, err, io.EOF)
				break
			}
		}
	}
}

func TestDocumentRendering(t *testing.T) {
	doc := CIM16.Document(
		Resource{Class: "BaseVoltage", ID: "_bv1", Props: []Property{Scalar("BaseVoltage.nominalVoltage", "110")}},
		Resource{Class: "ACLineSegment", ID: "_ln1", About: true, Props: []Property{Ref("ConductingEquipment.BaseVoltage", "_bv1")}},
		Resource{Class: "Substation", ID: "_s1", Description: true},
	)

	assert.Contains(t, doc, `<cim:BaseVoltage rdf:ID="_bv1">`)
	assert.Contains(t, doc, `<cim:BaseVoltage.nominalVoltage>110</cim:BaseVoltage.nominalVoltage>`)
	assert.Contains(t, doc, `<cim:ACLineSegment rdf:about="#_ln1">`)
	assert.Contains(t, doc, `<cim:ConductingEquipment.BaseVoltage rdf:resource="#_bv1"/>`)
	assert.Contains(t, doc, `<rdf:type rdf:resource="http://iec.ch/TC57/2013/CIM-schema-cim16#Substation"/>`)
}

func TestDocumentEscapesValues(t *testing.T) {
	doc := CIM100.Document(Resource{Class: "Substation", ID: "_s1", Props: []Property{Scalar("IdentifiedObject.name", "A & B <x>")}})
	require.Contains(t, doc, "A &amp; B &lt;x&gt;")
}
