package testutil

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Namespaces names the prefixes and URIs used when rendering a document.
// Varying them must not change anything downstream of the parser.
type Namespaces struct {
	RDFPrefix string
	RDF       string
	CIMPrefix string
	CIM       string
}

// Namespace sets seen in real EQ exports.
var (
	CIM16 = Namespaces{
		RDFPrefix: "rdf",
		RDF:       "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		CIMPrefix: "cim",
		CIM:       "http://iec.ch/TC57/2013/CIM-schema-cim16#",
	}
	CIM100 = Namespaces{
		RDFPrefix: "r",
		RDF:       "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		CIMPrefix: "c",
		CIM:       "http://iec.ch/TC57/CIM100#",
	}
)

// Property is a child element of a resource.
type Property struct {
	Name  string
	Value string
	Ref   bool
}

// Scalar returns a text-valued property.
func Scalar(name, value string) Property {
	return Property{Name: name, Value: value}
}

// Ref returns a property pointing at target via rdf:resource="#target".
func Ref(name, target string) Property {
	return Property{Name: name, Value: target, Ref: true}
}

// Resource is a top-level object element.
type Resource struct {
	Class string
	ID    string

	// About renders rdf:about="#ID" instead of rdf:ID="ID".
	About bool

	// Description renders an rdf:Description wrapper with an rdf:type child.
	Description bool

	Props []Property
}

// Document renders resources as an RDF/XML EQ document.
func (ns Namespaces) Document(resources ...Resource) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, `<%s:RDF xmlns:%s="%s" xmlns:%s="%s">`+"\n",
		ns.RDFPrefix, ns.RDFPrefix, ns.RDF, ns.CIMPrefix, ns.CIM)

	for _, r := range resources {
		tag := ns.CIMPrefix + ":" + r.Class
		if r.Description {
			tag = ns.RDFPrefix + ":Description"
		}

		idAttr := fmt.Sprintf(`%s:ID="%s"`, ns.RDFPrefix, escape(r.ID))
		if r.About {
			idAttr = fmt.Sprintf(`%s:about="#%s"`, ns.RDFPrefix, escape(r.ID))
		}
		if r.ID == "" {
			idAttr = ""
		}

		fmt.Fprintf(&b, "  <%s %s>\n", tag, idAttr)
		if r.Description {
			fmt.Fprintf(&b, `    <%s:type %s:resource="%s%s"/>`+"\n", ns.RDFPrefix, ns.RDFPrefix, ns.CIM, r.Class)
		}
		for _, p := range r.Props {
			ptag := ns.CIMPrefix + ":" + p.Name
			if p.Ref {
				fmt.Fprintf(&b, `    <%s %s:resource="#%s"/>`+"\n", ptag, ns.RDFPrefix, escape(p.Value))
				continue
			}
			fmt.Fprintf(&b, "    <%s>%s</%s>\n", ptag, escape(p.Value), ptag)
		}
		fmt.Fprintf(&b, "  </%s>\n", tag)
	}

	fmt.Fprintf(&b, "</%s:RDF>\n", ns.RDFPrefix)
	return b.String()
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// SampleNetwork returns a small EQ model with a three-hop containment chain:
// Terminal -> ConnectivityNode -> VoltageLevel -> Substation.
func SampleNetwork() []Resource {
	return []Resource{
		{Class: "BaseVoltage", ID: "_bv1", Props: []Property{
			Scalar("IdentifiedObject.mRID", "bv1"),
			Scalar("IdentifiedObject.name", "110 kV"),
			Scalar("BaseVoltage.nominalVoltage", "110"),
		}},
		{Class: "Substation", ID: "_sub1", Props: []Property{
			Scalar("IdentifiedObject.name", "North"),
		}},
		{Class: "VoltageLevel", ID: "_vl1", Props: []Property{
			Scalar("IdentifiedObject.name", "North 110"),
			Ref("VoltageLevel.Substation", "_sub1"),
			Ref("VoltageLevel.BaseVoltage", "_bv1"),
		}},
		{Class: "ConnectivityNode", ID: "_cn1", Props: []Property{
			Scalar("IdentifiedObject.name", "CN1"),
			Ref("ConnectivityNode.ConnectivityNodeContainer", "_vl1"),
		}},
		{Class: "ACLineSegment", ID: "_ln1", Props: []Property{
			Scalar("IdentifiedObject.name", "Line 1"),
			Scalar("Conductor.length", "12.3"),
			Ref("ConductingEquipment.BaseVoltage", "_bv1"),
		}},
		{Class: "Terminal", ID: "_t1", Props: []Property{
			Scalar("IdentifiedObject.name", "T1"),
			Scalar("ACDCTerminal.sequenceNumber", "1"),
			Ref("Terminal.ConductingEquipment", "_ln1"),
			Ref("Terminal.ConnectivityNode", "_cn1"),
		}},
	}
}
