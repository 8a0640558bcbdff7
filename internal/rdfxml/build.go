package rdfxml

import (
	"fmt"
	"strings"

	"github.com/roach88/cimtab/internal/cim"
	"github.com/roach88/cimtab/internal/diag"
)

// RDF vocabulary local names consulted by the builder.
const (
	rdfRoot        = "RDF"
	rdfDescription = "Description"
	rdfType        = "type"
	rdfID          = "ID"
	rdfAbout       = "about"
	rdfResource    = "resource"
)

// Build produces one object per resource element directly under the
// rdf:RDF root, in document order.
//
// Elements without rdf:ID or rdf:about are skipped and reported as
// diag.MalformedRecord. Repeated child tags keep the last value (see
// cim.Object.Set) and are reported as diag.RepeatedField.
func Build(root *Element, diags *diag.Collector) []*cim.Object {
	if root == nil {
		return nil
	}

	candidates := root.Children
	if root.Local() != rdfRoot && identifier(root) != "" {
		// A bare resource element without an rdf:RDF wrapper.
		candidates = []*Element{root}
	}

	objects := make([]*cim.Object, 0, len(candidates))
	for _, el := range candidates {
		obj, ok := buildObject(el, diags)
		if !ok {
			continue
		}
		objects = append(objects, obj)
	}
	return objects
}

func buildObject(el *Element, diags *diag.Collector) (*cim.Object, bool) {
	class := className(el)

	id := identifier(el)
	if id == "" {
		diags.Add(diag.Diagnostic{
			Kind:    diag.MalformedRecord,
			Class:   class,
			Line:    el.Line,
			Message: fmt.Sprintf("%s element has neither rdf:ID nor rdf:about", class),
		})
		return nil, false
	}

	obj := &cim.Object{ID: id, Class: class, Line: el.Line}

	for _, a := range el.Attrs {
		local := LocalName(a.Name.Local)
		if local == rdfID || local == rdfAbout {
			continue
		}
		obj.Set(cim.Field{Name: cim.AttrPrefix + local, Kind: cim.Scalar, Value: a.Value})
	}

	for _, child := range el.Children {
		name := child.Local()
		res, isRef := child.Attr(rdfResource)

		if name == rdfType && isRef {
			continue
		}

		f := cim.Field{Name: name, Kind: cim.Scalar, Value: strings.TrimSpace(child.Text)}
		if isRef {
			f = cim.Field{Name: name, Kind: cim.Reference, Value: strings.TrimPrefix(res, "#")}
		}

		if obj.Set(f) {
			diags.Add(diag.Diagnostic{
				Kind:    diag.RepeatedField,
				Subject: id,
				Class:   class,
				Field:   f.Column(),
				Line:    child.Line,
				Message: "repeated child element, last value kept",
			})
		}
	}

	return obj, true
}

// className returns the element's local tag, or for rdf:Description the
// fragment of its rdf:type resource.
func className(el *Element) string {
	local := el.Local()
	if local != rdfDescription {
		return local
	}
	for _, child := range el.Children {
		if child.Local() != rdfType {
			continue
		}
		if res, ok := child.Attr(rdfResource); ok && res != "" {
			return LocalName(res)
		}
	}
	return local
}

// identifier returns rdf:ID verbatim, else rdf:about without its leading '#'.
func identifier(el *Element) string {
	if id, ok := el.Attr(rdfID); ok && id != "" {
		return id
	}
	if about, ok := el.Attr(rdfAbout); ok {
		return strings.TrimPrefix(about, "#")
	}
	return ""
}
