// Package rdfxml turns an RDF/XML EQ document into cim.Objects.
//
// Parsing happens in two steps. Parse decodes the document into a generic
// Element tree (namespace URIs are kept but never consulted). Build walks
// the children of the rdf:RDF root and produces one object per resource.
//
// Names are compared through LocalName only, so CIM14, CIM15 and CIM16
// documents, or any other prefix/URI spelling, produce identical objects.
package rdfxml
