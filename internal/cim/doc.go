// Package cim provides the in-memory model shared by every stage of the
// EQ conversion: parsed objects, their tagged fields, flattened records and
// the canonical serialisation used to fingerprint output tables.
//
// This package imports nothing internal. The parser, index, resolver and
// table packages all build on it.
//
// Key conventions:
//   - The identifier column of every record is IDColumn ("rdf_ID")
//   - Reference columns carry ResourceSuffix ("__resource") at every stage
//   - Enrichment columns join the reference field and the target column
//     with Separator ("__")
//   - Element attributes become scalar columns prefixed with AttrPrefix ("@")
package cim
