package cim

import "strings"

// Column naming markers.
const (
	// IDColumn is the identifier column present on every record.
	IDColumn = "rdf_ID"

	// ResourceSuffix marks a raw reference column.
	ResourceSuffix = "__resource"

	// Separator joins a reference field with the columns spliced in from its target.
	Separator = "__"

	// AttrPrefix marks columns taken from attributes of the object element itself.
	AttrPrefix = "@"
)

// FieldKind tags a Field as a scalar value or a pointer to another object.
type FieldKind uint8

const (
	// Scalar fields hold the trimmed text content of a child element.
	Scalar FieldKind = iota

	// Reference fields hold the identifier named by an rdf:resource attribute.
	Reference
)

// String returns the lowercase kind name.
func (k FieldKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Reference:
		return "reference"
	default:
		return "unknown"
	}
}

// Field is one property of an Object.
type Field struct {
	// Name is the namespace-free child tag, e.g. "IdentifiedObject.name".
	Name string

	// Kind selects how Value is interpreted.
	Kind FieldKind

	// Value is the scalar text, or the target identifier with any leading '#' removed.
	Value string
}

// Column returns the record column this field occupies.
// Reference fields get ResourceSuffix appended.
func (f Field) Column() string {
	if f.Kind == Reference {
		return f.Name + ResourceSuffix
	}
	return f.Name
}

// Object is one RDF resource of the EQ document.
type Object struct {
	// ID is the identifier from rdf:ID, or rdf:about with a leading '#' removed.
	ID string

	// Class is the CIM class name, e.g. "ACLineSegment".
	Class string

	// Fields are kept in document order.
	Fields []Field

	// Line is the source line of the object element, 0 when unknown.
	Line int
}

// Set stores f, replacing an earlier field occupying the same column.
// The replaced field keeps its original position. Reports whether a
// replacement happened.
func (o *Object) Set(f Field) bool {
	col := f.Column()
	for i := range o.Fields {
		if o.Fields[i].Column() == col {
			o.Fields[i] = f
			return true
		}
	}
	o.Fields = append(o.Fields, f)
	return false
}

// Field returns the field stored under the given column name.
func (o *Object) Field(column string) (Field, bool) {
	for _, f := range o.Fields {
		if f.Column() == column {
			return f, true
		}
	}
	return Field{}, false
}

// References returns the reference fields in document order.
func (o *Object) References() []Field {
	var refs []Field
	for _, f := range o.Fields {
		if f.Kind == Reference {
			refs = append(refs, f)
		}
	}
	return refs
}

// Column is a named cell of a Record.
type Column struct {
	Name  string
	Value string
}

// Record is the flattened form of an Object.
// Columns are ordered; the first one is always IDColumn.
type Record struct {
	Class   string
	ID      string
	Columns []Column
}

// NewRecord returns a record holding only the identifier column.
func NewRecord(class, id string) *Record {
	return &Record{
		Class:   class,
		ID:      id,
		Columns: []Column{{Name: IDColumn, Value: id}},
	}
}

// Get returns the value stored under name.
func (r *Record) Get(name string) (string, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// Has reports whether the record carries a column called name.
func (r *Record) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns the column names in order.
func (r *Record) Names() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return names
}

// IsReferenceColumn reports whether name is a raw pointer column at any
// nesting level.
func IsReferenceColumn(name string) bool {
	return strings.Contains(name, ResourceSuffix)
}

// IsEnrichmentColumn reports whether name was spliced in from a referenced
// object. The object's own raw reference columns ("X__resource") are not
// enrichment columns; everything else joined with Separator is.
func IsEnrichmentColumn(name string) bool {
	n := strings.Count(name, Separator)
	if n == 0 {
		return false
	}
	return n > 1 || !strings.HasSuffix(name, ResourceSuffix)
}

// IsMRIDColumn reports whether name equals or ends with an mRID marker,
// compared case-insensitively ("mRID", "IdentifiedObject.mRID", "x__y.mrid").
func IsMRIDColumn(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), "mrid")
}
