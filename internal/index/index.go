// Package index maps resource identifiers to parsed objects.
//
// An Index is built once from the full object list and is read-only
// afterwards, so any number of resolver goroutines may share it.
package index

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/cimtab/internal/cim"
	"github.com/roach88/cimtab/internal/diag"
)

// Index is an immutable identifier -> object mapping.
type Index struct {
	byKey map[string]*cim.Object
}

// Key canonicalises an identifier for lookup.
//
// It strips, in order, a leading '#', a "urn:uuid:" prefix and a leading
// '_'. When the remainder is a UUID its canonical lower-case form is used,
// so "_ABC…", "#_abc…" and "urn:uuid:abc…" all address the same object.
func Key(id string) string {
	k := strings.TrimPrefix(strings.TrimSpace(id), "#")
	if len(k) >= len("urn:uuid:") && strings.EqualFold(k[:len("urn:uuid:")], "urn:uuid:") {
		k = k[len("urn:uuid:"):]
	}
	k = strings.TrimPrefix(k, "_")
	if u, err := uuid.Parse(k); err == nil {
		return u.String()
	}
	return k
}

// Build indexes objects in order.
//
// Duplicate identifiers resolve last-write-wins; both the earlier and the
// later occurrence are reported as diag.DuplicateIdentifier.
func Build(objects []*cim.Object, diags *diag.Collector) *Index {
	idx := &Index{byKey: make(map[string]*cim.Object, len(objects))}

	for _, obj := range objects {
		k := Key(obj.ID)
		if k == "" {
			continue
		}
		if prev, ok := idx.byKey[k]; ok {
			diags.Add(diag.Diagnostic{
				Kind:    diag.DuplicateIdentifier,
				Subject: prev.ID,
				Class:   prev.Class,
				Line:    prev.Line,
				Message: fmt.Sprintf("identifier also used by a later %s; this occurrence is shadowed", obj.Class),
			})
			diags.Add(diag.Diagnostic{
				Kind:    diag.DuplicateIdentifier,
				Subject: obj.ID,
				Class:   obj.Class,
				Line:    obj.Line,
				Message: fmt.Sprintf("identifier already used by %s at line %d; this occurrence wins", prev.Class, prev.Line),
			})
		}
		idx.byKey[k] = obj
	}

	return idx
}

// Lookup returns the object registered under id, canonicalised with Key.
func (x *Index) Lookup(id string) (*cim.Object, bool) {
	obj, ok := x.byKey[Key(id)]
	return obj, ok
}

// Len returns the number of distinct identifiers.
func (x *Index) Len() int {
	return len(x.byKey)
}
