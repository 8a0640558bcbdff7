// Package diag collects the non-fatal conditions found while converting an
// EQ document.
//
// Nothing recorded here aborts a run. Conditions are deduplicated, counted
// by kind and reported once processing ends.
package diag

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Kind categorizes a diagnostic.
type Kind string

const (
	// MalformedRecord: an object element has neither rdf:ID nor rdf:about.
	MalformedRecord Kind = "MALFORMED_RECORD"

	// UnresolvedReference: a reference names an identifier missing from the index.
	UnresolvedReference Kind = "UNRESOLVED_REFERENCE"

	// CycleDetected: a reference chain revisits an object already on the path.
	CycleDetected Kind = "CYCLE_DETECTED"

	// DepthExceeded: a reference chain is longer than the configured bound.
	DepthExceeded Kind = "DEPTH_EXCEEDED"

	// DuplicateIdentifier: two objects share an identifier.
	DuplicateIdentifier Kind = "DUPLICATE_IDENTIFIER"

	// RepeatedField: an object repeats a child tag; the later value wins.
	RepeatedField Kind = "REPEATED_FIELD"
)

// Kinds lists every kind in reporting order.
var Kinds = []Kind{
	MalformedRecord,
	DuplicateIdentifier,
	RepeatedField,
	UnresolvedReference,
	CycleDetected,
	DepthExceeded,
}

// Diagnostic is a single non-fatal condition.
type Diagnostic struct {
	Kind Kind `json:"kind"`

	// Subject is the identifier of the object the condition was found on.
	// Empty for malformed records.
	Subject string `json:"subject,omitempty"`

	// Class is the class of the subject.
	Class string `json:"class,omitempty"`

	// Field is the column involved, if any.
	Field string `json:"field,omitempty"`

	// Target is the referenced identifier, if any.
	Target string `json:"target,omitempty"`

	// Line is the source line, 0 when unknown.
	Line int `json:"line,omitempty"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// String formats the diagnostic for logs and text output.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s", d.Kind, d.Message)
	if d.Subject != "" {
		s += fmt.Sprintf(" (object=%s", d.Subject)
		if d.Field != "" {
			s += ", field=" + d.Field
		}
		s += ")"
	}
	if d.Line > 0 {
		s += fmt.Sprintf(" [line %d]", d.Line)
	}
	return s
}

func (d Diagnostic) key() string {
	return string(d.Kind) + "\x00" + d.Subject + "\x00" + d.Field + "\x00" + d.Target + "\x00" + fmt.Sprint(d.Line)
}

// Collector accumulates diagnostics.
//
// Thread-safe: resolution workers append concurrently. Identical
// diagnostics (same kind, subject, field, target and line) are kept once.
type Collector struct {
	mu     sync.Mutex
	seen   map[string]bool
	items  []Diagnostic
	counts map[Kind]int
	logger *slog.Logger
}

// NewCollector creates an empty collector.
// Each newly seen diagnostic is logged at debug level on logger; nil
// disables logging.
func NewCollector(logger *slog.Logger) *Collector {
	return &Collector{
		seen:   make(map[string]bool),
		counts: make(map[Kind]int),
		logger: logger,
	}
}

// Add records d unless an identical diagnostic was already recorded.
// Reports whether d was new.
// A nil collector discards everything.
func (c *Collector) Add(d Diagnostic) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	k := d.key()
	if c.seen[k] {
		return false
	}
	c.seen[k] = true
	c.items = append(c.items, d)
	c.counts[d.Kind]++

	if c.logger != nil {
		c.logger.Debug("diagnostic",
			"kind", string(d.Kind),
			"object", d.Subject,
			"field", d.Field,
			"target", d.Target,
			"message", d.Message,
		)
	}
	return true
}

// Len returns the number of distinct diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Count returns the number of distinct diagnostics of kind k.
func (c *Collector) Count(k Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[k]
}

// All returns the diagnostics in a deterministic order: by kind (see
// Kinds), then subject, field and target. Append order depends on worker
// scheduling, so it is never exposed directly.
func (c *Collector) All() []Diagnostic {
	c.mu.Lock()
	out := slices.Clone(c.items)
	c.mu.Unlock()

	slices.SortStableFunc(out, compare)
	return out
}

// Of returns the diagnostics of kind k, ordered as All.
func (c *Collector) Of(k Kind) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.All() {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

func compare(a, b Diagnostic) int {
	if a.Kind != b.Kind {
		return kindRank(a.Kind) - kindRank(b.Kind)
	}
	for _, pair := range [][2]string{
		{a.Subject, b.Subject},
		{a.Field, b.Field},
		{a.Target, b.Target},
	} {
		if pair[0] != pair[1] {
			if pair[0] < pair[1] {
				return -1
			}
			return 1
		}
	}
	return a.Line - b.Line
}

func kindRank(k Kind) int {
	if i := slices.Index(Kinds, k); i >= 0 {
		return i
	}
	return len(Kinds)
}
