package resolve

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/roach88/cimtab/internal/cim"
	"github.com/roach88/cimtab/internal/diag"
	"github.com/roach88/cimtab/internal/index"
)

// DefaultMaxDepth covers the usual CIM containment chains, e.g.
// Terminal → ConnectivityNode → VoltageLevel → Substation → SubGeographicalRegion.
const DefaultMaxDepth = 5

// Resolver flattens objects against an immutable index.
type Resolver struct {
	idx      *index.Index
	diags    *diag.Collector
	maxDepth int
	workers  int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth sets the maximum number of reference hops followed from a
// root object. Zero disables enrichment; negative values keep the default.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) {
		if n >= 0 {
			r.maxDepth = n
		}
	}
}

// WithWorkers sets the number of goroutines used by ResolveAll.
// Values below 2 resolve sequentially.
func WithWorkers(n int) Option {
	return func(r *Resolver) {
		r.workers = n
	}
}

// New creates a resolver over idx. Diagnostics go to diags, which may be nil.
func New(idx *index.Index, diags *diag.Collector, opts ...Option) *Resolver {
	r := &Resolver{
		idx:      idx,
		diags:    diags,
		maxDepth: DefaultMaxDepth,
		workers:  1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxDepth returns the configured hop bound.
func (r *Resolver) MaxDepth() int {
	return r.maxDepth
}

// Resolve returns the flattened record of obj.
func (r *Resolver) Resolve(obj *cim.Object) *cim.Record {
	return r.resolve(obj, obj, path{index.Key(obj.ID)}, 0)
}

// ResolveAll resolves every object. Records are returned in input order
// regardless of the worker count. ctx is checked between objects.
func (r *Resolver) ResolveAll(ctx context.Context, objects []*cim.Object) ([]*cim.Record, error) {
	records := make([]*cim.Record, len(objects))

	if r.workers < 2 {
		for i, obj := range objects {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("resolve: %w", err)
			}
			records[i] = r.Resolve(obj)
		}
		return records, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records[i] = r.Resolve(objects[i])
			}
		}()
	}

	var err error
feed:
	for i := range objects {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	return records, nil
}

func (r *Resolver) resolve(root, obj *cim.Object, visited path, depth int) *cim.Record {
	rec := cim.NewRecord(obj.Class, obj.ID)
	seen := map[string]bool{cim.IDColumn: true}

	add := func(name, value string) {
		if seen[name] {
			return
		}
		seen[name] = true
		rec.Columns = append(rec.Columns, cim.Column{Name: name, Value: value})
	}

	for _, f := range obj.Fields {
		add(f.Column(), f.Value)
		if f.Kind != cim.Reference {
			continue
		}

		target, ok := r.idx.Lookup(f.Value)
		if !ok {
			r.diags.Add(diag.Diagnostic{
				Kind:    diag.UnresolvedReference,
				Subject: obj.ID,
				Class:   obj.Class,
				Field:   f.Column(),
				Target:  f.Value,
				Line:    obj.Line,
				Message: fmt.Sprintf("reference target %q not found", f.Value),
			})
			continue
		}

		key := index.Key(f.Value)
		if visited.contains(key) {
			r.diags.Add(diag.Diagnostic{
				Kind:    diag.CycleDetected,
				Subject: obj.ID,
				Class:   obj.Class,
				Field:   f.Column(),
				Target:  f.Value,
				Line:    obj.Line,
				Message: fmt.Sprintf("reference to %q is already on the resolution path", f.Value),
			})
			continue
		}

		if depth+1 > r.maxDepth {
			r.diags.Add(diag.Diagnostic{
				Kind:    diag.DepthExceeded,
				Subject: root.ID,
				Class:   root.Class,
				Field:   f.Column(),
				Target:  f.Value,
				Line:    root.Line,
				Message: fmt.Sprintf("reference chain from %q exceeds %d hop(s) at %q", root.ID, r.maxDepth, obj.ID),
			})
			continue
		}

		sub := r.resolve(root, target, visited.with(key), depth+1)
		for _, c := range sub.Columns {
			if c.Name == cim.IDColumn || c.Value == "" || strings.HasPrefix(c.Name, cim.AttrPrefix) {
				continue
			}
			add(EnrichedColumn(f.Name, target.Class, c.Name), c.Value)
		}
	}

	return rec
}

// EnrichedColumn names a column spliced in from a referenced object:
// "<field>__<TargetClass>.<column>". The target class is always present,
// even for CIM properties that already carry their declaring class, so
// "IdentifiedObject.name" on a VoltageLevel becomes
// "<field>__VoltageLevel.IdentifiedObject.name".
func EnrichedColumn(field, targetClass, column string) string {
	return field + cim.Separator + targetClass + "." + column
}

// path is the visited set of one resolution path, as canonical keys.
// Paths are short (at most MaxDepth+1 entries), so a slice beats a map.
type path []string

func (p path) contains(key string) bool {
	return slices.Contains(p, key)
}

// with returns a new path; p itself is never modified so sibling
// branches do not see each other's visits.
func (p path) with(key string) path {
	return append(slices.Clip(p), key)
}
