// Package resolve flattens objects by following their references.
//
// For every reference field the target object is looked up in the index,
// resolved recursively, and its columns are spliced into the referencing
// record as "<field>__<TargetClass>.<column>".
//
// # Termination
//
// Two guards bound the recursion:
//
//   - Cycle guard: each resolution path carries its own visited set, seeded
//     with the root object. A reference to an object already on the path is
//     not followed (A → B → A stops at the second A).
//   - Depth bound: a path never grows beyond MaxDepth hops. This catches
//     long acyclic chains that the cycle guard cannot.
//
// Both conditions are non-fatal. The raw reference column is kept and a
// diagnostic is recorded.
//
// # Determinism
//
// Resolution reads the index and never writes to it or to any object, so
// resolving the same object twice yields identical records, and ResolveAll
// may fan out over several goroutines. Only the diagnostics collector is
// shared mutable state.
package resolve
