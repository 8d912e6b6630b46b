// Package caret implements the caret-set manager: the set of carets
// (cursors plus optional selections) attached to one text buffer.
//
// The set maintains three invariants after every mutating operation:
//
//   - carets are ordered by ascending offset
//   - no two carets share an offset
//   - no two selections overlap (touching selections merge)
//
// At least one caret exists at all times. The lowest-offset caret is the
// primary caret. Batched operations run via RunForEachCaret, which
// iterates a snapshot of the set and coalesces colliding carets at the
// end of the pass.
//
// Two model variants exist behind the Model interface: the multi-caret
// model and a single-caret legacy model whose multi-caret operations are
// deterministic no-ops and which supports block selections.
//
// Threading:
//
// The model is single-writer. All mutators must run on the goroutine
// that created the model; calling one from another goroutine is a
// contract violation and panics. Queries are safe from any goroutine but
// are not linearized with an in-flight mutation: a foreign goroutine
// reads an atomically published snapshot of the primary caret, even
// while a batched operation is running on the owner.
package caret
