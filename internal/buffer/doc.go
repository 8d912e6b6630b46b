// Package buffer provides the text buffer the caret model attaches to.
//
// The buffer stores the document as a contiguous byte slice with a line
// index rebuilt on every edit. It is deliberately simple: the caret model
// treats the buffer as a collaborator and only depends on offsets, line
// structure queries, and edit notifications.
//
// Positions:
//
//   - Offset is a byte position into the document, 0 <= offset <= Len().
//   - Lines are 0-indexed. Line columns used by callers are measured in
//     runes; OffsetToLineCol and LineColToOffset convert between the two.
//
// Edits:
//
// Insert, Delete, and Replace mutate the buffer, bump the revision, and
// invoke every registered edit callback synchronously on the mutating
// goroutine. Callbacks receive the applied Edit so position owners (the
// caret model, fold regions) can transform their offsets.
//
// Thread Safety:
//
// Read methods are safe from any goroutine. Mutations must come from a
// single writer; the internal lock only protects readers from observing a
// half-built line index.
package buffer
