package buffer

import "sync/atomic"

// Offset represents a byte position in the buffer.
// This is the fundamental position type, directly indexing into the text.
type Offset = int

// Revision uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type Revision uint64

// revisionCounter is used to generate unique revision IDs.
var revisionCounter uint64

// NewRevision generates a new unique revision ID.
// This is thread-safe using atomic operations.
func NewRevision() Revision {
	return Revision(atomic.AddUint64(&revisionCounter, 1))
}
