package caret

import (
	"fmt"
	"sync/atomic"
)

// ID uniquely identifies a caret for its lifetime.
type ID uint64

var idCounter uint64

func nextID() ID {
	return ID(atomic.AddUint64(&idCounter, 1))
}

// Caret is one cursor in the set: a canonical byte offset, an optional
// selection, and lazily derived logical/visual positions.
//
// Carets are owned and mutated by their model; the accessors return the
// model-maintained state. Derived positions are caches gated by the
// model's up-to-date tracking and may lag behind the offset after a
// buffer edit until the model reconciles.
type Caret struct {
	id  ID
	off Offset
	sel Selection

	// Derived position caches, maintained by the model.
	logical    LogicalPosition
	visual     VisualPosition
	vlineStart Offset
	vlineEnd   Offset
	beforeWrap bool // visual lean when the offset sits on a soft wrap
	fresh      bool
}

func newCaret(offset Offset) *Caret {
	return &Caret{
		id:  nextID(),
		off: offset,
		sel: EmptySelection(offset),
	}
}

// ID returns the caret's identity.
func (c *Caret) ID() ID {
	return c.id
}

// Offset returns the caret's canonical byte offset.
func (c *Caret) Offset() Offset {
	return c.off
}

// Selection returns the caret's selection. An empty selection means the
// caret selects nothing.
func (c *Caret) Selection() Selection {
	return c.sel
}

// HasSelection returns true if the caret's selection is non-empty.
func (c *Caret) HasSelection() bool {
	return !c.sel.IsEmpty()
}

// LogicalPosition returns the cached logical position.
func (c *Caret) LogicalPosition() LogicalPosition {
	return c.logical
}

// VisualPosition returns the cached visual position.
func (c *Caret) VisualPosition() VisualPosition {
	return c.visual
}

// String returns a string representation of the caret.
func (c *Caret) String() string {
	if c.sel.IsEmpty() {
		return fmt.Sprintf("Caret#%d(%d)", c.id, c.off)
	}
	return fmt.Sprintf("Caret#%d(%d, sel %d..%d)", c.id, c.off, c.sel.Anchor, c.sel.Head)
}
