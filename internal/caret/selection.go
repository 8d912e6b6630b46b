package caret

import (
	"fmt"

	"github.com/dshills/multicaret/internal/buffer"
	"github.com/dshills/multicaret/internal/layout"
)

// Offset is an alias for buffer.Offset for convenience.
type Offset = buffer.Offset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// LogicalPosition is an alias for layout.LogicalPosition.
type LogicalPosition = layout.LogicalPosition

// VisualPosition is an alias for layout.VisualPosition.
type VisualPosition = layout.VisualPosition

// Selection represents a range of selected text.
// Anchor is where the selection started; Head is the moving end.
// When Anchor == Head, the caret has no selection.
// Selection is an immutable value type.
type Selection struct {
	Anchor Offset
	Head   Offset
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head Offset) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// EmptySelection creates a selection with no extent at the given offset.
func EmptySelection(offset Offset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Start returns the lower bound of the selection.
func (s Selection) Start() Offset {
	if s.Anchor <= s.Head {
		return s.Anchor
	}
	return s.Head
}

// End returns the upper bound of the selection.
func (s Selection) End() Offset {
	if s.Anchor >= s.Head {
		return s.Anchor
	}
	return s.Head
}

// Range returns the selection as a forward range [Start, End).
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// Extend returns a new selection with the head moved to the given offset.
// The anchor stays fixed.
func (s Selection) Extend(offset Offset) Selection {
	return Selection{Anchor: s.Anchor, Head: offset}
}

// Collapse collapses the selection to its head.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Head, Head: s.Head}
}

// Contains returns true if the offset is within the selection [Start, End).
// Empty selections contain nothing.
func (s Selection) Contains(offset Offset) bool {
	return offset >= s.Start() && offset < s.End()
}

// Overlaps returns true if the selections' ranges overlap.
func (s Selection) Overlaps(other Selection) bool {
	return s.Start() < other.End() && other.Start() < s.End()
}

// Touches returns true if the selections overlap or share a boundary.
func (s Selection) Touches(other Selection) bool {
	return s.Start() <= other.End() && other.Start() <= s.End()
}

// Union merges two selections into one forward selection covering both.
func (s Selection) Union(other Selection) Selection {
	start := s.Start()
	if other.Start() < start {
		start = other.Start()
	}
	end := s.End()
	if other.End() > end {
		end = other.End()
	}
	return Selection{Anchor: start, Head: end}
}

// Clamp returns a selection clamped to [0, maxOffset].
func (s Selection) Clamp(maxOffset Offset) Selection {
	anchor, head := s.Anchor, s.Head
	if anchor < 0 {
		anchor = 0
	} else if anchor > maxOffset {
		anchor = maxOffset
	}
	if head < 0 {
		head = 0
	} else if head > maxOffset {
		head = maxOffset
	}
	return Selection{Anchor: anchor, Head: head}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Caret(%d)", s.Head)
	}
	return fmt.Sprintf("Selection(%d..%d)", s.Anchor, s.Head)
}
