package layout

import "fmt"

// LogicalPosition is a line/column pair over the buffer's raw line
// structure, independent of folding and wrapping. Columns count runes.
// Both coordinates are 0-indexed.
type LogicalPosition struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the position.
func (p LogicalPosition) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p LogicalPosition) Compare(other LogicalPosition) int {
	if p.Line != other.Line {
		if p.Line < other.Line {
			return -1
		}
		return 1
	}
	if p.Column != other.Column {
		if p.Column < other.Column {
			return -1
		}
		return 1
	}
	return 0
}

// VisualPosition is a line/column pair over the rendered buffer,
// accounting for collapsed fold regions and soft wraps. Columns count
// terminal cells. Both coordinates are 0-indexed.
type VisualPosition struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the position.
func (p VisualPosition) String() string {
	return fmt.Sprintf("(%d:%d visual)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p VisualPosition) Compare(other VisualPosition) int {
	if p.Line != other.Line {
		if p.Line < other.Line {
			return -1
		}
		return 1
	}
	if p.Column != other.Column {
		if p.Column < other.Column {
			return -1
		}
		return 1
	}
	return 0
}
