package caret

import (
	"github.com/dshills/multicaret/internal/buffer"
	"github.com/dshills/multicaret/internal/fold"
	"github.com/dshills/multicaret/internal/layout"
)

// SingleModel is the legacy single-caret implementation of Model. The
// multi-caret operations degrade deterministically: AddCaret returns
// nil, RemoveCaret returns false, RemoveSecondaryCarets is a no-op, and
// SetCarets applies only the first entry. In exchange it supports block
// (rectangular) selections, which the multi-caret model does not.
type SingleModel struct {
	*MultiModel
	blockAnchor *VisualPosition
}

var _ Model = (*SingleModel)(nil)

// NewSingleModel creates a single-caret model over the buffer.
func NewSingleModel(buf *buffer.Buffer, folds *fold.Registry, mapper *layout.Mapper, opts ...Option) *SingleModel {
	return &SingleModel{MultiModel: NewModel(buf, folds, mapper, opts...)}
}

// SupportsMultipleCarets reports false: this model holds exactly one
// caret.
func (s *SingleModel) SupportsMultipleCarets() bool {
	return false
}

// AddCaret always returns nil.
func (s *SingleModel) AddCaret(pos VisualPosition) *Caret {
	s.assertOwner()
	return nil
}

// RemoveCaret always returns false.
func (s *SingleModel) RemoveCaret(c *Caret) bool {
	s.assertOwner()
	return false
}

// RemoveSecondaryCarets is a no-op: there are no secondary carets.
func (s *SingleModel) RemoveSecondaryCarets() {
	s.assertOwner()
}

// SetCarets applies the first position and selection to the caret and
// ignores the rest.
func (s *SingleModel) SetCarets(positions []*LogicalPosition, selections []*Selection) {
	s.assertOwner()
	if len(positions) > 1 {
		positions = positions[:1]
	}
	if len(selections) > 1 {
		selections = selections[:1]
	}
	if len(positions) == 0 {
		return
	}
	s.MultiModel.SetCarets(positions, selections)
}

// MoveCaretRelatively moves the caret. With withSelection and
// blockSelection both set the move anchors or grows a rectangular
// selection instead of a range selection; any other movement drops the
// block.
func (s *SingleModel) MoveCaretRelatively(columnShift, lineShift int, withSelection, blockSelection, scrollToCaret bool) {
	if withSelection && blockSelection {
		if s.blockAnchor == nil {
			pos := s.mapper.OffsetToVisual(s.primary().off, s.primary().beforeWrap)
			s.blockAnchor = &pos
		}
		// The rectangle carries the selection; keep the linear one out
		// of its way.
		s.MultiModel.MoveCaretRelatively(columnShift, lineShift, false, false, scrollToCaret)
		return
	}
	s.blockAnchor = nil
	s.MultiModel.MoveCaretRelatively(columnShift, lineShift, withSelection, false, scrollToCaret)
}

// MoveToLogicalPosition drops any block selection and moves the caret.
func (s *SingleModel) MoveToLogicalPosition(pos LogicalPosition) {
	s.blockAnchor = nil
	s.MultiModel.MoveToLogicalPosition(pos)
}

// MoveToVisualPosition drops any block selection and moves the caret.
func (s *SingleModel) MoveToVisualPosition(pos VisualPosition) {
	s.blockAnchor = nil
	s.MultiModel.MoveToVisualPosition(pos)
}

// MoveToOffset drops any block selection and moves the caret.
func (s *SingleModel) MoveToOffset(offset Offset) {
	s.blockAnchor = nil
	s.MultiModel.MoveToOffset(offset)
}

// MoveToOffsetBeforeWrap drops any block selection and moves the caret.
func (s *SingleModel) MoveToOffsetBeforeWrap(offset Offset, locateBeforeSoftWrap bool) {
	s.blockAnchor = nil
	s.MultiModel.MoveToOffsetBeforeWrap(offset, locateBeforeSoftWrap)
}

// HasBlockSelection reports whether a block selection is active.
func (s *SingleModel) HasBlockSelection() bool {
	return s.blockAnchor != nil
}

// BlockSelection returns the per-row selections of the active block
// selection, ordered by row. Returns nil when no block selection is
// active. Rows where the rectangle is empty yield empty selections.
func (s *SingleModel) BlockSelection() []Selection {
	if s.blockAnchor == nil {
		return nil
	}
	a := *s.blockAnchor
	b := s.mapper.OffsetToVisual(s.primary().off, s.primary().beforeWrap)

	top, bottom := a.Line, b.Line
	if top > bottom {
		top, bottom = bottom, top
	}
	left, right := a.Column, b.Column
	if left > right {
		left, right = right, left
	}

	out := make([]Selection, 0, bottom-top+1)
	for line := top; line <= bottom; line++ {
		start := s.mapper.VisualToOffset(VisualPosition{Line: line, Column: left})
		end := s.mapper.VisualToOffset(VisualPosition{Line: line, Column: right})
		out = append(out, NewSelection(start, end))
	}
	return out
}
