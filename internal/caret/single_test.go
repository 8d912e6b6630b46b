package caret

import (
	"testing"

	"github.com/dshills/multicaret/internal/buffer"
	"github.com/dshills/multicaret/internal/fold"
	"github.com/dshills/multicaret/internal/layout"
)

func newSingleModel(t *testing.T, text string) *SingleModel {
	t.Helper()
	buf := buffer.FromString(text)
	folds := fold.NewRegistry()
	buf.OnEdit(folds.Transform)
	return NewSingleModel(buf, folds, layout.NewMapper(buf, folds))
}

func TestSingleModelDegradesDeterministically(t *testing.T) {
	s := newSingleModel(t, "0123456789")

	if s.SupportsMultipleCarets() {
		t.Error("single model must not support multiple carets")
	}
	if c := s.AddCaret(VisualPosition{Line: 0, Column: 5}); c != nil {
		t.Error("AddCaret should return nil")
	}
	if s.RemoveCaret(s.PrimaryCaret()) {
		t.Error("RemoveCaret should return false")
	}
	s.RemoveSecondaryCarets()
	if got := len(s.AllCarets()); got != 1 {
		t.Errorf("expected exactly 1 caret, got %d", got)
	}
}

func TestSingleModelSetCaretsAppliesFirstOnly(t *testing.T) {
	s := newSingleModel(t, "0123456789")

	s.SetCarets(
		[]*LogicalPosition{logical(0, 4), logical(0, 8)},
		[]*Selection{sel(2, 4), sel(6, 8)},
	)

	if got := len(s.AllCarets()); got != 1 {
		t.Fatalf("expected 1 caret, got %d", got)
	}
	if s.Offset() != 4 {
		t.Errorf("expected offset 4, got %d", s.Offset())
	}
	if got := s.Selection(); got.Start() != 2 || got.End() != 4 {
		t.Errorf("expected selection [2,4), got %s", got)
	}
}

func TestSingleModelBlockSelection(t *testing.T) {
	s := newSingleModel(t, "abcd\nefgh\nijkl")

	s.MoveToOffset(1)
	s.MoveCaretRelatively(1, 0, true, true, false)
	s.MoveCaretRelatively(0, 1, true, true, false)

	if !s.HasBlockSelection() {
		t.Fatal("expected an active block selection")
	}
	if !s.Selection().IsEmpty() {
		t.Error("a block selection should not grow the linear selection")
	}
	block := s.BlockSelection()
	if len(block) != 2 {
		t.Fatalf("expected 2 block rows, got %d", len(block))
	}
	if block[0].Start() != 1 || block[0].End() != 2 {
		t.Errorf("row 0: expected [1,2), got %s", block[0])
	}
	if block[1].Start() != 6 || block[1].End() != 7 {
		t.Errorf("row 1: expected [6,7), got %s", block[1])
	}

	s.MoveToOffset(0)
	if s.HasBlockSelection() {
		t.Error("a plain move should drop the block selection")
	}
}

func TestBlockSelectionRequiresWithSelection(t *testing.T) {
	s := newSingleModel(t, "abcd\nefgh")

	s.MoveToOffset(1)
	s.MoveCaretRelatively(1, 0, false, true, false)
	if s.HasBlockSelection() {
		t.Error("blockSelection without withSelection should not anchor a block")
	}
	if !s.Selection().IsEmpty() {
		t.Error("the move should collapse the selection as usual")
	}
	if s.Offset() != 2 {
		t.Errorf("expected offset 2, got %d", s.Offset())
	}
}
