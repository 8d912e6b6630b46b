package view

import (
	"testing"

	"github.com/dshills/multicaret/internal/caret"
)

func pos(line int) caret.VisualPosition {
	return caret.VisualPosition{Line: line}
}

func TestViewportScrollsDownWithMargin(t *testing.T) {
	vp := NewViewport(10, 2)

	vp.ScrollTo(pos(5))
	if vp.Top() != 0 {
		t.Errorf("line inside the window should not scroll, top %d", vp.Top())
	}

	vp.ScrollTo(pos(9))
	if vp.Top() != 2 {
		t.Errorf("expected top 2 to keep the margin, got %d", vp.Top())
	}

	vp.ScrollTo(pos(30))
	if vp.Top() != 23 {
		t.Errorf("expected top 23, got %d", vp.Top())
	}
}

func TestViewportScrollsUpWithMargin(t *testing.T) {
	vp := NewViewport(10, 2)
	vp.ScrollTo(pos(30)) // top 23

	vp.ScrollTo(pos(24))
	if vp.Top() != 22 {
		t.Errorf("expected top 22, got %d", vp.Top())
	}

	vp.ScrollTo(pos(0))
	if vp.Top() != 0 {
		t.Errorf("expected top 0, got %d", vp.Top())
	}
}

func TestViewportMarginShrinksForSmallWindows(t *testing.T) {
	vp := NewViewport(3, 5)

	vp.ScrollTo(pos(10))
	if !vp.Contains(10) {
		t.Errorf("target line must be visible, top %d", vp.Top())
	}
	if vp.Top() < 0 {
		t.Errorf("top must not go negative, got %d", vp.Top())
	}
}

func TestViewportContains(t *testing.T) {
	vp := NewViewport(5, 0)
	vp.ScrollTo(pos(10)) // top 6

	if vp.Contains(5) || !vp.Contains(6) || !vp.Contains(10) || vp.Contains(11) {
		t.Errorf("unexpected window bounds, top %d", vp.Top())
	}
}
