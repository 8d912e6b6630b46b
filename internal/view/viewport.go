// Package view renders the buffer, selections, and carets to a tcell
// screen and keeps the caret visible through a scroll-off viewport.
package view

import "github.com/dshills/multicaret/internal/caret"

// Viewport tracks the window of visual rows currently on screen. It
// implements caret.Scroller: movement operations that request scrolling
// keep the caret at least scrollOff rows away from the window edges.
type Viewport struct {
	top       int
	height    int
	scrollOff int
}

// NewViewport creates a viewport of the given height.
func NewViewport(height, scrollOff int) *Viewport {
	if height < 1 {
		height = 1
	}
	if scrollOff < 0 {
		scrollOff = 0
	}
	return &Viewport{height: height, scrollOff: scrollOff}
}

// Top returns the first visible visual row.
func (v *Viewport) Top() int {
	return v.top
}

// Height returns the viewport height in rows.
func (v *Viewport) Height() int {
	return v.height
}

// SetHeight resizes the viewport.
func (v *Viewport) SetHeight(height int) {
	if height >= 1 {
		v.height = height
	}
}

// ScrollTo adjusts the window so the position stays visible with the
// scroll-off margin. Implements caret.Scroller.
func (v *Viewport) ScrollTo(pos caret.VisualPosition) {
	off := v.scrollOff
	if 2*off >= v.height {
		off = (v.height - 1) / 2
	}
	if pos.Line < v.top+off {
		v.top = pos.Line - off
	}
	if pos.Line > v.top+v.height-1-off {
		v.top = pos.Line - v.height + 1 + off
	}
	if v.top < 0 {
		v.top = 0
	}
}

// Contains reports whether a visual row is inside the window.
func (v *Viewport) Contains(line int) bool {
	return line >= v.top && line < v.top+v.height
}
