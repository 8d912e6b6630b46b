package caret

import colorful "github.com/lucasb-eyer/go-colorful"

// Scroller receives scroll requests when a movement operation asks for
// the caret to be kept visible. The view layer implements it.
type Scroller interface {
	ScrollTo(pos VisualPosition)
}

// TextAttributes describes how selected text under the carets is drawn.
type TextAttributes struct {
	Foreground colorful.Color
	Background colorful.Color
}

// DefaultTextAttributes returns the built-in selection colors.
func DefaultTextAttributes() TextAttributes {
	fg, _ := colorful.Hex("#1c1c1c")
	bg, _ := colorful.Hex("#aed6f1")
	return TextAttributes{Foreground: fg, Background: bg}
}

// Option configures a model.
type Option func(*MultiModel)

// WithScroller sets the scroll target for scrollToCaret movements.
func WithScroller(s Scroller) Option {
	return func(m *MultiModel) {
		m.scroller = s
	}
}

// WithTextAttributes sets the selection text attributes.
func WithTextAttributes(attrs TextAttributes) Option {
	return func(m *MultiModel) {
		m.attrs = attrs
	}
}

// WithInitialOffset places the initial caret at the given offset instead
// of the start of the buffer.
func WithInitialOffset(offset Offset) Option {
	return func(m *MultiModel) {
		off := m.buf.Clamp(offset)
		m.carets[0].off = off
		m.carets[0].sel = EmptySelection(off)
	}
}
