package view

import (
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"

	"github.com/dshills/multicaret/internal/caret"
	"github.com/dshills/multicaret/internal/layout"
)

// Renderer draws the buffer's visual rows, the active selections, and
// every caret onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	model  caret.Model
	mapper *layout.Mapper
	vp     *Viewport

	caretStyle tcell.Style
}

// NewRenderer creates a renderer. caretColor is used for secondary
// carets; the primary caret uses the terminal cursor.
func NewRenderer(screen tcell.Screen, model caret.Model, mapper *layout.Mapper, vp *Viewport, caretColor colorful.Color) *Renderer {
	return &Renderer{
		screen:     screen,
		model:      model,
		mapper:     mapper,
		vp:         vp,
		caretStyle: tcell.StyleDefault.Background(toTcell(caretColor)).Foreground(tcell.ColorBlack),
	}
}

// Render repaints the whole screen.
func (r *Renderer) Render() {
	r.screen.Clear()
	width, height := r.screen.Size()
	r.vp.SetHeight(height)

	attrs := r.model.TextAttributes()
	selStyle := tcell.StyleDefault.
		Foreground(toTcell(attrs.Foreground)).
		Background(toTcell(attrs.Background))
	selections := r.activeSelections()

	total := r.mapper.RowCount()
	for row := r.vp.Top(); row < total && row-r.vp.Top() < height; row++ {
		r.renderRow(row, row-r.vp.Top(), width, selStyle, selections)
	}
	r.renderCarets()
	r.screen.Show()
}

func (r *Renderer) renderRow(row, y, width int, selStyle tcell.Style, selections []caret.Selection) {
	col := 0
	g := uniseg.NewGraphemes(r.mapper.RowText(row))
	for g.Next() && col < width {
		runes := g.Runes()
		style := tcell.StyleDefault
		off := r.mapper.VisualToOffset(caret.VisualPosition{Line: row, Column: col})
		for _, sel := range selections {
			if sel.Contains(off) {
				style = selStyle
				break
			}
		}
		if runes[0] == '\t' {
			next := col + r.mapper.TabWidth() - (col % r.mapper.TabWidth())
			for ; col < next && col < width; col++ {
				r.screen.SetContent(col, y, ' ', nil, style)
			}
			continue
		}
		r.screen.SetContent(col, y, runes[0], runes[1:], style)
		col += g.Width()
	}
}

func (r *Renderer) renderCarets() {
	primary := r.model.PrimaryCaret()
	for _, c := range r.model.AllCarets() {
		pos := c.VisualPosition()
		if !r.vp.Contains(pos.Line) {
			continue
		}
		x, y := pos.Column, pos.Line-r.vp.Top()
		if c == primary {
			r.screen.ShowCursor(x, y)
			continue
		}
		ch, comb, _, _ := r.screen.GetContent(x, y)
		r.screen.SetContent(x, y, ch, comb, r.caretStyle)
	}
}

func (r *Renderer) activeSelections() []caret.Selection {
	var out []caret.Selection
	if single, ok := r.model.(*caret.SingleModel); ok && single.HasBlockSelection() {
		return single.BlockSelection()
	}
	for _, c := range r.model.AllCarets() {
		if c.HasSelection() {
			out = append(out, c.Selection())
		}
	}
	return out
}

func toTcell(c colorful.Color) tcell.Color {
	red, green, blue := c.RGB255()
	return tcell.NewRGBColor(int32(red), int32(green), int32(blue))
}
