package layout

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/multicaret/internal/buffer"
	"github.com/dshills/multicaret/internal/fold"
)

// item is one run of a visual row: either a visible text segment or a
// collapsed fold region rendered as its placeholder.
type item struct {
	seg    buffer.Range
	region *fold.Region
}

// row is one rendered line of the buffer.
type row struct {
	line         int  // logical line at the row start
	continuation bool // true when the row begins after a soft wrap
	items        []item
	start        buffer.Offset // first visible offset of the row
	end          buffer.Offset // offset just past the last visible byte
}

// span maps an ascending offset range to its row, for binary search.
type span struct {
	rng buffer.Range
	row int
}

// Mapper is the position translator for one buffer. It is not
// synchronized; it is owned by the caret model's writer goroutine.
type Mapper struct {
	buf   *buffer.Buffer
	folds *fold.Registry

	tabWidth  int
	wrapWidth int // 0 disables soft wrapping

	rows  []row
	spans []span

	built         bool
	builtRevision buffer.Revision
	builtGen      uint64
	builtTab      int
	builtWrap     int
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithTabWidth sets the tab stop width (default 4).
func WithTabWidth(width int) Option {
	return func(m *Mapper) {
		if width >= 1 {
			m.tabWidth = width
		}
	}
}

// WithWrapWidth sets the soft-wrap width in cells. 0 disables wrapping.
func WithWrapWidth(width int) Option {
	return func(m *Mapper) {
		if width >= 0 {
			m.wrapWidth = width
		}
	}
}

// NewMapper creates a mapper over the given buffer and fold registry.
func NewMapper(buf *buffer.Buffer, folds *fold.Registry, opts ...Option) *Mapper {
	m := &Mapper{
		buf:      buf,
		folds:    folds,
		tabWidth: 4,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetTabWidth changes the tab stop width.
func (m *Mapper) SetTabWidth(width int) {
	if width >= 1 {
		m.tabWidth = width
	}
}

// SetWrapWidth changes the soft-wrap width. 0 disables wrapping.
func (m *Mapper) SetWrapWidth(width int) {
	if width >= 0 {
		m.wrapWidth = width
	}
}

// WrapWidth returns the current soft-wrap width.
func (m *Mapper) WrapWidth() int {
	return m.wrapWidth
}

// TabWidth returns the current tab stop width.
func (m *Mapper) TabWidth() int {
	return m.tabWidth
}

// Logical mapping delegates to the buffer's line index.

// OffsetToLogical converts a byte offset to a logical position.
func (m *Mapper) OffsetToLogical(offset buffer.Offset) LogicalPosition {
	line, col := m.buf.OffsetToLineCol(offset)
	return LogicalPosition{Line: line, Column: col}
}

// LogicalToOffset converts a logical position to a byte offset, clamping
// both coordinates to the buffer's bounds.
func (m *Mapper) LogicalToOffset(pos LogicalPosition) buffer.Offset {
	return m.buf.LineColToOffset(pos.Line, pos.Column)
}

// Visual mapping.

// OffsetToVisual converts a byte offset to a visual position. For an
// offset exactly at a soft-wrap boundary, beforeWrap selects the end of
// the row before the wrap; false selects the start of the row after it.
func (m *Mapper) OffsetToVisual(offset buffer.Offset, beforeWrap bool) VisualPosition {
	m.ensure()
	offset = m.buf.Clamp(offset)
	ri := m.rowIndexOf(offset, beforeWrap)
	r := &m.rows[ri]
	if offset >= r.end {
		return VisualPosition{Line: ri, Column: m.rowWidth(r)}
	}
	return VisualPosition{Line: ri, Column: m.colOf(r, offset)}
}

// VisualToOffset converts a visual position to the byte offset of the
// cell it lands on. Positions past the end of a row resolve to the row's
// visible end; positions on a collapsed fold placeholder resolve to the
// region's start. Out-of-range coordinates are clamped.
func (m *Mapper) VisualToOffset(pos VisualPosition) buffer.Offset {
	m.ensure()
	ri := pos.Line
	if ri < 0 {
		ri = 0
	}
	if ri >= len(m.rows) {
		ri = len(m.rows) - 1
	}
	r := &m.rows[ri]
	if pos.Column <= 0 {
		return r.start
	}
	result := r.end
	col := 0
	m.walkRow(r, func(start, end buffer.Offset, width int, region *fold.Region) bool {
		if pos.Column < col+width {
			if region != nil {
				result = region.Range().Start
			} else {
				result = start
			}
			return false
		}
		col += width
		return true
	})
	return result
}

// IsAtSoftWrap returns true if the offset sits exactly at a soft-wrap
// boundary, i.e. it maps to two distinct visual positions.
func (m *Mapper) IsAtSoftWrap(offset buffer.Offset) bool {
	m.ensure()
	offset = m.buf.Clamp(offset)
	ri := m.rowIndexOf(offset, false)
	r := &m.rows[ri]
	return r.continuation && r.start == offset
}

// NextOffset returns the next visible cell boundary after the offset:
// the end of the collapsed region covering it, the end of the grapheme
// cluster at it, or past the newline at the end of a line.
func (m *Mapper) NextOffset(offset buffer.Offset) buffer.Offset {
	m.ensure()
	offset = m.buf.Clamp(offset)
	if offset >= m.buf.Len() {
		return offset
	}
	if r := m.folds.CollapsedAt(offset); r != nil {
		return r.Range().End
	}
	if r := m.folds.NextCollapsed(offset); r != nil && r.Range().Start == offset {
		return r.Range().End
	}
	end := m.buf.LineEnd(m.buf.LineOf(offset))
	if offset >= end {
		return offset + 1 // skip the newline
	}
	g := uniseg.NewGraphemes(m.buf.TextRange(offset, end))
	if g.Next() {
		_, to := g.Positions()
		return offset + to
	}
	return offset + 1
}

// PrevOffset returns the previous visible cell boundary before the
// offset, the mirror of NextOffset.
func (m *Mapper) PrevOffset(offset buffer.Offset) buffer.Offset {
	m.ensure()
	offset = m.buf.Clamp(offset)
	if offset == 0 {
		return 0
	}
	for _, r := range m.folds.Regions() {
		if !r.IsCollapsed() {
			continue
		}
		if r.Range().End == offset || r.Range().ContainsInterior(offset) {
			return r.Range().Start
		}
	}
	start := m.buf.LineStart(m.buf.LineOf(offset))
	if offset == start {
		return offset - 1 // onto the previous line's newline position
	}
	last := start
	g := uniseg.NewGraphemes(m.buf.TextRange(start, offset))
	for g.Next() {
		from, _ := g.Positions()
		last = start + from
	}
	return last
}

// VisualLineBounds returns the first visible offset of the visual row
// containing the offset, and the offset of the first symbol of the next
// visual row (the buffer length for the last row).
func (m *Mapper) VisualLineBounds(offset buffer.Offset, beforeWrap bool) (start, end buffer.Offset) {
	m.ensure()
	offset = m.buf.Clamp(offset)
	ri := m.rowIndexOf(offset, beforeWrap)
	start = m.rows[ri].start
	if ri+1 < len(m.rows) {
		end = m.rows[ri+1].start
	} else {
		end = m.buf.Len()
	}
	return start, end
}

// Row accessors for rendering.

// RowCount returns the number of visual rows.
func (m *Mapper) RowCount() int {
	m.ensure()
	return len(m.rows)
}

// RowStart returns the first visible offset of a row.
func (m *Mapper) RowStart(i int) buffer.Offset {
	m.ensure()
	if i < 0 || i >= len(m.rows) {
		return m.buf.Len()
	}
	return m.rows[i].start
}

// RowText returns the rendered text of a row, with collapsed fold
// regions replaced by their placeholders.
func (m *Mapper) RowText(i int) string {
	m.ensure()
	if i < 0 || i >= len(m.rows) {
		return ""
	}
	var sb strings.Builder
	for _, it := range m.rows[i].items {
		if it.region != nil {
			sb.WriteString(it.region.Placeholder())
			continue
		}
		sb.WriteString(m.buf.TextRange(it.seg.Start, it.seg.End))
	}
	return sb.String()
}

// Index construction.

// ensure rebuilds the visual index if the buffer, folds, or widths
// changed since the last build.
func (m *Mapper) ensure() {
	if m.built &&
		m.builtRevision == m.buf.Revision() &&
		m.builtGen == m.folds.Generation() &&
		m.builtTab == m.tabWidth &&
		m.builtWrap == m.wrapWidth {
		return
	}
	m.build()
}

func (m *Mapper) build() {
	m.rows = m.rows[:0]
	m.spans = m.spans[:0]

	lineCount := m.buf.LineCount()
	for line := 0; line < lineCount; {
		items, endLine := m.foldLine(line)
		m.wrapItems(line, items)
		line = endLine + 1
	}

	for i := range m.rows {
		r := &m.rows[i]
		r.start = itemStart(r.items[0])
		r.end = itemEnd(r.items[len(r.items)-1])
		for _, it := range r.items {
			m.spans = append(m.spans, span{rng: itemRange(it), row: i})
		}
	}

	m.built = true
	m.builtRevision = m.buf.Revision()
	m.builtGen = m.folds.Generation()
	m.builtTab = m.tabWidth
	m.builtWrap = m.wrapWidth
}

// foldLine collects the visible runs of the fold-line starting at the
// given logical line. Collapsed regions merge the lines they span into
// one fold-line; the returned endLine is the last logical line consumed.
func (m *Mapper) foldLine(line int) ([]item, int) {
	var items []item
	endLine := line
	cur := m.buf.LineStart(line)
	for {
		lineEnd := m.buf.LineEnd(endLine)
		r := m.folds.NextCollapsed(cur)
		// A region starting exactly at lineEnd swallows the newline and
		// joins the next line onto this fold-line.
		if r == nil || r.Range().Start > lineEnd {
			if cur < lineEnd || len(items) == 0 {
				items = append(items, item{seg: buffer.Range{Start: cur, End: lineEnd}})
			}
			return items, endLine
		}
		if r.Range().Start > cur {
			items = append(items, item{seg: buffer.Range{Start: cur, End: r.Range().Start}})
		}
		items = append(items, item{region: r})
		cur = r.Range().End
		endLine = m.buf.LineOf(cur)
	}
}

// wrapItems splits a fold-line's items into visual rows at the wrap
// width. Placeholders are atomic; text segments split at grapheme
// boundaries. Tab stops are computed per visual row.
func (m *Mapper) wrapItems(startLine int, items []item) {
	cur := row{line: startLine}
	col := 0

	wrapAt := func(contStart buffer.Offset) {
		m.rows = append(m.rows, cur)
		cur = row{line: m.buf.LineOf(contStart), continuation: true}
		col = 0
	}

	for _, it := range items {
		if it.region != nil {
			w := placeholderWidth(it.region)
			if m.wrapWidth > 0 && col > 0 && col+w > m.wrapWidth {
				wrapAt(it.region.Range().Start)
			}
			cur.items = append(cur.items, it)
			col += w
			continue
		}

		seg := it.seg
		if seg.IsEmpty() {
			cur.items = append(cur.items, it)
			continue
		}

		open := seg.Start
		text := m.buf.TextRange(seg.Start, seg.End)
		g := uniseg.NewGraphemes(text)
		for g.Next() {
			from, _ := g.Positions()
			w := g.Width()
			if g.Str() == "\t" {
				w = m.tabWidth - (col % m.tabWidth)
			}
			if m.wrapWidth > 0 && col > 0 && col+w > m.wrapWidth && w > 0 {
				boundary := seg.Start + from
				if boundary > open {
					cur.items = append(cur.items, item{seg: buffer.Range{Start: open, End: boundary}})
				}
				wrapAt(boundary)
				open = boundary
				if g.Str() == "\t" {
					w = m.tabWidth
				}
			}
			col += w
		}
		if seg.End > open || len(cur.items) == 0 {
			cur.items = append(cur.items, item{seg: buffer.Range{Start: open, End: seg.End}})
		}
	}

	m.rows = append(m.rows, cur)
}

// Query helpers.

// rowIndexOf locates the row a clamped offset belongs to.
func (m *Mapper) rowIndexOf(offset buffer.Offset, beforeWrap bool) int {
	if len(m.spans) == 0 || offset <= m.spans[0].rng.Start {
		return 0
	}
	lo, hi := 0, len(m.spans)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if m.spans[mid].rng.Start <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	ri := m.spans[lo].row
	r := &m.rows[ri]
	if beforeWrap && r.continuation && r.start == offset && ri > 0 {
		return ri - 1
	}
	return ri
}

// walkRow calls fn for each rendered cell group of a row, in order.
// Groups are grapheme clusters or collapsed-fold placeholders. fn returns
// false to stop the walk.
func (m *Mapper) walkRow(r *row, fn func(start, end buffer.Offset, width int, region *fold.Region) bool) {
	col := 0
	for _, it := range r.items {
		if it.region != nil {
			w := placeholderWidth(it.region)
			if !fn(it.region.Range().Start, it.region.Range().End, w, it.region) {
				return
			}
			col += w
			continue
		}
		text := m.buf.TextRange(it.seg.Start, it.seg.End)
		g := uniseg.NewGraphemes(text)
		for g.Next() {
			from, to := g.Positions()
			w := g.Width()
			if g.Str() == "\t" {
				w = m.tabWidth - (col % m.tabWidth)
			}
			if !fn(it.seg.Start+from, it.seg.Start+to, w, nil) {
				return
			}
			col += w
		}
	}
}

// colOf returns the visual column of an offset known to be on the row.
// Offsets hidden inside a collapsed region resolve to the placeholder's
// column.
func (m *Mapper) colOf(r *row, offset buffer.Offset) int {
	col := 0
	m.walkRow(r, func(start, end buffer.Offset, width int, region *fold.Region) bool {
		if offset >= start && offset < end {
			return false
		}
		col += width
		return true
	})
	return col
}

// rowWidth returns the total cell width of a row.
func (m *Mapper) rowWidth(r *row) int {
	col := 0
	m.walkRow(r, func(_, _ buffer.Offset, width int, _ *fold.Region) bool {
		col += width
		return true
	})
	return col
}

func placeholderWidth(r *fold.Region) int {
	return uniseg.StringWidth(r.Placeholder())
}

func itemStart(it item) buffer.Offset {
	if it.region != nil {
		return it.region.Range().Start
	}
	return it.seg.Start
}

func itemEnd(it item) buffer.Offset {
	if it.region != nil {
		return it.region.Range().End
	}
	return it.seg.End
}

func itemRange(it item) buffer.Range {
	if it.region != nil {
		return it.region.Range()
	}
	return it.seg
}
