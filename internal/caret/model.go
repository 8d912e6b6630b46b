package caret

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/multicaret/internal/buffer"
	"github.com/dshills/multicaret/internal/fold"
	"github.com/dshills/multicaret/internal/layout"
)

// Model is the caret-set manager for one buffer.
//
// Mutators must run on the goroutine that created the model and panic
// otherwise. Position queries (Offset, LogicalPosition, VisualPosition,
// Selection, VisualLineStart/End, IsUpToDate) are safe from any
// goroutine: foreign goroutines are served from an atomically published
// snapshot of the primary caret. Structural accessors (AllCarets,
// CaretAt, CurrentCaret, PrimaryCaret) are owner-only.
type Model interface {
	// Movement. Operations target the current caret: the caret being
	// processed inside RunForEachCaret, the primary caret otherwise.
	MoveCaretRelatively(columnShift, lineShift int, withSelection, blockSelection, scrollToCaret bool)
	MoveToLogicalPosition(pos LogicalPosition)
	MoveToVisualPosition(pos VisualPosition)
	MoveToOffset(offset Offset)
	MoveToOffsetBeforeWrap(offset Offset, locateBeforeSoftWrap bool)
	SetSelection(start, end Offset)

	// Derived-position freshness after buffer edits.
	IsUpToDate() bool
	Reconcile()

	// Primary-caret queries.
	LogicalPosition() LogicalPosition
	VisualPosition() VisualPosition
	Offset() Offset
	Selection() Selection
	VisualLineStart() Offset
	VisualLineEnd() Offset
	TextAttributes() TextAttributes

	// Caret set management.
	SupportsMultipleCarets() bool
	CurrentCaret() *Caret
	PrimaryCaret() *Caret
	AllCarets() []*Caret
	CaretAt(pos VisualPosition) *Caret
	AddCaret(pos VisualPosition) *Caret
	RemoveCaret(c *Caret) bool
	RemoveSecondaryCarets()
	SetCarets(positions []*LogicalPosition, selections []*Selection)
	RunForEachCaret(op func())

	// Listeners.
	AddCaretListener(l Listener) uuid.UUID
	RemoveCaretListener(id uuid.UUID) bool
}

// MultiModel is the multi-caret implementation of Model.
type MultiModel struct {
	buf    *buffer.Buffer
	folds  *fold.Registry
	mapper *layout.Mapper

	owner uint64

	carets  []*Caret
	current *Caret // caret being processed inside RunForEachCaret

	inBatch bool
	dirty   bool

	upToDate bool

	attrs    TextAttributes
	scroller Scroller

	listeners []registeredListener

	snap atomic.Pointer[snapshot]
}

var _ Model = (*MultiModel)(nil)

// NewModel creates a multi-caret model over the buffer. One caret is
// placed at the start of the buffer. The calling goroutine becomes the
// model's owner; caret offsets track buffer edits via the buffer's edit
// callbacks, which run on the same goroutine.
func NewModel(buf *buffer.Buffer, folds *fold.Registry, mapper *layout.Mapper, opts ...Option) *MultiModel {
	m := &MultiModel{
		buf:      buf,
		folds:    folds,
		mapper:   mapper,
		owner:    goroutineID(),
		carets:   []*Caret{newCaret(0)},
		upToDate: true,
		attrs:    DefaultTextAttributes(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.refreshAll()
	m.publish()
	buf.OnEdit(m.handleEdit)
	return m
}

// Buffer returns the buffer this model is attached to.
func (m *MultiModel) Buffer() *buffer.Buffer {
	return m.buf
}

// Mapper returns the position translator this model uses.
func (m *MultiModel) Mapper() *layout.Mapper {
	return m.mapper
}

// Movement

// MoveCaretRelatively shifts the current caret by logical columns and
// lines, clamping the result to the buffer: a caret at a line end stays
// there, it does not spill onto the next line. A collapsed fold region
// covering the target is forced open. With withSelection the selection
// extends to the new position; without it the selection collapses.
// blockSelection is ignored: block mode belongs to the single-caret
// model. scrollToCaret forwards the new position to the scroller, if
// any.
func (m *MultiModel) MoveCaretRelatively(columnShift, lineShift int, withSelection, blockSelection, scrollToCaret bool) {
	m.assertOwner()
	_ = blockSelection
	c := m.currentCaret()
	pos := m.mapper.OffsetToLogical(c.off)
	newOff := m.mapper.LogicalToOffset(LogicalPosition{
		Line:   pos.Line + lineShift,
		Column: pos.Column + columnShift,
	})
	m.folds.ExpandAt(newOff)

	mode := collapseSelection
	if withSelection {
		mode = extendSelection
	}
	lean := lineShift == 0 && columnShift > 0 && m.mapper.IsAtSoftWrap(newOff)
	m.placeCaret(c, newOff, lean, mode)
	if scrollToCaret && m.scroller != nil {
		m.scroller.ScrollTo(m.mapper.OffsetToVisual(c.off, c.beforeWrap))
	}
}

// MoveToLogicalPosition moves the current caret to a logical position.
// A collapsed fold region covering the target is forced open.
func (m *MultiModel) MoveToLogicalPosition(pos LogicalPosition) {
	m.assertOwner()
	off := m.mapper.LogicalToOffset(pos)
	m.folds.ExpandAt(off)
	m.placeCaret(m.currentCaret(), off, false, keepSelection)
}

// MoveToVisualPosition moves the current caret to a visual position.
// Positions on a collapsed fold placeholder resolve to the region start.
func (m *MultiModel) MoveToVisualPosition(pos VisualPosition) {
	m.assertOwner()
	off := m.mapper.VisualToOffset(pos)
	lean := m.mapper.IsAtSoftWrap(off) && m.mapper.OffsetToVisual(off, true).Line == pos.Line
	m.placeCaret(m.currentCaret(), off, lean, keepSelection)
}

// MoveToOffset moves the current caret to a byte offset, clamped to the
// buffer. A collapsed fold region hiding the offset is forced open. At a
// soft-wrap boundary the caret lands after the wrap.
func (m *MultiModel) MoveToOffset(offset Offset) {
	m.MoveToOffsetBeforeWrap(offset, false)
}

// MoveToOffsetBeforeWrap is MoveToOffset with explicit control over
// which side of a soft-wrap boundary the caret lands on.
func (m *MultiModel) MoveToOffsetBeforeWrap(offset Offset, locateBeforeSoftWrap bool) {
	m.assertOwner()
	off := m.buf.Clamp(offset)
	m.folds.ExpandAt(off)
	lean := locateBeforeSoftWrap && m.mapper.IsAtSoftWrap(off)
	m.placeCaret(m.currentCaret(), off, lean, keepSelection)
}

// selectionMode controls what a caret move does to the selection.
type selectionMode int

const (
	keepSelection     selectionMode = iota // MoveTo*: selection survives the move
	extendSelection                        // relative move with selection
	collapseSelection                      // relative move without selection
)

// placeCaret moves a caret to an offset.
func (m *MultiModel) placeCaret(c *Caret, off Offset, lean bool, mode selectionMode) {
	old := c.off
	c.off = off
	c.beforeWrap = lean
	switch mode {
	case extendSelection:
		if c.sel.IsEmpty() {
			c.sel = NewSelection(old, off)
		} else {
			c.sel = c.sel.Extend(off)
		}
	case collapseSelection:
		c.sel = EmptySelection(off)
	default:
		if c.sel.IsEmpty() {
			c.sel = EmptySelection(off)
		}
	}
	m.fireMoved(c, old, off)
	m.changed()
}

// SetSelection replaces the current caret's selection. The caret's
// offset does not move; offsets are clamped to the buffer.
func (m *MultiModel) SetSelection(start, end Offset) {
	m.assertOwner()
	c := m.currentCaret()
	c.sel = NewSelection(m.buf.Clamp(start), m.buf.Clamp(end))
	m.changed()
}

// Freshness

// IsUpToDate reports whether the derived caret positions reflect the
// current buffer content. A buffer edit transforms offsets synchronously
// but leaves logical and visual positions stale until the next mutation
// or an explicit Reconcile.
func (m *MultiModel) IsUpToDate() bool {
	if !m.isOwner() {
		return m.snap.Load().upToDate
	}
	return m.upToDate
}

// Reconcile recomputes the derived positions of every caret against the
// current buffer and fold state.
func (m *MultiModel) Reconcile() {
	m.assertOwner()
	m.refreshAll()
	m.upToDate = true
	m.publish()
}

// Primary-caret queries

// Offset returns the primary caret's offset.
func (m *MultiModel) Offset() Offset {
	if !m.isOwner() {
		return m.snap.Load().offset
	}
	return m.primary().off
}

// LogicalPosition returns the primary caret's logical position. The
// value is a cache: after a buffer edit it is stale until Reconcile.
func (m *MultiModel) LogicalPosition() LogicalPosition {
	if !m.isOwner() {
		return m.snap.Load().logical
	}
	return m.primary().logical
}

// VisualPosition returns the primary caret's visual position, cached
// like LogicalPosition.
func (m *MultiModel) VisualPosition() VisualPosition {
	if !m.isOwner() {
		return m.snap.Load().visual
	}
	return m.primary().visual
}

// Selection returns the primary caret's selection.
func (m *MultiModel) Selection() Selection {
	if !m.isOwner() {
		return m.snap.Load().sel
	}
	return m.primary().sel
}

// VisualLineStart returns the first offset of the primary caret's visual
// row.
func (m *MultiModel) VisualLineStart() Offset {
	if !m.isOwner() {
		return m.snap.Load().vlineStart
	}
	return m.primary().vlineStart
}

// VisualLineEnd returns the offset of the first symbol after the primary
// caret's visual row.
func (m *MultiModel) VisualLineEnd() Offset {
	if !m.isOwner() {
		return m.snap.Load().vlineEnd
	}
	return m.primary().vlineEnd
}

// TextAttributes returns the attributes used to draw selected text.
func (m *MultiModel) TextAttributes() TextAttributes {
	return m.attrs
}

// Caret set management

// SupportsMultipleCarets reports whether the model can hold more than
// one caret.
func (m *MultiModel) SupportsMultipleCarets() bool {
	return true
}

// CurrentCaret returns the caret being processed inside RunForEachCaret,
// or the primary caret outside a batch.
func (m *MultiModel) CurrentCaret() *Caret {
	return m.currentCaret()
}

// PrimaryCaret returns the lowest-offset caret.
func (m *MultiModel) PrimaryCaret() *Caret {
	return m.primary()
}

// AllCarets returns the carets in ascending offset order. The slice is a
// copy.
func (m *MultiModel) AllCarets() []*Caret {
	out := make([]*Caret, len(m.carets))
	copy(out, m.carets)
	return out
}

// CaretAt returns the caret at the given visual position, or nil.
func (m *MultiModel) CaretAt(pos VisualPosition) *Caret {
	for _, c := range m.carets {
		if m.mapper.OffsetToVisual(c.off, c.beforeWrap) == pos {
			return c
		}
	}
	return nil
}

// AddCaret adds a caret at the given visual position and returns it.
// Returns nil if the position is already occupied by a caret or lies
// inside another caret's selection.
func (m *MultiModel) AddCaret(pos VisualPosition) *Caret {
	m.assertOwner()
	off := m.mapper.VisualToOffset(pos)
	for _, c := range m.carets {
		if c.off == off || c.sel.Contains(off) {
			return nil
		}
	}
	c := newCaret(off)
	m.refresh(c)
	m.carets = append(m.carets, c)
	m.fireAdded(c)
	m.changed()
	return c
}

// RemoveCaret removes the given caret. Returns false if the caret is not
// part of the set or is the last caret remaining.
func (m *MultiModel) RemoveCaret(c *Caret) bool {
	m.assertOwner()
	if len(m.carets) == 1 {
		return false
	}
	for i, have := range m.carets {
		if have == c {
			m.carets = append(m.carets[:i], m.carets[i+1:]...)
			m.fireRemoved(c)
			m.changed()
			return true
		}
	}
	return false
}

// RemoveSecondaryCarets removes every caret except the primary.
func (m *MultiModel) RemoveSecondaryCarets() {
	m.assertOwner()
	p := m.primary()
	for _, c := range m.carets {
		if c != p {
			m.fireRemoved(c)
		}
	}
	m.carets = m.carets[:0]
	m.carets = append(m.carets, p)
	m.changed()
}

// SetCarets replaces the caret set. positions[i] and selections[i]
// configure the i-th caret in offset order; nil entries leave that
// aspect of an existing caret unchanged. Carets beyond len(positions)
// are removed; positions beyond the current set create carets, except
// nil positions, which are skipped.
func (m *MultiModel) SetCarets(positions []*LogicalPosition, selections []*Selection) {
	m.assertOwner()
	// The set never reaches zero members: a list shorter than the set
	// removes trailing carets but always leaves the first one, so
	// listeners may query the model from CaretRemoved.
	keep := len(positions)
	if keep < 1 {
		keep = 1
	}
	for len(m.carets) > keep {
		last := m.carets[len(m.carets)-1]
		m.carets = m.carets[:len(m.carets)-1]
		m.fireRemoved(last)
	}
	for i, pos := range positions {
		var sel *Selection
		if i < len(selections) {
			sel = selections[i]
		}
		if i < len(m.carets) {
			c := m.carets[i]
			if pos != nil {
				old := c.off
				c.off = m.mapper.LogicalToOffset(*pos)
				c.beforeWrap = false
				if c.sel.IsEmpty() {
					c.sel = EmptySelection(c.off)
				}
				m.fireMoved(c, old, c.off)
			}
			if sel != nil {
				c.sel = sel.Clamp(m.buf.Len())
			}
			continue
		}
		if pos == nil {
			continue
		}
		c := newCaret(m.mapper.LogicalToOffset(*pos))
		if sel != nil {
			c.sel = sel.Clamp(m.buf.Len())
		}
		m.carets = append(m.carets, c)
		m.fireAdded(c)
	}
	m.changed()
}

// RunForEachCaret runs op once per caret, in ascending offset order,
// with CurrentCaret reporting the caret being processed. The pass
// iterates a snapshot of the set: carets added during the pass are not
// visited, carets removed or merged away during it are skipped.
// Colliding carets coalesce once at the end of the pass. A nested call
// runs op once for the current caret.
func (m *MultiModel) RunForEachCaret(op func()) {
	m.assertOwner()
	if m.inBatch {
		op()
		return
	}
	pass := make([]*Caret, len(m.carets))
	copy(pass, m.carets)

	m.inBatch = true
	defer func() {
		m.current = nil
		m.inBatch = false
		if m.dirty {
			m.dirty = false
			m.commit()
		}
	}()
	for _, c := range pass {
		if !m.contains(c) {
			continue
		}
		m.current = c
		op()
	}
}

// Listeners

// AddCaretListener registers a listener and returns its handle.
func (m *MultiModel) AddCaretListener(l Listener) uuid.UUID {
	m.assertOwner()
	id := uuid.New()
	m.listeners = append(m.listeners, registeredListener{id: id, l: l})
	return id
}

// RemoveCaretListener unregisters a listener by handle.
func (m *MultiModel) RemoveCaretListener(id uuid.UUID) bool {
	m.assertOwner()
	for i, rl := range m.listeners {
		if rl.id == id {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Internal plumbing

// handleEdit transforms every caret across a buffer edit. Offsets stay
// valid immediately; derived positions go stale until Reconcile or the
// next mutation.
func (m *MultiModel) handleEdit(edit buffer.Edit) {
	for _, c := range m.carets {
		old := c.off
		// The cached logical position still describes the pre-edit
		// buffer; the offset no longer does.
		oldPos := c.logical
		c.off = TransformOffset(c.off, edit)
		c.sel = TransformSelection(c.sel, edit)
		if c.off != old {
			m.fireMovedFrom(c, oldPos, c.off)
		}
	}
	// Inside a batch, coalescing waits for the end of the pass.
	if m.inBatch {
		m.dirty = true
	} else {
		m.normalize()
	}
	m.upToDate = false
	m.publish()
}

func (m *MultiModel) primary() *Caret {
	p := m.carets[0]
	for _, c := range m.carets[1:] {
		if c.off < p.off {
			p = c
		}
	}
	return p
}

func (m *MultiModel) currentCaret() *Caret {
	if m.current != nil {
		return m.current
	}
	return m.primary()
}

func (m *MultiModel) contains(c *Caret) bool {
	for _, have := range m.carets {
		if have == c {
			return true
		}
	}
	return false
}

// changed commits after a mutation, or defers the commit to the end of
// the batch when one is running.
func (m *MultiModel) changed() {
	if m.inBatch {
		m.dirty = true
		return
	}
	m.commit()
}

func (m *MultiModel) commit() {
	m.normalize()
	m.refreshAll()
	m.upToDate = true
	m.publish()
}

// refresh recomputes one caret's derived position caches.
func (m *MultiModel) refresh(c *Caret) {
	c.logical = m.mapper.OffsetToLogical(c.off)
	c.visual = m.mapper.OffsetToVisual(c.off, c.beforeWrap)
	c.vlineStart, c.vlineEnd = m.mapper.VisualLineBounds(c.off, c.beforeWrap)
	c.fresh = true
}

func (m *MultiModel) refreshAll() {
	for _, c := range m.carets {
		m.refresh(c)
	}
}
