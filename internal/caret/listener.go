package caret

import "github.com/google/uuid"

// Event describes a caret position change.
type Event struct {
	Caret       *Caret
	OldPosition LogicalPosition
	NewPosition LogicalPosition
}

// Listener receives caret lifecycle and movement notifications.
// Listeners run synchronously on the owner goroutine, in registration
// order. They must not mutate the model.
type Listener interface {
	CaretPositionChanged(e Event)
	CaretAdded(c *Caret)
	CaretRemoved(c *Caret)
}

// FuncListener adapts plain functions to the Listener interface.
// Nil fields are skipped.
type FuncListener struct {
	OnPositionChanged func(Event)
	OnAdded           func(*Caret)
	OnRemoved         func(*Caret)
}

// CaretPositionChanged implements Listener.
func (f FuncListener) CaretPositionChanged(e Event) {
	if f.OnPositionChanged != nil {
		f.OnPositionChanged(e)
	}
}

// CaretAdded implements Listener.
func (f FuncListener) CaretAdded(c *Caret) {
	if f.OnAdded != nil {
		f.OnAdded(c)
	}
}

// CaretRemoved implements Listener.
func (f FuncListener) CaretRemoved(c *Caret) {
	if f.OnRemoved != nil {
		f.OnRemoved(c)
	}
}

type registeredListener struct {
	id uuid.UUID
	l  Listener
}

func (m *MultiModel) fireMoved(c *Caret, oldOff, newOff Offset) {
	if oldOff == newOff || len(m.listeners) == 0 {
		return
	}
	m.fireMovedFrom(c, m.mapper.OffsetToLogical(oldOff), newOff)
}

// fireMovedFrom takes the old position as an already-resolved logical
// position, for callers whose old offset is no longer meaningful
// against the current buffer (edit transformation).
func (m *MultiModel) fireMovedFrom(c *Caret, oldPos LogicalPosition, newOff Offset) {
	if len(m.listeners) == 0 {
		return
	}
	e := Event{
		Caret:       c,
		OldPosition: oldPos,
		NewPosition: m.mapper.OffsetToLogical(newOff),
	}
	for _, rl := range m.listeners {
		rl.l.CaretPositionChanged(e)
	}
}

func (m *MultiModel) fireAdded(c *Caret) {
	for _, rl := range m.listeners {
		rl.l.CaretAdded(c)
	}
}

func (m *MultiModel) fireRemoved(c *Caret) {
	for _, rl := range m.listeners {
		rl.l.CaretRemoved(c)
	}
}
