package buffer

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// EditFunc is invoked synchronously after an edit has been applied.
// It runs on the mutating goroutine.
type EditFunc func(edit Edit)

// Buffer stores the document text with a line index.
// Read methods are safe for concurrent use; mutations must come from a
// single writer.
type Buffer struct {
	mu         sync.RWMutex
	text       []byte
	lineStarts []Offset // offset of the first byte of each line
	revision   Revision
	onEdit     []EditFunc
}

// New creates an empty buffer.
func New() *Buffer {
	return FromString("")
}

// FromString creates a buffer with initial content.
// Line endings are normalized to LF.
func FromString(s string) *Buffer {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	b := &Buffer{
		text:     []byte(s),
		revision: NewRevision(),
	}
	b.reindex()
	return b
}

// OnEdit registers a callback invoked after every committed edit.
// Callbacks run synchronously on the mutating goroutine, in registration
// order.
func (b *Buffer) OnEdit(fn EditFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onEdit = append(b.onEdit, fn)
}

// reindex rebuilds the line-start index. Caller holds the write lock (or
// exclusive ownership during construction).
func (b *Buffer) reindex() {
	b.lineStarts = b.lineStarts[:0]
	b.lineStarts = append(b.lineStarts, 0)
	for i, c := range b.text {
		if c == '\n' {
			b.lineStarts = append(b.lineStarts, Offset(i+1))
		}
	}
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.text)
}

// TextRange returns text in the given byte range, clamped to the buffer.
func (b *Buffer) TextRange(start, end Offset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start = b.clampLocked(start)
	end = b.clampLocked(end)
	if start > end {
		start, end = end, start
	}
	return string(b.text[start:end])
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text)
}

// Revision returns the current revision ID.
func (b *Buffer) Revision() Revision {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lineStarts)
}

// LineStart returns the byte offset of the start of a line.
// The line number is clamped to the valid range.
func (b *Buffer) LineStart(line int) Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineStarts[b.clampLineLocked(line)]
}

// LineEnd returns the byte offset of the end of a line (before the
// newline). The line number is clamped to the valid range.
func (b *Buffer) LineEnd(line int) Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEndLocked(b.clampLineLocked(line))
}

func (b *Buffer) lineEndLocked(line int) Offset {
	if line+1 < len(b.lineStarts) {
		return b.lineStarts[line+1] - 1 // before the newline
	}
	return len(b.text)
}

// LineText returns the text of a specific line (without newline).
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	line = b.clampLineLocked(line)
	return string(b.text[b.lineStarts[line]:b.lineEndLocked(line)])
}

// LineOf returns the line containing the given offset.
// The offset is clamped to the buffer.
func (b *Buffer) LineOf(offset Offset) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineOfLocked(b.clampLocked(offset))
}

func (b *Buffer) lineOfLocked(offset Offset) int {
	// Binary search for the last line start <= offset.
	lo, hi := 0, len(b.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// OffsetToLineCol converts a byte offset to a line and rune column.
func (b *Buffer) OffsetToLineCol(offset Offset) (line, col int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	offset = b.clampLocked(offset)
	line = b.lineOfLocked(offset)
	col = utf8.RuneCount(b.text[b.lineStarts[line]:offset])
	return line, col
}

// LineColToOffset converts a line and rune column to a byte offset.
// Both coordinates are clamped to the buffer's bounds.
func (b *Buffer) LineColToOffset(line, col int) Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	line = b.clampLineLocked(line)
	if col < 0 {
		col = 0
	}
	off := b.lineStarts[line]
	end := b.lineEndLocked(line)
	for col > 0 && off < end {
		_, size := utf8.DecodeRune(b.text[off:end])
		off += size
		col--
	}
	return off
}

// Clamp returns the offset clamped to [0, Len()].
func (b *Buffer) Clamp(offset Offset) Offset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.clampLocked(offset)
}

func (b *Buffer) clampLocked(offset Offset) Offset {
	if offset < 0 {
		return 0
	}
	if offset > len(b.text) {
		return len(b.text)
	}
	return offset
}

func (b *Buffer) clampLineLocked(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(b.lineStarts) {
		return len(b.lineStarts) - 1
	}
	return line
}

// Write Operations

// Insert inserts text at the given offset.
func (b *Buffer) Insert(offset Offset, text string) error {
	return b.Apply(NewInsert(offset, text))
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end Offset) error {
	return b.Apply(NewDelete(start, end))
}

// Replace replaces text in the given range with new text.
func (b *Buffer) Replace(start, end Offset, text string) error {
	return b.Apply(Edit{Range: Range{Start: start, End: end}, NewText: text})
}

// Apply applies a single edit, bumps the revision, and notifies edit
// callbacks.
func (b *Buffer) Apply(edit Edit) error {
	b.mu.Lock()
	if edit.Range.Start < 0 || edit.Range.Start > edit.Range.End ||
		edit.Range.End > len(b.text) {
		b.mu.Unlock()
		return ErrRangeInvalid
	}

	newText := make([]byte, 0, len(b.text)+edit.Delta())
	newText = append(newText, b.text[:edit.Range.Start]...)
	newText = append(newText, edit.NewText...)
	newText = append(newText, b.text[edit.Range.End:]...)
	b.text = newText
	b.reindex()
	b.revision = NewRevision()
	callbacks := b.onEdit
	b.mu.Unlock()

	for _, fn := range callbacks {
		fn(edit)
	}
	return nil
}
