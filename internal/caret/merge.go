package caret

import "sort"

// normalize restores the set invariants: carets ordered by ascending
// offset, no duplicate offsets, no overlapping selections. Colliding
// carets coalesce into the lower-offset caret, which keeps its identity.
// Runs to a fixed point because a merged selection can swallow the next
// caret over.
func (m *MultiModel) normalize() {
	for {
		sort.SliceStable(m.carets, func(i, j int) bool {
			return m.carets[i].off < m.carets[j].off
		})
		merged := false
		out := m.carets[:0]
		for _, c := range m.carets {
			if len(out) == 0 {
				out = append(out, c)
				continue
			}
			last := out[len(out)-1]
			if shouldMerge(last, c) {
				mergeInto(last, c)
				m.fireRemoved(c)
				merged = true
				continue
			}
			out = append(out, c)
		}
		m.carets = out
		if !merged {
			return
		}
	}
}

// shouldMerge reports whether two carets collide: equal offsets, touching
// selections, or one caret sitting strictly inside the other's selection.
func shouldMerge(a, b *Caret) bool {
	if a.off == b.off {
		return true
	}
	if !a.sel.IsEmpty() && !b.sel.IsEmpty() && a.sel.Touches(b.sel) {
		return true
	}
	if !a.sel.IsEmpty() && insideSelection(b.off, a.sel) {
		return true
	}
	if !b.sel.IsEmpty() && insideSelection(a.off, b.sel) {
		return true
	}
	return false
}

func insideSelection(off Offset, sel Selection) bool {
	return off > sel.Start() && off < sel.End()
}

// mergeInto folds src into dst. The merged selection is the union of
// both; the surviving caret moves to the union's end. Two selection-less
// carets merge in place at their shared offset.
func mergeInto(dst, src *Caret) {
	if dst.sel.IsEmpty() && src.sel.IsEmpty() {
		return
	}
	var u Selection
	switch {
	case dst.sel.IsEmpty():
		u = src.sel
	case src.sel.IsEmpty():
		u = dst.sel
	default:
		u = dst.sel.Union(src.sel)
	}
	dst.sel = NewSelection(u.Start(), u.End())
	dst.off = u.End()
}
