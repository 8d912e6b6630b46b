// Package layout translates between the three coordinate spaces of a
// buffer: byte offsets, logical line/column positions, and visual
// line/column positions.
//
// Logical positions follow the buffer's raw line structure and count
// columns in runes. Visual positions describe the rendered buffer: a
// collapsed fold region contributes a single placeholder instead of its
// interior, and long rows split at a configurable wrap width. Visual
// columns count terminal cells: tabs expand to tab stops, wide (CJK)
// runes occupy two cells, and grapheme clusters are measured as units.
//
// Soft wraps make the offset-to-visual mapping many-to-one: an offset at
// a wrap boundary corresponds both to the end of the row before the wrap
// and to the start of the row after it. Queries take a beforeWrap flag to
// disambiguate; the conventional default is after the wrap.
//
// The Mapper builds a visual-row index lazily and rebuilds it whenever
// the buffer revision, fold generation, or wrap/tab widths change.
package layout
