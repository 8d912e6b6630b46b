package caret

// snapshot is the atomically published view of the primary caret, served
// to queries arriving from goroutines other than the owner. It is
// internally consistent but not linearized with in-flight mutations.
type snapshot struct {
	offset     Offset
	logical    LogicalPosition
	visual     VisualPosition
	sel        Selection
	vlineStart Offset
	vlineEnd   Offset
	upToDate   bool
	caretCount int
}

// publish captures the primary caret's current state. Called on the
// owner goroutine after every committed change.
func (m *MultiModel) publish() {
	p := m.primary()
	m.snap.Store(&snapshot{
		offset:     p.off,
		logical:    p.logical,
		visual:     p.visual,
		sel:        p.sel,
		vlineStart: p.vlineStart,
		vlineEnd:   p.vlineEnd,
		upToDate:   m.upToDate,
		caretCount: len(m.carets),
	})
}
