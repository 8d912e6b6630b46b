package fold

import (
	"testing"

	"github.com/dshills/multicaret/internal/buffer"
)

func TestAddRejectsOverlap(t *testing.T) {
	g := NewRegistry()

	if _, err := g.Add(buffer.NewRange(5, 10), ""); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := g.Add(buffer.NewRange(8, 15), ""); err != ErrRegionOverlap {
		t.Errorf("expected ErrRegionOverlap, got %v", err)
	}
	// Adjacent is fine.
	if _, err := g.Add(buffer.NewRange(10, 15), ""); err != nil {
		t.Errorf("adjacent region rejected: %v", err)
	}
}

func TestAddRejectsInvalid(t *testing.T) {
	g := NewRegistry()
	if _, err := g.Add(buffer.NewRange(5, 5), ""); err != ErrRegionInvalid {
		t.Errorf("expected ErrRegionInvalid for empty range, got %v", err)
	}
	if _, err := g.Add(buffer.NewRange(9, 5), ""); err != ErrRegionInvalid {
		t.Errorf("expected ErrRegionInvalid for reversed range, got %v", err)
	}
}

func TestCollapsedAtExcludesBoundaries(t *testing.T) {
	g := NewRegistry()
	r, err := g.Add(buffer.NewRange(5, 10), "")
	if err != nil {
		t.Fatal(err)
	}

	if g.CollapsedAt(7) != nil {
		t.Error("expanded region should not be reported")
	}

	r.Collapse()
	if g.CollapsedAt(7) != r {
		t.Error("collapsed region should be reported for interior offset")
	}
	if g.CollapsedAt(5) != nil || g.CollapsedAt(10) != nil {
		t.Error("boundaries are not interior")
	}
}

func TestExpandAt(t *testing.T) {
	g := NewRegistry()
	r, _ := g.Add(buffer.NewRange(5, 10), "")
	r.Collapse()

	if !g.ExpandAt(7) {
		t.Fatal("expected expansion")
	}
	if r.IsCollapsed() {
		t.Error("region should be expanded")
	}
	if g.ExpandAt(7) {
		t.Error("second ExpandAt should report false")
	}
}

func TestGenerationAdvances(t *testing.T) {
	g := NewRegistry()
	gen := g.Generation()

	r, _ := g.Add(buffer.NewRange(1, 4), "")
	if g.Generation() == gen {
		t.Error("generation should change on add")
	}

	gen = g.Generation()
	r.Collapse()
	if g.Generation() == gen {
		t.Error("generation should change on collapse")
	}

	gen = g.Generation()
	r.Collapse() // already collapsed, no change
	if g.Generation() != gen {
		t.Error("collapsing a collapsed region should not change generation")
	}
}

func TestTransformShiftsRegions(t *testing.T) {
	g := NewRegistry()
	r, _ := g.Add(buffer.NewRange(10, 20), "")

	// Insert 5 bytes before the region.
	g.Transform(buffer.NewInsert(0, "xxxxx"))
	if got := r.Range(); got.Start != 15 || got.End != 25 {
		t.Errorf("expected [15:25), got %v", got)
	}

	// Delete a range spanning the whole region: the region is dropped.
	g.Transform(buffer.NewDelete(10, 30))
	if len(g.Regions()) != 0 {
		t.Error("region swallowed by a delete should be removed")
	}
}
