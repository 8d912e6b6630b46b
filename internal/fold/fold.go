// Package fold tracks collapsible buffer regions.
//
// A collapsed region hides its interior offsets from visual coordinates;
// the layout mapper renders it as a single placeholder. Regions never
// overlap. The registry keeps a generation counter so the layout mapper
// can detect fold-state changes without callbacks.
//
// The registry is owned by the caret model's writer goroutine and is not
// internally synchronized.
package fold

import (
	"errors"
	"sort"

	"github.com/dshills/multicaret/internal/buffer"
)

// Errors returned by the registry.
var (
	ErrRegionOverlap = errors.New("fold region overlaps an existing region")
	ErrRegionInvalid = errors.New("invalid fold region range")
)

// DefaultPlaceholder is rendered for collapsed regions without their own
// placeholder text.
const DefaultPlaceholder = "..."

// Region is a collapsible buffer sub-range.
type Region struct {
	rng         buffer.Range
	placeholder string
	collapsed   bool
	reg         *Registry
}

// Range returns the region's buffer range.
func (r *Region) Range() buffer.Range {
	return r.rng
}

// Placeholder returns the text rendered when the region is collapsed.
func (r *Region) Placeholder() string {
	return r.placeholder
}

// IsCollapsed returns true if the region is currently collapsed.
func (r *Region) IsCollapsed() bool {
	return r.collapsed
}

// Collapse hides the region's interior from visual coordinates.
func (r *Region) Collapse() {
	if !r.collapsed {
		r.collapsed = true
		r.reg.generation++
	}
}

// Expand makes the region's interior visible again.
func (r *Region) Expand() {
	if r.collapsed {
		r.collapsed = false
		r.reg.generation++
	}
}

// Registry owns the fold regions of one buffer, ordered by start offset.
type Registry struct {
	regions    []*Region
	generation uint64
}

// NewRegistry creates an empty fold registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Generation returns a counter incremented on every fold-state change.
func (g *Registry) Generation() uint64 {
	return g.generation
}

// Add registers a new expanded region. Regions with invalid or
// overlapping ranges are rejected.
func (g *Registry) Add(rng buffer.Range, placeholder string) (*Region, error) {
	if !rng.IsValid() || rng.IsEmpty() {
		return nil, ErrRegionInvalid
	}
	for _, r := range g.regions {
		if r.rng.Overlaps(rng) {
			return nil, ErrRegionOverlap
		}
	}
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	region := &Region{rng: rng, placeholder: placeholder, reg: g}
	g.regions = append(g.regions, region)
	sort.Slice(g.regions, func(i, j int) bool {
		return g.regions[i].rng.Start < g.regions[j].rng.Start
	})
	g.generation++
	return region, nil
}

// Remove unregisters a region. Returns false if the region is unknown.
func (g *Registry) Remove(region *Region) bool {
	for i, r := range g.regions {
		if r == region {
			g.regions = append(g.regions[:i], g.regions[i+1:]...)
			g.generation++
			return true
		}
	}
	return false
}

// Regions returns all regions in start-offset order.
// The returned slice is safe to modify without affecting the registry.
func (g *Registry) Regions() []*Region {
	out := make([]*Region, len(g.regions))
	copy(out, g.regions)
	return out
}

// CollapsedAt returns the collapsed region whose interior contains the
// offset, or nil. Boundaries do not count: a caret may sit on either edge
// of a collapsed region.
func (g *Registry) CollapsedAt(offset buffer.Offset) *Region {
	for _, r := range g.regions {
		if r.rng.Start >= offset {
			break
		}
		if r.collapsed && r.rng.ContainsInterior(offset) {
			return r
		}
	}
	return nil
}

// NextCollapsed returns the first collapsed region starting at or after
// the offset, or nil.
func (g *Registry) NextCollapsed(offset buffer.Offset) *Region {
	for _, r := range g.regions {
		if r.collapsed && r.rng.Start >= offset {
			return r
		}
	}
	return nil
}

// ExpandAt expands any collapsed region whose interior contains the
// offset. Moving a caret into a folded region forces it open. Returns
// true if a region was expanded.
func (g *Registry) ExpandAt(offset buffer.Offset) bool {
	if r := g.CollapsedAt(offset); r != nil {
		r.Expand()
		return true
	}
	return false
}

// Transform adjusts all region ranges after a buffer edit. Regions whose
// range collapses to nothing are removed.
func (g *Registry) Transform(edit buffer.Edit) {
	keep := g.regions[:0]
	for _, r := range g.regions {
		start := transformOffset(r.rng.Start, edit)
		end := transformOffset(r.rng.End, edit)
		if start >= end {
			g.generation++
			continue
		}
		r.rng = buffer.Range{Start: start, End: end}
		keep = append(keep, r)
	}
	g.regions = keep
}

// transformOffset maps an offset across an edit: offsets after the edit
// shift by its delta, offsets inside the replaced range move to its start.
func transformOffset(offset buffer.Offset, edit buffer.Edit) buffer.Offset {
	if edit.Range.End <= offset {
		return offset + edit.Delta()
	}
	if edit.Range.Start >= offset {
		return offset
	}
	return edit.Range.Start
}
