package department

import (
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"
)

// Bounds is an axis-aligned bounding box in WGS84 degrees, the units of
// both the boundary reference set and the query box the orchestrator
// computes.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Intersects reports whether the two boxes overlap.
func (b Bounds) Intersects(o Bounds) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// overlapArea returns the area of the intersection of b and o, 0 if
// disjoint.
func (b Bounds) overlapArea(o Bounds) float64 {
	dx := min(b.MaxX, o.MaxX) - max(b.MinX, o.MinX)
	dy := min(b.MaxY, o.MaxY) - max(b.MinY, o.MinY)
	if dx <= 0 || dy <= 0 {
		return 0
	}
	return dx * dy
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Boundary is one department's reference geometry. The reference set
// used by this package approximates each department by its bounding
// box rather than a full polygon: the pack carries no polygon-clipping
// library (rtreego indexes rectangles only), so "largest overlap area"
// is computed between bounding boxes, which is exact for the common
// case of a sheet intersecting a single department and a reasonable
// tie-break proxy otherwise (see DESIGN.md).
type Boundary struct {
	Code   Code
	Bounds Bounds
}

// bounds converts the boundary box to an rtreego.Rect; indexedBoundary's
// Bounds method wraps it to implement rtreego.Spatial.
func (b Boundary) bounds() rtreego.Rect {
	point := rtreego.Point{b.Bounds.MinX, b.Bounds.MinY}
	lengths := []float64{
		b.Bounds.MaxX - b.Bounds.MinX,
		b.Bounds.MaxY - b.Bounds.MinY,
	}
	if lengths[0] <= 0 {
		lengths[0] = 1e-9
	}
	if lengths[1] <= 0 {
		lengths[1] = 1e-9
	}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

type indexedBoundary struct{ Boundary }

func (b indexedBoundary) Bounds() rtreego.Rect { return b.bounds() }

// Index is the department boundary set, built once per process (spec
// §4.7 "shared state", §9 "one-time global init").
type Index struct {
	rtree      *rtreego.Rtree
	boundaries []Boundary
}

// BuildIndex constructs an Index directly; exposed mainly for tests.
// Production callers should go through LoadIndex, which enforces the
// build-once guarantee.
func BuildIndex(boundaries []Boundary) *Index {
	rtree := rtreego.NewTree(2, 5, 25)
	for _, b := range boundaries {
		rtree.Insert(indexedBoundary{b})
	}
	return &Index{rtree: rtree, boundaries: boundaries}
}

// Resolve returns the department whose boundary has the largest overlap
// area with bbox, breaking ties by the lower code (spec §4.7, §8
// boundary behavior). Returns Unresolved if nothing intersects.
func (idx *Index) Resolve(bbox Bounds) Code {
	point := rtreego.Point{bbox.MinX, bbox.MinY}
	lengths := []float64{bbox.MaxX - bbox.MinX, bbox.MaxY - bbox.MinY}
	if lengths[0] <= 0 {
		lengths[0] = 1e-9
	}
	if lengths[1] <= 0 {
		lengths[1] = 1e-9
	}
	rect, _ := rtreego.NewRect(point, lengths)

	candidates := idx.rtree.SearchIntersect(rect)
	if len(candidates) == 0 {
		return Unresolved
	}

	type scored struct {
		code Code
		area float64
	}
	scores := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		b := c.(indexedBoundary)
		scores = append(scores, scored{code: b.Code, area: bbox.overlapArea(b.Bounds)})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].area != scores[j].area {
			return scores[i].area > scores[j].area
		}
		return scores[i].code < scores[j].code
	})

	return scores[0].code
}

// Count returns the number of boundaries loaded into the index.
func (idx *Index) Count() int { return len(idx.boundaries) }

var (
	once        sync.Once
	globalIndex *Index
)

// LoadIndex builds the process-wide department index from boundaries on
// first call; subsequent calls (even with different arguments) return
// the already-built index (spec §4.7 "built at most once per process,
// behind a one-shot initializer that is safe under concurrent first
// use").
func LoadIndex(boundaries []Boundary) *Index {
	once.Do(func() {
		globalIndex = BuildIndex(boundaries)
	})
	return globalIndex
}
