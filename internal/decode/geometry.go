package decode

import "fmt"

// Tolerance is the maximum distance, in coordinate units, between two
// endpoints for them to be considered the same point when chaining arcs
// into rings. Spec §4.5 step 2; never applied to areas or distances
// reported to callers (spec §4.5 "Numeric semantics").
const Tolerance = 1e-6

// Kind enumerates the geometry variants a feature can resolve to.
// Point/LineString/Polygon each have a plain and a "Z" (3D) form; the
// three Multi* forms are dimension-agnostic over their element slice
// (an element itself carries Z per-vertex via Is3D upstream). That
// gives the nine variants named in spec §8 invariant 1.
type Kind int

const (
	KindPoint Kind = iota
	KindPointZ
	KindLineString
	KindLineStringZ
	KindPolygon
	KindPolygonZ
	KindMultiPoint
	KindMultiLineString
	KindMultiPolygon
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindPointZ:
		return "PointZ"
	case KindLineString:
		return "LineString"
	case KindLineStringZ:
		return "LineStringZ"
	case KindPolygon:
		return "Polygon"
	case KindPolygonZ:
		return "PolygonZ"
	case KindMultiPoint:
		return "MultiPoint"
	case KindMultiLineString:
		return "MultiLineString"
	case KindMultiPolygon:
		return "MultiPolygon"
	default:
		return "Unknown"
	}
}

// Ring is a closed sequence of vertices: Ring[0] == Ring[len-1].
type Ring [][3]float64

// PolygonGeom is one outer ring plus zero or more holes.
type PolygonGeom struct {
	Outer Ring
	Holes []Ring
}

// Geometry is the assembled spatial representation of a feature.
// Exactly one of Points/Lines/Polygons is populated, matching Kind.
type Geometry struct {
	Kind     Kind
	Points   [][3]float64 // Point/PointZ (len 1) or MultiPoint (len N)
	Lines    [][][3]float64
	Polygons []PolygonGeom
}

// AssemblePoint builds a Point/PointZ/MultiPoint geometry from one or
// more nodes.
func AssemblePoint(nodes []*Node) (Geometry, error) {
	if len(nodes) == 0 {
		return Geometry{}, GeometryIncomplete.Wrap(&ErrGeometryIncomplete{Reason: "no nodes referenced"})
	}
	pts := make([][3]float64, 0, len(nodes))
	is3D := false
	for _, n := range nodes {
		pts = append(pts, [3]float64{n.X, n.Y, n.Z})
		is3D = is3D || n.Is3D
	}
	pts = dedupConsecutive(pts)
	if len(nodes) == 1 {
		if is3D {
			return Geometry{Kind: KindPointZ, Points: pts}, nil
		}
		return Geometry{Kind: KindPoint, Points: pts}, nil
	}
	return Geometry{Kind: KindMultiPoint, Points: pts}, nil
}

// AssembleLine builds a LineString/LineStringZ/MultiLineString geometry
// from one or more arcs. Each arc maps directly to one line; spec §4.5
// "Line and point assembly".
func AssembleLine(arcs []*Arc) (Geometry, error) {
	if len(arcs) == 0 {
		return Geometry{}, GeometryIncomplete.Wrap(&ErrGeometryIncomplete{Reason: "no arcs referenced"})
	}
	lines := make([][][3]float64, 0, len(arcs))
	is3D := false
	for _, a := range arcs {
		verts := dedupConsecutive(a.Vertices)
		if len(verts) < 2 {
			return Geometry{}, GeometryIncomplete.Wrap(&ErrGeometryIncomplete{Reason: fmt.Sprintf("arc %q has fewer than 2 vertices after dedup", a.ID)})
		}
		lines = append(lines, verts)
		is3D = is3D || a.Is3D
	}
	if len(arcs) == 1 {
		if is3D {
			return Geometry{Kind: KindLineStringZ, Lines: lines}, nil
		}
		return Geometry{Kind: KindLineString, Lines: lines}, nil
	}
	return Geometry{Kind: KindMultiLineString, Lines: lines}, nil
}

// AssemblePolygon builds a Polygon/PolygonZ/MultiPolygon geometry from
// one or more faces. This is the algorithmic heart (spec §4.5): each
// face's signed arc references are chained into closed rings, the
// largest-area ring becomes the outer boundary and the rest become
// holes, and ring orientation is normalized (outer CCW, holes CW).
func AssemblePolygon(faces []*Face, store *PrimitiveStore) (Geometry, error) {
	if len(faces) == 0 {
		return Geometry{}, GeometryIncomplete.Wrap(&ErrGeometryIncomplete{Reason: "no faces referenced"})
	}
	polys := make([]PolygonGeom, 0, len(faces))
	is3D := false
	for _, f := range faces {
		poly, faceIs3D, err := assembleFace(f, store)
		if err != nil {
			return Geometry{}, err
		}
		polys = append(polys, poly)
		is3D = is3D || faceIs3D
	}
	if len(faces) == 1 {
		if is3D {
			return Geometry{Kind: KindPolygonZ, Polygons: polys}, nil
		}
		return Geometry{Kind: KindPolygon, Polygons: polys}, nil
	}
	return Geometry{Kind: KindMultiPolygon, Polygons: polys}, nil
}

// assembleFace resolves one face's boundary into an outer ring plus holes.
func assembleFace(f *Face, store *PrimitiveStore) (PolygonGeom, bool, error) {
	rings, is3D, err := chainRings(f, store)
	if err != nil {
		return PolygonGeom{}, false, err
	}
	if len(rings) == 0 {
		return PolygonGeom{}, false, GeometryIncomplete.Wrap(&ErrGeometryIncomplete{FaceID: f.ID, Reason: "no closed rings"})
	}

	outerIdx := 0
	outerArea := 0.0
	for i, r := range rings {
		a := signedArea(r)
		if abs(a) > abs(outerArea) {
			outerArea = a
			outerIdx = i
		}
	}

	outer := normalizeOrientation(rings[outerIdx], false)
	holes := make([]Ring, 0, len(rings)-1)
	for i, r := range rings {
		if i == outerIdx {
			continue
		}
		holes = append(holes, normalizeOrientation(r, true))
	}

	return PolygonGeom{Outer: outer, Holes: holes}, is3D, nil
}

// chainRings walks a face's signed arc references in order, joining arcs
// end-to-end within Tolerance. A ring closes when the running chain's
// last vertex meets its first; the next reference (if any) starts a new
// chain, allowing one face to carry several closed chains (outer + holes).
func chainRings(f *Face, store *PrimitiveStore) ([]Ring, bool, error) {
	var rings []Ring
	var current [][3]float64
	is3D := false

	for _, ref := range f.Refs {
		arc, ok := store.Arc(ref.ArcID)
		if !ok {
			return nil, false, PrimitiveMissing.Wrap(&ErrMissingPrimitive{Kind: "arc", ID: ref.ArcID})
		}
		is3D = is3D || arc.Is3D

		verts := arc.Vertices
		if ref.Reversed {
			verts = reverseVertices(verts)
		}

		if len(current) == 0 {
			current = append(current, verts...)
		} else {
			last := current[len(current)-1]
			first := verts[0]
			if !withinTolerance(last, first) {
				return nil, false, GeometryIncomplete.Wrap(&ErrGeometryIncomplete{
					FaceID: f.ID,
					Reason: fmt.Sprintf("gap between arc endpoints: %v vs %v", last, first),
				})
			}
			current = append(current, verts[1:]...)
		}

		if len(current) >= 2 && withinTolerance(current[0], current[len(current)-1]) {
			rings = append(rings, dedupConsecutive(current))
			current = nil
		}
	}

	if len(current) != 0 {
		return nil, false, GeometryIncomplete.Wrap(&ErrGeometryIncomplete{FaceID: f.ID, Reason: "unreachable arc: chain never closed"})
	}

	return rings, is3D, nil
}

func withinTolerance(a, b [3]float64) bool {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return abs(dx) <= Tolerance && abs(dy) <= Tolerance
}

func reverseVertices(v [][3]float64) [][3]float64 {
	out := make([][3]float64, len(v))
	for i, p := range v {
		out[len(v)-1-i] = p
	}
	return out
}

func dedupConsecutive(v [][3]float64) [][3]float64 {
	if len(v) == 0 {
		return v
	}
	out := make([][3]float64, 0, len(v))
	out = append(out, v[0])
	for _, p := range v[1:] {
		last := out[len(out)-1]
		if p[0] == last[0] && p[1] == last[1] && p[2] == last[2] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// signedArea computes the shoelace signed area of a ring in the XY
// plane. Positive means counter-clockwise.
func signedArea(r Ring) float64 {
	sum := 0.0
	n := len(r)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r[i][0]*r[j][1] - r[j][0]*r[i][1]
	}
	return sum / 2
}

// normalizeOrientation returns r oriented CCW (wantHole=false) or CW
// (wantHole=true), per the right-hand rule (spec §4.5 step 3).
func normalizeOrientation(r Ring, wantHole bool) Ring {
	area := signedArea(r)
	isCCW := area > 0
	if isCCW == wantHole {
		out := make(Ring, len(r))
		for i, p := range r {
			out[len(r)-1-i] = p
		}
		return out
	}
	return r
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
