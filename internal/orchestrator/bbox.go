package orchestrator

import (
	"math"

	"github.com/edigeo-cadastre/ingest/internal/decode"
	"github.com/edigeo-cadastre/ingest/internal/department"
	"github.com/edigeo-cadastre/ingest/internal/transform"
)

// wgs84Bounds computes the WGS84 bounding box of a sheet's features,
// for the spatial department policy (spec §4.7). It is intentionally
// approximate: the four corners of the native-CRS bounding box are
// reprojected rather than every vertex, which is adequate for the
// department R-tree query's overlap-area heuristic (internal/department
// already documents that the boundary set itself is bbox-approximate).
func wgs84Bounds(features []decode.Feature, crs decode.CRS) (department.Bounds, error) {
	native := department.Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	found := false

	visit := func(x, y float64) {
		found = true
		if x < native.MinX {
			native.MinX = x
		}
		if x > native.MaxX {
			native.MaxX = x
		}
		if y < native.MinY {
			native.MinY = y
		}
		if y > native.MaxY {
			native.MaxY = y
		}
	}

	for _, f := range features {
		for _, p := range f.Geometry.Points {
			visit(p[0], p[1])
		}
		for _, line := range f.Geometry.Lines {
			for _, p := range line {
				visit(p[0], p[1])
			}
		}
		for _, poly := range f.Geometry.Polygons {
			for _, p := range poly.Outer {
				visit(p[0], p[1])
			}
		}
	}
	if !found {
		return department.Bounds{}, nil
	}
	if crs == decode.CRSWGS84 {
		return native, nil
	}

	corners := decode.Geometry{Kind: decode.KindMultiPoint, Points: [][3]float64{
		{native.MinX, native.MinY, 0},
		{native.MaxX, native.MinY, 0},
		{native.MaxX, native.MaxY, 0},
		{native.MinX, native.MaxY, 0},
	}}
	reprojected, err := transform.ReprojectGeometry(corners, crs, decode.CRSWGS84)
	if err != nil {
		return department.Bounds{}, err
	}

	out := department.Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, p := range reprojected.Points {
		if p[0] < out.MinX {
			out.MinX = p[0]
		}
		if p[0] > out.MaxX {
			out.MaxX = p[0]
		}
		if p[1] < out.MinY {
			out.MinY = p[1]
		}
		if p[1] > out.MaxY {
			out.MaxY = p[1]
		}
	}
	return out, nil
}
