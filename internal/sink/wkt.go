package sink

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/edigeo-cadastre/ingest/internal/decode"
)

// ToWKT renders an assembled geometry as WKT text so it can be passed
// to ST_GeomFromText. PostGIS accepts the same text for the Z and
// non-Z variants; only the coordinate tuples differ.
func ToWKT(g decode.Geometry) string {
	switch g.Kind {
	case decode.KindPoint, decode.KindPointZ:
		if len(g.Points) == 1 {
			return "POINT" + coordTuple(g.Points[0], g.Kind == decode.KindPointZ)
		}
		return "MULTIPOINT" + pointList(g.Points, g.Kind == decode.KindPointZ)
	case decode.KindMultiPoint:
		return "MULTIPOINT" + pointList(g.Points, is3D(g.Points))
	case decode.KindLineString, decode.KindLineStringZ:
		return "LINESTRING" + coordList(g.Lines[0], g.Kind == decode.KindLineStringZ)
	case decode.KindMultiLineString:
		z := len(g.Lines) > 0 && is3D(g.Lines[0])
		parts := make([]string, len(g.Lines))
		for i, line := range g.Lines {
			parts[i] = coordList(line, z)
		}
		return "MULTILINESTRING(" + strings.Join(parts, ", ") + ")"
	case decode.KindPolygon, decode.KindPolygonZ:
		return "POLYGON" + polygonRings(g.Polygons[0], g.Kind == decode.KindPolygonZ)
	case decode.KindMultiPolygon:
		z := len(g.Polygons) > 0 && is3D(g.Polygons[0].Outer)
		parts := make([]string, len(g.Polygons))
		for i, p := range g.Polygons {
			parts[i] = polygonRings(p, z)
		}
		return "MULTIPOLYGON(" + strings.Join(parts, ", ") + ")"
	default:
		return ""
	}
}

func is3D(pts [][3]float64) bool {
	for _, p := range pts {
		if p[2] != 0 {
			return true
		}
	}
	return false
}

func coord(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

func coordTuple(p [3]float64, z bool) string {
	if z {
		return fmt.Sprintf("(%s %s %s)", coord(p[0]), coord(p[1]), coord(p[2]))
	}
	return fmt.Sprintf("(%s %s)", coord(p[0]), coord(p[1]))
}

func coordList(pts [][3]float64, z bool) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		if z {
			parts[i] = fmt.Sprintf("%s %s %s", coord(p[0]), coord(p[1]), coord(p[2]))
		} else {
			parts[i] = fmt.Sprintf("%s %s", coord(p[0]), coord(p[1]))
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func pointList(pts [][3]float64, z bool) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = coordTuple(p, z)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func polygonRings(p decode.PolygonGeom, z bool) string {
	rings := make([]string, 0, 1+len(p.Holes))
	rings = append(rings, coordList(p.Outer, z))
	for _, h := range p.Holes {
		rings = append(rings, coordList(h, z))
	}
	return "(" + strings.Join(rings, ", ") + ")"
}
