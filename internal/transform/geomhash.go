package transform

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/edigeo-cadastre/ingest/internal/decode"
)

// geomPrecision is the number of decimals kept in the canonical form
// before hashing: enough to distinguish any two distinct vertices
// without baking floating-point noise into the digest.
const geomPrecision = 9

// GeomHash returns the 256-bit digest of the geometry's canonical
// representation (spec §4.8, §8 invariant 3): a plain cryptographic
// digest, not an HMAC (see the Open Question in spec §9 — the legacy
// pipeline's HMAC-shaped hashing is specified here as a plain digest).
func GeomHash(g decode.Geometry) [32]byte {
	return sha256.Sum256([]byte(Canonicalize(g)))
}

// Canonicalize renders a geometry as a fixed-form, stable-precision
// string so that two features with identical geometry hash identically:
// every coordinate is formatted with geomPrecision decimals, and each
// polygon's holes are sorted so their declaration order does not affect
// the result. Vertex order and ring start points are kept as given.
func Canonicalize(g decode.Geometry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:", g.Kind)

	switch {
	case len(g.Points) > 0:
		writePoints(&b, g.Points)
	case len(g.Lines) > 0:
		for _, line := range g.Lines {
			writePoints(&b, line)
			b.WriteByte(';')
		}
	case len(g.Polygons) > 0:
		for _, poly := range g.Polygons {
			writePoints(&b, poly.Outer)
			holes := make([]string, 0, len(poly.Holes))
			for _, h := range poly.Holes {
				var hb strings.Builder
				writePoints(&hb, h)
				holes = append(holes, hb.String())
			}
			sort.Strings(holes)
			for _, h := range holes {
				b.WriteByte('|')
				b.WriteString(h)
			}
			b.WriteByte(';')
		}
	}

	return b.String()
}

func writePoints(b *strings.Builder, pts [][3]float64) {
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%.*f %.*f %.*f", geomPrecision, p[0], geomPrecision, p[1], geomPrecision, p[2])
	}
}
