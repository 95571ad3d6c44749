package transform

import (
	"fmt"
	"math"

	"github.com/edigeo-cadastre/ingest/internal/decode"
)

// Reprojection is implemented as closed-form math rather than a
// general-purpose projection library: the only projection-capable
// dependency anywhere in the retrieved example pack is
// github.com/airbusgeo/godal, a cgo binding onto libgdal. A cgo
// dependency is the wrong fit here — it drags a system library
// requirement into a worker pool meant to process many short-lived
// archives concurrently, and none of this spec's well-known French CRS
// set needs anything godal would otherwise justify (it is not
// reading/writing raster, nor handling arbitrary EPSG codes). Every
// CRS this package supports has a standard closed-form projection, so
// stdlib math is sufficient and avoids the cgo cost entirely.

type ellipsoid struct {
	a float64 // semi-major axis, meters
	f float64 // flattening
}

func (e ellipsoid) e2() float64 {
	return e.f * (2 - e.f)
}

var grs80 = ellipsoid{a: 6378137.0, f: 1 / 298.257222101}
var clarke1880IGN = ellipsoid{a: 6378249.2, f: 1 / 293.4660213}

// lccParams describes a Lambert Conformal Conic (2 standard parallels)
// projection, the family every Lambert zone recognized by this spec
// uses (spec §4.3: Lambert 93 plus the legacy NTF zones).
type lccParams struct {
	ellipsoid           ellipsoid
	lat0, lat1, lat2    float64 // degrees
	lon0                float64 // degrees, east of Greenwich
	falseEasting        float64
	falseNorthing       float64
}

var lambert93Params = lccParams{
	ellipsoid: grs80, lat0: 46.5, lat1: 44, lat2: 49, lon0: 3,
	falseEasting: 700000, falseNorthing: 6600000,
}

// Legacy NTF Lambert zones use the Paris meridian as longitude origin
// (2°20'14.025" east of Greenwich = 2.33722917 degrees).
const parisMeridian = 2.33722917

var legacyLambertParams = map[decode.CRS]lccParams{
	decode.CRSLambertI: {
		ellipsoid: clarke1880IGN, lat0: 49.5, lat1: 48.598523, lat2: 50.395912, lon0: parisMeridian,
		falseEasting: 600000, falseNorthing: 1200000,
	},
	decode.CRSLambertII: {
		ellipsoid: clarke1880IGN, lat0: 46.8, lat1: 45.898919, lat2: 47.696014, lon0: parisMeridian,
		falseEasting: 600000, falseNorthing: 2200000,
	},
	decode.CRSLambertIII: {
		ellipsoid: clarke1880IGN, lat0: 44.1, lat1: 43.199291, lat2: 44.996094, lon0: parisMeridian,
		falseEasting: 600000, falseNorthing: 3200000,
	},
	decode.CRSLambertIV: {
		ellipsoid: clarke1880IGN, lat0: 42.165, lat1: 41.560388, lat2: 42.767503, lon0: parisMeridian,
		falseEasting: 234.358, falseNorthing: 4185861.369,
	},
	decode.CRSLambertIIE: {
		ellipsoid: clarke1880IGN, lat0: 46.8, lat1: 45.898919, lat2: 47.696014, lon0: parisMeridian,
		falseEasting: 600000, falseNorthing: 2200000,
	},
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }

func lccConstants(p lccParams) (n, f, rho0 float64) {
	e := math.Sqrt(p.ellipsoid.e2())
	phi0, phi1, phi2 := deg2rad(p.lat0), deg2rad(p.lat1), deg2rad(p.lat2)

	m := func(phi float64) float64 {
		return math.Cos(phi) / math.Sqrt(1-p.ellipsoid.e2()*math.Pow(math.Sin(phi), 2))
	}
	t := func(phi float64) float64 {
		return math.Tan(math.Pi/4-phi/2) / math.Pow((1-e*math.Sin(phi))/(1+e*math.Sin(phi)), e/2)
	}

	m1, m2 := m(phi1), m(phi2)
	t0, t1, t2 := t(phi0), t(phi1), t(phi2)

	n = (math.Log(m1) - math.Log(m2)) / (math.Log(t1) - math.Log(t2))
	f = m1 / (n * math.Pow(t1, n))
	rho0 = p.ellipsoid.a * f * math.Pow(t0, n)
	return n, f, rho0
}

// lccForward projects a geographic point onto the LCC plane.
func lccForward(p lccParams, lonDeg, latDeg float64) (x, y float64) {
	n, f, rho0 := lccConstants(p)
	e := math.Sqrt(p.ellipsoid.e2())
	phi := deg2rad(latDeg)
	lon := deg2rad(lonDeg)
	lon0 := deg2rad(p.lon0)

	t := math.Tan(math.Pi/4-phi/2) / math.Pow((1-e*math.Sin(phi))/(1+e*math.Sin(phi)), e/2)
	rho := p.ellipsoid.a * f * math.Pow(t, n)
	theta := n * (lon - lon0)

	x = p.falseEasting + rho*math.Sin(theta)
	y = p.falseNorthing + rho0 - rho*math.Cos(theta)
	return x, y
}

// lccInverse recovers the geographic point from an LCC plane coordinate.
func lccInverse(p lccParams, x, y float64) (lonDeg, latDeg float64) {
	n, f, rho0 := lccConstants(p)
	e := math.Sqrt(p.ellipsoid.e2())

	dx := x - p.falseEasting
	dy := rho0 - (y - p.falseNorthing)
	rho := math.Copysign(math.Hypot(dx, dy), n)
	theta := math.Atan2(dx, dy)

	t := math.Pow(rho/(p.ellipsoid.a*f), 1/n)
	phi := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < 6; i++ {
		esinphi := e * math.Sin(phi)
		phi = math.Pi/2 - 2*math.Atan(t*math.Pow((1-esinphi)/(1+esinphi), e/2))
	}

	lon0 := deg2rad(p.lon0)
	lon := theta/n + lon0

	return rad2deg(lon), rad2deg(phi)
}

// utmParams describes a Transverse Mercator zone (spec's four DOM
// zones all use this family).
type utmParams struct {
	ellipsoid ellipsoid
	lon0      float64 // central meridian, degrees
	southern  bool
}

const utmK0 = 0.9996
const utmFalseEasting = 500000
const utmFalseNorthingSouth = 10000000

var utmZones = map[decode.CRS]utmParams{
	decode.CRSUTM20W84:  {ellipsoid: grs80, lon0: -63, southern: false}, // Guadeloupe/Martinique
	decode.CRSUTM22RGFG: {ellipsoid: grs80, lon0: -51, southern: false}, // Guyane
	decode.CRSUTM40RGR:  {ellipsoid: grs80, lon0: 57, southern: true},   // Réunion
	decode.CRSUTM38RGM:  {ellipsoid: grs80, lon0: 45, southern: true},   // Mayotte
}

// utmForward is a standard 4th-order Transverse Mercator series
// (Snyder 1987, "Map Projections: A Working Manual", eqs. 8-9 to 8-11),
// sufficient for the precision this spec requires (≥7 geographic
// decimals is a coordinate-value precision bound, not a projection-
// accuracy guarantee beyond what a closed-form series can deliver).
func utmForward(p utmParams, lonDeg, latDeg float64) (x, y float64) {
	a, e2 := p.ellipsoid.a, p.ellipsoid.e2()
	ePrime2 := e2 / (1 - e2)

	phi := deg2rad(latDeg)
	lon := deg2rad(lonDeg)
	lon0 := deg2rad(p.lon0)

	n := a / math.Sqrt(1-e2*math.Pow(math.Sin(phi), 2))
	t := math.Tan(phi) * math.Tan(phi)
	c := ePrime2 * math.Pow(math.Cos(phi), 2)
	aTerm := (lon - lon0) * math.Cos(phi)

	m := a * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*phi -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*phi) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*phi) -
		(35*e2*e2*e2/3072)*math.Sin(6*phi))

	x = utmFalseEasting + utmK0*n*(aTerm+
		(1-t+c)*math.Pow(aTerm, 3)/6+
		(5-18*t+t*t+72*c-58*ePrime2)*math.Pow(aTerm, 5)/120)

	y = utmK0 * (m + n*math.Tan(phi)*(
		math.Pow(aTerm, 2)/2+
			(5-t+9*c+4*c*c)*math.Pow(aTerm, 4)/24+
			(61-58*t+t*t+600*c-330*ePrime2)*math.Pow(aTerm, 6)/720))

	if p.southern {
		y += utmFalseNorthingSouth
	}
	return x, y
}

// utmInverse is the corresponding inverse series (Snyder eqs. 8-12 to
// 8-19 family, footpoint-latitude form).
func utmInverse(p utmParams, x, y float64) (lonDeg, latDeg float64) {
	a, e2 := p.ellipsoid.a, p.ellipsoid.e2()
	ePrime2 := e2 / (1 - e2)
	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))

	yy := y
	if p.southern {
		yy -= utmFalseNorthingSouth
	}

	m := yy / utmK0
	mu := m / (a * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))

	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	n1 := a / math.Sqrt(1-e2*math.Pow(math.Sin(phi1), 2))
	t1 := math.Tan(phi1) * math.Tan(phi1)
	c1 := ePrime2 * math.Pow(math.Cos(phi1), 2)
	r1 := a * (1 - e2) / math.Pow(1-e2*math.Pow(math.Sin(phi1), 2), 1.5)
	d := (x - utmFalseEasting) / (n1 * utmK0)

	phi := phi1 - (n1*math.Tan(phi1)/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ePrime2)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*ePrime2-3*c1*c1)*math.Pow(d, 6)/720)

	lon := deg2rad(p.lon0) + (d-
		(1+2*t1+c1)*math.Pow(d, 3)/6+
		(5-2*c1+28*t1-3*c1*c1+8*ePrime2+24*t1*t1)*math.Pow(d, 5)/120)/math.Cos(phi1)

	return rad2deg(lon), rad2deg(phi)
}

// Web Mercator (EPSG:3857) treats the ellipsoid as a sphere of the
// WGS84 semi-major axis, per its defining convention.
const webMercatorRadius = 6378137.0

func webMercatorForward(lonDeg, latDeg float64) (x, y float64) {
	lon := deg2rad(lonDeg)
	lat := deg2rad(latDeg)
	x = webMercatorRadius * lon
	y = webMercatorRadius * math.Log(math.Tan(math.Pi/4+lat/2))
	return x, y
}

func webMercatorInverse(x, y float64) (lonDeg, latDeg float64) {
	lon := x / webMercatorRadius
	lat := 2*math.Atan(math.Exp(y/webMercatorRadius)) - math.Pi/2
	return rad2deg(lon), rad2deg(lat)
}

// toWGS84 converts a point in crs to geographic WGS84 degrees.
func toWGS84(crs decode.CRS, x, y float64) (lon, lat float64, err error) {
	switch crs {
	case decode.CRSWGS84:
		return x, y, nil
	case decode.CRSLambert93:
		lon, lat = lccInverse(lambert93Params, x, y)
		return lon, lat, nil
	case decode.CRSWebMercator:
		lon, lat = webMercatorInverse(x, y)
		return lon, lat, nil
	}
	if p, ok := legacyLambertParams[crs]; ok {
		lon, lat = lccInverse(p, x, y)
		return lon, lat, nil
	}
	if p, ok := utmZones[crs]; ok {
		lon, lat = utmInverse(p, x, y)
		return lon, lat, nil
	}
	return 0, 0, ReprojectionFailed.Wrap(fmt.Errorf("no inverse projection for CRS %d", crs))
}

// fromWGS84 converts a geographic WGS84 point to crs.
func fromWGS84(crs decode.CRS, lon, lat float64) (x, y float64, err error) {
	switch crs {
	case decode.CRSWGS84:
		return lon, lat, nil
	case decode.CRSLambert93:
		x, y = lccForward(lambert93Params, lon, lat)
		return x, y, nil
	case decode.CRSWebMercator:
		x, y = webMercatorForward(lon, lat)
		return x, y, nil
	}
	if p, ok := legacyLambertParams[crs]; ok {
		x, y = lccForward(p, lon, lat)
		return x, y, nil
	}
	if p, ok := utmZones[crs]; ok {
		x, y = utmForward(p, lon, lat)
		return x, y, nil
	}
	return 0, 0, ReprojectionFailed.Wrap(fmt.Errorf("no forward projection for CRS %d", crs))
}

// geoPrecision and metricPrecision are the decimal-place floors spec
// §4.8 requires ("preserving at least 7 decimals for geographic
// outputs and 2 for metric outputs").
const geoPrecision = 7
const metricPrecision = 2

func round(v float64, decimals int) float64 {
	mul := math.Pow(10, float64(decimals))
	return math.Round(v*mul) / mul
}

// ReprojectGeometry applies the input→output CRS transform to every
// vertex of g and returns the result as a new Geometry; g is not modified.
func ReprojectGeometry(g decode.Geometry, inputCRS, outputCRS decode.CRS) (decode.Geometry, error) {
	if inputCRS == outputCRS {
		return g, nil
	}
	precision := metricPrecision
	if outputCRS == decode.CRSWGS84 {
		precision = geoPrecision
	}

	project := func(p [3]float64) ([3]float64, error) {
		lon, lat, err := toWGS84(inputCRS, p[0], p[1])
		if err != nil {
			return p, err
		}
		ox, oy, err := fromWGS84(outputCRS, lon, lat)
		if err != nil {
			return p, err
		}
		return [3]float64{round(ox, precision), round(oy, precision), p[2]}, nil
	}

	out := g
	if len(g.Points) > 0 {
		out.Points = make([][3]float64, len(g.Points))
		for i, p := range g.Points {
			np, err := project(p)
			if err != nil {
				return decode.Geometry{}, err
			}
			out.Points[i] = np
		}
	}
	if len(g.Lines) > 0 {
		out.Lines = make([][][3]float64, len(g.Lines))
		for i, line := range g.Lines {
			nl := make([][3]float64, len(line))
			for j, p := range line {
				np, err := project(p)
				if err != nil {
					return decode.Geometry{}, err
				}
				nl[j] = np
			}
			out.Lines[i] = nl
		}
	}
	if len(g.Polygons) > 0 {
		out.Polygons = make([]decode.PolygonGeom, len(g.Polygons))
		for i, poly := range g.Polygons {
			projectRing := func(r decode.Ring) (decode.Ring, error) {
				nr := make(decode.Ring, len(r))
				for j, p := range r {
					np, err := project(p)
					if err != nil {
						return nil, err
					}
					nr[j] = np
				}
				return nr, nil
			}
			outer, err := projectRing(poly.Outer)
			if err != nil {
				return decode.Geometry{}, err
			}
			holes := make([]decode.Ring, len(poly.Holes))
			for j, h := range poly.Holes {
				nh, err := projectRing(h)
				if err != nil {
					return decode.Geometry{}, err
				}
				holes[j] = nh
			}
			out.Polygons[i] = decode.PolygonGeom{Outer: outer, Holes: holes}
		}
	}

	return out, nil
}
