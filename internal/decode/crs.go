package decode

// CRS identifies a coordinate reference system by its EPSG code.
type CRS int

// Well-known French CRS codes recognized by the schema loader (spec
// §4.3). Anything else is UnsupportedCRS.
const (
	CRSLambert93 CRS = 2154
	CRSUTM20W84  CRS = 2973 // Guadeloupe, Martinique (RGAF09 / UTM 20N)
	CRSUTM22RGFG CRS = 2972 // Guyane (RGFG95 / UTM 22N)
	CRSUTM40RGR  CRS = 2975 // Réunion (RGR92 / UTM 40S)
	CRSUTM38RGM  CRS = 2971 // Mayotte (RGM04 / UTM 38S)
	CRSWGS84     CRS = 4326

	// Legacy Lambert zones (NTF), still seen in older cadastral exports.
	CRSLambertI    CRS = 27561
	CRSLambertII   CRS = 27562
	CRSLambertIII  CRS = 27563
	CRSLambertIV   CRS = 27564
	CRSLambertIIE  CRS = 27572

	// Web Mercator, the other supported reprojection target.
	CRSWebMercator CRS = 3857
)

var knownCRS = map[int]CRS{
	2154:  CRSLambert93,
	2973:  CRSUTM20W84,
	2972:  CRSUTM22RGFG,
	2975:  CRSUTM40RGR,
	2971:  CRSUTM38RGM,
	4326:  CRSWGS84,
	27561: CRSLambertI,
	27562: CRSLambertII,
	27563: CRSLambertIII,
	27564: CRSLambertIV,
	27572: CRSLambertIIE,
	3857:  CRSWebMercator,
}

// ResolveCRS maps a raw EPSG integer onto a known CRS, or reports
// UnsupportedCRS.
func ResolveCRS(epsg int) (CRS, error) {
	if crs, ok := knownCRS[epsg]; ok {
		return crs, nil
	}
	return 0, UnsupportedCRS.Wrap(&ErrUnsupportedCRS{EPSG: epsg})
}

// ErrUnsupportedCRS indicates the GEO file declared an EPSG code outside
// the well-known French set.
type ErrUnsupportedCRS struct {
	EPSG int
}

func (e *ErrUnsupportedCRS) Error() string {
	return "unsupported CRS (EPSG " + itoa(e.EPSG) + ")"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
