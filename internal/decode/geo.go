package decode

import (
	"bytes"
	"strconv"
)

// ParseGEO extracts the coordinate reference system from a GEO file's
// token stream (spec §4.3). The GEO file is expected to carry a single
// "EPS" record whose value is the decimal EPSG code.
func ParseGEO(tokens []Token) (CRS, error) {
	for _, tok := range tokens {
		if tok.Tag != "EPS" {
			continue
		}
		epsg, err := strconv.Atoi(string(bytes.TrimSpace(tok.Value)))
		if err != nil {
			return 0, UnsupportedCRS.Wrap(&ErrUnsupportedCRS{EPSG: -1})
		}
		return ResolveCRS(epsg)
	}
	return 0, UnsupportedCRS.Wrap(&ErrUnsupportedCRS{EPSG: 0})
}
