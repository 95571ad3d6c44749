package department

import (
	"encoding/json"
	"fmt"
)

// boundaryDoc mirrors Boundary for JSON decoding; Boundary itself has
// no tags since production code builds it programmatically, only the
// CLI's file-loading path needs a wire shape.
type boundaryDoc struct {
	Code string  `json:"code"`
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// LoadBoundariesFromJSON parses a department boundary reference file:
// a JSON array of {code, minX, minY, maxX, maxY} entries in WGS84
// degrees, one per French department (spec §4.7's "preloaded boundary
// set").
func LoadBoundariesFromJSON(data []byte) ([]Boundary, error) {
	var docs []boundaryDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, ConfigInvalid.Wrap(fmt.Errorf("parse department boundaries: %w", err))
	}
	boundaries := make([]Boundary, len(docs))
	for i, d := range docs {
		boundaries[i] = Boundary{
			Code:   Code(d.Code),
			Bounds: Bounds{MinX: d.MinX, MinY: d.MinY, MaxX: d.MaxX, MaxY: d.MaxY},
		}
	}
	return boundaries, nil
}
