package transform

import (
	"fmt"
	"strings"

	"github.com/edigeo-cadastre/ingest/internal/decode"
)

// Constants is the per-archive constant table the orchestrator derives
// from the decoded sheet (spec §4.8): commune_id and section_id, the
// IDUs of the sheet's COMMUNE and SECTION features.
type Constants struct {
	CommuneID string
	SectionID string
}

func (c Constants) lookup(key string) (string, bool) {
	switch key {
	case "commune_id":
		return c.CommuneID, true
	case "section_id":
		return c.SectionID, true
	default:
		return "", false
	}
}

// Row is one table row's column values, keyed by the field's db column
// name.
type Row map[string]any

// Engine applies one TableConfig to a stream of features, producing
// rows ready for the sink.
type Engine struct {
	Config      TableConfig
	Constants   Constants
	Ctx         CoerceContext
	InputCRS    decode.CRS
	OutputCRS   decode.CRS
}

// nonNullable reports whether a field's declared SQL type forbids
// null, inferred from a "NOT NULL" suffix on PgType — the config
// contract (spec §6) has no separate nullability flag, so the type
// string is the only place that constraint can live.
func nonNullable(pgType string) bool {
	return strings.Contains(strings.ToUpper(pgType), "NOT NULL")
}

// BuildRow maps one feature to a row. CoercionFailed is only returned
// when a non-nullable field coerces to null; nullable fields silently
// become SQL NULL per §4.8.
func (e Engine) BuildRow(f decode.Feature) (Row, error) {
	row := make(Row, len(e.Config.Fields)+2)

	for _, field := range e.Config.Fields {
		var raw any
		switch {
		case field.Const != "":
			v, ok := e.Constants.lookup(field.Const)
			if !ok {
				return nil, ConfigInvalid.Wrap(fmt.Errorf("unknown constant %q", field.Const))
			}
			raw = v
		case field.JSON != "":
			v, ok := f.Attrs[strings.ToUpper(field.JSON)]
			if ok {
				raw = v
			}
		}

		value, err := ApplyFunctions(raw, field.Functions, e.Ctx)
		if err != nil {
			return nil, err
		}
		if value == nil && nonNullable(field.PgType) {
			return nil, CoercionFailed.Wrap(fmt.Errorf("field %q: non-nullable column coerced to null", field.DB))
		}
		row[field.DB] = value
	}

	if e.Config.InsertGid {
		row["gid"] = nil // assigned by the sink's serial column
	}

	geom := f.Geometry
	if e.InputCRS != e.OutputCRS {
		reprojected, err := ReprojectGeometry(geom, e.InputCRS, e.OutputCRS)
		if err != nil {
			return nil, err
		}
		geom = reprojected
	}
	row["__geometry"] = geom

	if e.Config.HashGeom {
		hash := GeomHash(geom)
		row["geomhash"] = hash[:]
	}

	return row, nil
}

// RelationRow is one tuple of a many-to-many relation table (spec §3
// "Relation records"): two foreign keys plus the shared millésime.
type RelationRow struct {
	Left      string
	Right     string
	Millesime int
}

// ResolveRelationPairs finds the feature pairs a relation TableConfig
// describes. Its two Fields each name a TableSource (a feature kind)
// and a JSON attribute; features from the left kind are paired with
// features from the right kind that share the same attribute value
// (spec §4.9 "resolve ... by using the natural key").
func ResolveRelationPairs(tc TableConfig, features []decode.Feature) [][2]string {
	if len(tc.Fields) < 2 {
		return nil
	}
	left, right := tc.Fields[0], tc.Fields[1]
	if left.TableSource == "" || right.TableSource == "" {
		return nil
	}

	byJoinValue := make(map[string][]string)
	for _, f := range features {
		if f.Kind != right.TableSource {
			continue
		}
		if v, ok := f.Attrs[strings.ToUpper(right.JSON)]; ok {
			byJoinValue[v] = append(byJoinValue[v], f.ID)
		}
	}

	var pairs [][2]string
	for _, f := range features {
		if f.Kind != left.TableSource {
			continue
		}
		v, ok := f.Attrs[strings.ToUpper(left.JSON)]
		if !ok {
			continue
		}
		for _, rightID := range byJoinValue[v] {
			pairs = append(pairs, [2]string{f.ID, rightID})
		}
	}
	return pairs
}

// BuildRelationRows produces relation rows from feature-id pairs, such
// as those ResolveRelationPairs returns, stamping each with millesime.
func BuildRelationRows(pairs [][2]string, millesime int) []RelationRow {
	rows := make([]RelationRow, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, RelationRow{Left: p[0], Right: p[1], Millesime: millesime})
	}
	return rows
}
