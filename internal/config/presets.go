package config

import "github.com/edigeo-cadastre/ingest/internal/transform"

// Preset pairs a table Config with the declared key order it must
// preserve (spec §5); transform.Config itself cannot carry it, so the
// preset's order travels alongside its map (see transform.KeyOrder for
// the equivalent derivation from a parsed JSON document).
type Preset struct {
	Config transform.Config
	Order  []string
}

// PresetFull maps the core PARCELLE/BATIMENT/commune hierarchy plus
// the subdivision relation, matching spec §11's worked example tables.
func PresetFull() Preset {
	cfg := transform.Config{
		"COMMUNE": {
			Type:      transform.TableFeatureCollection,
			Table:     "edi_commune",
			InsertGid: true,
			HashGeom:  true,
			GeomField: &transform.GeomField{Name: "geom"},
			Fields: []transform.Field{
				{DB: "idu", JSON: "IDU", Functions: []string{"addDep"}, PgType: "text NOT NULL"},
				{DB: "millesime", Functions: []string{"addMillesime"}, PgType: "smallint NOT NULL"},
			},
			PgConstraints: []string{"PRIMARY KEY (gid)", "UNIQUE (idu, millesime)"},
		},
		"PARCELLE": {
			Type:      transform.TableFeatureCollection,
			Table:     "edi_parcelle",
			InsertGid: true,
			HashGeom:  true,
			GeomField: &transform.GeomField{Name: "geom"},
			Fields: []transform.Field{
				{DB: "idu", JSON: "IDU", PgType: "text NOT NULL"},
				{DB: "commune_id", Const: "commune_id", Functions: []string{"addDep"}, PgType: "text NOT NULL"},
				{DB: "section_id", Const: "section_id", PgType: "text"},
				{DB: "contenance", JSON: "CONTENANCE", Functions: []string{"toInt"}, PgType: "integer"},
				{DB: "millesime", Functions: []string{"addMillesime"}, PgType: "smallint NOT NULL"},
			},
			PgConstraints: []string{"PRIMARY KEY (gid)", "UNIQUE (idu, millesime)"},
		},
		"BATIMENT": {
			Type:      transform.TableFeatureCollection,
			Table:     "edi_batiment",
			InsertGid: true,
			HashGeom:  true,
			GeomField: &transform.GeomField{Name: "geom"},
			Fields: []transform.Field{
				{DB: "dur", JSON: "DUR", PgType: "text"},
				{DB: "commune_id", Const: "commune_id", Functions: []string{"addDep"}, PgType: "text NOT NULL"},
				{DB: "millesime", Functions: []string{"addMillesime"}, PgType: "smallint NOT NULL"},
			},
			PgConstraints: []string{"PRIMARY KEY (gid)"},
		},
		"SUBDFISC": {
			Type:      transform.TableFeatureCollection,
			Table:     "edi_subdfisc",
			InsertGid: true,
			HashGeom:  true,
			GeomField: &transform.GeomField{Name: "geom"},
			Fields: []transform.Field{
				{DB: "idu", JSON: "IDU", PgType: "text NOT NULL"},
				{DB: "libelle", JSON: "LIBELLE", PgType: "text"},
				{DB: "millesime", Functions: []string{"addMillesime"}, PgType: "smallint NOT NULL"},
			},
			PgConstraints: []string{"PRIMARY KEY (gid)"},
		},
		"SUBDFISC_PARCELLE": {
			Type:  transform.TableRelation,
			Table: "rel_subdfisc_parcelle",
			Fields: []transform.Field{
				{DB: "parcelle_id", JSON: "IDU", TableSource: "PARCELLE", PgType: "integer NOT NULL"},
				{DB: "subdfisc_id", JSON: "IDU", TableSource: "SUBDFISC", PgType: "integer NOT NULL"},
			},
			PgFkConstraints: []string{
				`FOREIGN KEY (parcelle_id) REFERENCES $schema$.edi_parcelle(gid) ON DELETE CASCADE`,
				`FOREIGN KEY (subdfisc_id) REFERENCES $schema$.edi_subdfisc(gid) ON DELETE CASCADE`,
			},
		},
	}
	return Preset{
		Config: cfg,
		Order:  []string{"COMMUNE", "PARCELLE", "BATIMENT", "SUBDFISC", "SUBDFISC_PARCELLE"},
	}
}

// PresetLight keeps only the parcel table, for callers who only need
// parcel footprints and their IDU.
func PresetLight() Preset {
	full := PresetFull()
	return Preset{
		Config: transform.Config{"PARCELLE": full.Config["PARCELLE"]},
		Order:  []string{"PARCELLE"},
	}
}

// PresetBati keeps the commune hierarchy and buildings, ignoring
// parcels entirely (spec §8 end-to-end scenario 3: "only edi_commune
// and edi_batiment tables are created; input PARCELLE_id features are
// ignored").
func PresetBati() Preset {
	full := PresetFull()
	return Preset{
		Config: transform.Config{
			"COMMUNE":  full.Config["COMMUNE"],
			"BATIMENT": full.Config["BATIMENT"],
		},
		Order: []string{"COMMUNE", "BATIMENT"},
	}
}

// Resolve returns the named preset, or ok=false for an unrecognized
// name (spec §6 "a preset selector (full | light | bati)").
func Resolve(name string) (Preset, bool) {
	switch transform.Preset(name) {
	case transform.PresetFull:
		return PresetFull(), true
	case transform.PresetLight:
		return PresetLight(), true
	case transform.PresetBati:
		return PresetBati(), true
	default:
		return Preset{}, false
	}
}
