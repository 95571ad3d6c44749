package decode

import "strings"

// DecodeOptions controls sheet decoding (spec §4.6, mirroring how
// ambiguity in one sheet should or shouldn't stop the whole decode).
type DecodeOptions struct {
	// ValidateGeometry runs PrimitiveStore.Validate before assembling
	// features; when false, referential errors only surface per-feature.
	ValidateGeometry bool
	// SkipUnknownFeatures drops features whose kind the SCD schema does
	// not declare; when false they are kept and assembled normally.
	SkipUnknownFeatures bool
}

// DefaultDecodeOptions matches spec §4.6's default behavior: validate
// eagerly, keep (don't error on) unknown feature kinds.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		ValidateGeometry:    true,
		SkipUnknownFeatures: false,
	}
}

// Sheet is one fully decoded EDIGEO archive: its descriptor, schema,
// CRS, assembled features, and any per-feature failures.
type Sheet struct {
	Info     ThfInfo
	Schema   *Schema
	Crs      CRS
	Features []Feature
	Errors   []FeatureError
}

// Millesime returns the sheet's vintage year, when the THF identifier
// encodes one as a leading 4-digit component; callers needing the
// ingest millésime should prefer the value supplied on the command
// line (spec §9), this is a best-effort fallback only.
func (s *Sheet) Millesime() string {
	parts := strings.SplitN(s.Info.SheetID, "-", 2)
	if len(parts) > 0 && len(parts[0]) == 4 {
		return parts[0]
	}
	return ""
}

// CommuneIDU returns the commune attribute carried by the sheet's THF
// identifier when one is present, e.g. "12345" in "12345-0A". Callers
// needing the commune_id constant (spec §4.8) should prefer the IDU of
// the sheet's decoded COMMUNE feature; this is only the fallback used
// when a sheet carries no such feature.
func (s *Sheet) CommuneIDU() string {
	parts := strings.SplitN(s.Info.SheetID, "-", 2)
	if len(parts) == 2 {
		return parts[0]
	}
	return s.Info.SheetID
}

// SectionIDU returns the cadastral section code from the sheet's THF
// identifier, when present. As with CommuneIDU, this is a fallback for
// sheets with no decoded SECTION feature to read section_id from.
func (s *Sheet) SectionIDU() string {
	parts := strings.SplitN(s.Info.SheetID, "-", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return ""
}

// CRS returns the sheet's coordinate reference system.
func (s *Sheet) CRS() CRS { return s.Crs }

// Decode reads and decodes one EDIGEO archive end to end (C1-C6):
// open the bundle, parse its five thematic files, assemble primitives
// into features, and normalize attributes.
func Decode(archivePath string, opts DecodeOptions) (*Sheet, error) {
	contents, err := OpenArchive(archivePath)
	if err != nil {
		return nil, err
	}

	info := ParseTHF(contents.THF)
	schema := ParseSCD(contents.SCD)
	crs, err := ParseGEO(contents.GEO)
	if err != nil {
		return nil, err
	}

	store := NewPrimitiveStore()
	raw, err := ParseVEC(contents.VEC, store)
	if err != nil {
		return nil, err
	}

	if opts.ValidateGeometry {
		if err := store.Validate(); err != nil {
			return nil, err
		}
	}

	features, featErrs := BuildFeatures(raw, store, schema, opts.SkipUnknownFeatures)

	return &Sheet{
		Info:     info,
		Schema:   schema,
		Crs:      crs,
		Features: features,
		Errors:   featErrs,
	}, nil
}
