package orchestrator

import (
	"github.com/edigeo-cadastre/ingest/internal/decode"
	"github.com/edigeo-cadastre/ingest/internal/transform"
)

// deriveConstants extracts the per-archive commune_id/section_id
// constant table from the decoded feature set (spec §4.8: "the IDU of
// the sheet's COMMUNE/SECTION feature ... extracted by the
// orchestrator from the decoded set"). When a sheet carries no such
// feature, it falls back to the THF-derived identifier, which is only
// a best-effort proxy for archives that never include one.
func deriveConstants(sheet *decode.Sheet) transform.Constants {
	communeIDU := firstFeatureIDU(sheet.Features, "COMMUNE")
	if communeIDU == "" {
		communeIDU = sheet.CommuneIDU()
	}
	sectionIDU := firstFeatureIDU(sheet.Features, "SECTION")
	if sectionIDU == "" {
		sectionIDU = sheet.SectionIDU()
	}
	return transform.Constants{CommuneID: communeIDU, SectionID: sectionIDU}
}

// firstFeatureIDU returns the IDU attribute of the first decoded
// feature of the given kind, or "" if none is present.
func firstFeatureIDU(features []decode.Feature, kind string) string {
	for _, f := range features {
		if f.Kind != kind {
			continue
		}
		if idu, ok := f.Attrs["IDU"]; ok {
			return idu
		}
	}
	return ""
}
