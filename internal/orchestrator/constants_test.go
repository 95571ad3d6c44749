package orchestrator

import (
	"testing"

	"github.com/edigeo-cadastre/ingest/internal/decode"
)

func TestDeriveConstantsPrefersDecodedFeatures(t *testing.T) {
	sheet := &decode.Sheet{
		Info: decode.ThfInfo{SheetID: "99999-9Z"},
		Features: []decode.Feature{
			{Kind: "COMMUNE", ID: "c1", Attrs: map[string]string{"IDU": "38003"}},
			{Kind: "SECTION", ID: "s1", Attrs: map[string]string{"IDU": "0A"}},
			{Kind: "PARCELLE", ID: "p1", Attrs: map[string]string{"IDU": "0A0001"}},
		},
	}

	got := deriveConstants(sheet)
	if got.CommuneID != "38003" {
		t.Errorf("CommuneID = %q, want 38003 (from decoded COMMUNE feature)", got.CommuneID)
	}
	if got.SectionID != "0A" {
		t.Errorf("SectionID = %q, want 0A (from decoded SECTION feature)", got.SectionID)
	}
}

func TestDeriveConstantsFallsBackToSheetID(t *testing.T) {
	sheet := &decode.Sheet{
		Info:     decode.ThfInfo{SheetID: "12345-0A"},
		Features: nil,
	}

	got := deriveConstants(sheet)
	if got.CommuneID != "12345" {
		t.Errorf("CommuneID = %q, want 12345 (THF fallback)", got.CommuneID)
	}
	if got.SectionID != "0A" {
		t.Errorf("SectionID = %q, want 0A (THF fallback)", got.SectionID)
	}
}
