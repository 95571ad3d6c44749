package decode

import "testing"

func TestSheetAccessorsSplitSheetID(t *testing.T) {
	s := &Sheet{Info: ThfInfo{SheetID: "12345-0A"}}

	if got := s.CommuneIDU(); got != "12345" {
		t.Errorf("CommuneIDU() = %q, want 12345", got)
	}
	if got := s.SectionIDU(); got != "0A" {
		t.Errorf("SectionIDU() = %q, want 0A", got)
	}
	if got := s.Millesime(); got != "" {
		t.Errorf("Millesime() = %q, want empty (commune code is 5 digits, not a 4-digit year)", got)
	}
}

func TestSheetMillesimeFromFourDigitPrefix(t *testing.T) {
	s := &Sheet{Info: ThfInfo{SheetID: "2019-S01"}}
	if got := s.Millesime(); got != "2019" {
		t.Errorf("Millesime() = %q, want 2019", got)
	}
}

func TestSheetAccessorsHandleBareID(t *testing.T) {
	s := &Sheet{Info: ThfInfo{SheetID: "S1"}}
	if got := s.CommuneIDU(); got != "S1" {
		t.Errorf("CommuneIDU() = %q, want S1 (no separator)", got)
	}
	if got := s.SectionIDU(); got != "" {
		t.Errorf("SectionIDU() = %q, want empty", got)
	}
}

func TestDefaultDecodeOptions(t *testing.T) {
	opts := DefaultDecodeOptions()
	if !opts.ValidateGeometry {
		t.Error("expected ValidateGeometry to default true")
	}
	if opts.SkipUnknownFeatures {
		t.Error("expected SkipUnknownFeatures to default false")
	}
}
