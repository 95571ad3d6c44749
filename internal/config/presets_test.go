package config

import "testing"

func TestResolveKnownPresets(t *testing.T) {
	for _, name := range []string{"full", "light", "bati"} {
		preset, ok := Resolve(name)
		if !ok {
			t.Errorf("Resolve(%q) not found", name)
			continue
		}
		if len(preset.Order) == 0 {
			t.Errorf("Resolve(%q) has empty order", name)
		}
		for _, kind := range preset.Order {
			if _, ok := preset.Config[kind]; !ok {
				t.Errorf("Resolve(%q): order references missing key %q", name, kind)
			}
		}
	}
}

func TestResolveUnknownPreset(t *testing.T) {
	if _, ok := Resolve("bogus"); ok {
		t.Error("expected Resolve to reject an unknown preset name")
	}
}

func TestPresetLightHasOnlyParcelle(t *testing.T) {
	preset, _ := Resolve("light")
	if len(preset.Config) != 1 {
		t.Errorf("expected exactly 1 table, got %d", len(preset.Config))
	}
	if _, ok := preset.Config["PARCELLE"]; !ok {
		t.Error("expected PARCELLE table in the light preset")
	}
}

func TestPresetBatiCreatesCommuneAndBatimentOnly(t *testing.T) {
	preset, _ := Resolve("bati")
	if len(preset.Config) != 2 {
		t.Errorf("expected exactly 2 tables, got %d", len(preset.Config))
	}
	if _, ok := preset.Config["COMMUNE"]; !ok {
		t.Error("expected COMMUNE table in the bati preset")
	}
	if _, ok := preset.Config["BATIMENT"]; !ok {
		t.Error("expected BATIMENT table in the bati preset")
	}
	if _, ok := preset.Config["PARCELLE"]; ok {
		t.Error("expected PARCELLE to be absent from the bati preset (spec §8 scenario 3)")
	}
}

func TestPresetFullIncludesCommuneHierarchy(t *testing.T) {
	preset, _ := Resolve("full")
	if _, ok := preset.Config["COMMUNE"]; !ok {
		t.Error("expected COMMUNE table in the full preset")
	}
	if preset.Order[0] != "COMMUNE" {
		t.Errorf("expected COMMUNE first in declared order, got %v", preset.Order)
	}
}
