package department

import "testing"

func TestFromFilenameExtractsCode(t *testing.T) {
	cases := []struct {
		path string
		want Code
	}{
		{"/data/edigeo-38003-2025.tar.bz2", "38"},
		{"edigeo-2A004-2025.tar.bz2", "2A"},
		{"/a/b/edigeo-2B010.tar.bz2", "2B"},
	}
	for _, c := range cases {
		got, err := FromFilename(c.path)
		if err != nil {
			t.Errorf("FromFilename(%q): unexpected error: %v", c.path, err)
		}
		if got != c.want {
			t.Errorf("FromFilename(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestFromFilenameRejectsBadNaming(t *testing.T) {
	if _, err := FromFilename("chart-38003.tar.bz2"); err == nil {
		t.Fatal("expected an error for a non-edigeo-prefixed name")
	}
}

func TestResolverExplicitPolicy(t *testing.T) {
	r := Resolver{Policy: PolicyExplicit, Explicit: "75"}
	code, err := r.Resolve("", Bounds{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "75" {
		t.Errorf("expected 75, got %q", code)
	}
}

func TestResolverExplicitPolicyRequiresCode(t *testing.T) {
	r := Resolver{Policy: PolicyExplicit}
	if _, err := r.Resolve("", Bounds{}); err == nil {
		t.Fatal("expected ConfigInvalid for a missing explicit code")
	}
}

func TestResolverFromFilenamePolicy(t *testing.T) {
	r := Resolver{Policy: PolicyFromFilename}
	code, err := r.Resolve("edigeo-38003-x.tar.bz2", Bounds{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "38" {
		t.Errorf("expected 38, got %q", code)
	}
}

func TestIndexResolveSingleIntersection(t *testing.T) {
	idx := BuildIndex([]Boundary{
		{Code: "38", Bounds: Bounds{0, 0, 10, 10}},
		{Code: "01", Bounds: Bounds{100, 100, 110, 110}},
	})
	got := idx.Resolve(Bounds{1, 1, 2, 2})
	if got != "38" {
		t.Errorf("expected 38, got %q", got)
	}
}

func TestIndexResolveNoIntersection(t *testing.T) {
	idx := BuildIndex([]Boundary{
		{Code: "38", Bounds: Bounds{0, 0, 10, 10}},
	})
	got := idx.Resolve(Bounds{1000, 1000, 1001, 1001})
	if got != Unresolved {
		t.Errorf("expected Unresolved, got %q", got)
	}
}

func TestIndexResolveTieBreaksOnLowerCode(t *testing.T) {
	// Two departments of equal overlap area with the query box; the
	// lower INSEE code must win deterministically (spec §8).
	idx := BuildIndex([]Boundary{
		{Code: "42", Bounds: Bounds{0, 0, 10, 10}},
		{Code: "07", Bounds: Bounds{0, 0, 10, 10}},
	})
	got := idx.Resolve(Bounds{0, 0, 10, 10})
	if got != "07" {
		t.Errorf("expected tie-break to prefer 07, got %q", got)
	}
}

func TestResolverSpatialPolicyRequiresIndex(t *testing.T) {
	r := Resolver{Policy: PolicySpatial}
	if _, err := r.Resolve("", Bounds{}); err == nil {
		t.Fatal("expected ConfigInvalid for a missing index")
	}
}
