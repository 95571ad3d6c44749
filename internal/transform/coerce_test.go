package transform

import "testing"

func TestToIntRoundTrip(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{"0042", 42},
		{"", nil},
		{"not-a-number", nil},
	}
	for _, c := range cases {
		got, err := toInt(c.in, CoerceContext{})
		if err != nil {
			t.Fatalf("toInt(%q): unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("toInt(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestToFloatExtractsLeadingNumberStoppingAtComma(t *testing.T) {
	got, err := toFloat("12,34 m²", CoerceContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 12.0 {
		t.Errorf("toFloat(\"12,34 m²\") = %v, want 12", got)
	}
}

func TestToFloatEmptyIsNull(t *testing.T) {
	got, err := toFloat("", CoerceContext{})
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil; got %v, %v", got, err)
	}
}

func TestToDateParsesYYYYMMDD(t *testing.T) {
	got, err := toDate("19990307", CoerceContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := got.(interface{ Format(string) string }).Format("2006-01-02")
	if s != "1999-03-07" {
		t.Errorf("toDate(\"19990307\") = %v, want 1999-03-07", s)
	}
}

func TestToDateYearBelow1000IsNull(t *testing.T) {
	got, err := toDate("09990307", CoerceContext{})
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil; got %v, %v", got, err)
	}
}

func TestToDateFRParsesWithSlashes(t *testing.T) {
	got, err := toDateFR("07/03/1999", CoerceContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := got.(interface{ Format(string) string }).Format("2006-01-02")
	if s != "1999-03-07" {
		t.Errorf("toDateFR(\"07/03/1999\") = %v, want 1999-03-07", s)
	}
}

func TestAddDepPrefixesValue(t *testing.T) {
	got, err := addDep("X", CoerceContext{Dep: "38"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "38X" {
		t.Errorf("addDep(\"X\", dep=38) = %v, want 38X", got)
	}
}

func TestAddMillesimeReplacesValue(t *testing.T) {
	got, err := addMillesime("anything", CoerceContext{Millesime: 2025})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2025 {
		t.Errorf("addMillesime(any, 2025) = %v, want 2025", got)
	}
}

func TestApplyFunctionsComposesLeftToRight(t *testing.T) {
	got, err := ApplyFunctions("  0007 ", []string{"toInt"}, CoerceContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Errorf("expected 7, got %v", got)
	}

	// addDep then toInt: "7" → "387" → 387. The reverse order would give
	// toInt → 7, then addDep on a non-string → "38".
	got, err = ApplyFunctions("7", []string{"addDep", "toInt"}, CoerceContext{Dep: "38"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 387 {
		t.Errorf("expected 387, got %v", got)
	}
}

func TestApplyFunctionsRejectsUnknownCoercion(t *testing.T) {
	_, err := ApplyFunctions("x", []string{"toBanana"}, CoerceContext{})
	if err == nil {
		t.Fatal("expected an error for an unknown coercion")
	}
}
