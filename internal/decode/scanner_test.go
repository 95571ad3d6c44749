package decode

import (
	"strings"
	"testing"
)

func TestScannerReadsRecords(t *testing.T) {
	input := "THF0004S001\nOBJ0007BATI:42\nATT0009NAME=ROOF\n"
	sc := NewScanner(strings.NewReader(input))

	var got []Token
	for {
		tok, ok, err := sc.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, Token{Tag: tok.Tag, Value: append([]byte(nil), tok.Value...)})
	}

	want := []struct {
		tag   string
		value string
	}{
		{"THF", "S001"},
		{"OBJ", "BATI:42"},
		{"ATT", "NAME=ROOF"},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i].Tag != w.tag || string(got[i].Value) != w.value {
			t.Errorf("token %d: expected %s/%q, got %s/%q", i, w.tag, w.value, got[i].Tag, got[i].Value)
		}
	}
}

func TestScannerZeroLengthValue(t *testing.T) {
	sc := NewScanner(strings.NewReader("OBJ0000\n"))
	tok, ok, err := sc.Next()
	if err != nil || !ok {
		t.Fatalf("expected a token, got ok=%v err=%v", ok, err)
	}
	if tok.Tag != "OBJ" || len(tok.Value) != 0 {
		t.Errorf("expected empty value, got %q", tok.Value)
	}
}

func TestScannerCleanEOF(t *testing.T) {
	sc := NewScanner(strings.NewReader(""))
	_, ok, err := sc.Next()
	if ok || err != nil {
		t.Fatalf("expected clean EOF, got ok=%v err=%v", ok, err)
	}
}

func TestScannerTruncatedRecordErrors(t *testing.T) {
	sc := NewScanner(strings.NewReader("OBJ0010short"))
	_, ok, err := sc.Next()
	if ok {
		t.Fatal("expected failure on truncated record")
	}
	if err == nil {
		t.Fatal("expected an error")
	}
	if sc.Err() == nil {
		t.Error("expected Err() to report the failure")
	}
}

func TestScannerToleratesCRLF(t *testing.T) {
	sc := NewScanner(strings.NewReader("THF0002S1\r\nGEO0004EPSG\r\n"))
	var tags []string
	for {
		tok, ok, err := sc.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			break
		}
		tags = append(tags, tok.Tag)
	}
	if len(tags) != 2 || tags[0] != "THF" || tags[1] != "GEO" {
		t.Errorf("unexpected tags: %v", tags)
	}
}
