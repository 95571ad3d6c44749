package decode

import "testing"

func tok(tag, value string) Token {
	return Token{Tag: tag, Value: []byte(value)}
}

func TestParseVECBuildsNodeAndPointFeature(t *testing.T) {
	store := NewPrimitiveStore()
	tokens := []Token{
		tok(tagNode, "N1"),
		tok(tagCoord, "10.5;20.25"),
		tok(tagObject, "BATI:F1"),
		tok(tagAttr, "nature=dur"),
		tok(tagRef, "N:N1"),
	}

	features, err := ParseVEC(tokens, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.NodeCount() != 1 {
		t.Fatalf("expected 1 node, got %d", store.NodeCount())
	}
	n, ok := store.Node("N1")
	if !ok || n.X != 10.5 || n.Y != 20.25 {
		t.Fatalf("unexpected node: %+v ok=%v", n, ok)
	}

	if len(features) != 1 {
		t.Fatalf("expected 1 raw feature, got %d", len(features))
	}
	f := features[0]
	if f.Kind != "BATI" || f.ID != "F1" {
		t.Errorf("unexpected feature kind/id: %q/%q", f.Kind, f.ID)
	}
	if f.Attrs["NATURE"] != "dur" {
		t.Errorf("expected uppercased attribute key, got %+v", f.Attrs)
	}
	if len(f.NodeRefs) != 1 || f.NodeRefs[0] != "N1" {
		t.Errorf("unexpected node refs: %v", f.NodeRefs)
	}
}

func TestParseVECBuildsArcWithExplicitEndpoints(t *testing.T) {
	store := NewPrimitiveStore()
	tokens := []Token{
		tok(tagNode, "S"),
		tok(tagCoord, "0;0"),
		tok(tagNode, "E"),
		tok(tagCoord, "1;1"),
		tok(tagArc, "A1"),
		tok(tagStart, "S"),
		tok(tagEnd, "E"),
		tok(tagCoord, "0;0"),
		tok(tagCoord, "1;1"),
	}

	_, err := ParseVEC(tokens, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arc, ok := store.Arc("A1")
	if !ok {
		t.Fatal("expected arc A1 to be present")
	}
	if arc.StartNode != "S" || arc.EndNode != "E" {
		t.Errorf("expected explicit endpoints S/E, got %s/%s", arc.StartNode, arc.EndNode)
	}
	if len(arc.Vertices) != 2 {
		t.Errorf("expected 2 vertices, got %d", len(arc.Vertices))
	}
}

func TestParseVECFaceWithSignedRefs(t *testing.T) {
	store := NewPrimitiveStore()
	tokens := []Token{
		tok(tagFace, "FAC1"),
		tok(tagFaceRef, "+A1"),
		tok(tagFaceRef, "-A2"),
	}
	_, err := ParseVEC(tokens, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	face, ok := store.Face("FAC1")
	if !ok {
		t.Fatal("expected face FAC1")
	}
	if len(face.Refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(face.Refs))
	}
	if face.Refs[0].ArcID != "A1" || face.Refs[0].Reversed {
		t.Errorf("unexpected first ref: %+v", face.Refs[0])
	}
	if face.Refs[1].ArcID != "A2" || !face.Refs[1].Reversed {
		t.Errorf("unexpected second ref: %+v", face.Refs[1])
	}
}

func TestParseVECMultipleAttributesAndRefs(t *testing.T) {
	store := NewPrimitiveStore()
	tokens := []Token{
		tok(tagObject, "PARCELLE:P1"),
		tok(tagAttr, "idu=123000AB0001"),
		tok(tagAttr, "contenance=450"),
		tok(tagRef, "F:FAC1"),
	}
	features, err := ParseVEC(tokens, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(features))
	}
	f := features[0]
	if len(f.Attrs) != 2 {
		t.Errorf("expected 2 attributes, got %+v", f.Attrs)
	}
	if len(f.FaceRefs) != 1 || f.FaceRefs[0] != "FAC1" {
		t.Errorf("unexpected face refs: %v", f.FaceRefs)
	}
}

func TestParseCoordRejectsMalformedValue(t *testing.T) {
	if _, err := parseCoord([]byte("not-a-number;2")); err == nil {
		t.Fatal("expected an error for malformed coordinate")
	}
	if _, err := parseCoord([]byte("1")); err == nil {
		t.Fatal("expected an error for missing Y component")
	}
}
