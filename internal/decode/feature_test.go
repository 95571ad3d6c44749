package decode

import "testing"

func TestBuildFeaturesAssemblesPointGeometry(t *testing.T) {
	store := NewPrimitiveStore()
	store.AddNode(&Node{ID: "n1", X: 1, Y: 2})

	raw := []RawFeature{
		{Kind: "BORNE", ID: "b1", Attrs: map[string]string{"type": "granit"}, NodeRefs: []string{"n1"}},
	}

	features, errs := BuildFeatures(raw, store, nil, false)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	if len(features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(features))
	}
	if features[0].Geometry.Kind != KindPoint {
		t.Errorf("expected KindPoint, got %v", features[0].Geometry.Kind)
	}
	if features[0].Attrs["TYPE"] != "granit" {
		t.Errorf("expected uppercased attrs, got %+v", features[0].Attrs)
	}
}

func TestBuildFeaturesSkipsUnknownKind(t *testing.T) {
	store := NewPrimitiveStore()
	store.AddNode(&Node{ID: "n1", X: 0, Y: 0})
	schema := &Schema{Kinds: map[string][]AttrDescriptor{"BATI": nil}}

	raw := []RawFeature{
		{Kind: "INCONNU", ID: "x1", NodeRefs: []string{"n1"}},
	}

	features, errs := BuildFeatures(raw, store, schema, true)
	if len(features) != 0 || len(errs) != 0 {
		t.Fatalf("expected the unknown-kind feature to be dropped silently, got features=%+v errs=%+v", features, errs)
	}
}

func TestBuildFeaturesRecordsMissingPrimitive(t *testing.T) {
	store := NewPrimitiveStore()
	raw := []RawFeature{
		{Kind: "BATI", ID: "f1", NodeRefs: []string{"ghost"}},
	}

	features, errs := BuildFeatures(raw, store, nil, false)
	if len(features) != 0 {
		t.Fatalf("expected no assembled features, got %+v", features)
	}
	if len(errs) != 1 || errs[0].ID != "f1" {
		t.Fatalf("expected one recorded error for f1, got %+v", errs)
	}
}

func TestBuildFeaturesRejectsMixedReferenceKinds(t *testing.T) {
	store := NewPrimitiveStore()
	store.AddNode(&Node{ID: "n1", X: 0, Y: 0})
	store.AddArc(&Arc{ID: "a1", Vertices: [][3]float64{{0, 0, 0}, {1, 1, 0}}})

	raw := []RawFeature{
		{Kind: "MIXED", ID: "m1", NodeRefs: []string{"n1"}, ArcRefs: []string{"a1"}},
	}

	_, errs := BuildFeatures(raw, store, nil, false)
	if len(errs) != 1 {
		t.Fatalf("expected one error for mixed refs, got %+v", errs)
	}
	if _, ok := errs[0].Err.(*ErrMixedGeometryKinds); !ok {
		t.Errorf("expected ErrMixedGeometryKinds, got %T", errs[0].Err)
	}
}
