package decode

import "testing"

func square(store *PrimitiveStore) *Face {
	store.AddArc(&Arc{
		ID:        "a1",
		Vertices:  [][3]float64{{0, 0, 0}, {2, 0, 0}},
		StartNode: "n1", EndNode: "n2",
	})
	store.AddArc(&Arc{
		ID:        "a2",
		Vertices:  [][3]float64{{2, 0, 0}, {2, 2, 0}},
		StartNode: "n2", EndNode: "n3",
	})
	store.AddArc(&Arc{
		ID:        "a3",
		Vertices:  [][3]float64{{2, 2, 0}, {0, 2, 0}},
		StartNode: "n3", EndNode: "n4",
	})
	store.AddArc(&Arc{
		ID:        "a4",
		Vertices:  [][3]float64{{0, 2, 0}, {0, 0, 0}},
		StartNode: "n4", EndNode: "n1",
	})
	return &Face{
		ID: "f1",
		Refs: []signedArcRef{
			{ArcID: "a1"}, {ArcID: "a2"}, {ArcID: "a3"}, {ArcID: "a4"},
		},
	}
}

func TestAssemblePolygonSimpleRing(t *testing.T) {
	store := NewPrimitiveStore()
	face := square(store)

	geom, err := AssemblePolygon([]*Face{face}, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if geom.Kind != KindPolygon {
		t.Fatalf("expected KindPolygon, got %v", geom.Kind)
	}
	if len(geom.Polygons) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(geom.Polygons))
	}
	outer := geom.Polygons[0].Outer
	if outer[0] != outer[len(outer)-1] {
		t.Errorf("outer ring not closed: %v", outer)
	}
	if len(geom.Polygons[0].Holes) != 0 {
		t.Errorf("expected no holes, got %d", len(geom.Polygons[0].Holes))
	}
}

func TestAssemblePolygonWithHole(t *testing.T) {
	store := NewPrimitiveStore()
	outer := square(store)

	// A small inner square (reversed winding in the source, as any CW/CCW
	// input is normalized) referenced by the same face as a second ring.
	store.AddArc(&Arc{
		ID:        "b1",
		Vertices:  [][3]float64{{0.5, 0.5, 0}, {1.5, 0.5, 0}},
		StartNode: "m1", EndNode: "m2",
	})
	store.AddArc(&Arc{
		ID:        "b2",
		Vertices:  [][3]float64{{1.5, 0.5, 0}, {1.5, 1.5, 0}},
		StartNode: "m2", EndNode: "m3",
	})
	store.AddArc(&Arc{
		ID:        "b3",
		Vertices:  [][3]float64{{1.5, 1.5, 0}, {0.5, 1.5, 0}},
		StartNode: "m3", EndNode: "m4",
	})
	store.AddArc(&Arc{
		ID:        "b4",
		Vertices:  [][3]float64{{0.5, 1.5, 0}, {0.5, 0.5, 0}},
		StartNode: "m4", EndNode: "m1",
	})
	outer.Refs = append(outer.Refs,
		signedArcRef{ArcID: "b1"}, signedArcRef{ArcID: "b2"},
		signedArcRef{ArcID: "b3"}, signedArcRef{ArcID: "b4"},
	)

	geom, err := AssemblePolygon([]*Face{outer}, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	poly := geom.Polygons[0]
	if len(poly.Holes) != 1 {
		t.Fatalf("expected 1 hole, got %d", len(poly.Holes))
	}

	outerArea := signedArea(poly.Outer)
	holeArea := signedArea(poly.Holes[0])
	if outerArea <= 0 {
		t.Errorf("expected outer ring CCW (positive area), got %v", outerArea)
	}
	if holeArea >= 0 {
		t.Errorf("expected hole CW (negative area), got %v", holeArea)
	}
}

func TestChainRingsDetectsGap(t *testing.T) {
	store := NewPrimitiveStore()
	store.AddArc(&Arc{ID: "a1", Vertices: [][3]float64{{0, 0, 0}, {1, 0, 0}}})
	store.AddArc(&Arc{ID: "a2", Vertices: [][3]float64{{5, 5, 0}, {0, 0, 0}}})
	face := &Face{ID: "gap", Refs: []signedArcRef{{ArcID: "a1"}, {ArcID: "a2"}}}

	_, _, err := chainRings(face, store)
	if err == nil {
		t.Fatal("expected a gap error, got nil")
	}
	if !GeometryIncomplete.Has(err) {
		t.Errorf("expected a GeometryIncomplete error, got %v", err)
	}
}

func TestChainRingsMissingArc(t *testing.T) {
	store := NewPrimitiveStore()
	face := &Face{ID: "dangling", Refs: []signedArcRef{{ArcID: "absent"}}}

	_, _, err := chainRings(face, store)
	if err == nil {
		t.Fatal("expected missing primitive error, got nil")
	}
	if !PrimitiveMissing.Has(err) {
		t.Errorf("expected a PrimitiveMissing error, got %v", err)
	}
}

func TestAssemblePointSingleAndMulti(t *testing.T) {
	n1 := &Node{ID: "n1", X: 1, Y: 2}
	geom, err := AssemblePoint([]*Node{n1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if geom.Kind != KindPoint {
		t.Errorf("expected KindPoint, got %v", geom.Kind)
	}

	n2 := &Node{ID: "n2", X: 3, Y: 4}
	geom, err = AssemblePoint([]*Node{n1, n2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if geom.Kind != KindMultiPoint {
		t.Errorf("expected KindMultiPoint, got %v", geom.Kind)
	}
}

func TestAssembleLineRejectsDegenerateArc(t *testing.T) {
	degenerate := &Arc{ID: "deg", Vertices: [][3]float64{{1, 1, 0}}}
	_, err := AssembleLine([]*Arc{degenerate})
	if err == nil {
		t.Fatal("expected error for single-vertex arc")
	}
}

func TestSignedAreaOrientation(t *testing.T) {
	ccw := Ring{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {0, 0, 0}}
	if area := signedArea(ccw); area <= 0 {
		t.Errorf("expected positive area for CCW ring, got %v", area)
	}

	cw := Ring{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}, {0, 0, 0}}
	if area := signedArea(cw); area >= 0 {
		t.Errorf("expected negative area for CW ring, got %v", area)
	}
}
