package decode

import "testing"

func TestPrimitiveStoreValidateDetectsMissingNode(t *testing.T) {
	store := NewPrimitiveStore()
	store.AddArc(&Arc{ID: "a1", StartNode: "ghost", EndNode: "ghost2"})

	if err := store.Validate(); err == nil {
		t.Fatal("expected an error for an arc referencing missing nodes")
	}
}

func TestPrimitiveStoreValidateDetectsMissingArc(t *testing.T) {
	store := NewPrimitiveStore()
	store.AddFace(&Face{ID: "f1", Refs: []signedArcRef{{ArcID: "ghost"}}})

	if err := store.Validate(); err == nil {
		t.Fatal("expected an error for a face referencing a missing arc")
	}
}

func TestPrimitiveStoreValidatePassesForConsistentGraph(t *testing.T) {
	store := NewPrimitiveStore()
	store.AddNode(&Node{ID: "n1"})
	store.AddNode(&Node{ID: "n2"})
	store.AddArc(&Arc{ID: "a1", StartNode: "n1", EndNode: "n2"})
	store.AddFace(&Face{ID: "f1", Refs: []signedArcRef{{ArcID: "a1"}}})

	if err := store.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.NodeCount() != 2 || store.ArcCount() != 1 || store.FaceCount() != 1 {
		t.Errorf("unexpected counts: nodes=%d arcs=%d faces=%d", store.NodeCount(), store.ArcCount(), store.FaceCount())
	}
}
