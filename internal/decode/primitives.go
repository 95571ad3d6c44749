package decode

// Node is a planar-graph vertex: an identifier plus its coordinates.
// Z is present only for sheets carrying 3D vertices (rare for cadastral
// sheets, but the VEC format allows it).
type Node struct {
	ID string
	X  float64
	Y  float64
	Z  float64
	Is3D bool
}

// Arc is an ordered polyline between two nodes. StartNode/EndNode are
// redundant with Vertices[0]/Vertices[len-1] and must agree; callers
// that mutate Vertices keep both in sync.
type Arc struct {
	ID        string
	Vertices  [][3]float64 // x, y, z (z unused unless Is3D)
	Is3D      bool
	StartNode string
	EndNode   string
}

// signedArcRef is one entry of a face's boundary: an arc id plus the
// traversal direction (false = forward, true = reversed).
type signedArcRef struct {
	ArcID    string
	Reversed bool
}

// Face is a closed boundary made of one or more signed arc references.
// A face with multiple closed chains encodes holes: the outer ring is
// the chain with the largest signed area (spec §4.5 step 3).
type Face struct {
	ID   string
	Refs []signedArcRef
}

// PrimitiveStore holds one sheet's parsed primitives, segmented by kind
// for O(1) lookup. It is append-only during a single parse pass and is
// owned exclusively by the worker processing that sheet (spec §3
// Ownership) — never shared, never mutated concurrently.
type PrimitiveStore struct {
	nodes map[string]*Node
	arcs  map[string]*Arc
	faces map[string]*Face
}

// NewPrimitiveStore returns an empty store ready for a single sheet.
func NewPrimitiveStore() *PrimitiveStore {
	return &PrimitiveStore{
		nodes: make(map[string]*Node),
		arcs:  make(map[string]*Arc),
		faces: make(map[string]*Face),
	}
}

func (s *PrimitiveStore) AddNode(n *Node) { s.nodes[n.ID] = n }
func (s *PrimitiveStore) AddArc(a *Arc)   { s.arcs[a.ID] = a }
func (s *PrimitiveStore) AddFace(f *Face) { s.faces[f.ID] = f }

func (s *PrimitiveStore) Node(id string) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

func (s *PrimitiveStore) Arc(id string) (*Arc, bool) {
	a, ok := s.arcs[id]
	return a, ok
}

func (s *PrimitiveStore) Face(id string) (*Face, bool) {
	f, ok := s.faces[id]
	return f, ok
}

func (s *PrimitiveStore) NodeCount() int { return len(s.nodes) }
func (s *PrimitiveStore) ArcCount() int  { return len(s.arcs) }
func (s *PrimitiveStore) FaceCount() int { return len(s.faces) }

// Validate checks the store's referential invariants (spec §3): every
// arc's endpoints must exist as nodes, and every face's arc references
// must exist as arcs. It does not check face reachability/closure — that
// is the geometry assembler's job, because it tolerates small gaps.
func (s *PrimitiveStore) Validate() error {
	for _, a := range s.arcs {
		if _, ok := s.nodes[a.StartNode]; a.StartNode != "" && !ok {
			return PrimitiveMissing.Wrap(&ErrMissingPrimitive{Kind: "node", ID: a.StartNode})
		}
		if _, ok := s.nodes[a.EndNode]; a.EndNode != "" && !ok {
			return PrimitiveMissing.Wrap(&ErrMissingPrimitive{Kind: "node", ID: a.EndNode})
		}
	}
	for _, f := range s.faces {
		for _, ref := range f.Refs {
			if _, ok := s.arcs[ref.ArcID]; !ok {
				return PrimitiveMissing.Wrap(&ErrMissingPrimitive{Kind: "arc", ID: ref.ArcID})
			}
		}
	}
	return nil
}
