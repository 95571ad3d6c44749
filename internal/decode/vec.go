package decode

import (
	"fmt"
	"strconv"
	"strings"
)

// RawFeature is a semantic object as read from a VEC file, before
// geometry assembly: kind, id, raw attribute strings, and the primitive
// identifiers it references (spec §3 Feature; the Feature type proper
// is produced once geometry has been assembled, see feature.go).
type RawFeature struct {
	Kind     string
	ID       string
	Attrs    map[string]string
	NodeRefs []string
	ArcRefs  []string
	FaceRefs []string
}

// VEC record tags. The primary tags (PNO, LIN, ARA, OBJ) each open a new
// record and implicitly close whatever record preceded it; the others
// (COR, QXP, QXA, CCO, ATT, REF) add data to the record currently open.
const (
	tagNode    = "PNO"
	tagArc     = "LIN"
	tagFace    = "ARA"
	tagObject  = "OBJ"
	tagCoord   = "COR"
	tagStart   = "QXP"
	tagEnd     = "QXA"
	tagFaceRef = "CCO"
	tagAttr    = "ATT"
	tagRef     = "REF"
)

type vecRecordKind int

const (
	recNone vecRecordKind = iota
	recNode
	recArc
	recFace
	recObject
)

// ParseVEC tokenizes one or more VEC files into primitives (fed into
// store) and raw features. Unknown tags are ignored (spec §4.2).
func ParseVEC(tokens []Token, store *PrimitiveStore) ([]RawFeature, error) {
	var features []RawFeature

	var kind vecRecordKind
	var node *Node
	var arc *Arc
	var face *Face
	var feat *RawFeature

	flush := func() error {
		switch kind {
		case recNode:
			if node != nil {
				store.AddNode(node)
			}
		case recArc:
			if arc != nil {
				if len(arc.Vertices) > 0 {
					if arc.StartNode == "" {
						// fall back: first/last vertex act as implicit endpoints
					}
				}
				store.AddArc(arc)
			}
		case recFace:
			if face != nil {
				store.AddFace(face)
			}
		case recObject:
			if feat != nil {
				features = append(features, *feat)
			}
		}
		node, arc, face, feat = nil, nil, nil, nil
		kind = recNone
		return nil
	}

	for _, tok := range tokens {
		switch tok.Tag {
		case tagNode:
			if err := flush(); err != nil {
				return nil, err
			}
			kind = recNode
			node = &Node{ID: strings.TrimSpace(string(tok.Value))}
		case tagArc:
			if err := flush(); err != nil {
				return nil, err
			}
			kind = recArc
			arc = &Arc{ID: strings.TrimSpace(string(tok.Value))}
		case tagFace:
			if err := flush(); err != nil {
				return nil, err
			}
			kind = recFace
			face = &Face{ID: strings.TrimSpace(string(tok.Value))}
		case tagObject:
			if err := flush(); err != nil {
				return nil, err
			}
			kind = recObject
			objKind, objID, _ := strings.Cut(strings.TrimSpace(string(tok.Value)), ":")
			feat = &RawFeature{Kind: objKind, ID: objID, Attrs: make(map[string]string)}

		case tagCoord:
			xyz, err := parseCoord(tok.Value)
			if err != nil {
				return nil, fmt.Errorf("parse coordinate: %w", err)
			}
			switch kind {
			case recNode:
				if node != nil {
					node.X, node.Y, node.Z = xyz[0], xyz[1], xyz[2]
					node.Is3D = node.Is3D || len(bytesFields(tok.Value)) == 3
				}
			case recArc:
				if arc != nil {
					arc.Vertices = append(arc.Vertices, xyz)
				}
			}
		case tagStart:
			if arc != nil {
				arc.StartNode = strings.TrimSpace(string(tok.Value))
			}
		case tagEnd:
			if arc != nil {
				arc.EndNode = strings.TrimSpace(string(tok.Value))
			}
		case tagFaceRef:
			if face != nil {
				ref, err := parseSignedRef(tok.Value)
				if err != nil {
					return nil, fmt.Errorf("face %q: %w", face.ID, err)
				}
				face.Refs = append(face.Refs, ref)
			}
		case tagAttr:
			if feat != nil {
				name, value, ok := strings.Cut(strings.TrimSpace(string(tok.Value)), "=")
				if ok {
					feat.Attrs[strings.ToUpper(name)] = value
				}
			}
		case tagRef:
			if feat != nil {
				role, id, ok := strings.Cut(strings.TrimSpace(string(tok.Value)), ":")
				if !ok {
					continue
				}
				switch role {
				case "N":
					feat.NodeRefs = append(feat.NodeRefs, id)
				case "A":
					feat.ArcRefs = append(feat.ArcRefs, id)
				case "F":
					feat.FaceRefs = append(feat.FaceRefs, id)
				}
			}
		default:
			// unknown tags are filtered later (spec §4.2)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	// arcs carry their own start/end node; synthesize them from the
	// vertex list when QXP/QXA were absent, so Validate's invariant holds.
	for _, a := range store.arcs {
		if a.StartNode == "" && len(a.Vertices) > 0 {
			a.StartNode = syntheticNodeFor(store, a.Vertices[0])
		}
		if a.EndNode == "" && len(a.Vertices) > 0 {
			a.EndNode = syntheticNodeFor(store, a.Vertices[len(a.Vertices)-1])
		}
	}

	return features, nil
}

// syntheticNodeFor finds (or synthesizes) a node id matching the given
// vertex, so arcs without explicit QXP/QXA references still resolve to
// a node the primitive store knows about.
func syntheticNodeFor(store *PrimitiveStore, v [3]float64) string {
	for id, n := range store.nodes {
		if n.X == v[0] && n.Y == v[1] {
			return id
		}
	}
	id := fmt.Sprintf("_implicit_%v_%v", v[0], v[1])
	store.AddNode(&Node{ID: id, X: v[0], Y: v[1], Z: v[2]})
	return id
}

func parseCoord(value []byte) ([3]float64, error) {
	fields := bytesFields(value)
	var out [3]float64
	for i, f := range fields {
		if i > 2 {
			break
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return out, fmt.Errorf("invalid coordinate component %q: %w", f, err)
		}
		out[i] = v
	}
	if len(fields) < 2 {
		return out, fmt.Errorf("coordinate %q missing Y component", string(value))
	}
	return out, nil
}

func bytesFields(value []byte) []string {
	return strings.Split(string(value), ";")
}

func parseSignedRef(value []byte) (signedArcRef, error) {
	s := strings.TrimSpace(string(value))
	if s == "" {
		return signedArcRef{}, fmt.Errorf("empty arc reference")
	}
	switch s[0] {
	case '+':
		return signedArcRef{ArcID: s[1:], Reversed: false}, nil
	case '-':
		return signedArcRef{ArcID: s[1:], Reversed: true}, nil
	default:
		return signedArcRef{ArcID: s, Reversed: false}, nil
	}
}
