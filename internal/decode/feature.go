package decode

import "strings"

// Feature is a semantic object with its geometry assembled (spec §3
// Feature, §4.5 "Feature assembly"): the point where raw EDIGEO records
// become something a transform stage can operate on.
type Feature struct {
	Kind     string
	ID       string
	Attrs    map[string]string
	Geometry Geometry
}

// FeatureError records a feature that could not be assembled, so a
// sheet with one broken feature does not abort the whole decode (spec
// §7: per-feature failures are recorded, not fatal).
type FeatureError struct {
	Kind string
	ID   string
	Err  error
}

// BuildFeatures resolves each raw feature's primitive references into
// assembled geometry and normalizes its attribute keys. Features whose
// kind the schema does not declare are dropped silently when
// skipUnknown is set (spec §4.6), and are assembled like any other
// feature when it is not. Features whose geometry cannot be assembled
// are recorded in errs.
func BuildFeatures(raw []RawFeature, store *PrimitiveStore, schema *Schema, skipUnknown bool) ([]Feature, []FeatureError) {
	var features []Feature
	var errs []FeatureError

	for _, r := range raw {
		if schema != nil && !schema.HasKind(r.Kind) {
			if skipUnknown {
				continue
			}
		}

		geom, err := assembleFeatureGeometry(r, store)
		if err != nil {
			errs = append(errs, FeatureError{Kind: r.Kind, ID: r.ID, Err: err})
			continue
		}

		attrs := make(map[string]string, len(r.Attrs))
		for k, v := range r.Attrs {
			attrs[strings.ToUpper(strings.TrimSpace(k))] = v
		}

		features = append(features, Feature{
			Kind:     r.Kind,
			ID:       r.ID,
			Attrs:    attrs,
			Geometry: geom,
		})
	}

	return features, errs
}

// assembleFeatureGeometry dispatches on which reference slice is
// populated. A feature referencing more than one primitive kind is
// rejected (spec §4.5: a spatial reference set is homogeneous).
func assembleFeatureGeometry(r RawFeature, store *PrimitiveStore) (Geometry, error) {
	kinds := 0
	if len(r.NodeRefs) > 0 {
		kinds++
	}
	if len(r.ArcRefs) > 0 {
		kinds++
	}
	if len(r.FaceRefs) > 0 {
		kinds++
	}
	if kinds > 1 {
		return Geometry{}, &ErrMixedGeometryKinds{FeatureID: r.ID}
	}

	switch {
	case len(r.FaceRefs) > 0:
		faces := make([]*Face, 0, len(r.FaceRefs))
		for _, id := range r.FaceRefs {
			f, ok := store.Face(id)
			if !ok {
				return Geometry{}, PrimitiveMissing.Wrap(&ErrMissingPrimitive{Kind: "face", ID: id})
			}
			faces = append(faces, f)
		}
		return AssemblePolygon(faces, store)

	case len(r.ArcRefs) > 0:
		arcs := make([]*Arc, 0, len(r.ArcRefs))
		for _, id := range r.ArcRefs {
			a, ok := store.Arc(id)
			if !ok {
				return Geometry{}, PrimitiveMissing.Wrap(&ErrMissingPrimitive{Kind: "arc", ID: id})
			}
			arcs = append(arcs, a)
		}
		return AssembleLine(arcs)

	case len(r.NodeRefs) > 0:
		nodes := make([]*Node, 0, len(r.NodeRefs))
		for _, id := range r.NodeRefs {
			n, ok := store.Node(id)
			if !ok {
				return Geometry{}, PrimitiveMissing.Wrap(&ErrMissingPrimitive{Kind: "node", ID: id})
			}
			nodes = append(nodes, n)
		}
		return AssemblePoint(nodes)

	default:
		return Geometry{}, GeometryIncomplete.Wrap(&ErrGeometryIncomplete{FaceID: r.ID, Reason: "no primitive references"})
	}
}
