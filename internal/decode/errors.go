package decode

import (
	"fmt"

	"github.com/zeebo/errs"
)

// Error classes for the decode pipeline (C1-C6). One class per semantic
// error kind from spec §7; archive-level callers switch on errs.Is against
// these classes rather than on concrete types.
var (
	ArchiveIO          = errs.Class("archive io")
	MissingMember      = errs.Class("missing member")
	UnsupportedCRS     = errs.Class("unsupported crs")
	PrimitiveMissing   = errs.Class("primitive missing")
	GeometryIncomplete = errs.Class("geometry incomplete")
)

// ErrMissingPrimitive indicates a feature or arc references a primitive
// identifier that does not exist in the primitive store.
type ErrMissingPrimitive struct {
	Kind string // "node", "arc", or "face"
	ID   string
}

func (e *ErrMissingPrimitive) Error() string {
	return fmt.Sprintf("missing %s primitive %q", e.Kind, e.ID)
}

// ErrGeometryIncomplete indicates ring chaining failed for a face: a gap
// larger than the coordinate tolerance, or an arc that could not be
// reached from the chain under construction.
type ErrGeometryIncomplete struct {
	FaceID string
	Reason string
}

func (e *ErrGeometryIncomplete) Error() string {
	return fmt.Sprintf("face %q: geometry incomplete: %s", e.FaceID, e.Reason)
}

// ErrMixedGeometryKinds indicates a feature references primitives of more
// than one kind (e.g. both arcs and faces), which spec §4.5 forbids.
type ErrMixedGeometryKinds struct {
	FeatureID string
}

func (e *ErrMixedGeometryKinds) Error() string {
	return fmt.Sprintf("feature %q: mixed primitive kinds in spatial reference set", e.FeatureID)
}
