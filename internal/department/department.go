// Package department resolves a cadastral sheet to its two-character
// French department code, either from an explicit option, the archive's
// filename, or a spatial lookup against a preloaded boundary set (spec
// §4.7), generalizing the teacher's ChartIndex (pkg/s57/index.go) from
// chart bounds to department boundaries.
package department

import (
	"fmt"
	"strings"

	"github.com/zeebo/errs"
)

// Code is a French department identifier: two digits, or "2A"/"2B" for
// the Corsican departments, or "00" for "unresolved".
type Code string

const Unresolved Code = "00"

// Policy selects which resolution mode the caller wants (spec §4.7).
type Policy int

const (
	PolicySpatial Policy = iota
	PolicyExplicit
	PolicyFromFilename
)

var ConfigInvalid = errs.Class("config invalid")

// Resolver dispatches to one of the three resolution modes. Explicit and
// FromFilename never touch the spatial index; Spatial requires one to
// have been loaded via LoadIndex first.
type Resolver struct {
	Policy   Policy
	Explicit Code
	Index    *Index
}

// Resolve determines the department for one archive. bbox is the
// bounding box of the sheet's SECTION feature (only consulted under
// PolicySpatial); archivePath is the archive's filesystem path (only
// consulted under PolicyFromFilename).
func (r Resolver) Resolve(archivePath string, bbox Bounds) (Code, error) {
	switch r.Policy {
	case PolicyExplicit:
		if r.Explicit == "" {
			return "", ConfigInvalid.Wrap(fmt.Errorf("explicit department policy requires a code"))
		}
		return r.Explicit, nil

	case PolicyFromFilename:
		code, err := FromFilename(archivePath)
		if err != nil {
			return "", err
		}
		return code, nil

	case PolicySpatial:
		if r.Index == nil {
			return "", ConfigInvalid.Wrap(fmt.Errorf("spatial department policy requires a loaded index"))
		}
		return r.Index.Resolve(bbox), nil

	default:
		return "", ConfigInvalid.Wrap(fmt.Errorf("unknown department policy %d", r.Policy))
	}
}

// FromFilename extracts the department code from an archive basename of
// the form "edigeo-<dep>...". The Corsican codes "2A"/"2B" are
// preserved verbatim.
func FromFilename(path string) (Code, error) {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	const prefix = "edigeo-"
	lower := strings.ToLower(base)
	if !strings.HasPrefix(lower, prefix) {
		return "", ConfigInvalid.Wrap(fmt.Errorf("%q does not match edigeo-<dep>... naming", path))
	}
	rest := base[len(prefix):]
	if len(rest) < 2 {
		return "", ConfigInvalid.Wrap(fmt.Errorf("%q too short to contain a department code", path))
	}
	return Code(rest[:2]), nil
}
