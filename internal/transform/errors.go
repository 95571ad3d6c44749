package transform

import "github.com/zeebo/errs"

// Error classes for the transform stage (spec §7).
var (
	ConfigInvalid     = errs.Class("config invalid")
	CoercionFailed    = errs.Class("coercion failed")
	ReprojectionFailed = errs.Class("reprojection failed")
)
