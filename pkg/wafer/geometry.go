// Package wafer implements the die-placement geometry engine.
//
// The engine is a set of pure functions over immutable values: a WaferSpec
// describes the wafer and die dimensions, ComputeLayout derives the geometry
// and places a symmetric centered grid of dies, and the resulting Layout is
// the sole input to the GDSII encoder and the preview renderers.
//
// Coordinates are millimeters in a +Y-up system with the wafer center at the
// origin. The flat (when present) is the chord at the bottom of the wafer.
package wafer

import (
	"math"

	"github.com/wafertools/wafermap/pkg/errors"
)

// UsableRadius returns the radius of the placeable region:
// diameter/2 minus the edge exclusion.
// Fails with INVALID_GEOMETRY when the result is not positive.
func UsableRadius(diameter, edgeExclusion float64) (float64, error) {
	r := diameter/2 - edgeExclusion
	if r <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidGeometry,
			"usable radius non-positive: diameter %g mm with edge exclusion %g mm", diameter, edgeExclusion)
	}
	return r, nil
}

// Sagitta returns the depth of the flat cut: radius - sqrt(radius² - (flatLength/2)²).
// A zero flat length yields zero depth. Fails with INVALID_GEOMETRY when the
// flat length is negative or longer than the wafer diameter.
func Sagitta(radius, flatLength float64) (float64, error) {
	if flatLength < 0 {
		return 0, errors.New(errors.ErrCodeInvalidGeometry, "flat length negative: %g mm", flatLength)
	}
	if flatLength == 0 {
		return 0, nil
	}
	half := flatLength / 2
	if half > radius {
		return 0, errors.New(errors.ErrCodeInvalidGeometry,
			"flat length %g mm exceeds wafer diameter %g mm", flatLength, 2*radius)
	}
	return radius - math.Sqrt(radius*radius-half*half), nil
}

// PointInUsableCircle reports whether (x, y) lies within the usable circle.
// The boundary is inclusive: a point exactly on the usable radius is inside.
func PointInUsableCircle(x, y, usableRadius float64) bool {
	return x*x+y*y <= usableRadius*usableRadius
}

// PointClearsFlat reports whether (x, y) stays on the wafer side of the flat
// chord. The flat sits at distance radius-sagitta below the center; a point
// exactly on the chord clears it. Always true when sagitta is zero (a notch
// is a point feature and excludes no area).
func PointClearsFlat(x, y, radius, sagitta float64) bool {
	_ = x // the flat is horizontal; only the y coordinate matters
	if sagitta <= 0 {
		return true
	}
	return y >= -(radius - sagitta)
}
