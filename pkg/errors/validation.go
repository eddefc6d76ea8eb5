package errors

// Manufacturing input ranges accepted by the outer surfaces (CLI flags, HTTP
// query parameters). The geometry core applies its own invariants; these
// bounds reject obviously nonsensical requests before any computation runs.
const (
	MinWaferDiameter = 20.0  // mm
	MaxWaferDiameter = 450.0 // mm
	MinDieSize       = 0.1   // mm
	MaxDieSize       = 200.0 // mm
	MaxScribe        = 5.0   // mm
	MaxEdgeExclusion = 20.0  // mm
	MaxNotchDepth    = 5.0   // mm
)

// ValidateWaferDiameter checks that a wafer diameter is within the supported
// manufacturing range.
func ValidateWaferDiameter(d float64) error {
	if d <= 0 {
		return New(ErrCodeInvalidInput, "wafer diameter must be positive, got %g", d)
	}
	if d < MinWaferDiameter || d > MaxWaferDiameter {
		return New(ErrCodeInvalidInput, "wafer diameter %g mm out of range [%g, %g]", d, MinWaferDiameter, MaxWaferDiameter)
	}
	return nil
}

// ValidateDieSize checks a single die dimension (width or height).
// The label names the dimension in error messages.
func ValidateDieSize(label string, v float64) error {
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %g", label, v)
	}
	if v < MinDieSize || v > MaxDieSize {
		return New(ErrCodeInvalidInput, "%s %g mm out of range [%g, %g]", label, v, MinDieSize, MaxDieSize)
	}
	return nil
}

// ValidateScribe checks the scribe line (kerf) width.
func ValidateScribe(v float64) error {
	if v < 0 || v > MaxScribe {
		return New(ErrCodeInvalidInput, "scribe line %g mm out of range [0, %g]", v, MaxScribe)
	}
	return nil
}

// ValidateEdgeExclusion checks the edge exclusion width.
func ValidateEdgeExclusion(v float64) error {
	if v < 0 || v > MaxEdgeExclusion {
		return New(ErrCodeInvalidInput, "edge exclusion %g mm out of range [0, %g]", v, MaxEdgeExclusion)
	}
	return nil
}

// ValidateNotchDepth checks the notch depth.
func ValidateNotchDepth(v float64) error {
	if v < 0 || v > MaxNotchDepth {
		return New(ErrCodeInvalidInput, "notch depth %g mm out of range [0, %g]", v, MaxNotchDepth)
	}
	return nil
}
