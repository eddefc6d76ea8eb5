package wafer

import (
	"math"

	"github.com/wafertools/wafermap/pkg/errors"
)

// WaferSpec is the immutable input to the placement engine. All dimensions
// are millimeters. At most one of FlatLength and NotchDepth may be set: SEMI
// wafers up to 150mm carry a flat, 200mm and larger carry a notch.
type WaferSpec struct {
	Diameter       float64 `json:"diameter"`
	EdgeExclusion  float64 `json:"edge_exclusion"`
	FlatLength     float64 `json:"flat_length,omitempty"`
	NotchDepth     float64 `json:"notch_depth,omitempty"`
	DieWidth       float64 `json:"die_width"`
	DieHeight      float64 `json:"die_height"`
	ScribeLine     float64 `json:"scribe_line"`
	IncludePartial bool    `json:"include_partial"`

	// AlignX/AlignY shift the grid by half a pitch so that a dicing lane,
	// rather than a die center, falls on the corresponding axis.
	AlignX bool `json:"align_x,omitempty"`
	AlignY bool `json:"align_y,omitempty"`
}

// DerivedGeometry holds the constants computed once per request from a
// WaferSpec.
type DerivedGeometry struct {
	Radius        float64 `json:"radius"`
	UsableRadius  float64 `json:"usable_radius"`
	Sagitta       float64 `json:"sagitta"`
	EffectiveDieW float64 `json:"effective_die_w"`
	EffectiveDieH float64 `json:"effective_die_h"`
	UsableArea    float64 `json:"usable_area"`
	FlatLength    float64 `json:"flat_length,omitempty"`
	NotchDepth    float64 `json:"notch_depth,omitempty"`
}

// DieKind classifies a grid cell.
type DieKind int

const (
	// Full dies have all four corners inside the usable area and clear of
	// the flat.
	Full DieKind = iota
	// Partial dies straddle the usable-area boundary.
	Partial
	// Excluded dies are entirely outside the usable area; they are never
	// retained in a Layout.
	Excluded
)

// String returns the lowercase name of the kind.
func (k DieKind) String() string {
	switch k {
	case Full:
		return "full"
	case Partial:
		return "partial"
	default:
		return "excluded"
	}
}

// MarshalText implements encoding.TextMarshaler so kinds serialize as names
// in JSON output.
func (k DieKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so cached layouts decode
// back to the same kinds.
func (k *DieKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "full":
		*k = Full
	case "partial":
		*k = Partial
	case "excluded":
		*k = Excluded
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown die kind %q", text)
	}
	return nil
}

// DiePlacement is one retained grid cell. Row and Col are offsets from the
// center die (row 0 / col 0 is centered on the wafer origin); X and Y locate
// the lower-left corner of the physical die rectangle relative to the wafer
// center.
type DiePlacement struct {
	Row  int     `json:"row"`
	Col  int     `json:"col"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Kind DieKind `json:"kind"`
}

// Layout is the result of placement: the ordered retained placements plus
// aggregate statistics and the geometry used to produce them. A Layout is
// immutable once returned.
type Layout struct {
	Spec       WaferSpec       `json:"spec"`
	Geometry   DerivedGeometry `json:"geometry"`
	Placements []DiePlacement  `json:"placements"`

	FullCount          int     `json:"full_count"`
	PartialCount       int     `json:"partial_count"`
	UtilizationPercent float64 `json:"utilization_percent"`
}

// TotalSites returns the number of retained die sites.
func (l Layout) TotalSites() int {
	return l.FullCount + l.PartialCount
}

// Derive validates the spec and computes the per-request geometry constants.
// All InvalidGeometry conditions are detected here, before any grid cell is
// generated.
func (s WaferSpec) Derive() (DerivedGeometry, error) {
	if s.Diameter <= 0 {
		return DerivedGeometry{}, errors.New(errors.ErrCodeInvalidGeometry, "wafer diameter must be positive, got %g", s.Diameter)
	}
	if s.DieWidth <= 0 || s.DieHeight <= 0 {
		return DerivedGeometry{}, errors.New(errors.ErrCodeInvalidGeometry, "die dimensions must be positive, got %gx%g", s.DieWidth, s.DieHeight)
	}
	if s.ScribeLine < 0 {
		return DerivedGeometry{}, errors.New(errors.ErrCodeInvalidGeometry, "scribe line must be non-negative, got %g", s.ScribeLine)
	}
	if s.EdgeExclusion < 0 {
		return DerivedGeometry{}, errors.New(errors.ErrCodeInvalidGeometry, "edge exclusion must be non-negative, got %g", s.EdgeExclusion)
	}
	if s.FlatLength > 0 && s.NotchDepth > 0 {
		return DerivedGeometry{}, errors.New(errors.ErrCodeInvalidGeometry,
			"flat length and notch depth are mutually exclusive, got %g and %g", s.FlatLength, s.NotchDepth)
	}
	if s.NotchDepth < 0 {
		return DerivedGeometry{}, errors.New(errors.ErrCodeInvalidGeometry, "notch depth must be non-negative, got %g", s.NotchDepth)
	}

	radius := s.Diameter / 2
	usable, err := UsableRadius(s.Diameter, s.EdgeExclusion)
	if err != nil {
		return DerivedGeometry{}, err
	}

	// A notch is a point feature: it is reported via NotchDepth but leaves
	// Sagitta at zero so that no area is excluded below a chord.
	sagitta, err := Sagitta(radius, s.FlatLength)
	if err != nil {
		return DerivedGeometry{}, err
	}

	return DerivedGeometry{
		Radius:        radius,
		UsableRadius:  usable,
		Sagitta:       sagitta,
		EffectiveDieW: s.DieWidth + s.ScribeLine,
		EffectiveDieH: s.DieHeight + s.ScribeLine,
		UsableArea:    math.Pi * usable * usable,
		FlatLength:    s.FlatLength,
		NotchDepth:    s.NotchDepth,
	}, nil
}
