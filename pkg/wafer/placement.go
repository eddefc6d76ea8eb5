package wafer

import "math"

// ComputeLayout places a symmetric centered grid of dies on the wafer
// described by spec and returns the resulting Layout.
//
// Candidate die centers sit at (col*effW, row*effH) for row, col in [-N, N],
// so the center die straddles the wafer origin and the pattern is invariant
// under 180° rotation. Each candidate's physical rectangle (unscribed die
// size; the scribe line widens the pitch only) is classified against the
// usable circle and the flat chord, with inclusive boundary comparisons.
//
// All InvalidGeometry conditions abort before any candidate is generated; a
// partial layout is never returned.
func ComputeLayout(spec WaferSpec) (Layout, error) {
	g, err := spec.Derive()
	if err != nil {
		return Layout{}, err
	}

	// Enough rows and columns in each direction to cover the usable circle.
	n := int(math.Ceil(g.UsableRadius/math.Min(g.EffectiveDieW, g.EffectiveDieH))) + 1

	xOff, yOff := 0.0, 0.0
	if spec.AlignX {
		xOff = 0.5
	}
	if spec.AlignY {
		yOff = 0.5
	}

	halfW := spec.DieWidth / 2
	halfH := spec.DieHeight / 2
	cornerRadius := math.Hypot(halfW, halfH)

	var layout Layout
	layout.Spec = spec
	layout.Geometry = g

	for row := -n; row <= n; row++ {
		for col := -n; col <= n; col++ {
			xc := (float64(col) + xOff) * g.EffectiveDieW
			yc := (float64(row) + yOff) * g.EffectiveDieH

			kind := classify(xc, yc, halfW, halfH, cornerRadius, g)
			if kind == Excluded {
				continue
			}
			if kind == Partial && !spec.IncludePartial {
				continue
			}

			layout.Placements = append(layout.Placements, DiePlacement{
				Row:  row,
				Col:  col,
				X:    xc - halfW,
				Y:    yc - halfH,
				Kind: kind,
			})
			if kind == Full {
				layout.FullCount++
			} else {
				layout.PartialCount++
			}
		}
	}

	dieArea := spec.DieWidth * spec.DieHeight
	layout.UtilizationPercent = float64(layout.FullCount) * dieArea / g.UsableArea * 100

	return layout, nil
}

// classify determines whether the die centered at (xc, yc) is Full, Partial,
// or Excluded.
func classify(xc, yc, halfW, halfH, cornerRadius float64, g DerivedGeometry) DieKind {
	corners := [4][2]float64{
		{xc - halfW, yc - halfH},
		{xc + halfW, yc - halfH},
		{xc - halfW, yc + halfH},
		{xc + halfW, yc + halfH},
	}

	full := true
	for _, c := range corners {
		if !PointInUsableCircle(c[0], c[1], g.UsableRadius) ||
			!PointClearsFlat(c[0], c[1], g.Radius, g.Sagitta) {
			full = false
			break
		}
	}
	if full {
		return Full
	}

	// A rectangle that swallows the whole usable circle has no boundary to
	// straddle; such an oversized die can never be manufactured as partial.
	if xc-halfW <= -g.UsableRadius && xc+halfW >= g.UsableRadius &&
		yc-halfH <= -g.UsableRadius && yc+halfH >= g.UsableRadius {
		return Excluded
	}

	// Entirely below the flat chord.
	if g.Sagitta > 0 && yc+halfH < -(g.Radius-g.Sagitta) {
		return Excluded
	}

	// Bounding circles disjoint: the die cannot reach the usable area.
	if math.Hypot(xc, yc) > g.UsableRadius+cornerRadius {
		return Excluded
	}

	// The bounding-circle test over-approximates near the corners, so settle
	// the boundary exactly: the rectangle overlaps the usable circle iff the
	// closest rectangle point to the wafer center is within the usable radius.
	dx := math.Max(math.Abs(xc)-halfW, 0)
	dy := math.Max(math.Abs(yc)-halfH, 0)
	if dx*dx+dy*dy <= g.UsableRadius*g.UsableRadius {
		return Partial
	}

	return Excluded
}
