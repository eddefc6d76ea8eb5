package wafer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wafertools/wafermap/pkg/errors"
)

func specNotch300() WaferSpec {
	return WaferSpec{
		Diameter:       300,
		EdgeExclusion:  3,
		NotchDepth:     1,
		DieWidth:       10,
		DieHeight:      10,
		ScribeLine:     0.2,
		IncludePartial: true,
	}
}

func TestComputeLayoutNotch300(t *testing.T) {
	layout, err := ComputeLayout(specNotch300())
	require.NoError(t, err)

	assert.Equal(t, 147.0, layout.Geometry.UsableRadius)
	assert.Greater(t, layout.FullCount, 0)
	assert.Greater(t, layout.UtilizationPercent, 0.0)
	assert.Less(t, layout.UtilizationPercent, 100.0)
	assert.Equal(t, layout.FullCount+layout.PartialCount, layout.TotalSites())
}

func TestComputeLayoutClassificationConsistent(t *testing.T) {
	// Every retained die's stored corners must re-evaluate consistently with
	// the geometry predicates.
	layout, err := ComputeLayout(WaferSpec{
		Diameter:       100,
		EdgeExclusion:  3,
		FlatLength:     32.5,
		DieWidth:       8,
		DieHeight:      6,
		ScribeLine:     0.1,
		IncludePartial: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, layout.Placements)

	g := layout.Geometry
	for _, p := range layout.Placements {
		corners := [4][2]float64{
			{p.X, p.Y},
			{p.X + layout.Spec.DieWidth, p.Y},
			{p.X, p.Y + layout.Spec.DieHeight},
			{p.X + layout.Spec.DieWidth, p.Y + layout.Spec.DieHeight},
		}
		allInside := true
		for _, c := range corners {
			if !PointInUsableCircle(c[0], c[1], g.UsableRadius) ||
				!PointClearsFlat(c[0], c[1], g.Radius, g.Sagitta) {
				allInside = false
				break
			}
		}
		switch p.Kind {
		case Full:
			assert.True(t, allInside, "full die (%d,%d) has a corner outside", p.Row, p.Col)
		case Partial:
			assert.False(t, allInside, "partial die (%d,%d) is fully inside", p.Row, p.Col)
		default:
			t.Errorf("excluded die (%d,%d) retained in layout", p.Row, p.Col)
		}
	}
}

func TestComputeLayoutSymmetryPureCircle(t *testing.T) {
	// Without a flat or notch, the retained set must be invariant under 180°
	// rotation: for every (row, col) the mirror (-row, -col) is retained with
	// the same kind.
	layout, err := ComputeLayout(WaferSpec{
		Diameter:       200,
		EdgeExclusion:  3,
		DieWidth:       12,
		DieHeight:      7,
		ScribeLine:     0.15,
		IncludePartial: true,
	})
	require.NoError(t, err)

	kinds := make(map[[2]int]DieKind, len(layout.Placements))
	for _, p := range layout.Placements {
		kinds[[2]int{p.Row, p.Col}] = p.Kind
	}
	for _, p := range layout.Placements {
		mirror, ok := kinds[[2]int{-p.Row, -p.Col}]
		require.True(t, ok, "mirror of (%d,%d) missing", p.Row, p.Col)
		assert.Equal(t, p.Kind, mirror, "mirror of (%d,%d) has different kind", p.Row, p.Col)
	}
}

func TestComputeLayoutIdempotent(t *testing.T) {
	spec := specNotch300()
	a, err := ComputeLayout(spec)
	require.NoError(t, err)
	b, err := ComputeLayout(spec)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComputeLayoutPartialToggle(t *testing.T) {
	spec := specNotch300()

	with, err := ComputeLayout(spec)
	require.NoError(t, err)
	require.Greater(t, with.PartialCount, 0, "expected partial dies near the edge")

	spec.IncludePartial = false
	without, err := ComputeLayout(spec)
	require.NoError(t, err)

	assert.Zero(t, without.PartialCount)
	assert.Equal(t, with.FullCount, without.FullCount)
	assert.Len(t, without.Placements, without.FullCount)
}

func TestComputeLayoutOversizedDie(t *testing.T) {
	// A die larger than the wafer never fits, even partially.
	layout, err := ComputeLayout(WaferSpec{
		Diameter:       300,
		EdgeExclusion:  3,
		DieWidth:       400,
		DieHeight:      400,
		IncludePartial: true,
	})
	require.NoError(t, err)

	assert.Zero(t, layout.FullCount)
	assert.Zero(t, layout.PartialCount)
	assert.Empty(t, layout.Placements)
}

func TestComputeLayoutInvalidGeometry(t *testing.T) {
	cases := []struct {
		name string
		spec WaferSpec
	}{
		{"edge exclusion eats the wafer", WaferSpec{Diameter: 100, EdgeExclusion: 50, DieWidth: 5, DieHeight: 5}},
		{"zero die width", WaferSpec{Diameter: 100, EdgeExclusion: 3, DieWidth: 0, DieHeight: 5}},
		{"negative die height", WaferSpec{Diameter: 100, EdgeExclusion: 3, DieWidth: 5, DieHeight: -5}},
		{"negative scribe", WaferSpec{Diameter: 100, EdgeExclusion: 3, DieWidth: 5, DieHeight: 5, ScribeLine: -0.1}},
		{"flat longer than diameter", WaferSpec{Diameter: 100, EdgeExclusion: 3, DieWidth: 5, DieHeight: 5, FlatLength: 120}},
		{"flat and notch together", WaferSpec{Diameter: 100, EdgeExclusion: 3, DieWidth: 5, DieHeight: 5, FlatLength: 30, NotchDepth: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout, err := ComputeLayout(tc.spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidGeometry), "got %v", err)
			assert.Empty(t, layout.Placements, "no partial layout on failure")
		})
	}
}

func TestComputeLayoutFlatExcludesBottomRows(t *testing.T) {
	base := WaferSpec{
		Diameter:       100,
		EdgeExclusion:  3,
		DieWidth:       8,
		DieHeight:      8,
		ScribeLine:     0.1,
		IncludePartial: false,
	}

	noFlat, err := ComputeLayout(base)
	require.NoError(t, err)

	// Flat deep enough that its chord (y = -40) cuts the 47 mm usable circle.
	withFlat := base
	withFlat.FlatLength = 60
	flat, err := ComputeLayout(withFlat)
	require.NoError(t, err)

	assert.Less(t, flat.FullCount, noFlat.FullCount, "flat should cost full dies")

	// No retained die dips below the flat chord.
	chord := -(flat.Geometry.Radius - flat.Geometry.Sagitta)
	for _, p := range flat.Placements {
		assert.GreaterOrEqual(t, p.Y, chord)
	}
}

func TestComputeLayoutAlignOffsets(t *testing.T) {
	spec := specNotch300()
	spec.AlignX = true
	spec.AlignY = true

	layout, err := ComputeLayout(spec)
	require.NoError(t, err)
	require.NotEmpty(t, layout.Placements)

	// With both alignments a dicing lane runs through each axis: every die
	// center sits at an odd multiple of half the pitch.
	for _, p := range layout.Placements {
		cx := p.X + spec.DieWidth/2
		cy := p.Y + spec.DieHeight/2
		rx := math.Mod(math.Abs(cx), layout.Geometry.EffectiveDieW)
		ry := math.Mod(math.Abs(cy), layout.Geometry.EffectiveDieH)
		assert.InDelta(t, layout.Geometry.EffectiveDieW/2, rx, 1e-9)
		assert.InDelta(t, layout.Geometry.EffectiveDieH/2, ry, 1e-9)
	}
}

func TestUtilizationMatchesCounts(t *testing.T) {
	layout, err := ComputeLayout(specNotch300())
	require.NoError(t, err)

	want := float64(layout.FullCount) * 10 * 10 / (math.Pi * 147 * 147) * 100
	assert.InDelta(t, want, layout.UtilizationPercent, 1e-9)
}
