package sink

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wafertools/wafermap/pkg/wafer"
)

func renderLayout(t *testing.T, spec wafer.WaferSpec) wafer.Layout {
	t.Helper()
	layout, err := wafer.ComputeLayout(spec)
	require.NoError(t, err)
	return layout
}

func notchSpec() wafer.WaferSpec {
	return wafer.WaferSpec{
		Diameter:       300,
		EdgeExclusion:  3,
		NotchDepth:     1,
		DieWidth:       10,
		DieHeight:      10,
		ScribeLine:     0.2,
		IncludePartial: true,
	}
}

func flatSpec() wafer.WaferSpec {
	return wafer.WaferSpec{
		Diameter:      150,
		EdgeExclusion: 3,
		FlatLength:    47.5,
		DieWidth:      8,
		DieHeight:     8,
	}
}

func TestRenderSVGStructure(t *testing.T) {
	layout := renderLayout(t, notchSpec())
	svg := string(RenderSVG(layout, WithTitle("300mm demo")))

	assert.True(t, strings.HasPrefix(svg, "<svg "))
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))
	assert.Contains(t, svg, "300mm demo")
	assert.Contains(t, svg, "utilization:")

	// One rect per retained die plus the background and two legend swatches.
	assert.Equal(t, layout.TotalSites()+3, strings.Count(svg, "<rect "))
	// Full circle outlines for wafer and usable area, no flat.
	assert.Equal(t, 2, strings.Count(svg, "<circle "))
	// The notch marker is a polygon.
	assert.Equal(t, 1, strings.Count(svg, "<polygon "))
}

func TestRenderSVGFlatUsesPolygons(t *testing.T) {
	svg := string(RenderSVG(renderLayout(t, flatSpec())))

	// Both outlines are cut by the flat chord and render as polygons.
	assert.Equal(t, 2, strings.Count(svg, "<polygon "))
	assert.Zero(t, strings.Count(svg, "<circle "))
}

func TestRenderSVGEscapesTitle(t *testing.T) {
	svg := string(RenderSVG(renderLayout(t, flatSpec()), WithTitle("<wafer & co>")))
	assert.Contains(t, svg, "&lt;wafer &amp; co&gt;")
	assert.NotContains(t, svg, "<wafer")
}

func TestRenderSVGDeterministic(t *testing.T) {
	layout := renderLayout(t, notchSpec())
	assert.Equal(t, RenderSVG(layout), RenderSVG(layout))
}

func TestRenderPNGDimensions(t *testing.T) {
	layout := renderLayout(t, notchSpec())
	data, err := RenderPNG(layout, WithScale(2))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	// 2 px/mm over a 300 mm wafer with the default 5 mm margin.
	want := int((150.0 + 5) * 2 * 2)
	assert.Equal(t, want, img.Bounds().Dx())
	assert.Equal(t, want+legendHeight, img.Bounds().Dy())
}

func TestRenderPNGWithoutLegend(t *testing.T) {
	data, err := RenderPNG(renderLayout(t, flatSpec()), WithScale(2), WithoutLegend())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds().Dx(), img.Bounds().Dy())
}

func TestOutlinePointsClosed(t *testing.T) {
	circle := outlinePoints(10, -10, 64)
	assert.Equal(t, circle[0], circle[len(circle)-1])

	flat := outlinePoints(10, -8, 64)
	assert.Equal(t, flat[0], flat[len(flat)-1])
	for _, p := range flat {
		assert.GreaterOrEqual(t, p[1], -8.0-1e-9)
	}
}
