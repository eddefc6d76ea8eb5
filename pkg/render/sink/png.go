package sink

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/wafertools/wafermap/pkg/errors"
	"github.com/wafertools/wafermap/pkg/wafer"
)

// RenderPNG rasterizes the wafer map with fogleman/gg. It accepts the same
// options as [RenderSVG].
func RenderPNG(layout wafer.Layout, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	g := layout.Geometry
	w, h := r.canvasSize(g)

	dc := gg.NewContext(int(w+0.5), int(h+0.5))
	dc.SetHexColor(r.theme.Background)
	dc.Clear()

	r.pngOutline(dc, g, g.Radius, r.theme.WaferFill, r.theme.WaferStroke, false)
	r.pngNotch(dc, g)
	r.pngOutline(dc, g, g.UsableRadius, "", r.theme.UsableStroke, true)
	r.pngDies(dc, layout)
	r.pngCrosshair(dc, g)

	dc.SetHexColor(r.theme.Text)
	if r.title != "" {
		dc.DrawStringAnchored(r.title, w/2, 14, 0.5, 0.5)
	}
	if r.legend {
		r.pngLegend(dc, layout, w, h)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encoding png")
	}
	return buf.Bytes(), nil
}

func (r renderer) pngOutline(dc *gg.Context, g wafer.DerivedGeometry, radius float64, fill, stroke string, dashed bool) {
	for _, p := range outlinePoints(radius, chordFor(g, radius), outlineSegments) {
		dc.LineTo(r.toImage(g, p[0], p[1]))
	}
	dc.ClosePath()
	if fill != "" {
		dc.SetHexColor(fill)
		dc.FillPreserve()
	}
	if dashed {
		dc.SetDash(6, 4)
	}
	dc.SetHexColor(stroke)
	dc.SetLineWidth(1.5)
	dc.Stroke()
	dc.SetDash()
}

func (r renderer) pngNotch(dc *gg.Context, g wafer.DerivedGeometry) {
	pts := notchPoints(g)
	if pts == nil {
		return
	}
	for _, p := range pts {
		dc.LineTo(r.toImage(g, p[0], p[1]))
	}
	dc.ClosePath()
	dc.SetHexColor(r.theme.Background)
	dc.FillPreserve()
	dc.SetHexColor(r.theme.WaferStroke)
	dc.SetLineWidth(1)
	dc.Stroke()
}

func (r renderer) pngDies(dc *gg.Context, layout wafer.Layout) {
	g := layout.Geometry
	dieW := layout.Spec.DieWidth * r.scale
	dieH := layout.Spec.DieHeight * r.scale
	for _, p := range layout.Placements {
		fill, stroke := r.theme.FullFill, r.theme.FullStroke
		if p.Kind == wafer.Partial {
			fill, stroke = r.theme.PartialFill, r.theme.PartialStroke
		}
		x, y := r.toImage(g, p.X, p.Y+layout.Spec.DieHeight)
		dc.DrawRectangle(x, y, dieW, dieH)
		dc.SetHexColor(fill)
		dc.FillPreserve()
		dc.SetHexColor(stroke)
		dc.SetLineWidth(0.5)
		dc.Stroke()
	}
}

func (r renderer) pngCrosshair(dc *gg.Context, g wafer.DerivedGeometry) {
	cx, cy := r.toImage(g, 0, 0)
	arm := crosshairArm * r.scale
	dc.SetHexColor(r.theme.WaferStroke)
	dc.SetLineWidth(1)
	dc.DrawLine(cx-arm, cy, cx+arm, cy)
	dc.DrawLine(cx, cy-arm, cx, cy+arm)
	dc.Stroke()
}

func (r renderer) pngLegend(dc *gg.Context, layout wafer.Layout, w, h float64) {
	y := h - legendHeight + 14
	dc.DrawRectangle(8, y-5, 10, 10)
	dc.SetHexColor(r.theme.FullFill)
	dc.Fill()
	dc.SetHexColor(r.theme.Text)
	dc.DrawString(fmt.Sprintf("full: %d", layout.FullCount), 22, y+4)

	dc.DrawRectangle(8, y+11, 10, 10)
	dc.SetHexColor(r.theme.PartialFill)
	dc.Fill()
	dc.SetHexColor(r.theme.Text)
	dc.DrawString(fmt.Sprintf("partial: %d", layout.PartialCount), 22, y+20)

	dc.DrawStringAnchored(fmt.Sprintf("utilization: %.1f%%", layout.UtilizationPercent), w-8, y+10, 1, 0.5)
}
