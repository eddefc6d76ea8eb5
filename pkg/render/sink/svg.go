package sink

import (
	"bytes"
	"fmt"

	"github.com/wafertools/wafermap/pkg/wafer"
)

const outlineSegments = 180

// RenderSVG draws the wafer map as a standalone SVG document.
func RenderSVG(layout wafer.Layout, opts ...Option) []byte {
	r := newRenderer(opts...)
	g := layout.Geometry
	w, h := r.canvasSize(g)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, "  <rect width=\"100%%\" height=\"100%%\" fill=\"%s\"/>\n", r.theme.Background)

	r.svgOutline(&buf, g, g.Radius, r.theme.WaferFill, r.theme.WaferStroke, false)
	r.svgNotch(&buf, g)
	r.svgOutline(&buf, g, g.UsableRadius, "none", r.theme.UsableStroke, true)
	r.svgDies(&buf, layout)
	r.svgCrosshair(&buf, g)

	if r.title != "" {
		fmt.Fprintf(&buf, "  <text x=\"%.1f\" y=\"16\" text-anchor=\"middle\" font-family=\"sans-serif\" font-size=\"13\" fill=\"%s\">%s</text>\n",
			w/2, r.theme.Text, escapeText(r.title))
	}
	if r.legend {
		r.svgLegend(&buf, layout, w, h)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r renderer) svgOutline(buf *bytes.Buffer, g wafer.DerivedGeometry, radius float64, fill, stroke string, dashed bool) {
	chord := chordFor(g, radius)
	dash := ""
	if dashed {
		dash = ` stroke-dasharray="6 4"`
	}
	if chord <= -radius {
		cx, cy := r.toImage(g, 0, 0)
		fmt.Fprintf(buf, "  <circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"%s\" stroke=\"%s\" stroke-width=\"1.5\"%s/>\n",
			cx, cy, radius*r.scale, fill, stroke, dash)
		return
	}
	fmt.Fprintf(buf, "  <polygon points=\"%s\" fill=\"%s\" stroke=\"%s\" stroke-width=\"1.5\"%s/>\n",
		r.svgPoints(g, outlinePoints(radius, chord, outlineSegments)), fill, stroke, dash)
}

func (r renderer) svgNotch(buf *bytes.Buffer, g wafer.DerivedGeometry) {
	pts := notchPoints(g)
	if pts == nil {
		return
	}
	fmt.Fprintf(buf, "  <polygon points=\"%s\" fill=\"%s\" stroke=\"%s\" stroke-width=\"1\"/>\n",
		r.svgPoints(g, pts), r.theme.Background, r.theme.WaferStroke)
}

func (r renderer) svgDies(buf *bytes.Buffer, layout wafer.Layout) {
	g := layout.Geometry
	dieW := layout.Spec.DieWidth * r.scale
	dieH := layout.Spec.DieHeight * r.scale
	for _, p := range layout.Placements {
		fill, stroke := r.theme.FullFill, r.theme.FullStroke
		if p.Kind == wafer.Partial {
			fill, stroke = r.theme.PartialFill, r.theme.PartialStroke
		}
		// Placement coordinates are the lower-left corner; SVG rects anchor
		// at the top-left.
		x, y := r.toImage(g, p.X, p.Y+layout.Spec.DieHeight)
		fmt.Fprintf(buf, "  <rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" stroke=\"%s\" stroke-width=\"0.5\"/>\n",
			x, y, dieW, dieH, fill, stroke)
	}
}

// svgCrosshair marks the wafer center.
func (r renderer) svgCrosshair(buf *bytes.Buffer, g wafer.DerivedGeometry) {
	cx, cy := r.toImage(g, 0, 0)
	arm := crosshairArm * r.scale
	fmt.Fprintf(buf, "  <line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"1\"/>\n",
		cx-arm, cy, cx+arm, cy, r.theme.WaferStroke)
	fmt.Fprintf(buf, "  <line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"1\"/>\n",
		cx, cy-arm, cx, cy+arm, r.theme.WaferStroke)
}

func (r renderer) svgLegend(buf *bytes.Buffer, layout wafer.Layout, w, h float64) {
	y := h - legendHeight + 18
	fmt.Fprintf(buf, "  <rect x=\"8\" y=\"%.1f\" width=\"10\" height=\"10\" fill=\"%s\" stroke=\"%s\"/>\n", y-9, r.theme.FullFill, r.theme.FullStroke)
	fmt.Fprintf(buf, "  <text x=\"22\" y=\"%.1f\" font-family=\"sans-serif\" font-size=\"11\" fill=\"%s\">full: %d</text>\n", y, r.theme.Text, layout.FullCount)
	fmt.Fprintf(buf, "  <rect x=\"8\" y=\"%.1f\" width=\"10\" height=\"10\" fill=\"%s\" stroke=\"%s\"/>\n", y+7, r.theme.PartialFill, r.theme.PartialStroke)
	fmt.Fprintf(buf, "  <text x=\"22\" y=\"%.1f\" font-family=\"sans-serif\" font-size=\"11\" fill=\"%s\">partial: %d</text>\n", y+16, r.theme.Text, layout.PartialCount)
	fmt.Fprintf(buf, "  <text x=\"%.1f\" y=\"%.1f\" text-anchor=\"end\" font-family=\"sans-serif\" font-size=\"11\" fill=\"%s\">utilization: %.1f%%</text>\n",
		w-8, y+8, r.theme.Text, layout.UtilizationPercent)
}

func (r renderer) svgPoints(g wafer.DerivedGeometry, pts [][2]float64) string {
	var b bytes.Buffer
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		x, y := r.toImage(g, p[0], p[1])
		fmt.Fprintf(&b, "%.2f,%.2f", x, y)
	}
	return b.String()
}

func escapeText(s string) string {
	var b bytes.Buffer
	for _, c := range s {
		switch c {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}
