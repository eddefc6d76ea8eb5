package sink

import (
	"math"

	"github.com/wafertools/wafermap/pkg/wafer"
)

// Theme holds the hex colors shared by the SVG and PNG renderers.
type Theme struct {
	Background    string
	WaferFill     string
	WaferStroke   string
	UsableStroke  string
	FullFill      string
	FullStroke    string
	PartialFill   string
	PartialStroke string
	Text          string
}

func DefaultTheme() Theme {
	return Theme{
		Background:    "#ffffff",
		WaferFill:     "#f4f4f5",
		WaferStroke:   "#3f3f46",
		UsableStroke:  "#2563eb",
		FullFill:      "#4ade80",
		FullStroke:    "#166534",
		PartialFill:   "#fbbf24",
		PartialStroke: "#92400e",
		Text:          "#18181b",
	}
}

// Option configures a renderer. The same options apply to both formats.
type Option func(*renderer)

type renderer struct {
	scale  float64 // pixels per millimeter
	margin float64 // millimeters of padding around the wafer
	theme  Theme
	legend bool
	title  string
}

// WithScale sets the pixels-per-millimeter scale (default 3).
func WithScale(s float64) Option {
	return func(r *renderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithMargin sets the padding around the wafer in millimeters.
func WithMargin(mm float64) Option {
	return func(r *renderer) {
		if mm >= 0 {
			r.margin = mm
		}
	}
}

func WithTheme(t Theme) Option  { return func(r *renderer) { r.theme = t } }
func WithTitle(s string) Option { return func(r *renderer) { r.title = s } }
func WithoutLegend() Option     { return func(r *renderer) { r.legend = false } }

func newRenderer(opts ...Option) renderer {
	r := renderer{scale: 3, margin: 5, theme: DefaultTheme(), legend: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// canvasSize returns the image dimensions in pixels. The legend strip, when
// enabled, extends the canvas below the wafer.
func (r renderer) canvasSize(g wafer.DerivedGeometry) (w, h float64) {
	side := (g.Radius + r.margin) * 2 * r.scale
	h = side
	if r.legend {
		h += legendHeight
	}
	return side, h
}

const legendHeight = 48.0

// crosshairArm is the center marker half length in millimeters.
const crosshairArm = 2.0

// toImage maps wafer millimeters (+Y up, origin at center) to image pixels.
func (r renderer) toImage(g wafer.DerivedGeometry, x, y float64) (float64, float64) {
	return (x + g.Radius + r.margin) * r.scale, (g.Radius + r.margin - y) * r.scale
}

// outlinePoints traces the wafer or usable outline in wafer coordinates.
// With a flat, the shape is the circle arc above the chord y = chordY closed
// by the chord itself; chordY at or below -radius degenerates to the full
// circle.
func outlinePoints(radius, chordY float64, segments int) [][2]float64 {
	if chordY <= -radius {
		pts := make([][2]float64, 0, segments+1)
		for i := 0; i < segments; i++ {
			a := 2 * math.Pi * float64(i) / float64(segments)
			pts = append(pts, [2]float64{radius * math.Cos(a), radius * math.Sin(a)})
		}
		pts = append(pts, pts[0])
		return pts
	}

	half := math.Sqrt(radius*radius - chordY*chordY)
	start := math.Atan2(chordY, half)            // right chord end
	end := math.Atan2(chordY, -half) + 2*math.Pi // left chord end, going over the top
	pts := make([][2]float64, 0, segments+2)
	for i := 0; i <= segments; i++ {
		a := start + (end-start)*float64(i)/float64(segments)
		pts = append(pts, [2]float64{radius * math.Cos(a), radius * math.Sin(a)})
	}
	pts = append(pts, pts[0])
	return pts
}

// chordFor returns the flat chord height for an outline of the given radius,
// or -radius when no flat cuts it.
func chordFor(g wafer.DerivedGeometry, radius float64) float64 {
	if g.Sagitta <= 0 {
		return -radius
	}
	chord := -(g.Radius - g.Sagitta)
	if chord <= -radius {
		return -radius
	}
	return chord
}

// notchPoints returns the triangular notch marker at the bottom of the wafer,
// apex pointing at the center.
func notchPoints(g wafer.DerivedGeometry) [][2]float64 {
	d := g.NotchDepth
	if d <= 0 {
		return nil
	}
	return [][2]float64{
		{-d, -g.Radius},
		{d, -g.Radius},
		{0, -(g.Radius - d)},
		{-d, -g.Radius},
	}
}
