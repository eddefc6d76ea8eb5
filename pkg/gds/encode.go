package gds

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/wafertools/wafermap/pkg/wafer"
)

const (
	// defaultCircleSegments is the vertex count used to approximate the
	// wafer and usable-area circles.
	defaultCircleSegments = 64

	defaultLibName    = "WAFER_LIB"
	defaultStructName = "WAFER"
)

// Timestamps in BGNLIB/BGNSTR are fixed so that identical layouts encode to
// identical bytes.
var libDate = [6]int16{2024, 1, 1, 0, 0, 0}

// Option configures the encoder.
type Option func(*encoder)

// WithLayers overrides the default layer configuration.
func WithLayers(cfg LayerConfig) Option {
	return func(e *encoder) { e.layers = cfg }
}

// WithLibName sets the LIBNAME record contents.
func WithLibName(name string) Option {
	return func(e *encoder) { e.libName = name }
}

// WithStructName sets the STRNAME record contents.
func WithStructName(name string) Option {
	return func(e *encoder) { e.structName = name }
}

type encoder struct {
	buf        bytes.Buffer
	layers     LayerConfig
	libName    string
	structName string
}

// Encode serializes a layout into a GDSII stream. The output always contains
// the wafer-outline and usable-area boundaries; a layout with no retained
// dies still encodes to a structurally valid file.
func Encode(layout wafer.Layout, opts ...Option) []byte {
	e := &encoder{
		layers:     DefaultLayerConfig(),
		libName:    defaultLibName,
		structName: defaultStructName,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.record(RecHeader, DataInt16, int16Payload(gdsVersion))
	e.record(RecBgnLib, DataInt16, datePayload())
	e.record(RecLibName, DataString, stringPayload(e.libName))

	units := appendReal8(nil, UserUnit)
	units = appendReal8(units, DatabaseUnitMeters)
	e.record(RecUnits, DataReal8, units)

	e.record(RecBgnStr, DataInt16, datePayload())
	e.record(RecStrName, DataString, stringPayload(e.structName))

	g := layout.Geometry
	e.boundary(e.layers.WaferOutline, circlePoints(g.Radius))
	e.boundary(e.layers.UsableOutline, circlePoints(g.UsableRadius))

	w, h := layout.Spec.DieWidth, layout.Spec.DieHeight
	for _, p := range layout.Placements {
		e.boundary(e.layers.Die, rectPoints(p.X, p.Y, w, h))
	}

	e.record(RecEndStr, DataNone, nil)
	e.record(RecEndLib, DataNone, nil)

	return e.buf.Bytes()
}

// record writes one GDSII record. Payloads built by this package are always
// even-length; the length check guards the invariant.
func (e *encoder) record(rt RecordType, dt DataType, payload []byte) {
	if len(payload)%2 != 0 {
		payload = append(payload, 0)
	}
	var hdr [4]byte
	binary.BigEndian.PutUint16(hdr[:2], uint16(4+len(payload)))
	hdr[2] = byte(rt)
	hdr[3] = byte(dt)
	e.buf.Write(hdr[:])
	e.buf.Write(payload)
}

// boundary writes a BOUNDARY element: layer, datatype, XY points, ENDEL.
func (e *encoder) boundary(a LayerAssignment, points [][2]float64) {
	e.record(RecBoundary, DataNone, nil)
	e.record(RecLayer, DataInt16, int16Payload(a.Layer))
	e.record(RecDatatype, DataInt16, int16Payload(a.Datatype))

	xy := make([]byte, 0, len(points)*8)
	for _, pt := range points {
		xy = binary.BigEndian.AppendUint32(xy, uint32(toDBU(pt[0])))
		xy = binary.BigEndian.AppendUint32(xy, uint32(toDBU(pt[1])))
	}
	e.record(RecXY, DataInt32, xy)
	e.record(RecEndEl, DataNone, nil)
}

// toDBU converts engine millimeters to database units (nanometers), rounded
// to the nearest integer.
func toDBU(mm float64) int32 {
	return int32(math.Round(mm * DBUPerMillimeter))
}

// circlePoints approximates a centered circle as a closed polygon with
// defaultCircleSegments vertices; the first point is repeated at the end.
func circlePoints(radius float64) [][2]float64 {
	pts := make([][2]float64, 0, defaultCircleSegments+1)
	for i := 0; i < defaultCircleSegments; i++ {
		angle := 2 * math.Pi * float64(i) / defaultCircleSegments
		pts = append(pts, [2]float64{radius * math.Cos(angle), radius * math.Sin(angle)})
	}
	return append(pts, pts[0])
}

// rectPoints returns the closed 5-point rectangle with lower-left (x, y).
func rectPoints(x, y, w, h float64) [][2]float64 {
	return [][2]float64{
		{x, y},
		{x + w, y},
		{x + w, y + h},
		{x, y + h},
		{x, y},
	}
}

func int16Payload(v int16) []byte {
	return binary.BigEndian.AppendUint16(nil, uint16(v))
}

func datePayload() []byte {
	// Modification and access timestamps, six int16 fields each.
	out := make([]byte, 0, 24)
	for i := 0; i < 2; i++ {
		for _, f := range libDate {
			out = binary.BigEndian.AppendUint16(out, uint16(f))
		}
	}
	return out
}

func stringPayload(s string) []byte {
	b := []byte(s)
	if len(b)%2 != 0 {
		b = append(b, 0)
	}
	return b
}
