package gds

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/wafertools/wafermap/pkg/errors"
)

// LayerProperty is one entry of a KLayout layer-property (.lyp) file.
type LayerProperty struct {
	Name     string
	Layer    int16
	Datatype int16
}

type lypFile struct {
	XMLName    xml.Name       `xml:"layer-properties"`
	Properties []lypProperties `xml:"properties"`
}

type lypProperties struct {
	Name   string `xml:"name"`
	Source string `xml:"source"`
}

// ReadLYP parses a KLayout layer-property file. Entries whose source is not
// of the form "layer/datatype[@cellview]" are rejected.
func ReadLYP(r io.Reader) ([]LayerProperty, error) {
	var f lypFile
	if err := xml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayer, err, "parse layer properties")
	}

	props := make([]LayerProperty, 0, len(f.Properties))
	for _, p := range f.Properties {
		src := p.Source
		if i := strings.IndexByte(src, '@'); i >= 0 {
			src = src[:i]
		}
		layerStr, dtStr, ok := strings.Cut(strings.TrimSpace(src), "/")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidLayer, "layer source %q not layer/datatype", p.Source)
		}
		layer, err := strconv.ParseInt(layerStr, 10, 16)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLayer, err, "layer number in %q", p.Source)
		}
		dt, err := strconv.ParseInt(dtStr, 10, 16)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLayer, err, "datatype number in %q", p.Source)
		}
		props = append(props, LayerProperty{
			Name:     p.Name,
			Layer:    int16(layer),
			Datatype: int16(dt),
		})
	}
	return props, nil
}

// ApplyProperties overrides assignments whose class name appears in a
// property name (case-insensitive): "wafer" for the wafer outline, "usable"
// for the usable-area outline, "die" for dies. Unmatched properties are
// ignored; unmatched classes keep their current assignment.
func (c LayerConfig) ApplyProperties(props []LayerProperty) LayerConfig {
	for _, p := range props {
		name := strings.ToLower(p.Name)
		a := LayerAssignment{Layer: p.Layer, Datatype: p.Datatype}
		switch {
		case strings.Contains(name, "wafer"):
			c.WaferOutline = a
		case strings.Contains(name, "usable"):
			c.UsableOutline = a
		case strings.Contains(name, "die"):
			c.Die = a
		}
	}
	return c
}
