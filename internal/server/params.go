package server

import (
	"net/url"
	"strconv"

	"github.com/wafertools/wafermap/pkg/errors"
	"github.com/wafertools/wafermap/pkg/gds"
	"github.com/wafertools/wafermap/pkg/preset"
	"github.com/wafertools/wafermap/pkg/wafer"
)

// specFromQuery builds a WaferSpec from query parameters. A preset name, when
// given, seeds the wafer-level dimensions; explicit parameters override it.
func specFromQuery(q url.Values, presets preset.Table) (wafer.WaferSpec, error) {
	spec := wafer.WaferSpec{
		Diameter:       100,
		EdgeExclusion:  3,
		DieWidth:       10,
		DieHeight:      10,
		ScribeLine:     0.1,
		IncludePartial: true,
	}

	if name := q.Get("preset"); name != "" {
		p, err := presets.Get(name)
		if err != nil {
			return wafer.WaferSpec{}, err
		}
		spec = p.Apply(spec)
	}

	var err error
	if spec.Diameter, err = floatParam(q, "wafer", spec.Diameter); err != nil {
		return wafer.WaferSpec{}, err
	}
	if spec.DieWidth, err = floatParam(q, "die_width", spec.DieWidth); err != nil {
		return wafer.WaferSpec{}, err
	}
	if spec.DieHeight, err = floatParam(q, "die_height", spec.DieHeight); err != nil {
		return wafer.WaferSpec{}, err
	}
	if spec.ScribeLine, err = floatParam(q, "scribe", spec.ScribeLine); err != nil {
		return wafer.WaferSpec{}, err
	}
	if spec.EdgeExclusion, err = floatParam(q, "edge", spec.EdgeExclusion); err != nil {
		return wafer.WaferSpec{}, err
	}
	if spec.FlatLength, err = floatParam(q, "flat_length", spec.FlatLength); err != nil {
		return wafer.WaferSpec{}, err
	}
	if spec.NotchDepth, err = floatParam(q, "notch_depth", spec.NotchDepth); err != nil {
		return wafer.WaferSpec{}, err
	}
	spec.IncludePartial = boolParam(q, "include_partial", spec.IncludePartial)
	spec.AlignX = boolParam(q, "align_x", spec.AlignX)
	spec.AlignY = boolParam(q, "align_y", spec.AlignY)

	if err := validateSpec(spec); err != nil {
		return wafer.WaferSpec{}, err
	}
	return spec, nil
}

func validateSpec(spec wafer.WaferSpec) error {
	if err := errors.ValidateWaferDiameter(spec.Diameter); err != nil {
		return err
	}
	if err := errors.ValidateDieSize("die width", spec.DieWidth); err != nil {
		return err
	}
	if err := errors.ValidateDieSize("die height", spec.DieHeight); err != nil {
		return err
	}
	if err := errors.ValidateScribe(spec.ScribeLine); err != nil {
		return err
	}
	if err := errors.ValidateEdgeExclusion(spec.EdgeExclusion); err != nil {
		return err
	}
	return errors.ValidateNotchDepth(spec.NotchDepth)
}

// layersFromQuery reads the layer/datatype assignment overrides.
func layersFromQuery(q url.Values) (gds.LayerConfig, error) {
	cfg := gds.DefaultLayerConfig()
	pairs := []struct {
		layerKey, datatypeKey string
		target                *gds.LayerAssignment
	}{
		{"layer_wafer", "datatype_wafer", &cfg.WaferOutline},
		{"layer_usable", "datatype_usable", &cfg.UsableOutline},
		{"layer_die", "datatype_die", &cfg.Die},
	}
	for _, p := range pairs {
		layer, err := layerParam(q, p.layerKey, p.target.Layer)
		if err != nil {
			return gds.LayerConfig{}, err
		}
		datatype, err := layerParam(q, p.datatypeKey, p.target.Datatype)
		if err != nil {
			return gds.LayerConfig{}, err
		}
		p.target.Layer, p.target.Datatype = layer, datatype
	}
	return cfg, nil
}

func floatParam(q url.Values, key string, fallback float64) (float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "parameter %q is not a number: %q", key, raw)
	}
	return v, nil
}

func boolParam(q url.Values, key string, fallback bool) bool {
	switch q.Get(key) {
	case "1", "true":
		return true
	case "0", "false":
		return false
	default:
		return fallback
	}
}

func layerParam(q url.Values, key string, fallback int16) (int16, error) {
	raw := q.Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 || v > 255 {
		return 0, errors.New(errors.ErrCodeInvalidLayer, "parameter %q must be an integer in [0,255], got %q", key, raw)
	}
	return int16(v), nil
}
