package cli

import (
	"github.com/spf13/cobra"

	"github.com/wafertools/wafermap/pkg/preset"
	"github.com/wafertools/wafermap/pkg/wafer"
)

// specFlags holds the wafer geometry flags shared by calc, export, and
// render. A preset name, when given, seeds the wafer-level dimensions;
// explicit flags override it.
type specFlags struct {
	preset         string
	presetFile     string
	diameter       float64
	dieWidth       float64
	dieHeight      float64
	scribe         float64
	edge           float64
	flatLength     float64
	notchDepth     float64
	includePartial bool
	alignX         bool
	alignY         bool
}

// register adds the shared geometry flags to cmd.
func (f *specFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "", "wafer size preset (see 'wafermap presets')")
	cmd.Flags().StringVar(&f.presetFile, "preset-file", "", "TOML file with additional presets")
	cmd.Flags().Float64VarP(&f.diameter, "wafer", "w", 100, "wafer diameter in mm")
	cmd.Flags().Float64Var(&f.dieWidth, "die-width", 10, "die width in mm")
	cmd.Flags().Float64Var(&f.dieHeight, "die-height", 10, "die height in mm")
	cmd.Flags().Float64Var(&f.scribe, "scribe", 0.1, "scribe line width in mm")
	cmd.Flags().Float64Var(&f.edge, "edge", 3, "edge exclusion zone in mm")
	cmd.Flags().Float64Var(&f.flatLength, "flat-length", 0, "primary flat chord length in mm")
	cmd.Flags().Float64Var(&f.notchDepth, "notch-depth", 0, "notch depth in mm")
	cmd.Flags().BoolVar(&f.includePartial, "partial", true, "include partial edge dies")
	cmd.Flags().BoolVar(&f.alignX, "align-x", false, "center a die column on the X axis")
	cmd.Flags().BoolVar(&f.alignY, "align-y", false, "center a die row on the Y axis")
}

// toSpec resolves the flags into a WaferSpec. Preset values apply first,
// then any flag the user set explicitly on cmd wins.
func (f *specFlags) toSpec(cmd *cobra.Command) (wafer.WaferSpec, error) {
	spec := wafer.WaferSpec{
		Diameter:       f.diameter,
		EdgeExclusion:  f.edge,
		DieWidth:       f.dieWidth,
		DieHeight:      f.dieHeight,
		ScribeLine:     f.scribe,
		FlatLength:     f.flatLength,
		NotchDepth:     f.notchDepth,
		IncludePartial: f.includePartial,
		AlignX:         f.alignX,
		AlignY:         f.alignY,
	}

	if f.preset != "" {
		table, err := f.loadPresets()
		if err != nil {
			return wafer.WaferSpec{}, err
		}
		p, err := table.Get(f.preset)
		if err != nil {
			return wafer.WaferSpec{}, err
		}
		spec = p.Apply(spec)
		// Explicit flags beat the preset.
		if cmd.Flags().Changed("wafer") {
			spec.Diameter = f.diameter
		}
		if cmd.Flags().Changed("edge") {
			spec.EdgeExclusion = f.edge
		}
		if cmd.Flags().Changed("flat-length") {
			spec.FlatLength = f.flatLength
		}
		if cmd.Flags().Changed("notch-depth") {
			spec.NotchDepth = f.notchDepth
		}
	}

	return spec, nil
}

func (f *specFlags) loadPresets() (preset.Table, error) {
	if f.presetFile != "" {
		return preset.Load(f.presetFile)
	}
	return preset.Builtin(), nil
}
