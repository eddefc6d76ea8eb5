// Package preset provides the SEMI standard wafer dimensions plus
// user-defined overrides loaded from TOML.
package preset

import (
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/wafertools/wafermap/pkg/errors"
	"github.com/wafertools/wafermap/pkg/wafer"
)

// Preset names the fixed wafer-level parameters of a standard substrate.
// Die dimensions are not part of a preset; they come from the caller.
type Preset struct {
	Diameter      float64 `toml:"diameter" json:"diameter"`
	FlatLength    float64 `toml:"flat_length" json:"flat_length"`
	NotchDepth    float64 `toml:"notch_depth" json:"notch_depth"`
	EdgeExclusion float64 `toml:"edge_exclusion" json:"edge_exclusion"`
}

// Table maps preset names to their dimensions.
type Table map[string]Preset

// Builtin returns the SEMI standard wafer sizes. 200 mm and larger use a
// notch, smaller wafers a major flat.
func Builtin() Table {
	return Table{
		"300mm": {Diameter: 300, NotchDepth: 1.0, EdgeExclusion: 3},
		"200mm": {Diameter: 200, NotchDepth: 1.0, EdgeExclusion: 3},
		"150mm": {Diameter: 150, FlatLength: 47.5, EdgeExclusion: 3},
		"125mm": {Diameter: 125, FlatLength: 42.5, EdgeExclusion: 3},
		"100mm": {Diameter: 100, FlatLength: 32.5, EdgeExclusion: 3},
		"76mm":  {Diameter: 76.2, FlatLength: 22.2, EdgeExclusion: 2.5},
		"50mm":  {Diameter: 50.8, FlatLength: 15.9, EdgeExclusion: 2.5},
	}
}

// Load reads a TOML file of [name] tables and merges it over the builtin
// presets. File entries replace builtin entries of the same name.
func Load(path string) (Table, error) {
	var file Table
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPreset, err, "reading preset file %s", path)
	}
	merged := Builtin()
	for name, p := range file {
		if err := p.validate(name); err != nil {
			return nil, err
		}
		merged[name] = p
	}
	return merged, nil
}

// Get looks up a preset by name.
func (t Table) Get(name string) (Preset, error) {
	p, ok := t[name]
	if !ok {
		return Preset{}, errors.New(errors.ErrCodePresetNotFound, "unknown preset %q", name)
	}
	return p, nil
}

// Names lists preset names ordered by diameter, largest first, with ties
// broken alphabetically.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := t[names[i]], t[names[j]]
		if a.Diameter != b.Diameter {
			return a.Diameter > b.Diameter
		}
		return names[i] < names[j]
	})
	return names
}

// Apply copies the preset's wafer-level parameters onto a spec, leaving die
// dimensions and placement flags untouched.
func (p Preset) Apply(spec wafer.WaferSpec) wafer.WaferSpec {
	spec.Diameter = p.Diameter
	spec.FlatLength = p.FlatLength
	spec.NotchDepth = p.NotchDepth
	spec.EdgeExclusion = p.EdgeExclusion
	return spec
}

func (p Preset) validate(name string) error {
	if err := errors.ValidateWaferDiameter(p.Diameter); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPreset, err, "preset %q", name)
	}
	if err := errors.ValidateEdgeExclusion(p.EdgeExclusion); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPreset, err, "preset %q", name)
	}
	if p.FlatLength > 0 && p.NotchDepth > 0 {
		return errors.New(errors.ErrCodeInvalidPreset, "preset %q sets both flat_length and notch_depth", name)
	}
	return nil
}
