// Package pipeline provides the core compute and export pipeline.
//
// This package implements the complete compute → export flow that can be
// used by CLI and API components. By centralizing this logic, we ensure
// consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Compute: Place dies on the wafer and derive layout statistics
//  2. Export: Encode the layout in output formats (GDSII, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage's result is cached under a content-derived key.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Spec: wafer.WaferSpec{
//	        Diameter:  300,
//	        DieWidth:  10,
//	        DieHeight: 10,
//	    },
//	    Formats: []string{"gds", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stream := result.Artifacts["gds"]
//
// Run individual stages:
//
//	// Compute only
//	layout, err := runner.Compute(ctx, opts)
//
//	// Export an existing layout
//	artifacts, err := runner.Export(ctx, layout, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wafertools/wafermap/pkg/cache"
	"github.com/wafertools/wafermap/pkg/gds"
	"github.com/wafertools/wafermap/pkg/wafer"
)

// Format constants for output formats.
const (
	FormatGDS = "gds"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// DefaultScale is the default raster scale in pixels per millimeter.
const DefaultScale = 3.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatGDS: true,
	FormatSVG: true,
	FormatPNG: true,
}

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Compute options
	Spec wafer.WaferSpec `json:"spec"`

	// Export options
	Formats    []string        `json:"formats,omitempty"`
	LibName    string          `json:"lib_name,omitempty"`
	StructName string          `json:"struct_name,omitempty"`
	Layers     gds.LayerConfig `json:"layers,omitempty"`
	Scale      float64         `json:"scale,omitempty"`
	Title      string          `json:"title,omitempty"`
	NoLegend   bool            `json:"no_legend,omitempty"`

	// Refresh bypasses the cache for reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed die placement.
	Layout wafer.Layout

	// LayoutHash is the content hash of the layout.
	LayoutHash string

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	FullDies    int
	PartialDies int
	ComputeTime time.Duration
	ExportTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ComputeHit bool // Whether the layout came from cache
	ExportHit  bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: gds, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetExportDefaults sets default values for export.
func (o *Options) SetExportDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatGDS}
	}
	if o.Layers == (gds.LayerConfig{}) {
		o.Layers = gds.DefaultLayerConfig()
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForExport validates and sets defaults for export.
func (o *Options) ValidateForExport() error {
	o.SetExportDefaults()
	return ValidateFormats(o.Formats)
}

// ArtifactKeyOpts returns cache key options for one exported format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatGDS:
		opts.LibName = o.LibName
		opts.StructName = o.StructName
		opts.Layers = fmt.Sprintf("%d/%d,%d/%d,%d/%d",
			o.Layers.WaferOutline.Layer, o.Layers.WaferOutline.Datatype,
			o.Layers.UsableOutline.Layer, o.Layers.UsableOutline.Datatype,
			o.Layers.Die.Layer, o.Layers.Die.Datatype)
	case FormatSVG, FormatPNG:
		opts.Scale = o.Scale
		opts.Legend = !o.NoLegend
		opts.Title = o.Title
	}
	return opts
}
