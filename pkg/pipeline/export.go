package pipeline

import (
	"fmt"

	"github.com/wafertools/wafermap/pkg/gds"
	"github.com/wafertools/wafermap/pkg/render/sink"
	"github.com/wafertools/wafermap/pkg/wafer"
)

// encodeFormat encodes one artifact from a computed layout.
func encodeFormat(layout wafer.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatGDS:
		gdsOpts := []gds.Option{gds.WithLayers(opts.Layers)}
		if opts.LibName != "" {
			gdsOpts = append(gdsOpts, gds.WithLibName(opts.LibName))
		}
		if opts.StructName != "" {
			gdsOpts = append(gdsOpts, gds.WithStructName(opts.StructName))
		}
		return gds.Encode(layout, gdsOpts...), nil

	case FormatSVG:
		return sink.RenderSVG(layout, sinkOptions(opts)...), nil

	case FormatPNG:
		return sink.RenderPNG(layout, sinkOptions(opts)...)

	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

func sinkOptions(opts Options) []sink.Option {
	sinkOpts := []sink.Option{sink.WithScale(opts.Scale)}
	if opts.Title != "" {
		sinkOpts = append(sinkOpts, sink.WithTitle(opts.Title))
	}
	if opts.NoLegend {
		sinkOpts = append(sinkOpts, sink.WithoutLegend())
	}
	return sinkOpts
}
