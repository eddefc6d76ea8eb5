// Package render turns computed wafer layouts into images.
//
// # Overview
//
// The [sink] subpackage holds the output renderers:
//
//   - [sink.RenderSVG] writes a scalable vector drawing of the wafer,
//     usable area and die grid.
//   - [sink.RenderPNG] rasterizes the same drawing with fogleman/gg.
//
// Both take a [wafer.Layout] plus functional options and share one theme
// so the two formats stay visually identical:
//
//	svg := sink.RenderSVG(layout, sink.WithScale(4))
//	png, err := sink.RenderPNG(layout, sink.WithScale(4))
//
// Wafer coordinates are millimeters with +Y pointing up and the origin at
// the wafer center. The renderers flip to image coordinates internally.
package render
