// Package pkg provides the core libraries for Wafermap die placement.
//
// # Overview
//
// Wafermap computes how many rectangular dies fit on a circular silicon
// wafer and turns the result into fab-ready artifacts. The pkg directory
// is organized into these areas:
//
//  1. [wafer] - Domain logic (geometry, die placement, classification)
//  2. [gds] - GDSII stream encoding and layer properties
//  3. [render] - Wafer map previews (SVG, PNG)
//  4. [preset] - Standard SEMI wafer size presets
//  5. [pipeline] - Orchestration (compute → export) with caching
//  6. [cache] - Result cache backends (file, Redis) and key derivation
//  7. [feedback] - Feedback intake stores (file, webhook, MongoDB)
//
// # Architecture
//
// The typical data flow through Wafermap:
//
//	WaferSpec (diameter, die size, scribe, exclusions)
//	         ↓
//	    [wafer] package (derived geometry + die grid)
//	         ↓
//	    [pipeline] package (caching, orchestration)
//	         ↓
//	    [gds] / [render/sink] (GDSII, SVG, PNG output)
//
// # Quick Start
//
// Compute a layout and encode it as a GDSII stream:
//
//	import (
//	    "github.com/wafertools/wafermap/pkg/gds"
//	    "github.com/wafertools/wafermap/pkg/wafer"
//	)
//
//	spec := wafer.WaferSpec{
//	    Diameter:       300,
//	    EdgeExclusion:  3,
//	    NotchDepth:     1,
//	    DieWidth:       10,
//	    DieHeight:      10,
//	    ScribeLine:     0.2,
//	    IncludePartial: true,
//	}
//	layout, _ := wafer.ComputeLayout(spec)
//	stream, _ := gds.Encode(layout)
//
// # Main Packages
//
// [wafer] - Placement geometry: usable radius, flat chord sagitta, the
// centered die grid, and Full/Partial/Excluded classification.
//
// [gds] - Binary GDSII stream writer (big-endian records, excess-64
// reals, nanometer database units) plus a KLayout .lyp layer properties
// reader and a record-level reader used by tests and tooling.
//
// [render/sink] - SVG and PNG wafer map previews sharing one option set
// so both formats stay visually identical.
//
// [preset] - Builtin SEMI wafer sizes (50mm through 300mm) and TOML
// overlay files for custom presets.
//
// [pipeline] - Two-stage compute/export runner with per-stage caching
// and cache-hit reporting. Used by the CLI and the HTTP server.
//
// [cache] - Cache interface with file, Redis, and null backends, and
// deterministic SHA-256 key derivation from specs and export options.
//
// [feedback] - User feedback entries with file (JSONL), webhook, and
// MongoDB stores.
//
// [errors] - Coded errors with user-facing messages and input range
// validators.
//
// [observability] - Pluggable hooks for pipeline, cache, and HTTP
// instrumentation with no-op defaults.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/wafer/...      # Specific package
//
// [wafer]: https://pkg.go.dev/github.com/wafertools/wafermap/pkg/wafer
// [gds]: https://pkg.go.dev/github.com/wafertools/wafermap/pkg/gds
// [render]: https://pkg.go.dev/github.com/wafertools/wafermap/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/wafertools/wafermap/pkg/render/sink
// [preset]: https://pkg.go.dev/github.com/wafertools/wafermap/pkg/preset
// [pipeline]: https://pkg.go.dev/github.com/wafertools/wafermap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/wafertools/wafermap/pkg/cache
// [feedback]: https://pkg.go.dev/github.com/wafertools/wafermap/pkg/feedback
// [errors]: https://pkg.go.dev/github.com/wafertools/wafermap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/wafertools/wafermap/pkg/observability
package pkg
