package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wafertools/wafermap/pkg/cache"
	"github.com/wafertools/wafermap/pkg/observability"
	"github.com/wafertools/wafermap/pkg/wafer"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete compute → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Compute
	computeStart := time.Now()
	layout, computeHit, err := r.ComputeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("compute: %w", err)
	}
	result.Layout = layout
	result.Stats.ComputeTime = time.Since(computeStart)
	result.Stats.FullDies = layout.FullCount
	result.Stats.PartialDies = layout.PartialCount
	result.CacheInfo.ComputeHit = computeHit

	// Content hash for artifact cache keys and API responses
	if layoutData, err := json.Marshal(layout); err == nil {
		result.LayoutHash = cache.Hash(layoutData)
	}

	r.Logger.Info("computed layout",
		"full", layout.FullCount,
		"partial", layout.PartialCount,
		"duration", result.Stats.ComputeTime)

	// Stage 2: Export
	exportStart := time.Now()
	artifacts, exportHit, err := r.ExportWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Info("encoded artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// ComputeWithCacheInfo places dies with caching and returns cache hit info.
func (r *Runner) ComputeWithCacheInfo(ctx context.Context, opts Options) (wafer.Layout, bool, error) {
	cacheKey := r.Keyer.LayoutKey(opts.Spec)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached wafer.Layout
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// Fall through to recompute on deserialization failure
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	spec := opts.Spec
	start := time.Now()
	observability.Pipeline().OnComputeStart(ctx, spec.Diameter, spec.DieWidth, spec.DieHeight)
	layout, err := wafer.ComputeLayout(spec)
	observability.Pipeline().OnComputeComplete(ctx, layout.TotalSites(), time.Since(start), err)
	if err != nil {
		return wafer.Layout{}, false, err
	}

	if data, err := json.Marshal(layout); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return layout, false, nil
}

// Compute is a convenience wrapper that discards the cache hit info.
func (r *Runner) Compute(ctx context.Context, opts Options) (wafer.Layout, error) {
	layout, _, err := r.ComputeWithCacheInfo(ctx, opts)
	return layout, err
}

// ExportWithCacheInfo encodes artifacts with caching and returns cache hit info.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, layout wafer.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, false, err
	}

	layoutData, err := json.Marshal(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	allCached := !opts.Refresh
	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Encode all formats
	encoded := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		start := time.Now()
		observability.Pipeline().OnEncodeStart(ctx, format)
		data, err := encodeFormat(layout, format, opts)
		observability.Pipeline().OnEncodeComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("encode %s: %w", format, err)
		}
		encoded[format] = data
	}

	// Cache each format
	for format, data := range encoded {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return encoded, false, nil
}

// Export is a convenience wrapper that discards the cache hit info.
func (r *Runner) Export(ctx context.Context, layout wafer.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.ExportWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
