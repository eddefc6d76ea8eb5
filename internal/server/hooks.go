package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wafertools/wafermap/pkg/observability"
)

// registerHooks routes pipeline and cache events into the server log at
// debug level.
func registerHooks(logger *log.Logger) {
	observability.SetPipelineHooks(logPipelineHooks{logger})
	observability.SetCacheHooks(logCacheHooks{logger})
}

type logPipelineHooks struct {
	logger *log.Logger
}

func (h logPipelineHooks) OnComputeStart(_ context.Context, diameter, dieW, dieH float64) {
	h.logger.Debug("compute start", "diameter", diameter, "die_w", dieW, "die_h", dieH)
}

func (h logPipelineHooks) OnComputeComplete(_ context.Context, sites int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("compute failed", "error", err, "duration", d)
		return
	}
	h.logger.Debug("compute complete", "sites", sites, "duration", d)
}

func (h logPipelineHooks) OnEncodeStart(_ context.Context, format string) {
	h.logger.Debug("encode start", "format", format)
}

func (h logPipelineHooks) OnEncodeComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("encode failed", "format", format, "error", err, "duration", d)
		return
	}
	h.logger.Debug("encode complete", "format", format, "bytes", size, "duration", d)
}

type logCacheHooks struct {
	logger *log.Logger
}

func (h logCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
