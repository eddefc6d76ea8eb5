package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/wafertools/wafermap/pkg/errors"
	"github.com/wafertools/wafermap/pkg/feedback"
	"github.com/wafertools/wafermap/pkg/pipeline"
	"github.com/wafertools/wafermap/pkg/preset"
	"github.com/wafertools/wafermap/pkg/wafer"
)

type handlers struct {
	runner       *pipeline.Runner
	presets      preset.Table
	store        feedback.Store
	limiter      *ipLimiter
	logger       *log.Logger
	maxPositions int
}

// calculateResponse is the JSON shape of the calculate endpoint. Counts are
// always exact; Placements may be truncated for very fine grids, reported
// via PositionsTruncated.
type calculateResponse struct {
	wafer.Layout
	TotalSites         int    `json:"total_sites"`
	PositionsTruncated bool   `json:"positions_truncated"`
	TotalPositions     int    `json:"total_positions"`
	LayoutHash         string `json:"layout_hash,omitempty"`
	CacheHit           bool   `json:"cache_hit"`
}

func (h *handlers) calculate(w http.ResponseWriter, r *http.Request) {
	spec, err := specFromQuery(r.URL.Query(), h.presets)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	layout, hit, err := h.runner.ComputeWithCacheInfo(r.Context(), pipeline.Options{Spec: spec})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := calculateResponse{
		Layout:         layout,
		TotalSites:     layout.TotalSites(),
		TotalPositions: len(layout.Placements),
		CacheHit:       hit,
	}
	if h.maxPositions > 0 && len(resp.Placements) > h.maxPositions {
		resp.Placements = resp.Placements[:h.maxPositions]
		resp.PositionsTruncated = true
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) exportGDSII(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	spec, err := specFromQuery(q, h.presets)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	layers, err := layersFromQuery(q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	opts := pipeline.Options{
		Spec:       spec,
		Formats:    []string{pipeline.FormatGDS},
		Layers:     layers,
		LibName:    q.Get("lib_name"),
		StructName: q.Get("struct_name"),
	}
	result, err := h.runner.Execute(r.Context(), opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data := result.Artifacts[pipeline.FormatGDS]
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="wafer_layout.gds"`)
	_, _ = w.Write(data)
}

func (h *handlers) renderImage(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		spec, err := specFromQuery(q, h.presets)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		scale, err := floatParam(q, "scale", pipeline.DefaultScale)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		opts := pipeline.Options{
			Spec:     spec,
			Formats:  []string{format},
			Scale:    scale,
			Title:    q.Get("title"),
			NoLegend: !boolParam(q, "legend", true),
		}
		result, err := h.runner.Execute(r.Context(), opts)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		contentType := "image/svg+xml"
		if format == pipeline.FormatPNG {
			contentType = "image/png"
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(result.Artifacts[format])
	}
}

func (h *handlers) listPresets(w http.ResponseWriter, r *http.Request) {
	type namedPreset struct {
		Name string `json:"name"`
		preset.Preset
	}
	out := make([]namedPreset, 0, len(h.presets))
	for _, name := range h.presets.Names() {
		p, _ := h.presets.Get(name)
		out = append(out, namedPreset{Name: name, Preset: p})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// feedbackRequest is the POST body of the feedback endpoint. Website is a
// honeypot: real clients never fill it, so any value marks a bot.
type feedbackRequest struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Email   string         `json:"email"`
	Website string         `json:"website"`
	Context map[string]any `json:"context"`
}

func (h *handlers) submitFeedback(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(clientIP(r)) {
		h.writeError(w, r, errors.New(errors.ErrCodeRateLimited, "rate limit exceeded"))
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}
	if req.Website != "" {
		h.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid submission"))
		return
	}

	entry, err := feedback.New(req.Type, req.Message, req.Email, req.Context)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.store.Save(r.Context(), entry); err != nil {
		h.logger.Error("saving feedback", "error", err)
		h.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "storing feedback"))
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": entry.ID})
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encoding response", "error", err)
	}
}

func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGeometry, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidPreset, errors.ErrCodeInvalidLayer:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodePresetNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeRateLimited:
		status = http.StatusTooManyRequests
	}

	if status >= 500 {
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	h.writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(code),
	})
}
