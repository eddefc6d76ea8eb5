package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wafertools/wafermap/pkg/gds"
)

func testServer(t *testing.T, mutate func(*Config)) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Feedback.Path = filepath.Join(t.TempDir(), "feedback.jsonl")
	if mutate != nil {
		mutate(&cfg)
	}
	srv, err := New(context.Background(), cfg, log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close(context.Background()) })
	return srv
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, testServer(t, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCalculate(t *testing.T) {
	rec := get(t, testServer(t, nil), "/api/calculate?wafer=300&die_width=10&die_height=10&scribe=0.2&edge=3&notch_depth=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		FullCount    int  `json:"full_count"`
		PartialCount int  `json:"partial_count"`
		TotalSites   int  `json:"total_sites"`
		CacheHit     bool `json:"cache_hit"`
		Geometry     struct {
			UsableRadius float64 `json:"usable_radius"`
		} `json:"geometry"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Positive(t, resp.FullCount)
	assert.Equal(t, resp.FullCount+resp.PartialCount, resp.TotalSites)
	assert.InDelta(t, 147.0, resp.Geometry.UsableRadius, 1e-9)
	assert.False(t, resp.CacheHit)
}

func TestCalculatePresetParam(t *testing.T) {
	rec := get(t, testServer(t, nil), "/api/calculate?preset=150mm&die_width=8&die_height=8")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Spec struct {
			Diameter   float64 `json:"diameter"`
			FlatLength float64 `json:"flat_length"`
		} `json:"spec"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 150.0, resp.Spec.Diameter)
	assert.Equal(t, 47.5, resp.Spec.FlatLength)

	rec = get(t, testServer(t, nil), "/api/calculate?preset=999mm")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalculateValidation(t *testing.T) {
	srv := testServer(t, nil)
	cases := []string{
		"/api/calculate?wafer=10",
		"/api/calculate?wafer=500",
		"/api/calculate?die_width=0.01",
		"/api/calculate?die_width=300",
		"/api/calculate?scribe=6",
		"/api/calculate?edge=25",
		"/api/calculate?wafer=abc",
	}
	for _, path := range cases {
		rec := get(t, srv, path)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Contains(t, rec.Body.String(), `"error"`, path)
	}
}

func TestCalculateTruncatesPositions(t *testing.T) {
	srv := testServer(t, func(cfg *Config) { cfg.MaxPositions = 5 })
	rec := get(t, srv, "/api/calculate?wafer=300&die_width=5&die_height=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Placements         []json.RawMessage `json:"placements"`
		PositionsTruncated bool              `json:"positions_truncated"`
		TotalPositions     int               `json:"total_positions"`
		FullCount          int               `json:"full_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Placements, 5)
	assert.True(t, resp.PositionsTruncated)
	assert.Greater(t, resp.TotalPositions, 5)
	assert.Greater(t, resp.FullCount, 5, "counts stay exact when positions are truncated")
}

func TestExportGDSII(t *testing.T) {
	rec := get(t, testServer(t, nil), "/api/export/gdsii?wafer=100&die_width=10&die_height=10&layer_die=42")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "wafer_layout.gds")

	records, err := gds.ReadRecords(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Positive(t, gds.CountBoundaries(records))

	var layers []int16
	for _, rcd := range records {
		if rcd.Type == gds.RecLayer {
			layers = append(layers, rcd.Int16s()[0])
		}
	}
	require.GreaterOrEqual(t, len(layers), 3)
	assert.Equal(t, int16(42), layers[2])
}

func TestExportGDSIIInvalidLayer(t *testing.T) {
	rec := get(t, testServer(t, nil), "/api/export/gdsii?layer_die=999")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_LAYER")
}

func TestRenderEndpoints(t *testing.T) {
	srv := testServer(t, nil)

	rec := get(t, srv, "/api/render/svg?wafer=100&die_width=10&die_height=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg "))

	rec = get(t, srv, "/api/render/png?wafer=100&die_width=10&die_height=10&scale=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rec.Body.Bytes()[:4])
}

func TestListPresets(t *testing.T) {
	rec := get(t, testServer(t, nil), "/api/presets")
	require.Equal(t, http.StatusOK, rec.Code)

	var out []struct {
		Name     string  `json:"name"`
		Diameter float64 `json:"diameter"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 7)
	assert.Equal(t, "300mm", out[0].Name)
	assert.Equal(t, 300.0, out[0].Diameter)
}

func postFeedback(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSubmitFeedback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fb.jsonl")
	srv := testServer(t, func(cfg *Config) { cfg.Feedback.Path = path })

	rec := postFeedback(t, srv, `{"type":"issue","message":"rows are shifted","email":"a@b.c"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rows are shifted")
}

func TestSubmitFeedbackHoneypot(t *testing.T) {
	srv := testServer(t, nil)
	rec := postFeedback(t, srv, `{"message":"hello","website":"spam.example"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitFeedbackValidation(t *testing.T) {
	srv := testServer(t, nil)
	assert.Equal(t, http.StatusBadRequest, postFeedback(t, srv, `{"message":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, postFeedback(t, srv, `not json`).Code)
}

func TestSubmitFeedbackRateLimited(t *testing.T) {
	srv := testServer(t, func(cfg *Config) {
		cfg.RateLimit = RateLimitConfig{PerMinute: 1, Burst: 2}
	})

	var last int
	for i := 0; i < 3; i++ {
		last = postFeedback(t, srv, `{"message":"ping"}`).Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr = ":8080"
max_positions = 100

[cache]
backend = "file"
dir = "/tmp/wafermap-cache"

[rate_limit]
per_minute = 5
burst = 5
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 100, cfg.MaxPositions)
	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.Equal(t, 5, cfg.RateLimit.PerMinute)
	// Unset sections keep defaults.
	assert.Equal(t, "file", cfg.Feedback.Backend)
}

func TestLoadConfigRejectsBadBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cache]\nbackend = \"memcached\"\n"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestRequestIDPropagation(t *testing.T) {
	srv := testServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}
