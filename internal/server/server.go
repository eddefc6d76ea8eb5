// Package server implements the HTTP API: layout computation, GDSII export,
// preview rendering, preset listing and feedback intake.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wafertools/wafermap/pkg/cache"
	"github.com/wafertools/wafermap/pkg/feedback"
	"github.com/wafertools/wafermap/pkg/pipeline"
	"github.com/wafertools/wafermap/pkg/preset"
)

// Server wires the router, pipeline runner and feedback store together.
type Server struct {
	cfg     Config
	logger  *log.Logger
	router  chi.Router
	runner  *pipeline.Runner
	store   feedback.Store
	httpSrv *http.Server
}

// New builds a server from the configuration. The cache and feedback
// backends are connected here so that startup fails fast on bad config.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	registerHooks(logger)

	c, err := buildCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	store, err := buildFeedbackStore(ctx, cfg.Feedback)
	if err != nil {
		return nil, err
	}

	presets := preset.Builtin()
	if cfg.PresetFile != "" {
		if presets, err = preset.Load(cfg.PresetFile); err != nil {
			return nil, err
		}
	}

	var keyer cache.Keyer
	if cfg.Cache.KeyPrefix != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Cache.KeyPrefix)
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		runner: pipeline.NewRunner(c, keyer, logger),
		store:  store,
	}
	s.router = s.buildRouter(presets)
	s.httpSrv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return s.Close(shutdownCtx)
}

// Close releases the runner cache and feedback store.
func (s *Server) Close(ctx context.Context) error {
	err := s.runner.Close()
	if storeErr := s.store.Close(ctx); err == nil {
		err = storeErr
	}
	return err
}

func (s *Server) buildRouter(presets preset.Table) chi.Router {
	h := &handlers{
		runner:       s.runner,
		presets:      presets,
		store:        s.store,
		limiter:      newIPLimiter(s.cfg.RateLimit.PerMinute, s.cfg.RateLimit.Burst),
		logger:       s.logger,
		maxPositions: s.cfg.MaxPositions,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", h.healthz)
	r.Route("/api", func(r chi.Router) {
		r.Get("/calculate", h.calculate)
		r.Get("/export/gdsii", h.exportGDSII)
		r.Get("/render/svg", h.renderImage(pipeline.FormatSVG))
		r.Get("/render/png", h.renderImage(pipeline.FormatPNG))
		r.Get("/presets", h.listPresets)
		r.Post("/feedback", h.submitFeedback)
	})
	return r
}

func buildCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "", "none":
		return cache.NewNullCache(), nil
	case "file":
		return cache.NewFileCache(cfg.Dir)
	case "redis":
		return cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
	return nil, errInvalidBackend("cache", cfg.Backend)
}

func buildFeedbackStore(ctx context.Context, cfg FeedbackConfig) (feedback.Store, error) {
	switch cfg.Backend {
	case "", "file":
		return feedback.NewFileStore(cfg.Path)
	case "webhook":
		return feedback.NewWebhookStore(cfg.WebhookURL), nil
	case "mongo":
		return feedback.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
	}
	return nil, errInvalidBackend("feedback", cfg.Backend)
}
