package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/dealsite-ssr/internal/catalog"
	"github.com/JakeFAU/dealsite-ssr/internal/id"
	"github.com/JakeFAU/dealsite-ssr/internal/metrics"
	"github.com/JakeFAU/dealsite-ssr/internal/render"
	"github.com/JakeFAU/dealsite-ssr/internal/ssr"
)

// Pipeline renders one page request.
type Pipeline interface {
	Handle(ctx context.Context, req catalog.PageRequest) (render.Document, error)
}

// AssetServer writes the static file at name, or a 404.
type AssetServer interface {
	Serve(w http.ResponseWriter, r *http.Request, name string)
}

// Config controls routing and request budgets.
type Config struct {
	// StaticFiles are top-level file names served from the asset root.
	StaticFiles []string
	// RequestTimeout bounds the context handed to the pipeline.
	RequestTimeout time.Duration
	MetricsEnabled bool
	// Ready reports whether downstream dependencies are reachable. Nil means always ready.
	Ready func(ctx context.Context) error
}

// Server wires HTTP handlers to the render pipeline and asset store.
type Server struct {
	router   chi.Router
	pipeline Pipeline
	assets   AssetServer
	cfg      Config
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(pipeline Pipeline, assets AssetServer, cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	s := &Server{
		pipeline: pipeline,
		assets:   assets,
		cfg:      cfg,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware(id.Generator{}))
	r.Use(loggingMiddleware(logger))
	r.Use(metrics.Middleware)
	r.Use(recoverMiddleware(logger))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Get("/assets/*", func(w http.ResponseWriter, r *http.Request) {
		s.assets.Serve(w, r, "assets/"+chi.URLParam(r, "*"))
	})
	for _, name := range cfg.StaticFiles {
		name := strings.TrimPrefix(name, "/")
		if name == "" {
			continue
		}
		r.Get("/"+name, func(w http.ResponseWriter, r *http.Request) {
			s.assets.Serve(w, r, name)
		})
	}

	r.Get("/*", s.page)
	r.Head("/*", s.page)

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.cfg.Ready(ctx); err != nil {
			s.logger.Warn("readiness check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// page runs the pipeline for the request path. A pipeline failure is answered with the
// error document and status 500.
func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	req := catalog.PageRequest{Path: r.URL.Path, Query: firstValues(r)}
	doc, err := s.pipeline.Handle(ctx, req)
	if err != nil {
		stage := "unknown"
		var stageErr *ssr.StageError
		if errors.As(err, &stageErr) {
			stage = string(stageErr.Stage)
		}
		metrics.ObservePipelineFailure(stage)
		s.logger.Error("render failed",
			zap.String("stage", stage),
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err),
		)
		doc = render.ErrorDocument()
	}
	writeDocument(w, r, doc, s.logger)
}

func writeDocument(w http.ResponseWriter, r *http.Request, doc render.Document, logger *zap.Logger) {
	if r.Method == http.MethodHead {
		doc.Body = nil
	}
	if err := doc.Write(w); err != nil {
		logger.Warn("document write failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func firstValues(r *http.Request) map[string]string {
	values := r.URL.Query()
	out := make(map[string]string, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
