// Package server implements the HTTP layout service.
//
// The service is a thin facade over pkg/layout: it accepts a diagram as
// JSON, runs the deterministic layout engine, and returns the repositioned
// nodes. Because the engine is pure, responses are memoized in a cache
// keyed by the diagram content hash and the effective configuration.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/erdlayout/pkg/cache"
	"github.com/matzehuels/erdlayout/pkg/diagram"
	apperrors "github.com/matzehuels/erdlayout/pkg/errors"
	"github.com/matzehuels/erdlayout/pkg/layout"
)

// maxBodyBytes caps request bodies. Even the node ceiling's worth of nodes
// with generous metadata stays far below this.
const maxBodyBytes = 16 << 20 // 16 MiB

// shutdownTimeout bounds graceful shutdown on context cancellation.
const shutdownTimeout = 10 * time.Second

// Server handles layout requests over HTTP.
type Server struct {
	logger    *log.Logger
	cache     cache.Cache
	layoutCfg layout.Config
}

// New creates a Server. The cache may be a NullCache to disable memoization.
func New(logger *log.Logger, c cache.Cache, layoutCfg layout.Config) *Server {
	return &Server{
		logger:    logger,
		cache:     c,
		layoutCfg: layoutCfg,
	}
}

// Handler returns the chi router with all routes and middleware mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/layout", s.handleLayout)

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// =============================================================================
// Request / Response Types
// =============================================================================

// layoutRequest is the POST /v1/layout body. Config fields are pointers so
// that absent fields fall back to the server's configuration rather than
// zeroing out a gap.
type layoutRequest struct {
	Nodes  []diagram.Node   `json:"nodes"`
	Edges  []diagram.Edge   `json:"edges"`
	Config *configOverrides `json:"config,omitempty"`
}

type configOverrides struct {
	HGap            *float64 `json:"hgap,omitempty"`
	VGap            *float64 `json:"vgap,omitempty"`
	OriginX         *float64 `json:"origin_x,omitempty"`
	OriginY         *float64 `json:"origin_y,omitempty"`
	MinHGap         *float64 `json:"min_hgap,omitempty"`
	SweepIterations *int     `json:"sweep_iterations,omitempty"`
}

type layoutResponse struct {
	Nodes  []diagram.Node `json:"nodes"`
	Stats  layoutStats    `json:"stats"`
	Cached bool           `json:"cached"`
}

type layoutStats struct {
	Nodes           int   `json:"nodes"`
	Edges           int   `json:"edges"`
	SkippedEdges    int   `json:"skipped_edges,omitempty"`
	Levels          int   `json:"levels"`
	CrossingsBefore int   `json:"crossings_before"`
	CrossingsAfter  int   `json:"crossings_after"`
	DurationMicros  int64 `json:"duration_us"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge,
				apperrors.New(apperrors.ErrCodeTooLarge, "request body exceeds %d bytes", maxBodyBytes))
			return
		}
		s.writeError(w, http.StatusBadRequest,
			apperrors.Wrap(apperrors.ErrCodeInvalidDiagram, err, "decode diagram"))
		return
	}

	cfg := s.effectiveConfig(req.Config)
	key := s.cacheKey(req, cfg)

	ctx := r.Context()
	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		var resp layoutResponse
		if err := json.Unmarshal(data, &resp); err == nil {
			resp.Cached = true
			writeJSON(w, http.StatusOK, resp)
			return
		}
		// Corrupt entry: drop it and recompute.
		_ = s.cache.Delete(ctx, key)
	} else if err != nil {
		s.logger.Warn("cache get failed", "err", err)
	}

	placed, stats := layout.ComputeWithStats(req.Nodes, req.Edges, cfg)
	if stats.Truncated {
		s.writeError(w, http.StatusUnprocessableEntity,
			apperrors.New(apperrors.ErrCodeTooLarge, "diagram has %d nodes, limit is %d", stats.Nodes, cfg.MaxNodes))
		return
	}

	resp := layoutResponse{
		Nodes: placed,
		Stats: layoutStats{
			Nodes:           stats.Nodes,
			Edges:           stats.Edges,
			SkippedEdges:    stats.SkippedEdges,
			Levels:          stats.Levels,
			CrossingsBefore: stats.CrossingsBefore,
			CrossingsAfter:  stats.CrossingsAfter,
			DurationMicros:  stats.Duration.Microseconds(),
		},
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
			s.logger.Warn("cache set failed", "err", err)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// effectiveConfig overlays request overrides on the server defaults.
// MaxNodes is intentionally not overridable by clients.
func (s *Server) effectiveConfig(o *configOverrides) layout.Config {
	cfg := s.layoutCfg
	if o == nil {
		return cfg
	}
	if o.HGap != nil {
		cfg.HGap = *o.HGap
	}
	if o.VGap != nil {
		cfg.VGap = *o.VGap
	}
	if o.OriginX != nil {
		cfg.OriginX = *o.OriginX
	}
	if o.OriginY != nil {
		cfg.OriginY = *o.OriginY
	}
	if o.MinHGap != nil {
		cfg.MinHGap = *o.MinHGap
	}
	if o.SweepIterations != nil && *o.SweepIterations >= 0 {
		cfg.SweepIterations = *o.SweepIterations
	}
	return cfg
}

func (s *Server) cacheKey(req layoutRequest, cfg layout.Config) string {
	content, _ := json.Marshal(diagram.Diagram{Nodes: req.Nodes, Edges: req.Edges})
	return cache.LayoutKey(cache.Hash(content), cache.LayoutKeyOpts{
		HGap:            cfg.HGap,
		VGap:            cfg.VGap,
		OriginX:         cfg.OriginX,
		OriginY:         cfg.OriginY,
		MinHGap:         cfg.MinHGap,
		SweepIterations: cfg.SweepIterations,
		MaxNodes:        cfg.MaxNodes,
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, err *apperrors.Error) {
	s.logger.Debug("request failed", "code", err.Code, "err", err)
	writeJSON(w, status, errorResponse{Error: errorBody{Code: err.Code, Message: err.Message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
