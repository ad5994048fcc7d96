// Package server exposes a loaded diagram and its spatial index over HTTP
// for debugging: occupied cells, region queries, topology reports, node
// moves, and Prometheus metrics.
//
// All handlers share one lock. Queries take it for reading; moves and
// removals take it for writing and re-sync the index before releasing it,
// so a query never sees a half-applied move.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/nodecanvas/internal/metrics"
	"github.com/matzehuels/nodecanvas/pkg/diagram"
	"github.com/matzehuels/nodecanvas/pkg/spatial"
)

const shutdownTimeout = 5 * time.Second

// Server serves one diagram and the index built from it.
type Server struct {
	mu     sync.RWMutex
	graph  *diagram.Graph
	index  *spatial.Index
	logger *log.Logger

	metrics  *metrics.Collector
	gatherer prometheus.Gatherer

	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics mounts /metrics for gatherer and keeps the collector's index
// size gauges current.
func WithMetrics(c *metrics.Collector, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = c
		s.gatherer = gatherer
	}
}

// New creates a server for g and ix. The index must already hold g's
// elements; see diagram.Sync.
func New(g *diagram.Graph, ix *spatial.Index, opts ...Option) *Server {
	s := &Server{
		graph:  g,
		index:  ix,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.updateGauges()
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/cells", s.handleCells)
	r.Get("/elements/{id}", s.handleElement)
	r.Route("/query", func(r chi.Router) {
		r.Get("/rect", s.handleQueryRect)
		r.Get("/point", s.handleQueryPoint)
		r.Get("/nearest", s.handleQueryNearest)
	})
	r.Get("/topology", s.handleTopology)
	r.Post("/nodes/{id}/move", s.handleMoveNode)
	r.Delete("/nodes/{id}", s.handleRemoveNode)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("debug server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "elapsed", time.Since(start).Round(time.Microsecond))
	})
}

// updateGauges must be called with s.mu held (or before serving).
func (s *Server) updateGauges() {
	if s.metrics != nil {
		s.metrics.SetIndexSize(s.index.Len(), s.index.CellCount())
	}
}
