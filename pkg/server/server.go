// Package server exposes a curriculum map over HTTP.
//
// The dataset is loaded once and never modified. Every request carries its
// own viewport and selection, so the server keeps no per-viewer state.
//
// # Routes
//
//	GET /                        interactive map page
//	GET /api/graph               dataset with positions
//	GET /api/connections/{id}    resolved edges and visible nodes of one node
//	GET /api/render.{format}     rendered artifact (svg, dot, png, pdf, json)
//	GET /healthz                 liveness
//	GET /metrics                 Prometheus metrics, when enabled
//
// Viewport and selection come from the query parameters width, height,
// selected and style.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/curriculummap/pkg/curriculum"
	"github.com/matzehuels/curriculummap/pkg/pipeline"
)

// Options configures a Server.
type Options struct {
	// Viewport is used when a request names no width or height.
	Viewport curriculum.Viewport
	Layout   curriculum.LayoutOptions
	Trace    curriculum.TraceOptions
	Title    string

	// Metrics serves /metrics when set.
	Metrics http.Handler

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server serves one dataset.
type Server struct {
	graph  *curriculum.Graph
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
}

// New creates a server for g. A nil runner renders without caching.
func New(g *curriculum.Graph, runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = runner.Logger
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return &Server{graph: g, runner: runner, logger: logger, opts: opts}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Get("/connections/{id}", s.handleConnections)
		r.Get("/render.{format}", s.handleRender)
	})
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}
	return r
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within the configured timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String(), "nodes", s.graph.Len())
		if err := srv.Serve(ln); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return err
		}
		return nil
	})
	return eg.Wait()
}
