package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/dashfin/assetgraph/pkg/graph"
	"github.com/dashfin/assetgraph/pkg/pipeline"
)

// Server serves the asset graph API. The guard owns all graph state;
// handlers never touch a bare Graph outside guard.View.
type Server struct {
	guard  *graph.SafeGraph
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer wires the API around an existing guard and runner. A nil
// logger falls back to the default logger.
func NewServer(guard *graph.SafeGraph, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{guard: guard, runner: runner, logger: logger}
}

// Router builds the route tree. Exposed separately from ListenAndServe
// so tests can drive it through httptest.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/assets", s.handleListAssets)
		r.Post("/assets", s.handleAddAsset)
		r.Get("/assets/{id}", s.handleGetAsset)
		r.Post("/events", s.handleAddEvent)
		r.Post("/build", s.handleBuild)
		r.Get("/metrics", s.handleMetrics)
		r.Get("/graph", s.handleSnapshot)
		r.Post("/graph", s.handleRestore)
		r.Get("/viz", s.handleViz)
		r.Get("/render", s.handleRender)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully with a short drain window.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
