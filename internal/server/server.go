// Package server exposes the dashboard over HTTP. Every request is one
// render pass over the cached table, tagged with a render ID.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hupe1980/pokedash/internal/dataset"
	"github.com/hupe1980/pokedash/internal/output"
)

// RenderIDHeader carries the render ID of a response.
const RenderIDHeader = "X-Render-ID"

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server serves the dashboard, its charts and a JSON API.
type Server struct {
	cache   *dataset.Cache
	formats *output.Registry
	logger  *slog.Logger
	router  *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the base logger for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithFormats replaces the format registry used by /api/dashboard.
func WithFormats(r *output.Registry) Option {
	return func(s *Server) {
		s.formats = r
	}
}

// New creates a Server reading from cache.
func New(cache *dataset.Cache, opts ...Option) *Server {
	s := &Server{
		cache:   cache,
		formats: output.DefaultRegistry(output.Options{NoColor: true, Interactive: true}),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.router = s.routes()

	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.withRenderID)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/charts/{name:[a-z0-9-]+}.svg", s.handleChart).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/creatures", s.handleCreatures).Methods(http.MethodGet)
	api.HandleFunc("/options", s.handleOptions).Methods(http.MethodGet)
	api.HandleFunc("/reload", s.handleReload).Methods(http.MethodPost)

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("serving dashboard", slog.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down server")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	<-errCh

	return nil
}
