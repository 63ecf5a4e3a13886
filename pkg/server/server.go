// Package server exposes layout planning over HTTP.
//
// Clients post a segment list and layout options; the server allocates the
// plan, stores it under a fresh id and returns it. Stored plans can then
// be queried for their level table, their per-segment spacing, or the
// pixel of any logical position, which is what a viewer needs for
// mouse-over lookups.
//
//	POST   /layouts                      plan and store a layout
//	GET    /layouts                      list stored layouts, newest first
//	GET    /layouts/{id}                 one stored layout
//	DELETE /layouts/{id}
//	GET    /layouts/{id}/levels          level table
//	GET    /layouts/{id}/spacing         segment spacing
//	GET    /layouts/{id}/position?index= pixel of a logical index
//	GET    /healthz
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/seqgrid/pkg/observability"
	"github.com/matzehuels/seqgrid/pkg/pipeline"
	"github.com/matzehuels/seqgrid/pkg/storage"
)

// Defaults for zero Config fields.
const (
	DefaultAddr           = ":8080"
	DefaultRequestTimeout = 60 * time.Second
	DefaultMaxBodyBytes   = 8 << 20
	DefaultListLimit      = 50

	shutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr           string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	Logger         *log.Logger
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
}

// Server is the HTTP API. It is safe for concurrent use; every request
// plans on its own frame.
type Server struct {
	runner *pipeline.Runner
	store  storage.Store
	cfg    Config
	logger *log.Logger
	router chi.Router
}

// New wires the routes.
func New(runner *pipeline.Runner, store storage.Store, cfg Config) *Server {
	cfg.setDefaults()
	s := &Server{
		runner: runner,
		store:  store,
		cfg:    cfg,
		logger: cfg.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/layouts", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/levels", s.handleLevels)
			r.Get("/spacing", s.handleSpacing)
			r.Get("/position", s.handlePosition)
		})
	})
	return r
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// observe reports every request to the server hooks and the log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
