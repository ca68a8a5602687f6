// Package server exposes the mapping workflow over HTTP. Each upload gets
// an in-memory session that is reviewed, processed and downloaded through
// the /api/sessions routes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/KaramelBytes/salesloom-cli/internal/dataset"
	"github.com/KaramelBytes/salesloom-cli/internal/logging"
	"github.com/KaramelBytes/salesloom-cli/internal/session"
)

const shutdownTimeout = 10 * time.Second

// Options configures the HTTP API.
type Options struct {
	Addr           string
	AllowedOrigins []string
	// MaxUploadBytes caps the request body of an upload. Zero means 100 MiB.
	MaxUploadBytes int64
	// SessionTTL evicts sessions idle for longer. Zero disables eviction.
	SessionTTL time.Duration
	// Loader is the base decoding configuration for uploads.
	Loader dataset.Options
}

// Server wires the session store to a chi router.
type Server struct {
	opt   Options
	store *session.Store
	log   *zap.Logger
}

// New returns a server backed by store.
func New(opt Options, store *session.Store, log *zap.Logger) *Server {
	if opt.MaxUploadBytes <= 0 {
		opt.MaxUploadBytes = 100 << 20
	}
	if len(opt.AllowedOrigins) == 0 {
		opt.AllowedOrigins = []string{"*"}
	}
	return &Server{opt: opt, store: store, log: logging.OrNop(log)}
}

// Handler returns the router with middleware and all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opt.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes mounts the API on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/health", s.health)
	r.Get("/api/rules", s.rules)
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Put("/mapping", s.putMapping)
			r.Post("/process", s.process)
			r.Get("/canonical", s.downloadCanonical)
		})
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully. The
// session sweeper runs for the lifetime of the server.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opt.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if s.opt.SessionTTL > 0 {
		go s.store.RunSweeper(sweepCtx, s.opt.SessionTTL, sweepInterval(s.opt.SessionTTL))
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening",
			zap.String("addr", s.opt.Addr),
			zap.Strings("allowed_origins", s.opt.AllowedOrigins),
			zap.Duration("session_ttl", s.opt.SessionTTL))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func sweepInterval(ttl time.Duration) time.Duration {
	iv := ttl / 4
	if iv < time.Second {
		iv = time.Second
	}
	if iv > time.Minute {
		iv = time.Minute
	}
	return iv
}
