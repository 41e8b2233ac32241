// Package server exposes the lot store, the filter configuration and the
// check pipeline over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"lotwatch/torgiwatch/internal/model"
	"lotwatch/torgiwatch/logger"
	"lotwatch/torgiwatch/services/worker"
)

const httpServerReadHeaderTimeout = 5 * time.Second

// Store is the part of the repository the API reads and writes
type Store interface {
	Get(ctx context.Context, lotNumber string) (model.Lot, error)
	List(ctx context.Context, q model.ListQuery) ([]model.Lot, error)
	Count(ctx context.Context) (int, error)
	StatusHistory(ctx context.Context, lotNumber string) ([]model.StatusChange, error)
	GetFilter(ctx context.Context) (model.Filter, bool, error)
	SaveFilter(ctx context.Context, filter model.Filter) error
}

// Checker runs a check on demand
type Checker interface {
	Check(ctx context.Context, maxPages int) (worker.Summary, error)
}

// Options are the check settings reported and used by the API
type Options struct {
	MaxPagesCheck int
	MaxPagesFull  int
	CheckInterval time.Duration
}

// Server serves the HTTP API
type Server struct {
	store   Store
	checker Checker
	opts    Options
	now     func() time.Time
}

// NewServer creates the API server
func NewServer(store Store, checker Checker, opts Options) *Server {
	return &Server{
		store:   store,
		checker: checker,
		opts:    opts,
		now:     time.Now,
	}
}

// Handler returns the router with recovery and request logging
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	s.RegisterRoutes(r)
	return r
}

// Run serves the API on addr until ctx is done
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		if err := httpServer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("web server shutdown: %v", err)
		}
	}()

	log := logger.ForServer()
	log.Info().Str("address", addr).Msg("web server started")

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	}

	log.Info().Msg("web server stopped")
	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		logger.ForServer().Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
