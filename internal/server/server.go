// Package server exposes the run's Prometheus registry over HTTP, together
// with a liveness endpoint, for scraping long evaluations.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/streamml/aleval/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server serves /metrics and /healthz on a dedicated listener.
type Server struct {
	httpServer *http.Server
	metrics    http.Handler
	logger     logging.Logger
}

// New creates a server for the given registry, listening on addr.
func New(addr string, registry *prometheus.Registry, logger logging.Logger) *Server {
	s := &Server{
		metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", securityHeaders(s.handleMetrics))
	mux.HandleFunc("/healthz", securityHeaders(s.handleHealthz))

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Run serves until the context is canceled, then shuts down gracefully.
// A closed listener at shutdown is not reported as an error.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()
	s.logger.Info("metrics server listening", logging.String("addr", s.httpServer.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// handleMetrics serves the Prometheus exposition. Only GET is allowed.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.logger.Debug("method not allowed",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path))
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.ServeHTTP(w, r)
}

// handleHealthz reports liveness. Only GET is allowed.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// securityHeaders sets conservative response headers on every reply. The
// endpoints serve plain text only, so everything active is denied.
func securityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next(w, r)
	}
}
