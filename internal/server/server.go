// Package server wires the HTTP router and runs it until the context ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammed-shakir/georelate/internal/api"
	"github.com/mohammed-shakir/georelate/internal/config"
	"github.com/mohammed-shakir/georelate/internal/health"
	"github.com/mohammed-shakir/georelate/internal/middleware"
)

// Router builds the full route table: probes, metrics and the /v1 API.
func Router(cfg config.Config, logger *slog.Logger, h *api.Handler, checks map[string]health.Checker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(checks, 2*time.Second))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	h.Routes(r)
	return r
}

// Run serves handler on cfg.Addr and shuts down gracefully when ctx is done.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, handler http.Handler) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	return Serve(ctx, ln, logger, handler)
}

func Serve(ctx context.Context, ln net.Listener, logger *slog.Logger, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
