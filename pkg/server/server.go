// Package server assembles the HTTP surface: routes, middleware chain, and
// listener lifecycle with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/TociNwaoha/IQBandit/pkg/config"
)

// Server owns the HTTP listener.
type Server struct {
	cfg        config.ServerConfig
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates the server around the assembled routes.
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	router := newRouter(deps)

	return &Server{
		cfg: cfg,
		httpServer: &http.Server{
			Addr:        cfg.ListenAddress,
			Handler:     router,
			ReadTimeout: cfg.ReadTimeout,
			// WriteTimeout intentionally comes straight from config and
			// defaults to zero: SSE relays have no bounded duration.
			WriteTimeout:   cfg.WriteTimeout,
			IdleTimeout:    cfg.IdleTimeout,
			MaxHeaderBytes: cfg.MaxHeaderBytes,
		},
		logger: slog.Default().With("component", "server"),
	}
}

// Start runs the listener until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "address", s.cfg.ListenAddress)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
