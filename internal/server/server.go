package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"ordercard/internal/config"
)

// writeSlack is the time a redeem request gets on top of the registry lock
// wait to record, answer and flush.
const writeSlack = 30 * time.Second

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New builds the registry HTTP server. A redeem request may block for the
// whole lock timeout, so the write timeout is derived from it.
func New(cfg config.ServerConfig, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      cfg.LockTimeout + writeSlack,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting registry server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown waits for in-flight redemptions until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down registry server")
	return s.httpServer.Shutdown(ctx)
}
