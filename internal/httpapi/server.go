package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Server wraps http.Server to provide graceful startup and shutdown helpers.
type Server struct {
	server *http.Server
}

// NewServer creates a configured HTTP server instance.
func NewServer(addr string, handler http.Handler) *Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start runs the HTTP server in the current goroutine.
// It returns nil once Shutdown has been called.
func (s *Server) Start() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
