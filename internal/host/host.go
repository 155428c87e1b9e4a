// Package host provides the HTTP application surface modules register their
// endpoints into, plus the built-in health and administrative endpoints.
//
// The loading core treats the host as opaque: it only passes the Handle
// surface through to module entry points. Everything else here is plumbing
// around net/http.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// Server is the concrete host: a ServeMux-backed HTTP server. It satisfies
// the plugin.Host interface registered modules receive.
type Server struct {
	logger *slog.Logger
	mux    *http.ServeMux
	srv    *http.Server
}

// NewServer creates a host server listening on addr once Start is called.
// The health endpoint is always present.
func NewServer(logger *slog.Logger, addr string) *Server {
	mux := http.NewServeMux()
	s := &Server{
		logger: logger,
		mux:    mux,
		srv:    &http.Server{Addr: addr, Handler: mux},
	}
	mux.HandleFunc("/health", s.healthHandler)
	return s
}

// Handle registers an HTTP handler under the given ServeMux pattern.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.logger.Debug("Route registered on host.", "pattern", pattern)
	s.mux.Handle(pattern, handler)
}

// HandleFunc is a convenience wrapper over Handle.
func (s *Server) HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.Handle(pattern, http.HandlerFunc(handler))
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// Start runs the HTTP server until Shutdown is called. A clean shutdown
// returns nil.
func (s *Server) Start() error {
	s.logger.Info("Host HTTP server starting.", "address", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Mux exposes the underlying mux, primarily for tests that serve the host
// through httptest.
func (s *Server) Mux() *http.ServeMux {
	return s.mux
}
