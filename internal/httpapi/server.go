// Package httpapi exposes the estimation engine over HTTP. It is a thin
// transport shell: request decoding, error-to-status mapping, and server
// lifecycle live here; every estimation decision stays in the engine.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/renovalab/renovest/internal/engine"
	"github.com/renovalab/renovest/internal/oracle"
	"github.com/renovalab/renovest/internal/valuation"
)

// Estimator is the single engine capability the server needs.
type Estimator interface {
	Estimate(ctx context.Context, req engine.Request) (engine.Result, error)
}

// Logger matches logging.Logger's signature.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Server serves the estimation API on one listener.
type Server struct {
	addr      string
	estimator Estimator
	logger    Logger

	httpServer *http.Server
	listener   net.Listener
}

// Option customizes the server instance.
type Option func(*Server)

// WithLogger injects a server logger.
func WithLogger(logger Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer builds a server bound to addr ("host:port"). Port 0 picks a
// free port; Addr reports the bound address after Start.
func NewServer(addr string, estimator Estimator, opts ...Option) (*Server, error) {
	if estimator == nil {
		return nil, fmt.Errorf("httpapi: estimator is required")
	}
	s := &Server{
		addr:      addr,
		estimator: estimator,
		logger:    nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Router builds the route table. Exposed separately so tests can drive
// handlers through httptest without opening a socket.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/api/estimates", s.handleEstimate).Methods("POST")
	return r
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("httpapi: listen on %s: %w", s.addr, err)
	}
	s.listener = listener

	handler := handlers.RecoveryHandler()(handlers.LoggingHandler(os.Stdout, s.Router()))
	s.httpServer = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("httpapi: serve: %v", err)
		}
	}()
	s.logger.Printf("httpapi: listening on %s", s.Addr())
	return nil
}

// Addr returns the bound listen address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		s.respondError(w, http.StatusBadRequest, "address is required")
		return
	}

	result, err := s.estimator.Estimate(r.Context(), req)
	if err != nil {
		status, msg := statusForError(err)
		s.logger.Printf("httpapi: estimate %q failed (%d): %v", req.Address, status, err)
		s.respondError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// statusForError maps the engine's error taxonomy onto HTTP status codes.
// Each failure class keeps its own code so callers can distinguish bad input
// from oracle faults without parsing messages.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		return http.StatusBadRequest, "address is required"
	case errors.Is(err, oracle.ErrMalformedOutput):
		return http.StatusBadGateway, "property oracle returned malformed output"
	case errors.Is(err, engine.ErrOracleTimeout):
		return http.StatusGatewayTimeout, "property oracle did not answer in time"
	case errors.Is(err, valuation.ErrNoComparables):
		return http.StatusUnprocessableEntity, "no comparable properties with usable values"
	default:
		return http.StatusInternalServerError, "estimation failed"
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
