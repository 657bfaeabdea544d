// Package server exposes the chat gateway over HTTP, Server-Sent Events and
// WebSocket.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/petal-labs/chatgate/gateway"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8000"

// Chatter answers chat requests. *gateway.Dispatcher implements it.
type Chatter interface {
	Chat(ctx context.Context, req gateway.ChatRequest) (*gateway.ChatResult, error)
	Stream(ctx context.Context, req gateway.ChatRequest) (<-chan gateway.Frame, error)
	DefaultProvider() string
}

// ProviderSet lists providers and probes their health. *providers.Registry
// implements it.
type ProviderSet interface {
	List() []string
	HealthAll(ctx context.Context) map[string]bool
}

// HealthProber reports whether a dependency is reachable.
// *retrieval.Client implements it.
type HealthProber interface {
	Health(ctx context.Context) bool
}

// Server is the HTTP API server.
type Server struct {
	addr       string
	version    string
	chat       Chatter
	providers  ProviderSet
	retrieval  HealthProber
	logger     *slog.Logger
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. Default ":8000".
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithRetrieval adds the retrieval service to /health.
func WithRetrieval(p HealthProber) Option {
	return func(s *Server) {
		s.retrieval = p
	}
}

// WithVersion sets the version reported by the root endpoint.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a new API server.
func New(chat Chatter, providers ProviderSet, opts ...Option) *Server {
	s := &Server{
		addr:      DefaultAddr,
		version:   "dev",
		chat:      chat,
		providers: providers,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "server")
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /chat/stream", s.handleChatStream)
	mux.HandleFunc("GET /chat/ws", s.handleChatWS)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /providers", s.handleProviders)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	return s.requestIDMiddleware(s.corsMiddleware(s.loggingMiddleware(mux)))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.logger.Info("API server starting", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
