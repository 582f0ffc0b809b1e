package web

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/YuminosukeSato/irisboard/pkg/errors"
	"github.com/YuminosukeSato/irisboard/pkg/log"
)

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64
}

// Server serves an App over HTTP.
type Server struct {
	server *http.Server
	logger log.Logger
}

// serverChain is the middleware every route runs behind. Logger is outermost
// so a recovered panic still carries the request id and gets a request line.
func serverChain(logger log.Logger, maxBodyBytes int64) Middleware {
	return Chain(
		Logger(logger),
		Recovery(logger),
		SecurityHeaders,
		RequestSize(maxBodyBytes),
	)
}

// NewServer wraps the app routes in the middleware chain.
func NewServer(cfg ServerConfig, app *App) *Server {
	logger := app.logger.With(log.ComponentKey, "http")

	chain := serverChain(logger, cfg.MaxBodyBytes)

	return &Server{
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           chain(app.Routes()),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start listens and serves until Stop is called.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return errors.Wrapf(err, "web: listen on %s", s.server.Addr)
	}
	return s.Serve(ln)
}

// Serve serves on ln until Stop is called.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("http server started", "addr", ln.Addr().String())
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "web: serve")
	}
	return nil
}

// Stop gracefully shuts the server down, waiting for in-flight requests
// until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "web: shutdown")
	}
	return nil
}
