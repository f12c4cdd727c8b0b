package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"log/slog"

	"inkjet/internal/api"
	"inkjet/internal/config"
	"inkjet/internal/convert"
	"inkjet/internal/history"
	"inkjet/internal/logging"
)

//go:embed static
var staticFiles embed.FS

// StatusFunc supplies the daemon status snapshot served at /api/status.
type StatusFunc func() api.DaemonStatus

// Server is the daemon's HTTP API server.
type Server struct {
	bind            string
	token           string
	maxRequestBytes int64
	pipeline        *convert.Pipeline
	store           *history.Store
	status          StatusFunc
	logger          *slog.Logger

	listener net.Listener
	server   *http.Server
}

// New assembles the server from the daemon's wired components. store may be
// nil when history recording is disabled; status may be nil, in which case
// /api/status reports a minimal payload.
func New(cfg *config.Config, pipeline *convert.Pipeline, store *history.Store, status StatusFunc, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server requires configuration")
	}
	if pipeline == nil {
		return nil, errors.New("server requires a conversion pipeline")
	}
	srv := &Server{
		bind:            cfg.Paths.APIBind,
		token:           cfg.Paths.APIToken,
		maxRequestBytes: cfg.Convert.MaxRequestBytes,
		pipeline:        pipeline,
		store:           store,
		status:          status,
		logger:          logger,
	}
	srv.server = &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		// WriteTimeout stays zero: PDF streaming runs until the vendor
		// finishes and must not be cut off mid-body.
		IdleTimeout: 60 * time.Second,
	}
	return srv, nil
}

// Handler returns the routed HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/generate-pdf", authMiddleware(s.token, s.handleGenerate))
	mux.HandleFunc("/api/status", authMiddleware(s.token, s.handleStatus))
	mux.HandleFunc("/api/history", authMiddleware(s.token, s.handleHistory))
	return mux
}

// Start begins serving until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down, letting in-flight requests finish briefly.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound listen address, useful when bind uses port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		http.Error(w, "static assets unavailable", http.StatusInternalServerError)
		return
	}
	http.ServeFileFS(w, r, sub, "index.html")
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
