package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"inspira/internal/config"
	"inspira/internal/logging"
	"inspira/internal/pipeline"
	"inspira/internal/project"
)

// Server serves the pipeline HTTP API and project artifacts.
type Server struct {
	bind     string
	logger   *slog.Logger
	pipe     *pipeline.Pipeline
	store    *project.Store
	upgrader websocket.Upgrader

	listener net.Listener
	server   *http.Server
}

func New(cfg *config.Config, pipe *pipeline.Pipeline, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	srv := &Server{
		bind:   strings.TrimSpace(cfg.Paths.Bind),
		logger: logging.NewComponentLogger(logger, "server"),
		pipe:   pipe,
		store:  pipe.Store(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/falar", srv.handleFalar)
	mux.HandleFunc("/transcrever", srv.handleTranscrever)
	mux.HandleFunc("/gerar_csv", srv.handleGerarCSV)
	mux.HandleFunc("/upload_zip", srv.handleUploadZip)
	mux.HandleFunc("/montar_video", srv.handleMontarVideo)
	mux.HandleFunc("/audio/", srv.handleStatic)
	mux.HandleFunc("/csv/", srv.handleStatic)
	mux.HandleFunc("/downloads/", srv.handleStatic)
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/projetos", srv.handleProjetos)
	mux.HandleFunc("/api/eventos", srv.handleEventos)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      15 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler exposes the routed handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens on the configured bind address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.bind, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", "error", err.Error())
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", "address", listener.Addr().String())
	return nil
}

// Stop shuts the server down gracefully.
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

// Addr reports the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
