package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dygy/pitchport/internal/predict"
)

// Config holds server configuration
type Config struct {
	Bind        string
	CORSEnabled bool
	// MaxUploadBytes caps request bodies when non-zero; zero means no cap.
	MaxUploadBytes int64
	PredictTimeout time.Duration
}

// Server is the HTTP server
type Server struct {
	config    Config
	router    *chi.Mux
	logger    *slog.Logger
	predictor predict.Predictor
}

// New creates a new server with the given predictor injected
func New(cfg Config, predictor predict.Predictor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	if cfg.PredictTimeout <= 0 {
		cfg.PredictTimeout = 3 * time.Minute
	}

	s := &Server{
		config:    cfg,
		router:    chi.NewRouter(),
		logger:    logger,
		predictor: predictor,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	r := s.router

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if s.config.CORSEnabled {
		// Permissive policy for public/demo deployments only.
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"*"},
		}))
	}

	r.Get("/health", s.handleHealth)
	r.Post("/convert", s.handleConvert)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server and blocks until shutdown
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Bind,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.config.PredictTimeout + time.Minute, // prediction happens inside the request
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		s.logger.Info("shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	s.logger.Info("server starting", slog.String("bind", s.config.Bind), slog.Bool("cors", s.config.CORSEnabled))

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	<-done
	return nil
}
