package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/brandlens/brandlens/internal/analyze"
	"github.com/brandlens/brandlens/internal/task"
)

// Server exposes the upload, status, logs and download endpoints.
type Server struct {
	store     task.Store
	runner    *analyze.Runner
	uploadDir string
	maxBytes  int64
	http      *http.Server
}

func New(store task.Store, runner *analyze.Runner, uploadDir string, maxBytes int64, port int) *Server {
	s := &Server{
		store:     store,
		runner:    runner,
		uploadDir: uploadDir,
		maxBytes:  maxBytes,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Post("/upload", s.handleUpload)
	r.Get("/status", s.handleStatus)
	r.Get("/logs", s.handleLogs)
	r.Get("/download", s.handleDownload)
	r.Get("/health", s.handleHealth)

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the underlying router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) ListenAndServe() error {
	zap.L().Info("http server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return eris.Wrap(s.http.Shutdown(ctx), "server: shutdown")
}
