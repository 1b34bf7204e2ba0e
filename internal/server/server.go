// Package server implements the inbound webhook: subscription verification,
// message intake, command dispatch and the free-text summarization path.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"newsbot/internal/config"
	"newsbot/internal/store"
	"newsbot/internal/summarize"
	"newsbot/internal/whatsapp"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server represents the webhook HTTP server.
type Server struct {
	router      *chi.Mux
	httpServer  *http.Server
	users       store.UserStore
	summarizer  summarize.Summarizer
	sender      whatsapp.Sender
	verifyToken string
}

// New creates a new webhook server instance.
func New(cfg config.Server, verifyToken string, users store.UserStore, summarizer summarize.Summarizer, sender whatsapp.Sender) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		users:       users,
		summarizer:  summarizer,
		sender:      sender,
		verifyToken: verifyToken,
	}

	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  parseDuration(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout: parseDuration(cfg.WriteTimeout, 30*time.Second),
	}

	return s
}

// setupMiddleware configures middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

// setupRoutes configures routes for the server
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/webhook", s.handleVerify)
	s.router.Post("/webhook", s.handleReceive)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
