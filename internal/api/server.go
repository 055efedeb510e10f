// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Every /api route sits behind the API key gate; session authentication is optional
    per route and enforced by the domain routers.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/medscope/medscope/internal/files/download"
	"github.com/medscope/medscope/internal/platform/config"
	"github.com/medscope/medscope/internal/platform/constants"
	"github.com/medscope/medscope/internal/platform/middleware"
	"github.com/medscope/medscope/internal/users/account"
	"github.com/medscope/medscope/internal/users/apikey"
	"github.com/medscope/medscope/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles login, logout and session token administration.
	Auth *auth.Handler

	// Accounts handles profiles and user administration.
	Accounts *account.Handler

	// APIKeys handles API key administration.
	APIKeys *apikey.Handler

	// Downloads issues and redeems download tokens.
	Downloads *download.Handler
}

// Gates holds the two credential checks applied to /api.
type Gates struct {
	APIKeys  middleware.APIKeyVerifier
	Sessions middleware.SessionResolver
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, gates Gates, h Handlers) *Server {
	r := NewRouter(context, cfg, log, gates, h)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter builds the routing tree. It is exported for end-to-end handler tests.
func NewRouter(context context.Context, cfg *config.Config, log *slog.Logger, gates Gates, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution. The JSON request timeout is
	// applied per group so document streams are bound only by the server write timeout.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg, cfg.ExtraOrigins))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.RequireAPIKey(gates.APIKeys))
		api.Use(middleware.Authenticate(gates.Sessions))

		api.Mount("/downloads", h.Downloads.Routes())

		api.Group(func(json chi.Router) {
			json.Use(chimw.Timeout(constants.GlobalRequestTimeout))
			json.Mount("/users", h.Accounts.Routes())
			json.Mount("/apiKeys", h.APIKeys.Routes())
			json.Mount("/", h.Auth.Routes())
		})
	})

	return r
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
