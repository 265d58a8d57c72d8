package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/onboarding/internal/adapter"
	"github.com/edvin/onboarding/internal/api/handler"
	mw "github.com/edvin/onboarding/internal/api/middleware"
	"github.com/edvin/onboarding/internal/onboarding"
	"github.com/edvin/onboarding/internal/store"
)

// ReadinessCheck reports whether one dependency is usable.
type ReadinessCheck func(ctx context.Context) error

// Deps are the collaborators the HTTP surface serves.
type Deps struct {
	Service *onboarding.Service
	Backend adapter.Backend
	Store   store.Store
	// MCP, if set, is mounted at /mcp.
	MCP    http.Handler
	APIKey string
	// Checks run on /readyz, keyed by dependency name.
	Checks map[string]ReadinessCheck
}

type Server struct {
	router chi.Router
	logger zerolog.Logger
	deps   Deps
}

func NewServer(logger zerolog.Logger, deps Deps) *Server {
	s := &Server{
		router: chi.NewRouter(),
		logger: logger,
		deps:   deps,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	backend := handler.NewBackend(s.deps.Backend, s.deps.Store)
	s.router.Get("/health", backend.Health)

	auth := mw.APIKey(s.deps.APIKey)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth)

		onboard := handler.NewOnboarding(s.deps.Service)
		r.Post("/onboard", onboard.Onboard)
		r.Post("/extract", onboard.Extract)
		r.Get("/runs", onboard.ListRuns)
		r.Get("/runs/{id}", onboard.GetRun)
		r.Post("/reset", onboard.Reset)

		stream := handler.NewStream(s.deps.Service.Hub())
		r.Get("/runs/stream", stream.Progress)
	})

	// Service contract used by the HTTP backend.
	s.router.Group(func(r chi.Router) {
		r.Use(auth)

		r.Post("/employees", backend.CreateEmployee)
		r.Get("/employees", backend.ListEmployees)
		r.Get("/employees/{id}", backend.GetEmployee)
		r.Post("/assets/allocate", backend.AllocateAssets)
		r.Get("/assets", backend.ListAssets)
		r.Post("/notifications/welcome", backend.SendWelcome)
		r.Get("/notifications", backend.ListNotifications)

		if s.deps.MCP != nil {
			r.Mount("/mcp", s.deps.MCP)
		}
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	for name, check := range s.deps.Checks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			healthy = false
		} else {
			checks[name] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
