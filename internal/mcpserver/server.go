// Package mcpserver exposes onboarding operations as MCP tools.
package mcpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/edvin/onboarding/internal/adapter"
	"github.com/edvin/onboarding/internal/onboarding"
	"github.com/edvin/onboarding/internal/store"
)

const instructions = "Employee onboarding: run a plain-language onboarding instruction " +
	"(name, email, role and department) through record creation, asset allocation " +
	"and welcome notifications, or inspect employees, assets and service health."

// Server serves the onboarding MCP tools over streamable HTTP.
type Server struct {
	router chi.Router
	mcp    *server.MCPServer
	logger zerolog.Logger
}

// New builds the MCP server with every onboarding tool registered.
func New(svc *onboarding.Service, backend adapter.Backend, s store.Store, logger zerolog.Logger) *Server {
	mcpSrv := server.NewMCPServer(
		"onboarding",
		"1.0.0",
		server.WithInstructions(instructions),
	)
	t := &tools{svc: svc, backend: backend, store: s}
	mcpSrv.AddTools(t.serverTools()...)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	router.Mount("/mcp", server.NewStreamableHTTPServer(mcpSrv, server.WithEndpointPath("/")))

	logger.Info().Int("tools", len(t.serverTools())).Msg("registered MCP tools")

	return &Server{router: router, mcp: mcpSrv, logger: logger}
}

// Handler returns the bare streamable HTTP endpoint, for mounting inside
// another router.
func (s *Server) Handler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp, server.WithEndpointPath("/"))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
