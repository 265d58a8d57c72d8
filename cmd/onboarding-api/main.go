package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/edvin/onboarding/internal/api"
	"github.com/edvin/onboarding/internal/app"
	"github.com/edvin/onboarding/internal/config"
	"github.com/edvin/onboarding/internal/logging"
	"github.com/edvin/onboarding/internal/mcpserver"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	migrateDirFlag := flag.String("migrate-dir", "migrations/core", "Migration files directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("onboarding-api"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := app.Options{Registerer: prometheus.DefaultRegisterer}
	if *migrateFlag {
		opts.MigrationsDir = *migrateDirFlag
	}
	stack, err := app.New(ctx, cfg, logger, opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build onboarding stack")
	}
	defer stack.Close()

	mcp := mcpserver.New(stack.Service, stack.Backend, stack.Store, logger)

	srv := api.NewServer(logger, api.Deps{
		Service: stack.Service,
		Backend: stack.Backend,
		Store:   stack.Store,
		MCP:     mcp.Handler(),
		APIKey:  cfg.APIKey,
		Checks:  stack.Checks,
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.BackendTimeout*3 + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting onboarding API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}
