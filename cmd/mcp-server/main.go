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

	"github.com/edvin/onboarding/internal/app"
	"github.com/edvin/onboarding/internal/config"
	"github.com/edvin/onboarding/internal/logging"
	"github.com/edvin/onboarding/internal/mcpserver"
)

func main() {
	addr := flag.String("addr", "", "Listen address (overrides MCP_ADDR and HTTP_LISTEN_ADDR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Override listen address from environment
	if envAddr := os.Getenv("MCP_ADDR"); envAddr != "" {
		cfg.HTTPListenAddr = envAddr
	}
	if *addr != "" {
		cfg.HTTPListenAddr = *addr
	}

	if err := cfg.Validate("mcp-server"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	stack, err := app.New(context.Background(), cfg, logger, app.Options{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build onboarding stack")
	}
	defer stack.Close()

	srv := mcpserver.New(stack.Service, stack.Backend, stack.Store, logger)

	httpSrv := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("MCP server starting")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-done
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}
