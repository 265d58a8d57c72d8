package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	temporalclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/worker"

	"github.com/edvin/onboarding/internal/activity"
	"github.com/edvin/onboarding/internal/adapter"
	"github.com/edvin/onboarding/internal/app"
	"github.com/edvin/onboarding/internal/config"
	"github.com/edvin/onboarding/internal/logging"
	"github.com/edvin/onboarding/internal/metrics"
	"github.com/edvin/onboarding/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("worker"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Activities call the backend directly; only the workflow runs on Temporal.
	local := *cfg
	local.Runner = config.RunnerLocal
	stack, err := app.New(ctx, &local, logger, app.Options{Registerer: prometheus.DefaultRegisterer})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build onboarding stack")
	}
	defer stack.Close()

	tc, err := app.DialTemporal(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to temporal")
	}
	defer tc.Close()

	w := worker.New(tc, cfg.TaskQueue, worker.Options{
		Interceptors: []interceptor.WorkerInterceptor{&workflow.ErrorTypingInterceptor{}},
	})

	w.RegisterActivity(activity.NewOnboarding(stack.Extractor, adapter.New(stack.Backend, logger), stack.Store))
	w.RegisterWorkflow(workflow.OnboardEmployeeWorkflow)

	if cfg.MetricsListenAddr != "" {
		checks := map[string]metrics.Check{
			"temporal": func(ctx context.Context) error {
				_, err := tc.CheckHealth(ctx, &temporalclient.CheckHealthRequest{})
				return err
			},
		}
		for name, check := range stack.Checks {
			checks[name] = metrics.Check(check)
		}
		metricsSrv := metrics.NewServer(cfg.MetricsListenAddr, checks)
		go func() {
			logger.Info().Str("addr", cfg.MetricsListenAddr).Msg("starting metrics server")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	go func() {
		logger.Info().Str("taskQueue", cfg.TaskQueue).Msg("starting temporal worker")
		if err := w.Run(worker.InterruptCh()); err != nil {
			logger.Fatal().Err(err).Msg("worker failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down worker")
	cancel()
}
