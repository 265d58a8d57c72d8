// Package app assembles the onboarding stack from configuration. The API,
// the MCP server and the CLI's --local mode all run on the same assembly.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/edvin/onboarding/internal/adapter"
	"github.com/edvin/onboarding/internal/api"
	"github.com/edvin/onboarding/internal/catalog"
	"github.com/edvin/onboarding/internal/config"
	"github.com/edvin/onboarding/internal/db"
	"github.com/edvin/onboarding/internal/extract"
	"github.com/edvin/onboarding/internal/metrics"
	"github.com/edvin/onboarding/internal/model"
	"github.com/edvin/onboarding/internal/onboarding"
	"github.com/edvin/onboarding/internal/store"
	"github.com/edvin/onboarding/internal/workflow"
)

// Options tune New beyond what Config carries.
type Options struct {
	// MigrationsDir, if set, is applied with goose before the store opens.
	MigrationsDir string
	// Registerer receives the database pool gauges. Nil skips them.
	Registerer prometheus.Registerer
}

// Stack is a fully wired onboarding system.
type Stack struct {
	Catalog   *catalog.Catalog
	Store     store.Store
	Backend   adapter.Backend
	Extractor extract.Extractor
	Service   *onboarding.Service
	Checks    map[string]api.ReadinessCheck

	pool     *pgxpool.Pool
	temporal temporalclient.Client
}

// New builds the stack described by cfg. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts Options) (*Stack, error) {
	st := &Stack{Checks: map[string]api.ReadinessCheck{}}

	cat, err := catalog.LoadOrDefault(cfg.AssetCatalogPath)
	if err != nil {
		return nil, err
	}
	st.Catalog = cat

	if err := st.openStore(ctx, cfg, logger, opts); err != nil {
		return nil, err
	}

	st.Extractor, err = extract.New(cfg, logger)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("create extractor: %w", err)
	}

	st.Backend, err = adapter.NewBackend(cfg, st.Store, cat)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("create backend: %w", err)
	}
	st.Checks["backend"] = func(ctx context.Context) error {
		report := adapter.Aggregate(st.Backend.Health(ctx))
		if report.Status != model.HealthHealthy {
			return fmt.Errorf("backend services %s: %v", report.Status, report.Services)
		}
		return nil
	}

	runner, err := st.newRunner(cfg, logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	st.Service = onboarding.NewService(runner, st.Extractor, st.Store, onboarding.NewHub(), logger)

	logger.Info().
		Str("backend", cfg.BackendMode).
		Str("runner", cfg.Runner).
		Str("extractor", cfg.Extractor).
		Bool("postgres", st.pool != nil).
		Msg("onboarding stack ready")

	return st, nil
}

func (st *Stack) openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts Options) error {
	if cfg.CoreDatabaseURL == "" {
		st.Store = store.NewMemoryStore()
		return nil
	}

	if opts.MigrationsDir != "" {
		logger.Info().Str("dir", opts.MigrationsDir).Msg("running database migrations")
		if err := db.RunMigrations(cfg.CoreDatabaseURL, opts.MigrationsDir); err != nil {
			return err
		}
	}

	pool, err := db.NewCorePool(ctx, cfg.CoreDatabaseURL)
	if err != nil {
		return err
	}
	if opts.Registerer != nil {
		if err := metrics.RegisterPgxPoolMetrics(opts.Registerer, pool); err != nil {
			logger.Warn().Err(err).Msg("failed to register db pool metrics")
		}
	}

	st.pool = pool
	st.Store = store.NewPostgresStore(pool)
	st.Checks["database"] = pool.Ping
	return nil
}

func (st *Stack) newRunner(cfg *config.Config, logger zerolog.Logger) (onboarding.Onboarder, error) {
	if cfg.Runner != config.RunnerTemporal {
		return onboarding.NewRunner(st.Extractor, adapter.New(st.Backend, logger), st.Store, logger), nil
	}

	tc, err := DialTemporal(cfg, logger)
	if err != nil {
		return nil, err
	}
	st.temporal = tc
	st.Checks["temporal"] = func(ctx context.Context) error {
		_, err := tc.CheckHealth(ctx, &temporalclient.CheckHealthRequest{})
		return err
	}
	return workflow.NewTemporalRunner(tc, cfg.TaskQueue, cfg.BackendTimeout, st.Store, logger), nil
}

// DialTemporal connects to the configured Temporal frontend, with mTLS when
// certificates are configured.
func DialTemporal(cfg *config.Config, logger zerolog.Logger) (temporalclient.Client, error) {
	tlsConfig, err := cfg.TemporalTLS()
	if err != nil {
		return nil, fmt.Errorf("configure temporal TLS: %w", err)
	}
	dialOpts := temporalclient.Options{HostPort: cfg.TemporalAddress}
	if tlsConfig != nil {
		dialOpts.ConnectionOptions = temporalclient.ConnectionOptions{TLS: tlsConfig}
		logger.Info().Msg("temporal mTLS enabled")
	}
	tc, err := temporalclient.Dial(dialOpts)
	if err != nil {
		return nil, fmt.Errorf("connect to temporal: %w", err)
	}
	return tc, nil
}

// Close releases the database pool and Temporal client, if any.
func (st *Stack) Close() {
	if st.temporal != nil {
		st.temporal.Close()
	}
	if st.pool != nil {
		st.pool.Close()
	}
}
