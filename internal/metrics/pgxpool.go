package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterPgxPoolMetrics exposes the onboarding database pool statistics as
// gauges on reg.
func RegisterPgxPoolMetrics(reg prometheus.Registerer, pool *pgxpool.Pool) error {
	gauges := []struct {
		name, help string
		value      func(*pgxpool.Stat) int32
	}{
		{"onboarding_db_acquired_conns", "Connections currently acquired from the pool", (*pgxpool.Stat).AcquiredConns},
		{"onboarding_db_idle_conns", "Idle connections in the pool", (*pgxpool.Stat).IdleConns},
		{"onboarding_db_total_conns", "Total connections in the pool", (*pgxpool.Stat).TotalConns},
		{"onboarding_db_max_conns", "Maximum connections allowed in the pool", (*pgxpool.Stat).MaxConns},
	}

	for _, g := range gauges {
		value := g.value
		err := reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: g.name, Help: g.help}, func() float64 {
			return float64(value(pool.Stat()))
		}))
		if err != nil {
			return err
		}
	}
	return nil
}
