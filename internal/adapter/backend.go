package adapter

import (
	"fmt"

	"github.com/edvin/onboarding/internal/catalog"
	"github.com/edvin/onboarding/internal/config"
	"github.com/edvin/onboarding/internal/store"
)

// NewBackend returns the backend selected by cfg.BackendMode.
func NewBackend(cfg *config.Config, s store.Store, c *catalog.Catalog) (Backend, error) {
	switch cfg.BackendMode {
	case config.BackendSimulated, "":
		return NewSimulated(s, c), nil
	case config.BackendHTTP:
		return NewHTTPBackend(HTTPConfig{
			RecordsURL:       cfg.ServiceURL(cfg.BackendRecordsURL),
			AssetsURL:        cfg.ServiceURL(cfg.BackendAssetsURL),
			NotificationsURL: cfg.ServiceURL(cfg.BackendNotificationsURL),
			APIKey:           cfg.BackendAPIKey,
			Timeout:          cfg.BackendTimeout,
			MaxRetries:       cfg.BackendMaxRetries,
		}, c), nil
	default:
		return nil, fmt.Errorf("unknown backend mode %q", cfg.BackendMode)
	}
}
