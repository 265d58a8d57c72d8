package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendSimulated = "simulated"
	BackendHTTP      = "http"

	RunnerLocal    = "local"
	RunnerTemporal = "temporal"

	ExtractorRegex = "regex"
	ExtractorLLM   = "llm"

	DefaultHTTPListenAddr = ":8090"
)

type Config struct {
	HTTPListenAddr    string
	MetricsListenAddr string
	LogLevel          string
	ServiceName       string

	// BackendMode selects where the create/allocate/notify calls go:
	// "simulated" keeps everything in-process, "http" talks to BackendBaseURL.
	BackendMode    string
	BackendBaseURL string
	// Per-service overrides; empty means BackendBaseURL.
	BackendRecordsURL       string
	BackendAssetsURL        string
	BackendNotificationsURL string
	BackendAPIKey           string
	BackendTimeout          time.Duration
	BackendMaxRetries       int

	CoreDatabaseURL string

	Runner          string
	TemporalAddress string
	TaskQueue       string

	TemporalTLSCert       string
	TemporalTLSKey        string
	TemporalTLSCACert     string
	TemporalTLSServerName string

	APIKey           string
	AssetCatalogPath string

	Extractor  string
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if one exists; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout, err := getDuration("BACKEND_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	retries, err := getInt("BACKEND_MAX_RETRIES", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPListenAddr:          getEnv("HTTP_LISTEN_ADDR", DefaultHTTPListenAddr),
		MetricsListenAddr:       getEnv("METRICS_LISTEN_ADDR", ""),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		ServiceName:             getEnv("SERVICE_NAME", "onboarding-api"),
		BackendMode:             strings.ToLower(getEnv("BACKEND_MODE", BackendSimulated)),
		BackendBaseURL:          strings.TrimRight(getEnv("BACKEND_BASE_URL", ""), "/"),
		BackendRecordsURL:       strings.TrimRight(getEnv("BACKEND_RECORDS_URL", ""), "/"),
		BackendAssetsURL:        strings.TrimRight(getEnv("BACKEND_ASSETS_URL", ""), "/"),
		BackendNotificationsURL: strings.TrimRight(getEnv("BACKEND_NOTIFICATIONS_URL", ""), "/"),
		BackendAPIKey:           getEnv("BACKEND_API_KEY", ""),
		BackendTimeout:          timeout,
		BackendMaxRetries:       retries,
		CoreDatabaseURL:         getEnv("CORE_DATABASE_URL", ""),
		Runner:                  strings.ToLower(getEnv("RUNNER", RunnerLocal)),
		TemporalAddress:         getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		TaskQueue:               getEnv("TEMPORAL_TASK_QUEUE", "onboarding-tasks"),
		TemporalTLSCert:         getEnv("TEMPORAL_TLS_CERT", ""),
		TemporalTLSKey:          getEnv("TEMPORAL_TLS_KEY", ""),
		TemporalTLSCACert:       getEnv("TEMPORAL_TLS_CA_CERT", ""),
		TemporalTLSServerName:   getEnv("TEMPORAL_TLS_SERVER_NAME", ""),
		APIKey:                  getEnv("API_KEY", ""),
		AssetCatalogPath:        getEnv("ASSET_CATALOG_PATH", ""),
		Extractor:               strings.ToLower(getEnv("EXTRACTOR", ExtractorRegex)),
		LLMBaseURL:              strings.TrimRight(getEnv("LLM_BASE_URL", ""), "/"),
		LLMAPIKey:               getEnv("LLM_API_KEY", ""),
		LLMModel:                getEnv("LLM_MODEL", ""),
	}

	return cfg, nil
}

// Validate checks that the fields required by the given component are set.
// Known components: "onboarding-api", "mcp-server", "worker".
func (c *Config) Validate(component string) error {
	var missing []string
	var problems []string

	switch component {
	case "onboarding-api", "mcp-server":
		if c.HTTPListenAddr == "" {
			missing = append(missing, "HTTP_LISTEN_ADDR")
		}
		if c.Runner == RunnerTemporal && c.TemporalAddress == "" {
			missing = append(missing, "TEMPORAL_ADDRESS")
		}
	case "worker":
		if c.TemporalAddress == "" {
			missing = append(missing, "TEMPORAL_ADDRESS")
		}
	}

	switch c.BackendMode {
	case BackendSimulated:
	case BackendHTTP:
		if c.BackendBaseURL == "" && (c.BackendRecordsURL == "" || c.BackendAssetsURL == "" || c.BackendNotificationsURL == "") {
			missing = append(missing, "BACKEND_BASE_URL")
		}
	default:
		problems = append(problems, fmt.Sprintf("BACKEND_MODE must be %q or %q, got %q", BackendSimulated, BackendHTTP, c.BackendMode))
	}

	if c.Runner != RunnerLocal && c.Runner != RunnerTemporal {
		problems = append(problems, fmt.Sprintf("RUNNER must be %q or %q, got %q", RunnerLocal, RunnerTemporal, c.Runner))
	}

	if c.Extractor == ExtractorLLM && (c.LLMBaseURL == "" || c.LLMModel == "") {
		missing = append(missing, "LLM_BASE_URL", "LLM_MODEL")
	}

	if c.BackendMaxRetries < 0 {
		problems = append(problems, "BACKEND_MAX_RETRIES must not be negative")
	}

	if (c.TemporalTLSCert == "") != (c.TemporalTLSKey == "") {
		problems = append(problems, "TEMPORAL_TLS_CERT and TEMPORAL_TLS_KEY must both be set")
	}

	if len(missing) > 0 {
		problems = append([]string{"missing required config: " + strings.Join(missing, ", ")}, problems...)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// ServiceURL returns the base URL of one backend service, falling back to
// BackendBaseURL when no override is set.
func (c *Config) ServiceURL(override string) string {
	if override != "" {
		return override
	}
	return c.BackendBaseURL
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}
