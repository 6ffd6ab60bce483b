package api

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.temporal.io/sdk/client"

	platformobservability "github.com/Apurer/go-gin-marketplace/internal/platform/observability"
)

// Storage backends selectable through STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config carries environment-driven settings shared by the API, worker, and sweeper processes.
type Config struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	Environment       string        `env:"ENVIRONMENT" envDefault:"local"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	OTLPEndpoint      string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure      bool          `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	StorageBackend    string        `env:"STORAGE_BACKEND" envDefault:"memory"`
	StorageQuotaBytes int           `env:"STORAGE_QUOTA_BYTES" envDefault:"5242880"`
	PostgresDSN       string        `env:"POSTGRES_DSN"`
	SQLitePath        string        `env:"SQLITE_PATH" envDefault:"marketplace.db"`
	TemporalAddress   string        `env:"TEMPORAL_ADDRESS"`
	TemporalNamespace string        `env:"TEMPORAL_NAMESPACE"`
	TemporalDisabled  bool          `env:"TEMPORAL_DISABLED"`
	SweepInterval     time.Duration `env:"STORAGE_SWEEP_INTERVAL"`
	IdleTTL           time.Duration `env:"STORAGE_IDLE_TTL" envDefault:"720h"`
	SessionIdleTTL    time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	SessionReapEvery  time.Duration `env:"SESSION_REAP_INTERVAL" envDefault:"1m"`
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	cfg.PostgresDSN = strings.TrimSpace(cfg.PostgresDSN)
	if strings.TrimSpace(cfg.TemporalAddress) == "" {
		cfg.TemporalAddress = client.DefaultHostPort
	}
	if strings.TrimSpace(cfg.TemporalNamespace) == "" {
		cfg.TemporalNamespace = client.DefaultNamespace
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendPostgres, BackendSQLite:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of %s, %s, %s", BackendMemory, BackendPostgres, BackendSQLite)
	}
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.StorageQuotaBytes < 0 {
		return fmt.Errorf("STORAGE_QUOTA_BYTES must not be negative")
	}
	if c.SweepInterval < 0 {
		return fmt.Errorf("STORAGE_SWEEP_INTERVAL must not be negative")
	}
	if c.IdleTTL <= 0 {
		return fmt.Errorf("STORAGE_IDLE_TTL must be positive")
	}
	if c.SessionIdleTTL <= 0 || c.SessionIdleTTL > c.IdleTTL {
		return fmt.Errorf("SESSION_IDLE_TTL must be positive and not exceed STORAGE_IDLE_TTL")
	}
	if c.SessionReapEvery <= 0 {
		return fmt.Errorf("SESSION_REAP_INTERVAL must be positive")
	}
	return nil
}

// Observability projects the settings consumed by platform observability.
func (c Config) Observability(serviceName string) platformobservability.Config {
	return platformobservability.Config{
		ServiceName:  serviceName,
		Environment:  c.Environment,
		OTLPEndpoint: c.OTLPEndpoint,
		OTLPInsecure: c.OTLPInsecure,
		LogLevel:     parseLevel(c.LogLevel),
	}
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo
	}
	return level
}
