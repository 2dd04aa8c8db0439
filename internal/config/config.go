package config

import (
	"fmt"
	"os"
	"time"

	pkgconfig "github.com/Eggie20/Online-Supermarket/pkg/config"
)

// Storage backends for the per-profile cart and wishlist keys.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// InstanceID names this replica in forwarded events. Defaults to the hostname.
	InstanceID string `env:"INSTANCE_ID"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Storage
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"sqlite"`

	// SQLite
	SQLitePath        string        `env:"SQLITE_PATH" envDefault:"storefront.db"`
	SQLiteBusyTimeout time.Duration `env:"SQLITE_BUSY_TIMEOUT" envDefault:"5s"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Profile key TTL in hours (default: 30 days). Zero keeps keys forever.
	RedisTTL int `env:"REDIS_TTL_HOURS" envDefault:"720"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Confirmations
	ConfirmTTL           time.Duration `env:"CONFIRM_TTL" envDefault:"5m"`
	ConfirmSweepInterval time.Duration `env:"CONFIRM_SWEEP_INTERVAL" envDefault:"1m"`

	// Cached per-profile stores are evicted after this much inactivity.
	SessionIdleTTL       time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`

	// Event stream keepalive interval
	SSEKeepAlive time.Duration `env:"SSE_KEEPALIVE" envDefault:"15s"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if cfg.InstanceID == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "storefront"
		}
		cfg.InstanceID = host
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RedisTTLDuration returns the profile key TTL.
func (c *Config) RedisTTLDuration() time.Duration {
	return time.Duration(c.RedisTTL) * time.Hour
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.StorageBackend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
		if c.RedisTTL < 0 {
			return fmt.Errorf("REDIS_TTL_HOURS must be >= 0, got %d", c.RedisTTL)
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of memory, sqlite, redis; got %q", c.StorageBackend)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.ConfirmTTL <= 0 {
		return fmt.Errorf("CONFIRM_TTL must be > 0, got %s", c.ConfirmTTL)
	}
	if c.ConfirmSweepInterval <= 0 {
		return fmt.Errorf("CONFIRM_SWEEP_INTERVAL must be > 0, got %s", c.ConfirmSweepInterval)
	}
	if c.SessionIdleTTL <= c.ConfirmTTL {
		return fmt.Errorf("SESSION_IDLE_TTL (%s) must exceed CONFIRM_TTL (%s)", c.SessionIdleTTL, c.ConfirmTTL)
	}
	if c.SessionSweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be > 0, got %s", c.SessionSweepInterval)
	}
	if c.SSEKeepAlive <= 0 {
		return fmt.Errorf("SSE_KEEPALIVE must be > 0, got %s", c.SSEKeepAlive)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}
