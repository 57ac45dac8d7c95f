package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/fairyhunter13/hotel-pricing/internal/pricing"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Log     LogConfig
	Pricing PricingConfig
	Ledger  LedgerConfig
	Redis   RedisConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// DBConfig holds database-related configuration.
// WARNING: Default password is for local development only.
// In production, always set DB_PASSWORD via environment variable.
type DBConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        int    `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"` // CHANGE IN PRODUCTION
	Name        string `envconfig:"DB_NAME" default:"hotel_db"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"` // Use "require" in production
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d&pool_min_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.MaxConns, c.MinConns)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// PricingConfig controls discount resolution.
type PricingConfig struct {
	StackingOrder string `envconfig:"PRICING_STACKING_ORDER" default:"created"`
	Timezone      string `envconfig:"PRICING_TIMEZONE" default:"Asia/Jerusalem"`
}

// Order returns the parsed stacking order. Load has already validated it.
func (c PricingConfig) Order() pricing.StackingOrder {
	order, err := pricing.ParseStackingOrder(c.StackingOrder)
	if err != nil {
		return pricing.StackByCreation
	}
	return order
}

// Location returns the property time zone. Load has already validated it.
func (c PricingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LedgerConfig bounds retries of usage ledger writes.
type LedgerConfig struct {
	MaxRetries     int `envconfig:"LEDGER_MAX_RETRIES" default:"3"`
	RetryBackoffMS int `envconfig:"LEDGER_RETRY_BACKOFF_MS" default:"50"`
}

// RetryBackoff returns the base backoff between ledger retries.
func (c LedgerConfig) RetryBackoff() time.Duration {
	return time.Duration(c.RetryBackoffMS) * time.Millisecond
}

// RedisConfig configures the optional catalog snapshot cache.
type RedisConfig struct {
	Enabled         bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Addr            string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password        string `envconfig:"REDIS_PASSWORD"`
	DB              int    `envconfig:"REDIS_DB" default:"0"`
	CacheTTLSeconds int    `envconfig:"CATALOG_CACHE_TTL_SECONDS" default:"30"`
}

// CacheTTL returns how long a catalog snapshot stays cached.
func (c RedisConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Load parses environment variables into the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if _, err := pricing.ParseStackingOrder(cfg.Pricing.StackingOrder); err != nil {
		return nil, fmt.Errorf("PRICING_STACKING_ORDER: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Pricing.Timezone); err != nil {
		return nil, fmt.Errorf("PRICING_TIMEZONE: %w", err)
	}
	if cfg.Ledger.MaxRetries < 0 {
		return nil, fmt.Errorf("LEDGER_MAX_RETRIES must not be negative, got %d", cfg.Ledger.MaxRetries)
	}
	return &cfg, nil
}
