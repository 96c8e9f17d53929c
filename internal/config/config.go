// Package config loads the process configuration from environment variables.
//
// Every variable is prefixed with TXINGEST_, e.g. TXINGEST_ENDPOINT or
// TXINGEST_ACCOUNTS (comma separated). Defaults live in the struct tags and the
// loaded value is validated before use.
package config

import (
	"time"

	"github.com/gabapcia/txingest/internal/pkg/resilience/backoff"
	"github.com/gabapcia/txingest/internal/pkg/validator"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix used by Load.
const Prefix = "TXINGEST"

// Config is the full process configuration.
type Config struct {
	// Upstream feed
	Endpoint          string        `envconfig:"ENDPOINT" default:"ws://127.0.0.1:10000" validate:"required,url"`
	XToken            string        `envconfig:"X_TOKEN"`
	Accounts          []string      `envconfig:"ACCOUNTS" validate:"required,min=1,dive,solana_pubkey"`
	Commitment        string        `envconfig:"COMMITMENT" default:"finalized" validate:"oneof=processed confirmed finalized"`
	HandshakeTimeout  time.Duration `envconfig:"HANDSHAKE_TIMEOUT" default:"10s" validate:"gt=0"`
	KeepaliveInterval time.Duration `envconfig:"KEEPALIVE_INTERVAL" default:"30s" validate:"gt=0"`

	// Store
	StoreDriver     string `envconfig:"STORE_DRIVER" default:"postgres" validate:"oneof=postgres sqlite"`
	StoreDSN        string `envconfig:"STORE_DSN" validate:"required"`
	StoreInitSchema bool   `envconfig:"STORE_INIT_SCHEMA" default:"false"`

	// Sink writer
	BufferCapacity   int           `envconfig:"BUFFER_CAPACITY" default:"1024" validate:"gte=1"`
	BatchSize        int           `envconfig:"BATCH_SIZE" default:"100" validate:"gte=1,ltefield=BufferCapacity"`
	FlushInterval    time.Duration `envconfig:"FLUSH_INTERVAL" default:"1s" validate:"gt=0"`
	WriteMaxAttempts uint          `envconfig:"WRITE_MAX_ATTEMPTS" default:"5" validate:"gte=1"`

	// Backoff schedule shared by reconnects and write retries
	BackoffInitial    time.Duration `envconfig:"BACKOFF_INITIAL" default:"500ms" validate:"gt=0"`
	BackoffMultiplier float64       `envconfig:"BACKOFF_MULTIPLIER" default:"1.5" validate:"gte=1"`
	BackoffJitter     float64       `envconfig:"BACKOFF_JITTER" default:"0.5" validate:"gte=0,lte=1"`
	BackoffMax        time.Duration `envconfig:"BACKOFF_MAX" default:"60s" validate:"gtefield=BackoffInitial"`

	ShutdownGracePeriod time.Duration `envconfig:"SHUTDOWN_GRACE_PERIOD" default:"30s" validate:"gt=0"`

	// Optional collaborators; empty values disable them.
	RedisAddr         string        `envconfig:"REDIS_ADDR"`
	RedisUsername     string        `envconfig:"REDIS_USERNAME"`
	RedisPassword     string        `envconfig:"REDIS_PASSWORD"`
	RedisDB           int           `envconfig:"REDIS_DB" default:"0" validate:"gte=0"`
	RedisWrittenTTL   time.Duration `envconfig:"REDIS_WRITTEN_TTL" default:"24h" validate:"gt=0"`
	FailureWebhookURL string        `envconfig:"FAILURE_WEBHOOK_URL" validate:"omitempty,url"`
	MetricsAddr       string        `envconfig:"METRICS_ADDR" default:":9090"`

	LogLevel         string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	TelemetryEnabled bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`
	ServiceName      string `envconfig:"SERVICE_NAME" default:"txingest" validate:"required"`
}

// Load reads the configuration from the environment without validating it,
// so that callers (e.g. CLI flags) can still override fields before Validate.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration against its validation tags.
func (c Config) Validate() error {
	return validator.Validate(c)
}

// BackoffPolicy returns the configured backoff schedule.
func (c Config) BackoffPolicy() backoff.Policy {
	return backoff.Policy{
		Initial:    c.BackoffInitial,
		Multiplier: c.BackoffMultiplier,
		Jitter:     c.BackoffJitter,
		Max:        c.BackoffMax,
	}
}
