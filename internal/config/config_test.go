package config

import (
	"testing"
	"time"

	"github.com/gabapcia/txingest/internal/pkg/resilience/backoff"
	"github.com/gabapcia/txingest/internal/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const account = "77777T2qnynHFsA63FyfY766ciBTXizavU1f5HeZXwN"

func TestLoad(t *testing.T) {
	t.Run("should apply defaults", func(t *testing.T) {
		t.Setenv("TXINGEST_ACCOUNTS", account)
		t.Setenv("TXINGEST_STORE_DSN", "postgres://localhost/txns")

		cfg, err := Load()
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, "ws://127.0.0.1:10000", cfg.Endpoint)
		assert.Equal(t, "finalized", cfg.Commitment)
		assert.Equal(t, []string{account}, cfg.Accounts)
		assert.Equal(t, 1024, cfg.BufferCapacity)
		assert.Equal(t, 100, cfg.BatchSize)
		assert.Equal(t, time.Second, cfg.FlushInterval)
		assert.Equal(t, uint(5), cfg.WriteMaxAttempts)
		assert.Equal(t, 30*time.Second, cfg.KeepaliveInterval)
		assert.Equal(t, 30*time.Second, cfg.ShutdownGracePeriod)
		assert.Equal(t, backoff.Default(), cfg.BackoffPolicy())
	})

	t.Run("should read overrides", func(t *testing.T) {
		t.Setenv("TXINGEST_ACCOUNTS", account+",11111111111111111111111111111111")
		t.Setenv("TXINGEST_STORE_DRIVER", "sqlite")
		t.Setenv("TXINGEST_STORE_DSN", "file:txns.db")
		t.Setenv("TXINGEST_BATCH_SIZE", "10")
		t.Setenv("TXINGEST_FLUSH_INTERVAL", "250ms")
		t.Setenv("TXINGEST_X_TOKEN", "secret")

		cfg, err := Load()
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Len(t, cfg.Accounts, 2)
		assert.Equal(t, "sqlite", cfg.StoreDriver)
		assert.Equal(t, 10, cfg.BatchSize)
		assert.Equal(t, 250*time.Millisecond, cfg.FlushInterval)
		assert.Equal(t, "secret", cfg.XToken)
	})

	t.Run("should fail on unparsable values", func(t *testing.T) {
		t.Setenv("TXINGEST_BUFFER_CAPACITY", "many")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func(t *testing.T) Config {
		t.Helper()
		t.Setenv("TXINGEST_ACCOUNTS", account)
		t.Setenv("TXINGEST_STORE_DSN", "postgres://localhost/txns")

		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no accounts", mutate: func(c *Config) { c.Accounts = nil }},
		{name: "malformed account", mutate: func(c *Config) { c.Accounts = []string{"0xdeadbeef"} }},
		{name: "missing store dsn", mutate: func(c *Config) { c.StoreDSN = "" }},
		{name: "unknown commitment", mutate: func(c *Config) { c.Commitment = "eventual" }},
		{name: "unknown store driver", mutate: func(c *Config) { c.StoreDriver = "mysql" }},
		{name: "batch larger than buffer", mutate: func(c *Config) { c.BatchSize = c.BufferCapacity + 1 }},
		{name: "jitter above one", mutate: func(c *Config) { c.BackoffJitter = 1.5 }},
		{name: "max backoff below initial", mutate: func(c *Config) { c.BackoffMax = time.Millisecond }},
		{name: "bad webhook url", mutate: func(c *Config) { c.FailureWebhookURL = "::not a url" }},
	}

	for _, tc := range testCases {
		t.Run("should reject "+tc.name, func(t *testing.T) {
			cfg := valid(t)
			tc.mutate(&cfg)

			err := cfg.Validate()
			assert.ErrorIs(t, err, validator.ErrValidationFailed)
		})
	}
}
