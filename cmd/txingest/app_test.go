package main

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gabapcia/txingest/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) config.Config {
	t.Helper()

	return config.Config{
		Endpoint:            "ws://127.0.0.1:10000",
		Accounts:            []string{"77777T2qnynHFsA63FyfY766ciBTXizavU1f5HeZXwN"},
		Commitment:          "finalized",
		HandshakeTimeout:    time.Second,
		KeepaliveInterval:   time.Second,
		StoreDriver:         "sqlite",
		StoreDSN:            filepath.Join(t.TempDir(), "txns.db"),
		StoreInitSchema:     true,
		BufferCapacity:      8,
		BatchSize:           4,
		FlushInterval:       time.Second,
		WriteMaxAttempts:    1,
		BackoffInitial:      time.Millisecond,
		BackoffMultiplier:   1,
		BackoffMax:          time.Millisecond,
		ShutdownGracePeriod: time.Second,
		ServiceName:         "txingest",
	}
}

func TestApp_Pipeline(t *testing.T) {
	t.Run("should wire the pipeline on a sqlite store", func(t *testing.T) {
		a := &app{}
		t.Cleanup(func() { _ = a.Close() })

		pipeline, err := a.Pipeline(t.Context(), sqliteConfig(t))
		require.NoError(t, err)
		assert.NotNil(t, pipeline)
		assert.Len(t, a.closers, 1)
	})

	t.Run("should fail when redis is unreachable", func(t *testing.T) {
		cfg := sqliteConfig(t)
		cfg.RedisAddr = "127.0.0.1:1"

		a := &app{}
		t.Cleanup(func() { _ = a.Close() })

		_, err := a.Pipeline(t.Context(), cfg)
		assert.Error(t, err)
	})
}

func TestApp_EnsureSchema(t *testing.T) {
	a := &app{}

	err := a.EnsureSchema(t.Context(), sqliteConfig(t))
	require.NoError(t, err)
	assert.NoError(t, a.Close())
}

func TestApp_Close(t *testing.T) {
	var order []int
	closeErr := errors.New("close failed")

	a := &app{}
	a.onClose(func() error { order = append(order, 1); return nil })
	a.onClose(func() error { order = append(order, 2); return closeErr })

	assert.ErrorIs(t, a.Close(), closeErr)
	assert.Equal(t, []int{2, 1}, order)
	assert.NoError(t, a.Close())
}
