package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gabapcia/txingest/internal/config"
	"github.com/gabapcia/txingest/internal/handlers/cli"
	"github.com/gabapcia/txingest/internal/infra/metrics/prometheus"
	"github.com/gabapcia/txingest/internal/infra/notifier/webhook"
	"github.com/gabapcia/txingest/internal/infra/storage/postgres"
	"github.com/gabapcia/txingest/internal/infra/storage/redis"
	"github.com/gabapcia/txingest/internal/infra/storage/sqlite"
	"github.com/gabapcia/txingest/internal/infra/stream/websocket"
	"github.com/gabapcia/txingest/internal/ingest"
	"github.com/gabapcia/txingest/internal/pkg/logger"
	"github.com/gabapcia/txingest/internal/pkg/resilience/retry"
	httpclient "github.com/gabapcia/txingest/internal/pkg/transport/http"
	"github.com/gabapcia/txingest/internal/txfilter"
	"github.com/gabapcia/txingest/internal/txsink"
	"github.com/gabapcia/txingest/internal/txstream"

	promclient "github.com/prometheus/client_golang/prometheus"
)

// store is what the pipeline needs from a storage backend.
type store interface {
	txsink.TransactionStorage
	EnsureSchema(ctx context.Context) error
	Close() error
}

// app wires the concrete infrastructure behind the CLI commands.
type app struct {
	mu      sync.Mutex
	closers []func() error
}

var _ cli.Application = (*app)(nil)

func (a *app) onClose(f func() error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closers = append(a.closers, f)
}

func (a *app) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil

	return errors.Join(errs...)
}

func (a *app) openStore(ctx context.Context, cfg config.Config) (store, error) {
	var (
		s   store
		err error
	)
	switch cfg.StoreDriver {
	case "sqlite":
		s, err = sqlite.NewStore(cfg.StoreDSN)
	default:
		s, err = postgres.NewStore(ctx, cfg.StoreDSN)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}

	a.onClose(s.Close)
	return s, nil
}

func (a *app) EnsureSchema(ctx context.Context, cfg config.Config) error {
	s, err := a.openStore(ctx, cfg)
	if err != nil {
		return err
	}

	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "store schema ready", "store.driver", cfg.StoreDriver)
	return nil
}

func (a *app) sinkOptions(ctx context.Context, cfg config.Config) ([]txsink.Option, error) {
	opts := []txsink.Option{
		txsink.WithBufferCapacity(cfg.BufferCapacity),
		txsink.WithBatchSize(cfg.BatchSize),
		txsink.WithFlushInterval(cfg.FlushInterval),
		txsink.WithRetry(retry.New(
			retry.WithAttempts(cfg.WriteMaxAttempts),
			retry.WithPolicy(cfg.BackoffPolicy()),
			retry.WithOnRetry(func(attempt uint, err error) {
				logger.Warn(ctx, "batch write failed, retrying", "write.attempt", attempt+1, "error", err)
			}),
		)),
	}

	if cfg.RedisAddr == "" {
		return opts, nil
	}

	guard, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB,
		redis.WithWrittenTTL(cfg.RedisWrittenTTL),
	)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.onClose(guard.Close)

	return append(opts, txsink.WithWrittenGuard(guard)), nil
}

func (a *app) ingestOptions(ctx context.Context, cfg config.Config) ([]ingest.Option, error) {
	opts := []ingest.Option{ingest.WithGracePeriod(cfg.ShutdownGracePeriod)}

	if cfg.FailureWebhookURL != "" {
		client := httpclient.NewClient(httpclient.WithBackoff(cfg.BackoffPolicy()))
		opts = append(opts, ingest.WithFailureNotifier(webhook.New(cfg.FailureWebhookURL, cfg.ServiceName, client)))
	}

	if cfg.MetricsAddr == "" {
		return opts, nil
	}

	registry := promclient.NewRegistry()
	observer, err := prometheus.NewObserver(registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	go func() {
		if err := prometheus.Serve(ctx, cfg.MetricsAddr, registry); err != nil {
			logger.Error(ctx, "metrics server stopped", "metrics.addr", cfg.MetricsAddr, "error", err)
		}
	}()

	return append(opts, ingest.WithObserver(observer)), nil
}

func (a *app) Pipeline(ctx context.Context, cfg config.Config) (ingest.Service, error) {
	s, err := a.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.StoreInitSchema {
		if err := s.EnsureSchema(ctx); err != nil {
			return nil, err
		}
	}

	sinkOpts, err := a.sinkOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ingestOpts, err := a.ingestOptions(ctx, cfg)
	if err != nil {
		return nil, err
	}

	dialer := websocket.NewDialer(cfg.Endpoint, websocket.WithHandshakeTimeout(cfg.HandshakeTimeout))
	session := txstream.New(dialer,
		txstream.WithKeepalive(cfg.KeepaliveInterval),
		txstream.WithBackoff(cfg.BackoffPolicy()),
	)

	req := txstream.NewSubscriptionRequest(cfg.Accounts, cfg.XToken)
	req.Commitment = cfg.Commitment

	return ingest.New(session, txsink.New(s, sinkOpts...), txfilter.New(cfg.Accounts...), req, ingestOpts...), nil
}
