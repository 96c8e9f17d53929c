// Command txingest streams transactions touching a set of accounts from a
// websocket feed and stores them for analysis.
package main

import (
	"context"
	"os"

	"github.com/gabapcia/txingest/internal/config"
	"github.com/gabapcia/txingest/internal/handlers/cli"
	"github.com/gabapcia/txingest/internal/pkg/logger"
	"github.com/gabapcia/txingest/internal/pkg/telemetry"
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	cfg, loadErr := config.Load()

	// Telemetry goes first so the logger can bridge into it.
	var telemetryErr error
	if loadErr == nil && cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, cfg.ServiceName)
		if err == nil {
			defer func() {
				if err := shutdown(context.WithoutCancel(ctx)); err != nil {
					logger.Warn(ctx, "telemetry shutdown failed", "error", err)
				}
			}()
		}
		telemetryErr = err
	}

	// An empty level (failed load) falls back to info.
	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		_ = logger.Init()
		logger.Error(ctx, "invalid log level", "log.level", cfg.LogLevel, "error", err)
		return 1
	}
	defer logger.Sync()

	if loadErr != nil {
		logger.Error(ctx, "failed to load configuration", "error", loadErr)
		return 1
	}

	if telemetryErr != nil {
		logger.Error(ctx, "failed to initialize telemetry", "error", telemetryErr)
		return 1
	}

	if err := cli.Run(ctx, cfg, &app{}); err != nil {
		logger.Error(ctx, "txingest stopped with error", "error", err)
		return 1
	}

	return 0
}
