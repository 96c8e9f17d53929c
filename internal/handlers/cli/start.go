package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gabapcia/txingest/internal/config"

	"github.com/urfave/cli/v3"
)

// storeFlags are shared by the commands touching the store.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "store-driver",
			Usage: "Store backend: postgres or sqlite",
		},
		&cli.StringFlag{
			Name:  "store-dsn",
			Usage: "Store connection string",
		},
	}
}

// applyStoreFlags overrides the store settings of cfg with the flags set on c.
func applyStoreFlags(c *cli.Command, cfg *config.Config) {
	if c.IsSet("store-driver") {
		cfg.StoreDriver = c.String("store-driver")
	}
	if c.IsSet("store-dsn") {
		cfg.StoreDSN = c.String("store-dsn")
	}
}

// startCommand returns the command that runs the ingestion pipeline.
//
// Usage example:
//
//	txingest start --endpoint wss://feed.example --accounts 77777T2qnynHFsA63FyfY766ciBTXizavU1f5HeZXwN
//
// The process runs until it receives SIGINT or SIGTERM, then drains the
// pipeline. A non-nil error, and so a non-zero exit status, means some
// transactions were not persisted.
func startCommand(cfg config.Config, app Application) *cli.Command {
	return &cli.Command{
		Name:        "start",
		Description: "Subscribes to the transaction feed and writes matching transactions to the store.",
		Usage:       "Runs the ingestion pipeline. Drains gracefully on Ctrl+C or termination signals.",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "Feed websocket endpoint (ws:// or wss://)",
			},
			&cli.StringFlag{
				Name:  "x-token",
				Usage: "Feed authentication token",
			},
			&cli.StringSliceFlag{
				Name:  "accounts",
				Usage: "Accounts to watch; repeat the flag or separate with commas",
			},
			&cli.StringFlag{
				Name:  "commitment",
				Usage: "Commitment level: processed, confirmed or finalized",
			},
		}, storeFlags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.IsSet("endpoint") {
				cfg.Endpoint = c.String("endpoint")
			}
			if c.IsSet("x-token") {
				cfg.XToken = c.String("x-token")
			}
			if c.IsSet("accounts") {
				cfg.Accounts = c.StringSlice("accounts")
			}
			if c.IsSet("commitment") {
				cfg.Commitment = c.String("commitment")
			}
			applyStoreFlags(c, &cfg)

			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			defer app.Close()

			pipeline, err := app.Pipeline(ctx, cfg)
			if err != nil {
				return err
			}

			return pipeline.Run(ctx)
		},
	}
}
