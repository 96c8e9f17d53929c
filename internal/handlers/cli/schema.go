package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabapcia/txingest/internal/config"
	"github.com/gabapcia/txingest/internal/infra/storage/postgres"

	"github.com/urfave/cli/v3"
)

// ErrMissingStoreDSN is returned by `schema --apply` without a store DSN.
var ErrMissingStoreDSN = errors.New("store dsn is required")

// schemaCommand returns the command that prints or applies the store schema.
//
// Usage example:
//
//	txingest schema > schema.sql
//	txingest schema --apply --store-dsn postgres://localhost/txns
func schemaCommand(cfg config.Config, app Application) *cli.Command {
	return &cli.Command{
		Name:        "schema",
		Description: "Prints the PostgreSQL DDL of the txns table, or creates it in the configured store.",
		Usage:       "Prints the store schema; --apply creates it instead.",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "apply",
				Usage: "Create the table in the configured store instead of printing the DDL",
			},
		}, storeFlags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			if !c.Bool("apply") {
				_, err := fmt.Fprint(c.Root().Writer, postgres.Schema)
				return err
			}

			applyStoreFlags(c, &cfg)
			if cfg.StoreDSN == "" {
				return ErrMissingStoreDSN
			}

			defer app.Close()
			return app.EnsureSchema(ctx, cfg)
		},
	}
}
