// Package cli exposes the txingest commands.
package cli

import (
	"context"
	"os"

	"github.com/gabapcia/txingest/internal/config"
	"github.com/gabapcia/txingest/internal/ingest"

	"github.com/urfave/cli/v3"
)

// Application builds what the commands run. Resources opened by Pipeline or
// EnsureSchema are released by Close.
type Application interface {
	// Pipeline wires the ingestion pipeline described by cfg.
	Pipeline(ctx context.Context, cfg config.Config) (ingest.Service, error)

	// EnsureSchema creates the txns table in the store described by cfg.
	EnsureSchema(ctx context.Context, cfg config.Config) error

	// Close releases every resource opened so far.
	Close() error
}

// Run initializes and executes the txingest CLI application.
//
// It registers all available commands, including:
//
//   - `start`: Runs the ingestion pipeline until SIGINT or SIGTERM.
//   - `schema`: Prints or applies the store schema.
//
// cfg holds the values loaded from the environment; command flags override
// them.
func Run(ctx context.Context, cfg config.Config, app Application) error {
	cmd := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "txingest",
		Description:           "Streams transactions for a set of accounts and stores them for analysis.",
		Usage:                 "txingest [command] [flags]",
		Commands: []*cli.Command{
			startCommand(cfg, app),
			schemaCommand(cfg, app),
		},
	}

	return cmd.Run(ctx, os.Args)
}
