// Package postgres persists transactions into PostgreSQL using pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/gabapcia/txingest/internal/txdecode"
	"github.com/gabapcia/txingest/internal/txsink"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL of the txns table. txn_hash is unique so that redelivered
// transactions are ignored.
const Schema = `CREATE TABLE IF NOT EXISTS txns (
	id           BIGSERIAL PRIMARY KEY,
	txn_hash     TEXT        NOT NULL UNIQUE,
	signer       TEXT        NOT NULL,
	fee          BIGINT      NOT NULL CHECK (fee >= 0),
	observed_at  TIMESTAMPTZ NOT NULL,
	logical_time BIGINT      NOT NULL
);
CREATE INDEX IF NOT EXISTS txns_signer_idx ON txns (signer);
`

const insertTransaction = `INSERT INTO txns (txn_hash, signer, fee, observed_at, logical_time)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (txn_hash) DO NOTHING`

type store struct {
	pool *pgxpool.Pool
}

// NewStore opens a connection pool to dsn and checks it with a ping.
func NewStore(ctx context.Context, dsn string) (*store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &store{pool: pool}, nil
}

// EnsureSchema creates the txns table if it does not exist.
func (s *store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create txns table: %w", err)
	}
	return nil
}

// InsertTransactions implements txsink.TransactionStorage.
//
// Rows are queued in a single pgx batch inside one transaction, so ids follow
// slice order and the batch is stored atomically.
func (s *store) InsertTransactions(ctx context.Context, txs []txdecode.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, t := range txs {
			batch.Queue(insertTransaction, t.Hash, t.Signer, int64(t.Fee), t.ObservedAt, t.LogicalTime)
		}

		return tx.SendBatch(ctx, batch).Close()
	})
}

func (s *store) Close() error {
	s.pool.Close()
	return nil
}

// Compile-time assertion to ensure *store satisfies the txsink.TransactionStorage interface
var _ txsink.TransactionStorage = (*store)(nil)
