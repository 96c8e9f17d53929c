// Package sqlite persists transactions into an embedded SQLite database
// through gorm. It backs local runs and tests.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/gabapcia/txingest/internal/txdecode"
	"github.com/gabapcia/txingest/internal/txsink"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// txn is a row of the txns table.
type txn struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	TxnHash     string    `gorm:"column:txn_hash;not null;uniqueIndex"`
	Signer      string    `gorm:"not null;index"`
	Fee         int64     `gorm:"not null"`
	ObservedAt  time.Time `gorm:"not null"`
	LogicalTime int64     `gorm:"not null"`
}

func (txn) TableName() string {
	return "txns"
}

func fromTransaction(tx txdecode.Transaction) txn {
	return txn{
		TxnHash:     tx.Hash,
		Signer:      tx.Signer,
		Fee:         int64(tx.Fee),
		ObservedAt:  tx.ObservedAt.UTC(),
		LogicalTime: tx.LogicalTime,
	}
}

type store struct {
	db *gorm.DB
}

// NewStore opens the SQLite database at dsn, e.g. "txns.db" or ":memory:".
// A single connection is used so that in-memory databases are shared.
func NewStore(dsn string) (*store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return &store{db: db}, nil
}

// EnsureSchema creates or updates the txns table.
func (s *store) EnsureSchema(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&txn{}); err != nil {
		return fmt.Errorf("migrate txns table: %w", err)
	}
	return nil
}

// InsertTransactions implements txsink.TransactionStorage with a single
// multi-row INSERT, ignoring hashes already stored.
func (s *store) InsertTransactions(ctx context.Context, txs []txdecode.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	rows := make([]txn, len(txs))
	for i, tx := range txs {
		rows[i] = fromTransaction(tx)
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "txn_hash"}}, DoNothing: true}).
		Create(&rows).
		Error
}

func (s *store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Compile-time assertion to ensure *store satisfies the txsink.TransactionStorage interface
var _ txsink.TransactionStorage = (*store)(nil)
