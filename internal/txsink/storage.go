package txsink

import (
	"context"

	"github.com/gabapcia/txingest/internal/txdecode"
)

// TransactionStorage persists decoded transactions.
type TransactionStorage interface {
	// InsertTransactions writes txs in slice order.
	//
	// A transaction whose hash is already stored must be ignored without error,
	// so that redelivered updates after a reconnect are harmless. The write is
	// expected to be atomic: either every new row is stored or none is.
	InsertTransactions(ctx context.Context, txs []txdecode.Transaction) error
}

// WrittenGuard remembers which transaction hashes were already persisted,
// typically across process restarts, so redelivered transactions can skip
// the store round-trip.
//
// The guard is an optimization only. The store's uniqueness constraint on the
// hash remains the source of truth, so guard failures are logged and ignored.
type WrittenGuard interface {
	// FilterWritten returns the subset of hashes already marked as written.
	FilterWritten(ctx context.Context, hashes []string) ([]string, error)

	// MarkWritten records hashes as persisted.
	MarkWritten(ctx context.Context, hashes []string) error
}
