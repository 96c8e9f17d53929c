// Package txdecode turns raw transaction update payloads received from the
// stream into typed Transaction values.
//
// Decoding is pure: no I/O, no shared state. A malformed payload yields an
// error wrapping ErrDecode; callers are expected to drop the message and keep
// going.
package txdecode

import "time"

// Transaction is a decoded transaction update.
type Transaction struct {
	Hash        string    `validate:"required,solana_signature"` // base58 transaction signature, unique per transaction
	Signer      string    `validate:"required,solana_pubkey"`    // fee payer, first account key of the message
	Fee         uint64    // fee paid, in lamports
	Slot        uint64    // slot the transaction was processed in
	AccountKeys []string  `validate:"required,min=1,dive,solana_pubkey"` // every account referenced by the message
	ObservedAt  time.Time `validate:"required"`                          // wall-clock time the feed observed the update
	LogicalTime int64     // integer epoch seconds attached by the feed
}
