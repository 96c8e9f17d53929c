package txstream

import (
	"slices"

	"github.com/gabapcia/txingest/internal/pkg/validator"
)

// Commitment levels accepted by the feed.
const (
	CommitmentProcessed = "processed"
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)

// SubscriptionRequest is the immutable subscription sent on every connection
// attempt. Reconnects re-send the exact same value.
type SubscriptionRequest struct {
	Accounts   []string `validate:"required,min=1,dive,solana_pubkey"`
	XToken     string
	Commitment string `validate:"omitempty,oneof=processed confirmed finalized"`
	Vote       bool   // include vote transactions
	Failed     bool   // include failed transactions
}

// NewSubscriptionRequest builds a request for accounts at the finalized
// commitment level, excluding vote and failed transactions.
func NewSubscriptionRequest(accounts []string, xToken string) SubscriptionRequest {
	return SubscriptionRequest{
		Accounts:   slices.Clone(accounts),
		XToken:     xToken,
		Commitment: CommitmentFinalized,
	}
}

// Validate checks the request before it is sent.
func (r SubscriptionRequest) Validate() error {
	return validator.Validate(r)
}

// CommitmentOrDefault returns the commitment level, defaulting to finalized.
func (r SubscriptionRequest) CommitmentOrDefault() string {
	if r.Commitment == "" {
		return CommitmentFinalized
	}
	return r.Commitment
}
