// Package txfilter selects the transactions that involve the accounts of interest.
package txfilter

import (
	"github.com/gabapcia/txingest/internal/pkg/types"
	"github.com/gabapcia/txingest/internal/txdecode"
)

// Filter is an account-of-interest predicate over decoded transactions.
//
// The account set is indexed once at construction and never mutated afterwards,
// so a Filter is safe for concurrent use without locking.
type Filter struct {
	accounts types.Set[string]
}

// New builds a Filter watching the given accounts.
func New(accounts ...string) *Filter {
	return &Filter{
		accounts: types.NewSet(accounts...),
	}
}

// Accept reports whether tx involves at least one watched account, either as
// its signer or as any account referenced by the transaction.
//
// Cost is one set lookup per referenced account; the size of the watched set
// does not matter.
func (f *Filter) Accept(tx txdecode.Transaction) bool {
	if f.accounts.Has(tx.Signer) {
		return true
	}

	return f.accounts.HasAny(tx.AccountKeys...)
}

// Accounts returns the watched accounts in no particular order.
func (f *Filter) Accounts() []string {
	return f.accounts.ToSlice()
}
