package txfilter

import (
	"fmt"
	"slices"
	"testing"

	"github.com/gabapcia/txingest/internal/txdecode"

	"github.com/stretchr/testify/assert"
)

const (
	watched = "77777T2qnynHFsA63FyfY766ciBTXizavU1f5HeZXwN"
	other   = "8RBsoeyoRwajj86MZfZE6gMDJQVYGYcdSfx1zxqxNHbr"
	program = "11111111111111111111111111111111"
)

func TestFilter_Accept(t *testing.T) {
	f := New(watched)

	testCases := []struct {
		name string
		tx   txdecode.Transaction
		want bool
	}{
		{
			name: "watched signer",
			tx:   txdecode.Transaction{Signer: watched, AccountKeys: []string{watched, program}},
			want: true,
		},
		{
			name: "watched account referenced but not signing",
			tx:   txdecode.Transaction{Signer: other, AccountKeys: []string{other, watched}},
			want: true,
		},
		{
			name: "unrelated transaction",
			tx:   txdecode.Transaction{Signer: other, AccountKeys: []string{other, program}},
			want: false,
		},
		{
			name: "empty transaction",
			tx:   txdecode.Transaction{},
			want: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.Accept(tc.tx))
		})
	}

	t.Run("empty account set accepts nothing", func(t *testing.T) {
		assert.False(t, New().Accept(txdecode.Transaction{Signer: watched, AccountKeys: []string{watched}}))
	})
}

func TestFilter_Accounts(t *testing.T) {
	accounts := New(watched, other, watched).Accounts()
	slices.Sort(accounts)

	assert.Equal(t, []string{watched, other}, accounts)
}

func BenchmarkFilter_Accept(b *testing.B) {
	for _, size := range []int{1, 1_000, 100_000} {
		accounts := make([]string, size)
		for i := range accounts {
			accounts[i] = fmt.Sprintf("account-%d", i)
		}
		f := New(accounts...)
		tx := txdecode.Transaction{Signer: other, AccountKeys: []string{other, program, "account-missing"}}

		b.Run(fmt.Sprintf("accounts=%d", size), func(b *testing.B) {
			for b.Loop() {
				f.Accept(tx)
			}
		})
	}
}
