package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validPubkey    = "77777T2qnynHFsA63FyfY766ciBTXizavU1f5HeZXwN"
	validSignature = "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"
)

func TestValidate(t *testing.T) {
	type account struct {
		Address string `validate:"required,solana_pubkey"`
	}

	type subscription struct {
		Accounts []string `validate:"required,min=1,dive,solana_pubkey"`
		Capacity int      `validate:"gte=1"`
	}

	t.Run("should accept a valid struct", func(t *testing.T) {
		err := Validate(subscription{Accounts: []string{validPubkey}, Capacity: 1})
		assert.NoError(t, err)
	})

	t.Run("should report required fields", func(t *testing.T) {
		err := Validate(account{})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, err.Error(), "'account.Address': value '' does not meet the requirements for the 'required' validation")
	})

	t.Run("should reject malformed public keys", func(t *testing.T) {
		err := Validate(account{Address: "not-base58-0OIl"})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, err.Error(), "solana_pubkey")
	})

	t.Run("should report every failing field", func(t *testing.T) {
		err := Validate(subscription{Accounts: []string{validPubkey, "bogus"}, Capacity: 0})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "subscription.Accounts[1]")
		assert.Contains(t, err.Error(), "subscription.Capacity")
	})

	t.Run("should return non validation errors unchanged", func(t *testing.T) {
		err := Validate(42)

		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrValidationFailed))
	})
}

func TestVar(t *testing.T) {
	testCases := []struct {
		name    string
		value   string
		tag     string
		wantErr bool
	}{
		{name: "valid public key", value: validPubkey, tag: "solana_pubkey"},
		{name: "public key too short", value: "1111", tag: "solana_pubkey", wantErr: true},
		{name: "valid signature", value: validSignature, tag: "solana_signature"},
		{name: "public key is not a signature", value: validPubkey, tag: "solana_signature", wantErr: true},
		{name: "empty signature", value: "", tag: "solana_signature", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Var(tc.value, tc.tag)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
				return
			}
			assert.NoError(t, err)
		})
	}
}
