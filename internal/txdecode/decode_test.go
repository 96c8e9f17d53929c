package txdecode

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	signer    = "77777T2qnynHFsA63FyfY766ciBTXizavU1f5HeZXwN"
	program   = "11111111111111111111111111111111"
	signature = "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"
)

func TestDecode(t *testing.T) {
	t.Run("should decode a complete update", func(t *testing.T) {
		raw := []byte(`{
			"signature": "` + signature + `",
			"slot": 280000001,
			"accountKeys": ["` + signer + `", "` + program + `"],
			"fee": 38363,
			"createdAt": 1718000000.123456,
			"unixEpoch": 1718000000,
			"filters": ["client"]
		}`)

		tx, err := Decode(raw)
		require.NoError(t, err)

		assert.Equal(t, signature, tx.Hash)
		assert.Equal(t, signer, tx.Signer)
		assert.Equal(t, uint64(38363), tx.Fee)
		assert.Equal(t, uint64(280000001), tx.Slot)
		assert.Equal(t, []string{signer, program}, tx.AccountKeys)
		assert.Equal(t, time.Unix(1718000000, 123456000).UTC(), tx.ObservedAt)
		assert.Equal(t, int64(1718000000), tx.LogicalTime)
	})

	t.Run("should keep nanosecond digits exactly", func(t *testing.T) {
		raw := []byte(`{"signature":"` + signature + `","accountKeys":["` + signer + `"],"fee":5000,"createdAt":"1718000000.987654321"}`)

		tx, err := Decode(raw)
		require.NoError(t, err)

		assert.Equal(t, 987654321, tx.ObservedAt.Nanosecond())
	})

	t.Run("should accept numeric strings and derive logical time", func(t *testing.T) {
		raw := []byte(`{"signature":"` + signature + `","accountKeys":["` + signer + `"],"fee":"9223372036854775807","createdAt":"1718000042.5"}`)

		tx, err := Decode(raw)
		require.NoError(t, err)

		assert.Equal(t, uint64(math.MaxInt64), tx.Fee)
		assert.Equal(t, int64(1718000042), tx.LogicalTime)
		assert.Zero(t, tx.Slot)
	})

	t.Run("should accept a zero fee", func(t *testing.T) {
		raw := []byte(`{"signature":"` + signature + `","accountKeys":["` + signer + `"],"fee":0,"createdAt":1718000000}`)

		tx, err := Decode(raw)
		require.NoError(t, err)
		assert.Zero(t, tx.Fee)
	})
}

func TestDecode_Malformed(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "empty payload", raw: ``},
		{name: "not json", raw: `signature=abc`},
		{name: "missing fee", raw: `{"signature":"` + signature + `","accountKeys":["` + signer + `"],"createdAt":1}`},
		{name: "non numeric fee", raw: `{"signature":"` + signature + `","accountKeys":["` + signer + `"],"fee":"lots","createdAt":1}`},
		{name: "negative fee", raw: `{"signature":"` + signature + `","accountKeys":["` + signer + `"],"fee":-1,"createdAt":1}`},
		{name: "fractional fee", raw: `{"signature":"` + signature + `","accountKeys":["` + signer + `"],"fee":1.5,"createdAt":1}`},
		{name: "fee overflow", raw: `{"signature":"` + signature + `","accountKeys":["` + signer + `"],"fee":18446744073709551616,"createdAt":1}`},
		{name: "fee above the stored range", raw: `{"signature":"` + signature + `","accountKeys":["` + signer + `"],"fee":18446744073709551615,"createdAt":1}`},
		{name: "fee one above the stored range", raw: `{"signature":"` + signature + `","accountKeys":["` + signer + `"],"fee":"9223372036854775808","createdAt":1}`},
		{name: "missing createdAt", raw: `{"signature":"` + signature + `","accountKeys":["` + signer + `"],"fee":1}`},
		{name: "negative createdAt", raw: `{"signature":"` + signature + `","accountKeys":["` + signer + `"],"fee":1,"createdAt":-3}`},
		{name: "fractional unixEpoch", raw: `{"signature":"` + signature + `","accountKeys":["` + signer + `"],"fee":1,"createdAt":1,"unixEpoch":1.5}`},
		{name: "non numeric slot", raw: `{"signature":"` + signature + `","accountKeys":["` + signer + `"],"fee":1,"createdAt":1,"slot":"tip"}`},
		{name: "missing signature", raw: `{"accountKeys":["` + signer + `"],"fee":1,"createdAt":1}`},
		{name: "invalid signature", raw: `{"signature":"` + signer + `","accountKeys":["` + signer + `"],"fee":1,"createdAt":1}`},
		{name: "missing account keys", raw: `{"signature":"` + signature + `","fee":1,"createdAt":1}`},
		{name: "invalid signer", raw: `{"signature":"` + signature + `","accountKeys":["0xabc"],"fee":1,"createdAt":1}`},
	}

	for _, tc := range testCases {
		t.Run("should reject "+tc.name, func(t *testing.T) {
			tx, err := Decode([]byte(tc.raw))

			assert.ErrorIs(t, err, ErrDecode)
			assert.Zero(t, tx)
		})
	}
}
