package txdecode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gabapcia/txingest/internal/pkg/validator"

	"github.com/shopspring/decimal"
)

// ErrDecode is wrapped by every error returned from Decode.
var ErrDecode = errors.New("malformed transaction update")

// maxFeeBits bounds fees to math.MaxInt64.
const maxFeeBits = 63

// nanosPerSecond scales fractional seconds to nanoseconds.
var nanosPerSecond = decimal.New(1, 9)

// payload is the wire shape of a transaction update.
//
// Numeric fields are kept as json.Number so that both JSON numbers and
// numeric strings are accepted and parsed without float rounding.
type payload struct {
	Signature   string       `json:"signature"`
	Slot        json.Number  `json:"slot"`
	AccountKeys []string     `json:"accountKeys"`
	Fee         *json.Number `json:"fee"`
	CreatedAt   *json.Number `json:"createdAt"`
	UnixEpoch   *json.Number `json:"unixEpoch"`
}

// decodeError wraps err with ErrDecode and the name of the offending field.
func decodeError(field string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDecode, field, err)
}

// parseTimestamp converts fractional epoch seconds into a UTC time without
// going through float64, so sub-second digits are kept as sent.
func parseTimestamp(n json.Number) (time.Time, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return time.Time{}, err
	}

	if d.IsNegative() {
		return time.Time{}, errors.New("negative timestamp")
	}

	secs := d.Truncate(0)
	nanos := d.Sub(secs).Mul(nanosPerSecond).Truncate(0)

	return time.Unix(secs.IntPart(), nanos.IntPart()).UTC(), nil
}

// Decode parses raw into a Transaction.
//
// Required fields: signature, accountKeys (non-empty, the first key is the
// signer), fee (at most math.MaxInt64) and createdAt. unixEpoch defaults to the whole seconds of
// createdAt and slot defaults to zero.
func Decode(raw []byte) (Transaction, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var p payload
	if err := dec.Decode(&p); err != nil {
		return Transaction{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if p.Fee == nil {
		return Transaction{}, decodeError("fee", errors.New("missing"))
	}

	// The store keeps fees in a signed 64-bit column.
	fee, err := strconv.ParseUint(p.Fee.String(), 10, maxFeeBits)
	if err != nil {
		return Transaction{}, decodeError("fee", err)
	}

	var slot uint64
	if p.Slot != "" {
		if slot, err = strconv.ParseUint(p.Slot.String(), 10, 64); err != nil {
			return Transaction{}, decodeError("slot", err)
		}
	}

	if p.CreatedAt == nil {
		return Transaction{}, decodeError("createdAt", errors.New("missing"))
	}

	observedAt, err := parseTimestamp(*p.CreatedAt)
	if err != nil {
		return Transaction{}, decodeError("createdAt", err)
	}

	logicalTime := observedAt.Unix()
	if p.UnixEpoch != nil {
		if logicalTime, err = p.UnixEpoch.Int64(); err != nil {
			return Transaction{}, decodeError("unixEpoch", err)
		}
	}

	if len(p.AccountKeys) == 0 {
		return Transaction{}, decodeError("accountKeys", errors.New("missing"))
	}

	tx := Transaction{
		Hash:        p.Signature,
		Signer:      p.AccountKeys[0],
		Fee:         fee,
		Slot:        slot,
		AccountKeys: p.AccountKeys,
		ObservedAt:  observedAt,
		LogicalTime: logicalTime,
	}

	if err := validator.Validate(tx); err != nil {
		return Transaction{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return tx, nil
}
