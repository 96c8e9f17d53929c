// Package validator provides a thin wrapper around the go-playground/validator library,
// enabling declarative struct validation with standardized error formatting.
//
// Besides the built-in tags it registers domain tags for base58 encoded Solana
// values:
//
//   - solana_pubkey: a 32-byte base58 public key (account identifier)
//   - solana_signature: a 64-byte base58 transaction signature
package validator

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed is returned as the first error in a multi-error chain when validation fails.
var ErrValidationFailed = errors.New("struct validation failed")

// validator is a singleton instance of the go-playground validator,
// initialized automatically on package load.
var validator *gvalidator.Validate

// errStringFormat defines the template used to describe individual validation errors.
//
// Example: "'Signer': value 'x' does not meet the requirements for the 'solana_pubkey' validation"
const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

func init() {
	validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())

	mustRegister("solana_pubkey", isSolanaPublicKey)
	mustRegister("solana_signature", isSolanaSignature)
}

func mustRegister(tag string, fn gvalidator.Func) {
	if err := validator.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validator: register %q: %v", tag, err))
	}
}

func isSolanaPublicKey(fl gvalidator.FieldLevel) bool {
	_, err := solana.PublicKeyFromBase58(fl.Field().String())
	return err == nil
}

func isSolanaSignature(fl gvalidator.FieldLevel) bool {
	_, err := solana.SignatureFromBase58(fl.Field().String())
	return err == nil
}

// formatError transforms a raw validator error into a structured, human-readable multi-error chain.
//
// If the input is a set of validation errors, it returns a combined error with ErrValidationFailed as the root,
// followed by a formatted message for each field error. Otherwise, the original error is returned unchanged.
func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, validationErr := range validationErrors {
		err := fmt.Errorf(errStringFormat,
			validationErr.Namespace(),
			validationErr.Value(),
			validationErr.Tag(),
		)

		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Validate checks if the given struct satisfies its validation tags.
//
// It returns nil if all fields pass validation. Otherwise, it returns a combined error that includes
// ErrValidationFailed and one formatted message for each field that failed validation.
func Validate(v any) error {
	if err := validator.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}

// Var validates a single value against a tag expression, e.g. Var(addr, "solana_pubkey").
func Var(v any, tag string) error {
	if err := validator.Var(v, tag); err != nil {
		return formatError(err)
	}

	return nil
}
