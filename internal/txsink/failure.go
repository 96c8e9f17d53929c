package txsink

import (
	"errors"
	"fmt"

	"github.com/gabapcia/txingest/internal/txdecode"
)

var (
	// ErrWrite is wrapped by WriteFailure errors: the store rejected a batch
	// on every attempt.
	ErrWrite = errors.New("batch write failed")

	// ErrServiceAlreadyStarted is returned if Start is called more than once.
	ErrServiceAlreadyStarted = errors.New("service already started")

	// ErrServiceNotStarted is returned by Submit and Drain before Start.
	ErrServiceNotStarted = errors.New("service not started")

	// ErrServiceClosed is returned by Submit once Drain or Close was called.
	ErrServiceClosed = errors.New("service closed")

	// ErrServiceStopped is returned when the flush loop is no longer running,
	// e.g. after a fatal write failure, and buffered records can't be persisted.
	ErrServiceStopped = errors.New("flush loop stopped")
)

// WriteFailure reports a batch that could not be persisted after exhausting
// all write attempts. It is an operational fault: the batch is not discarded
// silently but handed to the caller of Start.
type WriteFailure struct {
	Batch    []txdecode.Transaction // records of the failed batch, in submission order
	Attempts uint                   // number of write attempts made
	Err      error                  // last error, wrapping ErrWrite
}

// Error implements the error interface.
func (f WriteFailure) Error() string {
	return fmt.Sprintf("%d transactions not persisted after %d attempts: %v", len(f.Batch), f.Attempts, f.Err)
}

// Unwrap exposes the underlying error chain.
func (f WriteFailure) Unwrap() error {
	return f.Err
}
