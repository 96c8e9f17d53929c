package txstream

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection is matched by every ConnectionError.
	ErrConnection = errors.New("connection error")

	// ErrStalled is the cause of a reconnect forced by the keepalive timer.
	ErrStalled = errors.New("no message received within keepalive interval")

	// ErrSessionAlreadyOpen is returned if Open is called more than once.
	ErrSessionAlreadyOpen = errors.New("session already open")
)

// ConnectionError reports a transport or handshake failure.
type ConnectionError struct {
	Op  string // dial, receive, ping or keepalive
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrConnection, e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() []error {
	return []error{ErrConnection, e.Err}
}

func connectionError(op string, err error) error {
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return err
	}
	return &ConnectionError{Op: op, Err: err}
}
