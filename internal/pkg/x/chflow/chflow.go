// Package chflow holds small channel helpers shared by the pipeline stages.
package chflow

import "context"

// Send delivers data on ch, giving up when ctx is done first.
// It reports whether the value was delivered.
func Send[T any](ctx context.Context, ch chan<- T, data T) bool {
	select {
	case <-ctx.Done():
		return false
	case ch <- data:
		return true
	}
}

// TrySend delivers data on ch only if it can do so without blocking.
func TrySend[T any](ch chan<- T, data T) bool {
	select {
	case ch <- data:
		return true
	default:
		return false
	}
}
