package ingest

import (
	"context"
	"time"

	"github.com/gabapcia/txingest/internal/pkg/logger"
	"github.com/gabapcia/txingest/internal/txsink"
	"github.com/gabapcia/txingest/internal/txstream"
)

// EventKind identifies what an Event reports.
type EventKind int

const (
	EventStateChanged  EventKind = iota // the stream session changed state
	EventDecodeDropped                  // a malformed update was dropped
	EventFiltered                       // a decoded update involved no watched account
	EventSubmitted                      // a transaction was handed to the sink writer
	EventWriteFailed                    // a batch could not be persisted; the pipeline stops
)

func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "state_changed"
	case EventDecodeDropped:
		return "decode_dropped"
	case EventFiltered:
		return "filtered"
	case EventSubmitted:
		return "submitted"
	case EventWriteFailed:
		return "write_failed"
	default:
		return "unknown"
	}
}

// Event is a single observability signal emitted by the pipeline.
type Event struct {
	Kind       EventKind
	At         time.Time
	Transition txstream.StateTransition // set for EventStateChanged
	Hash       string                   // set for EventFiltered and EventSubmitted
	Failure    *txsink.WriteFailure     // set for EventWriteFailed
	Err        error                    // decode error for EventDecodeDropped
}

// Observer receives pipeline events. Observe is called from more than one
// goroutine and must not block.
type Observer interface {
	Observe(ctx context.Context, event Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, event Event)

func (f ObserverFunc) Observe(ctx context.Context, event Event) {
	f(ctx, event)
}

// LogObserver writes events to the global logger.
type LogObserver struct{}

func (LogObserver) Observe(ctx context.Context, event Event) {
	switch event.Kind {
	case EventDecodeDropped:
		logger.Warn(ctx, "dropping malformed update", "error", event.Err)
	case EventFiltered:
		logger.Debug(ctx, "update filtered out", "txn.hash", event.Hash)
	case EventSubmitted:
		logger.Debug(ctx, "transaction submitted", "txn.hash", event.Hash)
	case EventWriteFailed:
		logger.Error(ctx, "write failure", "batch.size", len(event.Failure.Batch), "error", event.Failure.Err)
	}
}
