package ingest

import (
	"context"

	"github.com/gabapcia/txingest/internal/txsink"
)

// FailureNotifier is told about fatal write failures before the pipeline
// exits, e.g. to page an operator.
type FailureNotifier interface {
	NotifyWriteFailure(ctx context.Context, failure txsink.WriteFailure) error
}
