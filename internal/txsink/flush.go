package txsink

import (
	"context"
	"fmt"
	"time"

	"github.com/gabapcia/txingest/internal/pkg/logger"
	"github.com/gabapcia/txingest/internal/pkg/types"
	"github.com/gabapcia/txingest/internal/pkg/x/chflow"
	"github.com/gabapcia/txingest/internal/txdecode"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// run is the flush loop. It accumulates queued records into a batch and
// flushes it once it reaches batchSize or once flushInterval has elapsed
// since the first record of the batch was submitted, whichever comes first.
//
// It exits when the queue is closed and fully flushed, when ctx is done, or
// after a batch fails permanently.
func (s *service) run(ctx context.Context) {
	defer close(s.failures)
	defer close(s.stopped)

	var (
		batch  = make([]txdecode.Transaction, 0, s.batchSize)
		timer  *time.Timer
		timerC <-chan time.Time
	)

	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
		timer, timerC = nil, nil
	}
	defer stopTimer()

	flush := func() bool {
		stopTimer()
		ok := s.flush(ctx, batch)
		batch = make([]txdecode.Transaction, 0, s.batchSize)
		return ok
	}

	for {
		select {
		case item, ok := <-s.queue:
			if !ok {
				if len(batch) > 0 {
					flush()
				}
				return
			}

			batch = append(batch, item.tx)
			if len(batch) == 1 {
				// The record may have waited in the queue behind a slow flush.
				timer = time.NewTimer(max(s.flushInterval-time.Since(item.at), 0))
				timerC = timer.C
			}

			if len(batch) >= s.batchSize && !flush() {
				return
			}
		case <-timerC:
			if !flush() {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// uniqueByHash drops later records whose hash already appeared in the batch.
func uniqueByHash(batch []txdecode.Transaction) []txdecode.Transaction {
	seen := types.NewSet[string]()
	unique := make([]txdecode.Transaction, 0, len(batch))
	for _, tx := range batch {
		if seen.Has(tx.Hash) {
			continue
		}
		seen.Add(tx.Hash)
		unique = append(unique, tx)
	}
	return unique
}

// hashesOf returns the hashes of txs in order.
func hashesOf(txs []txdecode.Transaction) []string {
	hashes := make([]string, len(txs))
	for i, tx := range txs {
		hashes[i] = tx.Hash
	}
	return hashes
}

// skipWritten removes the records the WrittenGuard already knows about.
// Guard errors are logged and the batch is returned untouched.
func (s *service) skipWritten(ctx context.Context, txs []txdecode.Transaction) []txdecode.Transaction {
	if s.guard == nil || len(txs) == 0 {
		return txs
	}

	written, err := s.guard.FilterWritten(ctx, hashesOf(txs))
	if err != nil {
		logger.Warn(ctx, "written guard lookup failed", "error", err)
		return txs
	}

	if len(written) == 0 {
		return txs
	}

	skip := types.NewSet(written...)
	remaining := make([]txdecode.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !skip.Has(tx.Hash) {
			remaining = append(remaining, tx)
		}
	}

	logger.Debug(ctx, "skipping transactions already written", "count", len(txs)-len(remaining))
	return remaining
}

// markWritten records the persisted hashes in the WrittenGuard, if any.
func (s *service) markWritten(ctx context.Context, txs []txdecode.Transaction) {
	if s.guard == nil || len(txs) == 0 {
		return
	}

	if err := s.guard.MarkWritten(ctx, hashesOf(txs)); err != nil {
		logger.Warn(ctx, "written guard update failed", "error", err)
	}
}

// release frees n buffer slots, unblocking pending Submit calls.
func (s *service) release(n int) {
	for range n {
		<-s.slots
	}
}

// flush persists batch, retrying with backoff. On success the batch's buffer
// slots are released and true is returned. On permanent failure a
// WriteFailure is reported and false is returned; the slots stay taken since
// the records were not persisted.
func (s *service) flush(ctx context.Context, batch []txdecode.Transaction) bool {
	ctx, span := s.tracer.Start(ctx, "txsink.flush", trace.WithAttributes(
		attribute.Int("batch.size", len(batch)),
	))
	defer span.End()

	started := time.Now()
	records := s.skipWritten(ctx, uniqueByHash(batch))

	var attempts uint
	if len(records) > 0 {
		err := s.retry.Execute(ctx, func() error {
			attempts++
			return s.storage.InsertTransactions(ctx, records)
		})
		s.recordFlush(ctx, started, err)

		if err != nil && ctx.Err() != nil {
			logger.Warn(ctx, "batch write abandoned on shutdown", "batch.size", len(batch), "error", err)
			return false
		}

		if err != nil {
			failure := WriteFailure{
				Batch:    batch,
				Attempts: attempts,
				Err:      fmt.Errorf("%w: %w", ErrWrite, err),
			}

			span.RecordError(failure)
			span.SetStatus(codes.Error, "batch write failed")
			logger.Error(ctx, "batch write failed permanently",
				"batch.size", len(batch),
				"batch.first_hash", batch[0].Hash,
				"write.attempts", attempts,
				"error", err,
			)

			chflow.TrySend(s.failures, failure)
			return false
		}
	}

	s.written.Add(ctx, int64(len(records)))
	s.markWritten(ctx, records)
	s.release(len(batch))

	span.SetAttributes(attribute.Int("batch.written", len(records)), attribute.Int("write.attempts", int(attempts)))
	logger.Debug(ctx, "batch flushed",
		"batch.size", len(batch),
		"batch.written", len(records),
		"write.attempts", attempts,
		"duration", time.Since(started),
	)

	return true
}

// recordFlush records the duration of a store write.
func (s *service) recordFlush(ctx context.Context, started time.Time, err error) {
	s.flushDuration.Record(ctx, time.Since(started).Seconds(),
		metric.WithAttributes(attribute.Bool("success", err == nil)),
	)
}
