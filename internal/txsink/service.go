// Package txsink buffers accepted transactions and writes them to the store in
// ordered batches, applying backpressure when the buffer is full and retrying
// failed writes with exponential backoff.
//
// The writer has exactly one producer (the caller of Submit) and one consumer
// (the internal flush loop). Records reach the store in the order they were
// submitted.
package txsink

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gabapcia/txingest/internal/pkg/resilience/retry"
	"github.com/gabapcia/txingest/internal/txdecode"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultBufferCapacity = 1024
	defaultBatchSize      = 100
	defaultFlushInterval  = time.Second

	instrumentationName = "github.com/gabapcia/txingest/internal/txsink"
)

// Service is the sink writer.
type Service interface {
	// Start launches the flush loop. The returned channel delivers at most one
	// WriteFailure, after which the flush loop stops; it is closed when the
	// flush loop exits.
	//
	// Returns ErrServiceAlreadyStarted if called more than once.
	Start(ctx context.Context) (<-chan WriteFailure, error)

	// Submit enqueues tx for writing. It returns immediately while fewer than
	// the buffer capacity records are waiting to be persisted; otherwise it
	// blocks until a flush frees space, the flush loop stops or ctx is done.
	// Records are never dropped.
	//
	// Submit must be called from a single goroutine and never concurrently
	// with Drain.
	Submit(ctx context.Context, tx txdecode.Transaction) error

	// Drain stops intake and waits until every submitted record is persisted.
	// If ctx ends first, it returns the number of records still unpersisted
	// along with the context error.
	Drain(ctx context.Context) (int, error)

	// Pending returns the number of submitted records not yet persisted.
	Pending() int

	// Close stops the flush loop without waiting for buffered records.
	// It is safe to call Close more than once, or without Start.
	Close()
}

type closeFunc func()

// queued is a submitted record and the time it was submitted.
type queued struct {
	tx txdecode.Transaction
	at time.Time
}

type service struct {
	mu        sync.Mutex // protects lifecycle state
	isStarted atomic.Bool
	isClosed  atomic.Bool
	closeFunc closeFunc

	queue    chan queued   // submitted records, in order
	slots    chan struct{} // one token per unpersisted record
	failures chan WriteFailure
	stopped  chan struct{} // closed when the flush loop exits

	storage       TransactionStorage
	guard         WrittenGuard
	retry         retry.Retry
	tracer        trace.Tracer
	flushDuration metric.Float64Histogram
	written       metric.Int64Counter
	batchSize     int
	flushInterval time.Duration
}

var _ Service = (*service)(nil)

func (s *service) Start(ctx context.Context) (<-chan WriteFailure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted.Load() {
		return nil, ErrServiceAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	s.closeFunc = closeFunc(cancel)

	go s.run(ctx)

	s.isStarted.Store(true)
	return s.failures, nil
}

func (s *service) Submit(ctx context.Context, tx txdecode.Transaction) error {
	if !s.isStarted.Load() {
		return ErrServiceNotStarted
	}

	if s.isClosed.Load() {
		return ErrServiceClosed
	}

	select {
	case <-s.stopped:
		return ErrServiceStopped
	default:
	}

	select {
	case s.slots <- struct{}{}:
	case <-s.stopped:
		return ErrServiceStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	// queue and slots share the same capacity, so holding a slot guarantees
	// room in the queue.
	s.queue <- queued{tx: tx, at: time.Now()}
	return nil
}

func (s *service) Drain(ctx context.Context) (int, error) {
	if !s.isStarted.Load() {
		return 0, ErrServiceNotStarted
	}

	s.mu.Lock()
	if s.isClosed.CompareAndSwap(false, true) {
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.stopped:
		if pending := s.Pending(); pending > 0 {
			return pending, ErrServiceStopped
		}
		return 0, nil
	case <-ctx.Done():
		return s.Pending(), ctx.Err()
	}
}

func (s *service) Pending() int {
	return len(s.slots)
}

func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isClosed.Store(true)
	if s.closeFunc != nil {
		s.closeFunc()
	}
	s.closeFunc = nil
}

type config struct {
	bufferCapacity int
	batchSize      int
	flushInterval  time.Duration
	retry          retry.Retry
	guard          WrittenGuard
	tracer         trace.Tracer
	meter          metric.Meter
}

// Option configures the sink writer.
type Option func(*config)

// New creates a sink writer persisting into storage.
//
// Defaults: buffer capacity 1024, batch size 100, flush interval 1s, the
// default retry executor, no WrittenGuard and the global OpenTelemetry tracer
// and meter.
// A batch size larger than the buffer capacity is lowered to the capacity.
func New(storage TransactionStorage, opts ...Option) *service {
	cfg := config{
		bufferCapacity: defaultBufferCapacity,
		batchSize:      defaultBatchSize,
		flushInterval:  defaultFlushInterval,
		retry:          retry.New(),
		tracer:         otel.Tracer(instrumentationName),
		meter:          otel.Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	cfg.bufferCapacity = max(cfg.bufferCapacity, 1)
	cfg.batchSize = min(max(cfg.batchSize, 1), cfg.bufferCapacity)

	// Instrument creation only fails on invalid names; the returned
	// instruments are usable no-ops in that case.
	flushDuration, _ := cfg.meter.Float64Histogram("txsink.flush.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of batch flushes, retries included."),
	)
	written, _ := cfg.meter.Int64Counter("txsink.written",
		metric.WithDescription("Transactions persisted by the sink writer."),
	)

	return &service{
		queue:         make(chan queued, cfg.bufferCapacity),
		slots:         make(chan struct{}, cfg.bufferCapacity),
		failures:      make(chan WriteFailure, 1),
		stopped:       make(chan struct{}),
		storage:       storage,
		guard:         cfg.guard,
		retry:         cfg.retry,
		tracer:        cfg.tracer,
		flushDuration: flushDuration,
		written:       written,
		batchSize:     cfg.batchSize,
		flushInterval: cfg.flushInterval,
	}
}

// WithBufferCapacity sets how many records may be waiting for persistence
// before Submit blocks.
func WithBufferCapacity(n int) Option {
	return func(c *config) {
		c.bufferCapacity = n
	}
}

// WithBatchSize sets the number of records that triggers an immediate flush.
func WithBatchSize(n int) Option {
	return func(c *config) {
		c.batchSize = n
	}
}

// WithFlushInterval sets the maximum time the oldest buffered record waits
// before its batch is flushed.
func WithFlushInterval(d time.Duration) Option {
	return func(c *config) {
		c.flushInterval = d
	}
}

// WithRetry sets the retry executor used for batch writes.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

// WithWrittenGuard enables skipping transactions already persisted by a
// previous run.
func WithWrittenGuard(g WrittenGuard) Option {
	return func(c *config) {
		c.guard = g
	}
}

// WithTracer overrides the tracer used for flush spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *config) {
		c.tracer = t
	}
}

// WithMeter overrides the meter used for flush metrics.
func WithMeter(m metric.Meter) Option {
	return func(c *config) {
		c.meter = m
	}
}
