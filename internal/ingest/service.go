// Package ingest wires the stream session, decoder, filter and sink writer
// into a single pipeline and owns its lifecycle.
//
// Run blocks until the caller's context is cancelled (a shutdown request) or
// a batch can't be persisted. On shutdown the session is drained, the sink
// writer flushes what is buffered, and Run returns nil if everything reached
// the store within the grace period.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gabapcia/txingest/internal/pkg/logger"
	"github.com/gabapcia/txingest/internal/txdecode"
	"github.com/gabapcia/txingest/internal/txfilter"
	"github.com/gabapcia/txingest/internal/txsink"
	"github.com/gabapcia/txingest/internal/txstream"
)

const (
	defaultGracePeriod   = 30 * time.Second
	defaultNotifyTimeout = 10 * time.Second
)

var (
	// ErrAlreadyRunning is returned if Run is called more than once.
	ErrAlreadyRunning = errors.New("pipeline already running")

	// ErrFatalWrite is returned by Run when a batch could not be persisted
	// after exhausting every write attempt.
	ErrFatalWrite = errors.New("fatal write failure")

	// ErrIncompleteDrain is returned by Run when the grace period ended with
	// transactions still buffered.
	ErrIncompleteDrain = errors.New("incomplete drain")
)

// Stats counts what the pipeline did with the updates it received.
type Stats struct {
	Received  uint64
	Dropped   uint64
	Filtered  uint64
	Submitted uint64
}

// Service is the ingestion pipeline.
type Service interface {
	// Run starts the pipeline and blocks until it stops. Cancelling ctx
	// requests a graceful shutdown.
	Run(ctx context.Context) error

	// Stats returns a snapshot of the pipeline counters.
	Stats() Stats
}

type service struct {
	mu        sync.Mutex
	isStarted bool

	session txstream.Session
	sink    txsink.Service
	filter  *txfilter.Filter
	request txstream.SubscriptionRequest

	gracePeriod   time.Duration
	notifyTimeout time.Duration
	observers     []Observer
	notifier      FailureNotifier
	now           func() time.Time

	received  atomic.Uint64
	dropped   atomic.Uint64
	filtered  atomic.Uint64
	submitted atomic.Uint64
}

var _ Service = (*service)(nil)

func (s *service) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.isStarted {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.isStarted = true
	s.mu.Unlock()

	var wg sync.WaitGroup
	defer wg.Wait()

	// In-flight work must outlive the shutdown request; the pipeline context
	// is only cancelled when the grace period ends or on a fatal failure.
	pipelineCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	failures, err := s.sink.Start(pipelineCtx)
	if err != nil {
		return fmt.Errorf("start sink writer: %w", err)
	}
	defer s.sink.Close()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.watchStates(pipelineCtx)
	}()

	// A shutdown request drains the session, which also stops Open from
	// retrying the first handshake.
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.shutdownOnDone(ctx, pipelineCtx, cancel)
	}()

	messages, err := s.session.Open(pipelineCtx, s.request)
	if err != nil {
		if ctx.Err() != nil {
			logger.Info(ctx, "shutdown requested before the stream was subscribed", "error", err)
			return s.drain(ctx, pipelineCtx, failures)
		}
		return fmt.Errorf("open stream: %w", err)
	}

	logger.Info(ctx, "pipeline started", "accounts", len(s.request.Accounts), "commitment", s.request.CommitmentOrDefault())

	consumed := make(chan error, 1)
	go func() {
		consumed <- s.consume(pipelineCtx, messages)
	}()

	select {
	case failure, ok := <-failures:
		if ok {
			err := s.fail(ctx, failure)
			cancel()
			<-consumed
			return err
		}
		<-consumed
	case err := <-consumed:
		if err != nil {
			logger.Debug(ctx, "consumer stopped", "error", err)
		}
	}

	return s.drain(ctx, pipelineCtx, failures)
}

func (s *service) Stats() Stats {
	return Stats{
		Received:  s.received.Load(),
		Dropped:   s.dropped.Load(),
		Filtered:  s.filtered.Load(),
		Submitted: s.submitted.Load(),
	}
}

// shutdownOnDone drains the session once ctx is cancelled and gives the
// pipeline the grace period to finish before cancelling it.
func (s *service) shutdownOnDone(ctx, pipelineCtx context.Context, cancel context.CancelFunc) {
	select {
	case <-ctx.Done():
	case <-pipelineCtx.Done():
		return
	}

	logger.Info(ctx, "shutdown requested, draining pipeline", "grace_period", s.gracePeriod)
	s.session.Drain()

	timer := time.NewTimer(s.gracePeriod)
	defer timer.Stop()

	select {
	case <-timer.C:
		logger.Warn(ctx, "shutdown grace period expired")
		cancel()
	case <-pipelineCtx.Done():
	}
}

// consume runs decode, filter and submit inline for every received update.
// It returns when the session closes the message channel or Submit fails.
func (s *service) consume(ctx context.Context, messages <-chan txstream.RawMessage) error {
	for raw := range messages {
		s.received.Add(1)

		tx, err := txdecode.Decode(raw)
		if err != nil {
			s.dropped.Add(1)
			s.emit(ctx, Event{Kind: EventDecodeDropped, Err: err})
			continue
		}

		if !s.filter.Accept(tx) {
			s.filtered.Add(1)
			s.emit(ctx, Event{Kind: EventFiltered, Hash: tx.Hash})
			continue
		}

		if err := s.sink.Submit(ctx, tx); err != nil {
			return err
		}

		s.submitted.Add(1)
		s.emit(ctx, Event{Kind: EventSubmitted, Hash: tx.Hash})
	}

	return nil
}

// watchStates forwards session state transitions to the observers until the
// session closes its state channel.
func (s *service) watchStates(ctx context.Context) {
	for st := range s.session.States() {
		s.emit(ctx, Event{Kind: EventStateChanged, Transition: st})
	}
}

// drain waits for the sink writer to persist every buffered transaction.
func (s *service) drain(ctx, pipelineCtx context.Context, failures <-chan txsink.WriteFailure) error {
	pending, err := s.sink.Drain(pipelineCtx)
	if err == nil || pending == 0 {
		logger.Info(ctx, "pipeline stopped", s.statsFields()...)
		return nil
	}

	if errors.Is(err, txsink.ErrServiceStopped) {
		if failure, ok := <-failures; ok {
			return s.fail(ctx, failure)
		}
	}

	logger.Error(ctx, "pipeline stopped with unpersisted transactions", append(s.statsFields(), "pending", pending)...)
	return fmt.Errorf("%w: %d transactions not persisted", ErrIncompleteDrain, pending)
}

// fail reports a fatal write failure and builds Run's error.
func (s *service) fail(ctx context.Context, failure txsink.WriteFailure) error {
	s.emit(ctx, Event{Kind: EventWriteFailed, Failure: &failure})
	s.session.Drain()

	if s.notifier != nil {
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
		defer cancel()

		if err := s.notifier.NotifyWriteFailure(notifyCtx, failure); err != nil {
			logger.Error(ctx, "failed to notify write failure", "error", err)
		}
	}

	logger.Error(ctx, "pipeline stopped on write failure", s.statsFields()...)
	return fmt.Errorf("%w: %w", ErrFatalWrite, failure)
}

func (s *service) emit(ctx context.Context, event Event) {
	event.At = s.now()
	for _, o := range s.observers {
		o.Observe(ctx, event)
	}
}

func (s *service) statsFields() []any {
	stats := s.Stats()
	return []any{
		"updates.received", stats.Received,
		"updates.dropped", stats.Dropped,
		"updates.filtered", stats.Filtered,
		"updates.submitted", stats.Submitted,
	}
}

type config struct {
	gracePeriod   time.Duration
	notifyTimeout time.Duration
	observers     []Observer
	notifier      FailureNotifier
}

// Option configures the pipeline.
type Option func(*config)

// New wires a pipeline. The session subscribes with req; decoded updates
// accepted by filter are submitted to sink.
//
// Events are always written to the log; WithObserver adds more consumers.
func New(session txstream.Session, sink txsink.Service, filter *txfilter.Filter, req txstream.SubscriptionRequest, opts ...Option) *service {
	cfg := config{
		gracePeriod:   defaultGracePeriod,
		notifyTimeout: defaultNotifyTimeout,
		observers:     []Observer{LogObserver{}},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		session:       session,
		sink:          sink,
		filter:        filter,
		request:       req,
		gracePeriod:   cfg.gracePeriod,
		notifyTimeout: cfg.notifyTimeout,
		observers:     cfg.observers,
		notifier:      cfg.notifier,
		now:           time.Now,
	}
}

// WithGracePeriod bounds how long a shutdown may take.
func WithGracePeriod(d time.Duration) Option {
	return func(c *config) {
		c.gracePeriod = d
	}
}

// WithObserver adds event observers.
func WithObserver(observers ...Observer) Option {
	return func(c *config) {
		c.observers = append(c.observers, observers...)
	}
}

// WithFailureNotifier sets who is told about fatal write failures.
func WithFailureNotifier(n FailureNotifier) Option {
	return func(c *config) {
		c.notifier = n
	}
}

// WithNotifyTimeout bounds the failure notification call.
func WithNotifyTimeout(d time.Duration) Option {
	return func(c *config) {
		c.notifyTimeout = d
	}
}
