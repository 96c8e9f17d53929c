// Package txstream owns the upstream subscription: the handshake, the receive
// loop, keepalive and reconnect-on-drop.
//
// A session moves through Disconnected, Connecting and Subscribed, falling
// back to Disconnected on any transport error and reconnecting with
// exponential backoff forever. Drain moves it to Draining: it stops reading
// from upstream, hands over what was already received and closes the message
// channel.
package txstream

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gabapcia/txingest/internal/pkg/logger"
	"github.com/gabapcia/txingest/internal/pkg/resilience/backoff"
	"github.com/gabapcia/txingest/internal/pkg/resilience/retry"
	"github.com/gabapcia/txingest/internal/pkg/x/chflow"

	"github.com/google/uuid"
)

const (
	defaultKeepalive     = 30 * time.Second
	defaultMessageBuffer = 256
	defaultStateBuffer   = 32
)

// Session is a stream session.
type Session interface {
	// Open performs the first handshake synchronously and, once subscribed,
	// starts the receive loop. The returned channel delivers transaction
	// update payloads in arrival order and is closed once the session is
	// drained or ctx is done.
	//
	// A failed first handshake is retried on the reconnect schedule. Open only
	// gives up when ctx is done or Drain is called before the subscription is
	// established, returning a ConnectionError that wraps the cancellation.
	Open(ctx context.Context, req SubscriptionRequest) (<-chan RawMessage, error)

	// States delivers connection state transitions. Transitions are dropped
	// rather than blocking the session when nobody reads them. The channel is
	// closed when the session ends.
	States() <-chan StateTransition

	// Drain asks the session to stop receiving. It does not wait; the message
	// channel is closed once everything already received has been handed over.
	Drain()
}

type service struct {
	mu       sync.Mutex
	isOpen   bool
	state    State
	draining atomic.Bool
	drain    chan struct{} // closed by Drain

	messages chan RawMessage
	states   chan StateTransition

	dialer    Dialer
	keepalive time.Duration
	policy    backoff.Policy
	now       func() time.Time
}

var _ Session = (*service)(nil)

func (s *service) Open(ctx context.Context, req SubscriptionRequest) (<-chan RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isOpen {
		return nil, ErrSessionAlreadyOpen
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx = logger.WithFields(ctx, "session.id", uuid.Must(uuid.NewV7()).String())

	s.isOpen = true

	conn, err := s.reconnect(ctx, req)
	if err != nil {
		if s.draining.Load() {
			s.transition(ctx, StateDraining, nil)
			s.transition(ctx, StateDisconnected, nil)
		}
		close(s.states)
		close(s.messages)
		return nil, connectionError("dial", err)
	}

	go s.run(ctx, req, conn)

	return s.messages, nil
}

func (s *service) States() <-chan StateTransition {
	return s.states
}

func (s *service) Drain() {
	if s.draining.CompareAndSwap(false, true) {
		close(s.drain)
	}
}

// transition records the new state and publishes it without blocking.
func (s *service) transition(ctx context.Context, to State, cause error) {
	from := s.state
	if from == to {
		return
	}
	s.state = to

	st := StateTransition{From: from, To: to, At: s.now(), Err: cause}
	if !chflow.TrySend(s.states, st) {
		logger.Debug(ctx, "state transition not observed", "from", from.String(), "to", to.String())
	}

	if cause != nil {
		logger.Warn(ctx, "stream state changed", "from", from.String(), "to", to.String(), "error", cause)
		return
	}
	logger.Info(ctx, "stream state changed", "from", from.String(), "to", to.String())
}

// connect performs one handshake attempt.
func (s *service) connect(ctx context.Context, req SubscriptionRequest) (Conn, error) {
	s.transition(ctx, StateConnecting, nil)

	conn, err := s.dialer.Dial(ctx, req)
	if err != nil {
		err = connectionError("dial", err)
		s.transition(ctx, StateDisconnected, err)
		return nil, err
	}

	s.transition(ctx, StateSubscribed, nil)
	return conn, nil
}

// untilDrain returns a child of ctx that is also cancelled by Drain.
func (s *service) untilDrain(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-s.drain:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// reconnect dials until it succeeds, following the backoff policy. A new
// executor is used every time so the schedule restarts after each successful
// subscription. It only fails when ctx is done or Drain was called.
func (s *service) reconnect(ctx context.Context, req SubscriptionRequest) (Conn, error) {
	ctx, cancel := s.untilDrain(ctx)
	defer cancel()

	r := retry.New(
		retry.WithAttempts(0),
		retry.WithPolicy(s.policy),
		retry.WithOnRetry(func(attempt uint, err error) {
			logger.Debug(ctx, "reconnect attempt failed", "attempt", attempt+1, "error", err)
		}),
	)

	var conn Conn
	err := r.Execute(ctx, func() error {
		c, err := s.connect(ctx, req)
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// run drives the session until it is drained or ctx is done.
func (s *service) run(ctx context.Context, req SubscriptionRequest, conn Conn) {
	defer close(s.states)
	defer close(s.messages)

	for {
		err := s.serve(ctx, conn)
		if err == nil {
			s.transition(ctx, StateDisconnected, nil)
			return
		}

		if ctx.Err() != nil {
			s.transition(ctx, StateDisconnected, ctx.Err())
			return
		}

		s.transition(ctx, StateDisconnected, err)

		conn, err = s.reconnect(ctx, req)
		if err != nil {
			if s.draining.Load() {
				s.transition(ctx, StateDraining, nil)
			}
			s.transition(ctx, StateDisconnected, nil)
			return
		}
	}
}

// serve pumps frames from conn until it fails, the keepalive expires, Drain
// is called or ctx is done. It returns nil only when drained.
func (s *service) serve(ctx context.Context, conn Conn) error {
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer conn.Close()

	var (
		frames = make(chan Frame, 1)
		errs   = make(chan error, 1)
	)
	go receive(connCtx, conn, frames, errs)

	var (
		stalled <-chan time.Time
		touch   = func() {}
	)
	if s.keepalive > 0 {
		timer := time.NewTimer(s.keepalive)
		defer timer.Stop()

		stalled = timer.C
		touch = func() { timer.Reset(s.keepalive) }
	}

	for {
		select {
		case frame := <-frames:
			touch()

			if err := s.handle(ctx, conn, frame); err != nil {
				return err
			}

			// handle may block on a slow consumer.
			touch()
		case err := <-errs:
			return connectionError("receive", err)
		case <-stalled:
			return connectionError("keepalive", ErrStalled)
		case <-s.drain:
			cancel()
			return s.flush(ctx, frames)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// handle reacts to a single frame.
func (s *service) handle(ctx context.Context, conn Conn, frame Frame) error {
	switch frame.Kind {
	case FrameUpdate:
		if !chflow.Send(ctx, s.messages, frame.Payload) {
			return ctx.Err()
		}
	case FramePing:
		if err := conn.Ping(ctx); err != nil {
			return connectionError("ping", err)
		}
	case FramePong:
	}

	return nil
}

// flush enters Draining and hands over the updates already received from the
// connection. The receive goroutine must be stopped before calling it.
func (s *service) flush(ctx context.Context, frames <-chan Frame) error {
	s.transition(ctx, StateDraining, nil)

	for {
		select {
		case frame := <-frames:
			if frame.Kind != FrameUpdate {
				continue
			}
			if !chflow.Send(ctx, s.messages, frame.Payload) {
				return ctx.Err()
			}
		default:
			return nil
		}
	}
}

// receive reads frames from conn until it fails or ctx is done.
func receive(ctx context.Context, conn Conn, frames chan<- Frame, errs chan<- error) {
	for {
		frame, err := conn.Receive(ctx)
		if err != nil {
			if ctx.Err() == nil {
				errs <- err
			}
			return
		}

		if !chflow.Send(ctx, frames, frame) {
			return
		}
	}
}

type config struct {
	keepalive     time.Duration
	policy        backoff.Policy
	messageBuffer int
	stateBuffer   int
}

// Option configures a Session.
type Option func(*config)

// New creates a session dialing through dialer.
//
// Defaults: 30s keepalive, backoff.Default() reconnect schedule, a 256
// message buffer and a 32 transition buffer.
func New(dialer Dialer, opts ...Option) *service {
	cfg := config{
		keepalive:     defaultKeepalive,
		policy:        backoff.Default(),
		messageBuffer: defaultMessageBuffer,
		stateBuffer:   defaultStateBuffer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		state:     StateDisconnected,
		drain:     make(chan struct{}),
		messages:  make(chan RawMessage, max(cfg.messageBuffer, 0)),
		states:    make(chan StateTransition, max(cfg.stateBuffer, 0)),
		dialer:    dialer,
		keepalive: cfg.keepalive,
		policy:    cfg.policy,
		now:       time.Now,
	}
}

// WithKeepalive sets how long the connection may stay silent before it is
// considered stalled. Zero disables the check.
func WithKeepalive(d time.Duration) Option {
	return func(c *config) {
		c.keepalive = d
	}
}

// WithBackoff sets the reconnect schedule.
func WithBackoff(p backoff.Policy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithMessageBuffer sets the capacity of the message channel.
func WithMessageBuffer(n int) Option {
	return func(c *config) {
		c.messageBuffer = n
	}
}

// WithStateBuffer sets the capacity of the state transition channel.
func WithStateBuffer(n int) Option {
	return func(c *config) {
		c.stateBuffer = n
	}
}
