package txstream

import "context"

// RawMessage is the undecoded payload of a transaction update.
type RawMessage []byte

// FrameKind identifies what the upstream sent.
type FrameKind int

const (
	FrameUpdate FrameKind = iota // a transaction update, Payload is set
	FramePing                    // the server asks for a ping back
	FramePong                    // the server answered one of our pings
)

// Frame is a single inbound message.
type Frame struct {
	Kind    FrameKind
	Payload RawMessage
}

// Dialer opens subscribed connections to the upstream feed.
type Dialer interface {
	// Dial connects and sends req. It returns once the server confirmed the
	// subscription, or with an error if the handshake failed.
	Dial(ctx context.Context, req SubscriptionRequest) (Conn, error)
}

// Conn is one subscribed upstream connection.
type Conn interface {
	// Receive blocks until the next frame arrives, the connection fails or
	// ctx is done.
	Receive(ctx context.Context) (Frame, error)

	// Ping sends a client ping. Used to answer server pings so that load
	// balancers in front of the feed keep the connection open.
	Ping(ctx context.Context) error

	// Close releases the connection. It unblocks a pending Receive.
	Close() error
}
