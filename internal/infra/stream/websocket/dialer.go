// Package websocket implements the stream session transport over a
// JSON-RPC 2.0 websocket feed.
//
// The subscription is sent as a "transactionSubscribe" request carrying the
// account filter and the commitment level; the x-token header authenticates
// the client. Updates arrive as "transactionNotification" messages.
package websocket

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gabapcia/txingest/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/txingest/internal/txstream"

	"github.com/gorilla/websocket"
)

const (
	methodSubscribe    = "transactionSubscribe"
	methodNotification = "transactionNotification"
	methodPing         = "ping"
	methodPong         = "pong"

	tokenHeader = "x-token"

	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteTimeout     = 5 * time.Second
)

// transactionFilter is the first subscribe parameter.
type transactionFilter struct {
	AccountInclude []string `json:"accountInclude"`
	Vote           bool     `json:"vote"`
	Failed         bool     `json:"failed"`
}

// subscribeOptions is the second subscribe parameter.
type subscribeOptions struct {
	Commitment string `json:"commitment"`
}

// subscribeRequest builds the JSON-RPC request for req.
func subscribeRequest(req txstream.SubscriptionRequest) jsonrpc.Request {
	return jsonrpc.NewRequest(methodSubscribe,
		transactionFilter{
			AccountInclude: req.Accounts,
			Vote:           req.Vote,
			Failed:         req.Failed,
		},
		subscribeOptions{
			Commitment: req.CommitmentOrDefault(),
		},
	)
}

type dialer struct {
	endpoint         string
	handshakeTimeout time.Duration
	writeTimeout     time.Duration
	ws               *websocket.Dialer
}

var _ txstream.Dialer = (*dialer)(nil)

// Dial connects to the endpoint, subscribes and waits for the subscription to
// be confirmed, all within the handshake timeout.
func (d *dialer) Dial(ctx context.Context, req txstream.SubscriptionRequest) (txstream.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, d.handshakeTimeout)
	defer cancel()

	header := http.Header{}
	if req.XToken != "" {
		header.Set(tokenHeader, req.XToken)
	}

	ws, res, err := d.ws.DialContext(ctx, d.endpoint, header)
	if err != nil {
		if res != nil {
			return nil, fmt.Errorf("websocket handshake: %s: %w", res.Status, err)
		}
		return nil, err
	}

	c := newConn(ws, d.writeTimeout)
	if err := c.subscribe(ctx, subscribeRequest(req)); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

type config struct {
	handshakeTimeout time.Duration
	writeTimeout     time.Duration
}

// Option configures the dialer.
type Option func(*config)

// NewDialer creates a dialer for a ws:// or wss:// endpoint.
func NewDialer(endpoint string, opts ...Option) *dialer {
	cfg := config{
		handshakeTimeout: defaultHandshakeTimeout,
		writeTimeout:     defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &dialer{
		endpoint:         endpoint,
		handshakeTimeout: cfg.handshakeTimeout,
		writeTimeout:     cfg.writeTimeout,
		ws: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.handshakeTimeout,
		},
	}
}

// WithHandshakeTimeout bounds connecting plus the subscription round trip.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *config) {
		c.handshakeTimeout = d
	}
}

// WithWriteTimeout bounds every outbound write.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *config) {
		c.writeTimeout = d
	}
}
