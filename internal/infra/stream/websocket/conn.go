package websocket

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gabapcia/txingest/internal/pkg/logger"
	"github.com/gabapcia/txingest/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/txingest/internal/txstream"

	"github.com/gorilla/websocket"
)

// ErrSubscriptionRejected is returned when the server answers the subscribe
// request with an error.
var ErrSubscriptionRejected = errors.New("subscription rejected")

type conn struct {
	ws           *websocket.Conn
	writeTimeout time.Duration

	writeMu   sync.Mutex // gorilla allows one concurrent writer
	closeOnce sync.Once
	closeErr  error
}

var _ txstream.Conn = (*conn)(nil)

func newConn(ws *websocket.Conn, writeTimeout time.Duration) *conn {
	return &conn{ws: ws, writeTimeout: writeTimeout}
}

// interruptOn makes a blocked read return once ctx is done.
func (c *conn) interruptOn(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, func() {
		_ = c.ws.SetReadDeadline(time.Now())
	})
}

func (c *conn) read(ctx context.Context) (jsonrpc.Message, error) {
	stop := c.interruptOn(ctx)
	defer stop()

	_, data, err := c.ws.ReadMessage()
	if err != nil {
		if ctx.Err() != nil {
			return jsonrpc.Message{}, ctx.Err()
		}
		return jsonrpc.Message{}, err
	}

	msg, err := jsonrpc.Decode(data)
	if err != nil {
		return jsonrpc.Message{}, fmt.Errorf("decode message: %w", err)
	}

	return msg, nil
}

func (c *conn) write(ctx context.Context, v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(c.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return err
	}

	return c.ws.WriteJSON(v)
}

// subscribe sends req and waits for its response. Notifications received
// before the response are discarded.
func (c *conn) subscribe(ctx context.Context, req jsonrpc.Request) error {
	if err := c.write(ctx, req); err != nil {
		return fmt.Errorf("send subscription: %w", err)
	}

	for {
		msg, err := c.read(ctx)
		if err != nil {
			return fmt.Errorf("await subscription: %w", err)
		}

		if !msg.IsResponseTo(req.ID) {
			continue
		}

		if err := msg.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrSubscriptionRejected, err)
		}

		logger.Debug(ctx, "subscription confirmed", "subscription.id", string(msg.Result))
		return nil
	}
}

// Receive implements txstream.Conn. Responses to our own requests and
// unknown notifications are skipped.
func (c *conn) Receive(ctx context.Context) (txstream.Frame, error) {
	for {
		msg, err := c.read(ctx)
		if err != nil {
			return txstream.Frame{}, err
		}

		if err := msg.Err(); err != nil {
			return txstream.Frame{}, err
		}

		switch msg.Method {
		case methodNotification:
			result, err := msg.NotificationResult()
			if err != nil {
				logger.Warn(ctx, "skipping malformed notification", "error", err)
				continue
			}
			return txstream.Frame{Kind: txstream.FrameUpdate, Payload: txstream.RawMessage(result)}, nil
		case methodPing:
			return txstream.Frame{Kind: txstream.FramePing}, nil
		case methodPong:
			return txstream.Frame{Kind: txstream.FramePong}, nil
		}
	}
}

// Ping implements txstream.Conn.
func (c *conn) Ping(ctx context.Context) error {
	return c.write(ctx, jsonrpc.NewRequest(methodPing))
}

// Close implements txstream.Conn. It sends a close frame and closes the
// underlying connection; later calls return the first result.
func (c *conn) Close() error {
	c.closeOnce.Do(func() {
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)

		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}
