// Package redis implements the sink's WrittenGuard on top of Redis.
package redis

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const defaultWrittenTTL = 24 * time.Hour

type client struct {
	conn       redis.UniversalClient
	writtenTTL time.Duration
}

func (c *client) Close() error {
	return c.conn.Close()
}

// Option configures the client.
type Option func(*client)

// WithWrittenTTL sets how long a written hash is remembered. Zero keeps it
// forever.
func WithWrittenTTL(ttl time.Duration) Option {
	return func(c *client) {
		c.writtenTTL = ttl
	}
}

// NewClient connects to Redis and checks the connection with a PING.
func NewClient(ctx context.Context, addr, username, password string, db int, opts ...Option) (*client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	c := &client{
		conn:       conn,
		writtenTTL: defaultWrittenTTL,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}
