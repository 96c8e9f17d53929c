package redis

import (
	"context"
	"fmt"

	"github.com/gabapcia/txingest/internal/txsink"

	redis "github.com/redis/go-redis/v9"
)

// writtenKeyPrefix defines the base key prefix used to remember persisted
// transaction hashes.
const writtenKeyPrefix = "txn:written"

// writtenKey returns the key marking hash as persisted.
//
// Format: "txn:written:{hash}"
func writtenKey(hash string) string {
	return fmt.Sprintf("%s:%s", writtenKeyPrefix, hash)
}

// FilterWritten implements txsink.WrittenGuard.
//
// It pipelines one EXISTS per hash and returns, in input order, the hashes
// that are marked as written.
func (c *client) FilterWritten(ctx context.Context, hashes []string) ([]string, error) {
	if len(hashes) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.IntCmd, len(hashes))
	_, err := c.conn.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, hash := range hashes {
			cmds[i] = pipe.Exists(ctx, writtenKey(hash))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(hashes))
	for i, cmd := range cmds {
		if cmd.Val() > 0 {
			written = append(written, hashes[i])
		}
	}

	return written, nil
}

// MarkWritten implements txsink.WrittenGuard. Every hash is stored with the
// configured TTL in a single pipeline.
func (c *client) MarkWritten(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}

	_, err := c.conn.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, hash := range hashes {
			pipe.Set(ctx, writtenKey(hash), 1, c.writtenTTL)
		}
		return nil
	})
	return err
}

// Compile-time assertion to ensure *client satisfies the txsink.WrittenGuard interface
var _ txsink.WrittenGuard = new(client)
