package chflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSend(t *testing.T) {
	t.Run("should deliver on a ready channel", func(t *testing.T) {
		ch := make(chan int, 1)

		assert.True(t, Send(t.Context(), ch, 7))
		assert.Equal(t, 7, <-ch)
	})

	t.Run("should give up once the context is done", func(t *testing.T) {
		ch := make(chan int)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		assert.False(t, Send(ctx, ch, 7))
	})

	t.Run("should wait for a receiver", func(t *testing.T) {
		ch := make(chan string)
		go func() { assert.Equal(t, "update", <-ch) }()

		assert.True(t, Send(t.Context(), ch, "update"))
	})
}

func TestTrySend(t *testing.T) {
	t.Run("should deliver when there is room", func(t *testing.T) {
		ch := make(chan int, 1)

		assert.True(t, TrySend(ch, 1))
		assert.Equal(t, 1, <-ch)
	})

	t.Run("should not block on a full channel", func(t *testing.T) {
		ch := make(chan int, 1)
		ch <- 1

		assert.False(t, TrySend(ch, 2))
		assert.Equal(t, 1, <-ch)
	})
}
