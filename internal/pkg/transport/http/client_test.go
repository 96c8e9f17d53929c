package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gabapcia/txingest/internal/pkg/resilience/backoff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("uses default configuration when no options are provided", func(t *testing.T) {
		client := NewClient()

		assert.NotNil(t, client, "NewClient should return a non-nil client")
		assert.Equal(t, 5*time.Second, client.HTTPClient.Timeout, "default HTTP timeout should be 5s")
		assert.Equal(t, 1*time.Second, client.RetryWaitMin)
		assert.Equal(t, 5*time.Second, client.RetryWaitMax)
		assert.Equal(t, 2, client.RetryMax, "default RetryMax should be 2")
	})

	t.Run("applies provided options correctly", func(t *testing.T) {
		policy := backoff.Policy{Initial: 200 * time.Millisecond, Multiplier: 2, Max: 10 * time.Second}

		client := NewClient(
			WithTimeout(10*time.Second),
			WithBackoff(policy),
			WithRetryMax(5),
		)

		assert.Equal(t, 10*time.Second, client.HTTPClient.Timeout)
		assert.Equal(t, 200*time.Millisecond, client.RetryWaitMin)
		assert.Equal(t, 10*time.Second, client.RetryWaitMax)
		assert.Equal(t, 5, client.RetryMax)
		assert.Equal(t, 800*time.Millisecond, client.Backoff(0, 0, 2, nil), "waits should follow the policy")
	})
}

func TestPostJSON(t *testing.T) {
	fast := WithBackoff(backoff.Policy{Initial: time.Millisecond, Multiplier: 1})

	t.Run("should send the body as JSON", func(t *testing.T) {
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		err := PostJSON(t.Context(), NewClient(fast), server.URL, map[string]any{"event": "write_failed"})
		require.NoError(t, err)
		assert.Equal(t, "write_failed", got["event"])
	})

	t.Run("should retry server errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		require.NoError(t, PostJSON(t.Context(), NewClient(fast), server.URL, struct{}{}))
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("should reject non 2xx responses", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		err := PostJSON(t.Context(), NewClient(fast), server.URL, struct{}{})
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.Contains(t, err.Error(), "400")
	})

	t.Run("should fail when the server is down", func(t *testing.T) {
		server := httptest.NewServer(nil)
		server.Close()

		err := PostJSON(t.Context(), NewClient(fast, WithRetryMax(0)), server.URL, struct{}{})
		assert.Error(t, err)
	})
}
