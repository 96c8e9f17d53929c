package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpclient "github.com/gabapcia/txingest/internal/pkg/transport/http"
	"github.com/gabapcia/txingest/internal/txdecode"
	"github.com/gabapcia/txingest/internal/txsink"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failure(n int) txsink.WriteFailure {
	batch := make([]txdecode.Transaction, n)
	for i := range batch {
		batch[i] = txdecode.Transaction{Hash: fmt.Sprintf("hash-%02d", i)}
	}

	return txsink.WriteFailure{
		Batch:    batch,
		Attempts: 5,
		Err:      fmt.Errorf("%w: %w", txsink.ErrWrite, errors.New("connection refused")),
	}
}

func TestNotifier_NotifyWriteFailure(t *testing.T) {
	t.Run("should post the failure summary", func(t *testing.T) {
		var got Payload
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		n := New(server.URL, "txingest", nil)
		n.now = func() time.Time { return time.Date(2024, 6, 10, 6, 13, 20, 0, time.UTC) }

		require.NoError(t, n.NotifyWriteFailure(t.Context(), failure(25)))

		assert.Equal(t, "write_failed", got.Event)
		assert.Equal(t, "txingest", got.Service)
		assert.Equal(t, 25, got.BatchSize)
		assert.Equal(t, uint(5), got.Attempts)
		assert.Len(t, got.Hashes, maxReportedHashes)
		assert.Equal(t, "hash-00", got.Hashes[0])
		assert.Contains(t, got.Error, "connection refused")
		assert.True(t, got.OccurredAt.Equal(n.now()))
	})

	t.Run("should fail on a rejected notification", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		err := New(server.URL, "txingest", httpclient.NewClient(httpclient.WithRetryMax(0))).NotifyWriteFailure(t.Context(), failure(1))
		assert.ErrorIs(t, err, httpclient.ErrUnexpectedStatus)
	})
}
