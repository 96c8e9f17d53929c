package prometheus

import (
	"testing"

	"github.com/gabapcia/txingest/internal/ingest"
	"github.com/gabapcia/txingest/internal/txdecode"
	"github.com/gabapcia/txingest/internal/txsink"
	"github.com/gabapcia/txingest/internal/txstream"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObserver(t *testing.T) {
	t.Run("should fail when metrics are already registered", func(t *testing.T) {
		reg := prometheus.NewRegistry()

		_, err := NewObserver(reg)
		require.NoError(t, err)

		_, err = NewObserver(reg)
		assert.Error(t, err)
	})
}

func TestObserver_Observe(t *testing.T) {
	o, err := NewObserver(prometheus.NewRegistry())
	require.NoError(t, err)

	ctx := t.Context()
	o.Observe(ctx, ingest.Event{Kind: ingest.EventStateChanged, Transition: txstream.StateTransition{From: txstream.StateConnecting, To: txstream.StateSubscribed}})
	o.Observe(ctx, ingest.Event{Kind: ingest.EventDecodeDropped})
	o.Observe(ctx, ingest.Event{Kind: ingest.EventFiltered})
	o.Observe(ctx, ingest.Event{Kind: ingest.EventSubmitted})
	o.Observe(ctx, ingest.Event{Kind: ingest.EventSubmitted})
	o.Observe(ctx, ingest.Event{Kind: ingest.EventWriteFailed, Failure: &txsink.WriteFailure{Batch: make([]txdecode.Transaction, 3)}})

	assert.Equal(t, float64(txstream.StateSubscribed), testutil.ToFloat64(o.state))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.transitions.WithLabelValues("subscribed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.updates.WithLabelValues("dropped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.updates.WithLabelValues("filtered")))
	assert.Equal(t, 2.0, testutil.ToFloat64(o.updates.WithLabelValues("submitted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.writeFailures))
	assert.Equal(t, 3.0, testutil.ToFloat64(o.failedRecords))
}
