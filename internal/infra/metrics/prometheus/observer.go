// Package prometheus exports pipeline events as Prometheus metrics.
package prometheus

import (
	"context"

	"github.com/gabapcia/txingest/internal/ingest"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "txingest"

type observer struct {
	state         prometheus.Gauge
	transitions   *prometheus.CounterVec
	updates       *prometheus.CounterVec
	writeFailures prometheus.Counter
	failedRecords prometheus.Counter
}

// NewObserver registers the pipeline metrics on reg.
func NewObserver(reg prometheus.Registerer) (*observer, error) {
	o := &observer{
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_state",
			Help:      "Current stream session state (0 disconnected, 1 connecting, 2 subscribed, 3 draining).",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_transitions_total",
			Help:      "Stream session state transitions, by target state.",
		}, []string{"state"}),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Transaction updates received, by outcome.",
		}, []string{"outcome"}),
		writeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_failures_total",
			Help:      "Batches that could not be persisted after every attempt.",
		}),
		failedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_failed_transactions_total",
			Help:      "Transactions in batches that could not be persisted.",
		}),
	}

	for _, c := range []prometheus.Collector{o.state, o.transitions, o.updates, o.writeFailures, o.failedRecords} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Observe implements ingest.Observer.
func (o *observer) Observe(_ context.Context, event ingest.Event) {
	switch event.Kind {
	case ingest.EventStateChanged:
		o.state.Set(float64(event.Transition.To))
		o.transitions.WithLabelValues(event.Transition.To.String()).Inc()
	case ingest.EventDecodeDropped:
		o.updates.WithLabelValues("dropped").Inc()
	case ingest.EventFiltered:
		o.updates.WithLabelValues("filtered").Inc()
	case ingest.EventSubmitted:
		o.updates.WithLabelValues("submitted").Inc()
	case ingest.EventWriteFailed:
		o.writeFailures.Inc()
		if event.Failure != nil {
			o.failedRecords.Add(float64(len(event.Failure.Batch)))
		}
	}
}

// Compile-time assertion to ensure *observer satisfies the ingest.Observer interface
var _ ingest.Observer = (*observer)(nil)
