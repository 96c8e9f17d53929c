// Package webhook posts fatal write failures to an HTTP endpoint.
package webhook

import (
	"context"
	"time"

	"github.com/gabapcia/txingest/internal/ingest"
	httpclient "github.com/gabapcia/txingest/internal/pkg/transport/http"
	"github.com/gabapcia/txingest/internal/txsink"

	"github.com/hashicorp/go-retryablehttp"
)

// maxReportedHashes caps the hashes listed in a notification.
const maxReportedHashes = 20

// Payload is the JSON body sent to the webhook.
type Payload struct {
	Event      string    `json:"event"`
	Service    string    `json:"service"`
	OccurredAt time.Time `json:"occurredAt"`
	BatchSize  int       `json:"batchSize"`
	Attempts   uint      `json:"attempts"`
	Hashes     []string  `json:"hashes"`
	Error      string    `json:"error"`
}

type notifier struct {
	url     string
	service string
	client  *retryablehttp.Client
	now     func() time.Time
}

// New creates a notifier posting to url. service identifies the sender.
func New(url, service string, client *retryablehttp.Client) *notifier {
	if client == nil {
		client = httpclient.NewClient()
	}

	return &notifier{
		url:     url,
		service: service,
		client:  client,
		now:     time.Now,
	}
}

// NotifyWriteFailure implements ingest.FailureNotifier.
func (n *notifier) NotifyWriteFailure(ctx context.Context, failure txsink.WriteFailure) error {
	hashes := make([]string, 0, min(len(failure.Batch), maxReportedHashes))
	for _, tx := range failure.Batch[:min(len(failure.Batch), maxReportedHashes)] {
		hashes = append(hashes, tx.Hash)
	}

	return httpclient.PostJSON(ctx, n.client, n.url, Payload{
		Event:      "write_failed",
		Service:    n.service,
		OccurredAt: n.now().UTC(),
		BatchSize:  len(failure.Batch),
		Attempts:   failure.Attempts,
		Hashes:     hashes,
		Error:      failure.Error(),
	})
}

// Compile-time assertion to ensure *notifier satisfies the ingest.FailureNotifier interface
var _ ingest.FailureNotifier = (*notifier)(nil)
