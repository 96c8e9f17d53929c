package prometheus

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	return addr
}

func TestServe(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "txingest_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(t.Context())

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, reg) }()

	var body string
	assert.Eventually(t, func() bool {
		res, err := http.Get("http://" + addr + "/metrics")
		if err != nil {
			return false
		}
		defer res.Body.Close()

		data, _ := io.ReadAll(res.Body)
		body = string(data)
		return res.StatusCode == http.StatusOK
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, body, "txingest_test_total 1")

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		require.FailNow(t, "server did not stop")
	}
}
