package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruoyi-fastapi/ruoyi-go/pkg/metrics"
)

func TestManagerObserveDispatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewManager(metrics.WithRegistry(reg), metrics.WithNamespace("test"))

	m.ObserveDispatch("notify.channel", "GET", 200, metrics.OutcomeSuccess, 10*time.Millisecond)
	m.ObserveDispatch("notify.channel", "GET", 200, metrics.OutcomeSuccess, 20*time.Millisecond)
	m.ObserveDispatch("system.book", "DELETE", 500, metrics.OutcomeApplication, time.Millisecond)
	m.ObserveBytes("system.audio", 1024)

	count, err := testutil.GatherAndCount(reg, "test_client_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "test_client_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "test_client_response_bytes_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestManagerOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewManager(
		metrics.WithRegistry(reg),
		metrics.WithSubsystem("cli"),
		metrics.WithHistogramBuckets([]float64{0.1, 1}),
		metrics.WithConstLabels(map[string]string{"env": "test"}),
	)
	m.ObserveDispatch("demo", "POST", 200, metrics.OutcomeSuccess, time.Millisecond)

	count, err := testutil.GatherAndCount(reg, "ruoyi_cli_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNopRecorder(t *testing.T) {
	var r metrics.Recorder = metrics.Nop{}
	assert.NotPanics(t, func() {
		r.ObserveDispatch("x", "GET", 0, metrics.OutcomeTransport, 0)
	})
}
