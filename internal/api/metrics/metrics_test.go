package metrics

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VrityaCodeRishi/order-exporter/internal/core/domain"
)

func TestRegistry_StatusSeriesStartAtZero(t *testing.T) {
	r := NewRegistry()

	expected := `
# HELP demo_order_exporter_orders_total Orders observed grouped by status
# TYPE demo_order_exporter_orders_total counter
demo_order_exporter_orders_total{status="failed"} 0
demo_order_exporter_orders_total{status="fulfilled"} 0
`
	err := testutil.GatherAndCompare(r.Gatherer(), strings.NewReader(expected), "demo_order_exporter_orders_total")
	require.NoError(t, err)
}

func TestRegistry_Updates(t *testing.T) {
	r := NewRegistry()

	r.RecordOrder(domain.OrderFulfilled)
	r.RecordOrder(domain.OrderFulfilled)
	r.RecordOrder(domain.OrderFailed)
	r.SetLatestOrderValue(99.95)
	r.SetBacklog(42)
	r.SetLastRefresh(time.Unix(1760000000, 500_000_000))
	r.ObserveProcessingLatency(0.3)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ordersTotal.WithLabelValues("fulfilled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ordersTotal.WithLabelValues("failed")))
	assert.Equal(t, 99.95, testutil.ToFloat64(r.latestOrderValue))
	assert.Equal(t, 42.0, testutil.ToFloat64(r.backlog))
	assert.Equal(t, 1760000000.5, testutil.ToFloat64(r.lastRefresh))

	expected := `
# HELP demo_order_exporter_backlog_total Synthetic backlog size for the warehouse queue
# TYPE demo_order_exporter_backlog_total gauge
demo_order_exporter_backlog_total 42
# HELP demo_order_exporter_processing_seconds Synthetic processing latency for order fulfillment
# TYPE demo_order_exporter_processing_seconds histogram
demo_order_exporter_processing_seconds_bucket{le="0.05"} 0
demo_order_exporter_processing_seconds_bucket{le="0.1"} 0
demo_order_exporter_processing_seconds_bucket{le="0.25"} 0
demo_order_exporter_processing_seconds_bucket{le="0.5"} 1
demo_order_exporter_processing_seconds_bucket{le="1"} 1
demo_order_exporter_processing_seconds_bucket{le="2"} 1
demo_order_exporter_processing_seconds_bucket{le="5"} 1
demo_order_exporter_processing_seconds_bucket{le="+Inf"} 1
demo_order_exporter_processing_seconds_sum 0.3
demo_order_exporter_processing_seconds_count 1
`
	err := testutil.GatherAndCompare(r.Gatherer(), strings.NewReader(expected),
		"demo_order_exporter_backlog_total", "demo_order_exporter_processing_seconds")
	require.NoError(t, err)
}

func TestRegistry_RenderExposition(t *testing.T) {
	r := NewRegistry()
	r.RecordOrder(domain.OrderFulfilled)
	r.SetLatestOrderValue(20)
	r.SetBacklog(0)
	r.ObserveProcessingLatency(7)

	out, err := r.Render()
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, `demo_order_exporter_orders_total{status="fulfilled"} 1`)
	assert.Contains(t, text, "demo_order_exporter_backlog_total 0")
	assert.Contains(t, text, "demo_order_exporter_latest_order_value_usd 20")
	assert.Contains(t, text, `demo_order_exporter_processing_seconds_bucket{le="5"} 0`)
	assert.Contains(t, text, `demo_order_exporter_processing_seconds_bucket{le="+Inf"} 1`)
	assert.Contains(t, text, "demo_order_exporter_processing_seconds_count 1")
	assert.Contains(t, text, "# TYPE demo_order_exporter_last_refresh_timestamp_seconds gauge")
}

func TestRegistry_RenderIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.RecordOrder(domain.OrderFailed)
	r.SetLastRefresh(time.Now())
	r.ObserveProcessingLatency(0.07)

	first, err := r.Render()
	require.NoError(t, err)
	second, err := r.Render()
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second))
}

func TestRegistry_ContentType(t *testing.T) {
	r := NewRegistry()
	assert.True(t, strings.HasPrefix(r.ContentType(), "text/plain; version=0.0.4"), r.ContentType())
}

func TestRegistry_RenderWhileWriting(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			r.RecordOrder(domain.OrderFulfilled)
			r.SetBacklog(i)
			r.ObserveProcessingLatency(float64(i) / 100)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_, err := r.Render()
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	assert.Equal(t, 500.0, testutil.ToFloat64(r.ordersTotal.WithLabelValues("fulfilled")))
}

func TestSelfMetrics_Iterations(t *testing.T) {
	m := NewSelfMetrics()
	m.IterationCompleted(time.Unix(1760000000, 0))
	m.IterationCompleted(time.Unix(1760000010, 0))
	m.IterationFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.iterations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures))
	assert.Equal(t, 1760000010.0, testutil.ToFloat64(m.lastIteration))
}

func TestSelfMetrics_Handler(t *testing.T) {
	m := NewSelfMetrics()
	m.IterationCompleted(time.Now())

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "order_exporter_sampler_iterations_total 1")
	assert.Contains(t, string(body), "go_goroutines")
	assert.NotContains(t, string(body), "demo_order_exporter_orders_total")
}
