// Package metrics defines the Prometheus metrics published by the order
// exporter. It is the single source of truth for metric names, labels, and
// help strings.
//
// Nothing here touches the default Prometheus registry: NewRegistry and
// NewSelfMetrics each build a private registry that the application
// constructs once and passes by reference to the sampler and the HTTP layer.
package metrics

import (
	"bytes"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/VrityaCodeRishi/order-exporter/internal/core/domain"
)

const (
	namespace = "demo"
	subsystem = "order_exporter"
)

// LatencyBuckets are the fixed bucket boundaries of the processing histogram.
var LatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5}

var textFormat = expfmt.NewFormat(expfmt.TypeTextPlain)

// Registry holds the synthetic order metrics served on /metrics.
// Each metric is safe for concurrent use on its own; a Render running next
// to a sampler round may see some of that round's updates and not others.
type Registry struct {
	reg *prometheus.Registry

	ordersTotal       *prometheus.CounterVec
	latestOrderValue  prometheus.Gauge
	backlog           prometheus.Gauge
	processingLatency prometheus.Histogram
	lastRefresh       prometheus.Gauge
}

// NewRegistry builds the order metrics on a fresh private registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	r := &Registry{
		reg: reg,

		// ordersTotal counts synthetic orders.
		// Label:
		//   - status: "fulfilled" or "failed"
		ordersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_total",
				Help:      "Orders observed grouped by status",
			},
			[]string{"status"},
		),
		latestOrderValue: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "latest_order_value_usd",
			Help:      "Value of the latest order observed",
		}),
		backlog: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "backlog_total",
			Help:      "Synthetic backlog size for the warehouse queue",
		}),
		processingLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "processing_seconds",
			Help:      "Synthetic processing latency for order fulfillment",
			Buckets:   LatencyBuckets,
		}),
		lastRefresh: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix timestamp of the last synthetic order generated",
		}),
	}

	// Both series exist from the first scrape, at zero.
	for _, status := range domain.OrderStatuses {
		r.ordersTotal.WithLabelValues(string(status))
	}

	return r
}

// RecordOrder increments orders_total for the given status.
func (r *Registry) RecordOrder(status domain.OrderStatus) {
	r.ordersTotal.WithLabelValues(string(status)).Inc()
}

// SetLatestOrderValue overwrites the latest order value gauge (USD).
func (r *Registry) SetLatestOrderValue(v float64) {
	r.latestOrderValue.Set(v)
}

// SetBacklog overwrites the synthetic queue depth gauge.
func (r *Registry) SetBacklog(n int) {
	r.backlog.Set(float64(n))
}

// SetLastRefresh stores t as fractional Unix seconds.
func (r *Registry) SetLastRefresh(t time.Time) {
	r.lastRefresh.Set(unixSeconds(t))
}

// ObserveProcessingLatency records one processing duration in seconds.
func (r *Registry) ObserveProcessingLatency(seconds float64) {
	r.processingLatency.Observe(seconds)
}

// Render encodes every metric in the text exposition format. Families come
// out of Gather sorted by name, so two renders with no update in between are
// byte-identical.
func (r *Registry) Render() ([]byte, error) {
	families, err := r.reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("render metrics: gather: %w", err)
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, textFormat)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return nil, fmt.Errorf("render metrics: encode %s: %w", mf.GetName(), err)
		}
	}
	return buf.Bytes(), nil
}

// ContentType is the media type matching Render's output.
func (r *Registry) ContentType() string {
	return string(textFormat)
}

// Gatherer exposes the underlying registry, mainly for testutil.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

func unixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}
