package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const selfNamespace = "order_exporter"

// SelfMetrics describes the exporter itself: sampler progress plus the Go
// runtime and process collectors. It lives on its own registry so scraping
// /metrics never changes what /metrics returns.
type SelfMetrics struct {
	reg *prometheus.Registry

	iterations    prometheus.Counter
	failures      prometheus.Counter
	lastIteration prometheus.Gauge
}

// NewSelfMetrics builds the self metrics on a fresh private registry.
func NewSelfMetrics() *SelfMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &SelfMetrics{
		reg: reg,
		iterations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: selfNamespace,
			Subsystem: "sampler",
			Name:      "iterations_total",
			Help:      "Sampler rounds that committed their updates.",
		}),
		failures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: selfNamespace,
			Subsystem: "sampler",
			Name:      "failures_total",
			Help:      "Sampler rounds aborted by a panic before committing.",
		}),
		lastIteration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: selfNamespace,
			Subsystem: "sampler",
			Name:      "last_iteration_timestamp_seconds",
			Help:      "Unix timestamp of the last committed sampler round.",
		}),
	}
}

// IterationCompleted counts a committed sampler round finished at at.
func (m *SelfMetrics) IterationCompleted(at time.Time) {
	m.iterations.Inc()
	m.lastIteration.Set(unixSeconds(at))
}

// IterationFailed counts a sampler round aborted before committing.
func (m *SelfMetrics) IterationFailed() {
	m.failures.Inc()
}

// Handler serves the self metrics in any format the scraper negotiates.
func (m *SelfMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Gatherer exposes the underlying registry, mainly for testutil.
func (m *SelfMetrics) Gatherer() prometheus.Gatherer {
	return m.reg
}
