package ports

import (
	"time"

	"github.com/VrityaCodeRishi/order-exporter/internal/core/domain"
)

// OrderMetrics is the write side of the exporter's metric registry.
// Every method is individually atomic; there is no cross-metric atomicity.
type OrderMetrics interface {
	RecordOrder(status domain.OrderStatus)
	SetLatestOrderValue(v float64)
	SetBacklog(n int)
	SetLastRefresh(t time.Time)
	ObserveProcessingLatency(seconds float64)
}

// MetricsRenderer is the read side of the registry used by /metrics.
type MetricsRenderer interface {
	Render() ([]byte, error)
	ContentType() string
}

// SamplerObserver receives the sampler's own health signals.
type SamplerObserver interface {
	IterationCompleted(at time.Time)
	IterationFailed()
}
