package domain

import (
	"errors"
	"time"
)

// OrderStatus is the outcome of a synthetic order.
type OrderStatus string

const (
	OrderFulfilled OrderStatus = "fulfilled"
	OrderFailed    OrderStatus = "failed"
)

// OrderStatuses lists every status the exporter can emit.
var OrderStatuses = []OrderStatus{OrderFulfilled, OrderFailed}

// Regions is the fixed set a snapshot region is drawn from.
var Regions = []string{"us-east-1", "us-west-2", "eu-central-1"}

// DefaultRegion is reported before the first sample.
const DefaultRegion = "us-east-1"

var ErrNoSample = errors.New("no sample generated yet")
var ErrStaleSample = errors.New("latest sample is stale")

// Sample is one round of synthetic values drawn by the sampler.
type Sample struct {
	Status         OrderStatus
	OrderValue     float64 // USD, two decimal places
	Backlog        int
	ProcessingTime float64 // seconds
	Region         string
}

// Snapshot is the JSON mirror of the latest sample served on /custom_metrics.
type Snapshot struct {
	LatestOrderValue float64 `json:"latest_order_value"`
	Region           string  `json:"region"`
	Backlog          int     `json:"backlog"`
	LastGenerated    string  `json:"last_generated"`
}

// TimestampLayout formats LastGenerated: ISO-8601, UTC, microsecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// InitialSnapshot is the snapshot served before the sampler has run.
func InitialSnapshot(now time.Time) Snapshot {
	return Snapshot{
		Region:        DefaultRegion,
		LastGenerated: FormatTimestamp(now),
	}
}
