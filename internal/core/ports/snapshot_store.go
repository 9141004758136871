package ports

import (
	"time"

	"github.com/VrityaCodeRishi/order-exporter/internal/core/domain"
)

// SnapshotWriter replaces the snapshot as a single unit.
type SnapshotWriter interface {
	Update(s domain.Snapshot, at time.Time)
}

// SnapshotReader hands out copies of the current snapshot.
type SnapshotReader interface {
	Get() domain.Snapshot
	// LastUpdated is the zero time until the first Update.
	LastUpdated() time.Time
}
