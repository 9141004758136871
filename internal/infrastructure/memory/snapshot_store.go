package memory

import (
	"sync"
	"time"

	"github.com/VrityaCodeRishi/order-exporter/internal/core/domain"
)

// SnapshotStore keeps the latest snapshot behind a single mutex. Readers
// hold the lock only while copying the struct out.
type SnapshotStore struct {
	mu        sync.Mutex
	snapshot  domain.Snapshot
	updatedAt time.Time
}

// NewSnapshotStore returns a store seeded with domain.InitialSnapshot(now).
func NewSnapshotStore(now time.Time) *SnapshotStore {
	return &SnapshotStore{snapshot: domain.InitialSnapshot(now)}
}

// Update replaces all snapshot fields at once.
func (s *SnapshotStore) Update(snap domain.Snapshot, at time.Time) {
	s.mu.Lock()
	s.snapshot = snap
	s.updatedAt = at
	s.mu.Unlock()
}

// Get returns a copy of the current snapshot.
func (s *SnapshotStore) Get() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

func (s *SnapshotStore) LastUpdated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}
