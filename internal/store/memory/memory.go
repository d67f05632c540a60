package memory

import (
	"context"
	"sync"

	"bakeryconsole/backend/internal/domain"
	"bakeryconsole/backend/internal/store"
)

const defaultRetain = 50

// Store holds the most recent snapshots in process memory.
type Store struct {
	mu      sync.RWMutex
	retain  int
	records []domain.SnapshotRecord
}

func New(retain int) *Store {
	if retain <= 0 {
		retain = defaultRetain
	}
	return &Store{retain: retain, records: make([]domain.SnapshotRecord, 0, retain)}
}

func (s *Store) SaveSnapshot(_ context.Context, record domain.SnapshotRecord) error {
	if record.Snapshot == nil {
		return store.ErrInvalidSnapshot
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if existing.ID == record.ID {
			return nil
		}
	}
	s.records = append(s.records, record)
	if overflow := len(s.records) - s.retain; overflow > 0 {
		s.records = append(s.records[:0:0], s.records[overflow:]...)
	}
	return nil
}

func (s *Store) ListSnapshots(_ context.Context, limit int) ([]domain.SnapshotRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]domain.SnapshotRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

func (s *Store) LatestSnapshot(_ context.Context) (*domain.SnapshotRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return nil, store.ErrNotFound
	}
	latest := s.records[len(s.records)-1]
	return &latest, nil
}
