package store

import (
	"context"
	"errors"

	"bakeryconsole/backend/internal/domain"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidSnapshot = errors.New("snapshot record has no snapshot")
)

// SnapshotArchive keeps the history of adopted dashboard snapshots. Only
// snapshots the equality gate reported as changed are saved.
type SnapshotArchive interface {
	SaveSnapshot(ctx context.Context, record domain.SnapshotRecord) error
	// ListSnapshots returns the newest records first.
	ListSnapshots(ctx context.Context, limit int) ([]domain.SnapshotRecord, error)
	LatestSnapshot(ctx context.Context) (*domain.SnapshotRecord, error)
}
