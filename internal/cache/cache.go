package cache

import (
	"context"
	"time"

	"bakeryconsole/backend/internal/domain"
)

// SnapshotCache shares the latest adopted dashboard snapshot between console
// instances.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (*domain.SnapshotRecord, bool, error)
	Set(ctx context.Context, key string, value *domain.SnapshotRecord, ttl time.Duration) error
}

type NoopSnapshotCache struct{}

func (NoopSnapshotCache) Get(_ context.Context, _ string) (*domain.SnapshotRecord, bool, error) {
	return nil, false, nil
}

func (NoopSnapshotCache) Set(_ context.Context, _ string, _ *domain.SnapshotRecord, _ time.Duration) error {
	return nil
}

// PollLock elects the single instance allowed to fetch for a polling cycle.
// A false ok with a nil error means another holder has the key.
type PollLock interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

type NoopPollLock struct{}

func (NoopPollLock) TryLock(_ context.Context, _ string, _ time.Duration) (func(context.Context) error, bool, error) {
	return func(context.Context) error { return nil }, true, nil
}
