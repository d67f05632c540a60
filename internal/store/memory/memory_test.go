package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"bakeryconsole/backend/internal/domain"
	"bakeryconsole/backend/internal/store"
)

func record(version uint64) domain.SnapshotRecord {
	return domain.SnapshotRecord{
		ID:         fmt.Sprintf("snap-%d", version),
		Version:    version,
		CapturedAt: time.Unix(int64(version), 0).UTC(),
		Snapshot:   &domain.DashboardSnapshot{SalesToday: domain.SalesToday{Count: int64(version)}},
	}
}

func TestLatestOnEmptyStore(t *testing.T) {
	s := New(3)
	if _, err := s.LatestSnapshot(context.Background()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirstAndRetain(t *testing.T) {
	ctx := context.Background()
	s := New(3)
	for v := uint64(1); v <= 5; v++ {
		if err := s.SaveSnapshot(ctx, record(v)); err != nil {
			t.Fatalf("save %d: %v", v, err)
		}
	}

	list, err := s.ListSnapshots(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Version != 5 || list[2].Version != 3 {
		t.Fatalf("unexpected list: %+v", list)
	}

	limited, _ := s.ListSnapshots(ctx, 2)
	if len(limited) != 2 || limited[1].Version != 4 {
		t.Fatalf("unexpected limited list: %+v", limited)
	}

	latest, err := s.LatestSnapshot(ctx)
	if err != nil || latest.Version != 5 {
		t.Fatalf("unexpected latest: %+v %v", latest, err)
	}
}

func TestSaveIgnoresDuplicatesAndRejectsEmpty(t *testing.T) {
	ctx := context.Background()
	s := New(5)
	_ = s.SaveSnapshot(ctx, record(1))
	_ = s.SaveSnapshot(ctx, record(1))

	list, _ := s.ListSnapshots(ctx, 0)
	if len(list) != 1 {
		t.Fatalf("expected one record, got %d", len(list))
	}
	if err := s.SaveSnapshot(ctx, domain.SnapshotRecord{ID: "x"}); !errors.Is(err, store.ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}
