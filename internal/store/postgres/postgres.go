package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"bakeryconsole/backend/internal/domain"
	"bakeryconsole/backend/internal/store"
)

const uniqueViolation = "23505"

type Store struct {
	db     *sql.DB
	retain int
}

func New(ctx context.Context, databaseURL string, retain int) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(2)
	db.SetMaxOpenConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db, retain: retain}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS dashboard_snapshots (
			id            TEXT PRIMARY KEY,
			version       BIGINT NOT NULL,
			changed_field TEXT NOT NULL DEFAULT '',
			captured_at   TIMESTAMPTZ NOT NULL,
			payload       JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS dashboard_snapshots_captured_idx
			ON dashboard_snapshots (captured_at DESC)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate dashboard_snapshots: %w", err)
		}
	}
	return nil
}

func (s *Store) SaveSnapshot(ctx context.Context, record domain.SnapshotRecord) error {
	if record.Snapshot == nil {
		return store.ErrInvalidSnapshot
	}
	payload, err := json.Marshal(record.Snapshot)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO dashboard_snapshots (id, version, changed_field, captured_at, payload)
		VALUES ($1, $2, $3, $4, $5)
	`, record.ID, int64(record.Version), record.ChangedField, record.CapturedAt.UTC(), payload)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil
		}
		return err
	}

	if s.retain > 0 {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM dashboard_snapshots
			WHERE id NOT IN (
				SELECT id FROM dashboard_snapshots
				ORDER BY captured_at DESC, version DESC
				LIMIT $1
			)
		`, s.retain); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) ListSnapshots(ctx context.Context, limit int) ([]domain.SnapshotRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, version, changed_field, captured_at, payload
		FROM dashboard_snapshots
		ORDER BY captured_at DESC, version DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.SnapshotRecord, 0, limit)
	for rows.Next() {
		record, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) LatestSnapshot(ctx context.Context) (*domain.SnapshotRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, version, changed_field, captured_at, payload
		FROM dashboard_snapshots
		ORDER BY captured_at DESC, version DESC
		LIMIT 1
	`)
	record, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return record, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*domain.SnapshotRecord, error) {
	var (
		record  domain.SnapshotRecord
		version int64
		payload []byte
	)
	if err := row.Scan(&record.ID, &version, &record.ChangedField, &record.CapturedAt, &payload); err != nil {
		return nil, err
	}
	var snap domain.DashboardSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", record.ID, err)
	}
	record.Version = uint64(version)
	record.CapturedAt = record.CapturedAt.UTC()
	record.Snapshot = &snap
	return &record, nil
}
