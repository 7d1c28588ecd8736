package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vkozyrev/teamscout/internal/store"
)

// CheckpointStore persists last-checked timestamps per logical resource.
type CheckpointStore struct {
	db DB
}

// NewCheckpointStore constructs a CheckpointStore on an existing pool.
func NewCheckpointStore(db DB) *CheckpointStore {
	return &CheckpointStore{db: db}
}

// LastChecked returns when the resource was last successfully crawled.
// store.ErrNotFound means it was never crawled.
func (s *CheckpointStore) LastChecked(ctx context.Context, resourceKey string) (time.Time, error) {
	query := `SELECT last_checked_at FROM crawl_checkpoints WHERE resource_key = $1;`
	var at time.Time
	if err := s.db.QueryRow(ctx, query, resourceKey).Scan(&at); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, store.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("lookup checkpoint %s: %w", resourceKey, err)
	}
	return at, nil
}

// MarkChecked records a successful crawl of the resource.
func (s *CheckpointStore) MarkChecked(ctx context.Context, resourceKey string, at time.Time) error {
	query := `
		INSERT INTO crawl_checkpoints (resource_key, last_checked_at)
		VALUES ($1, $2)
		ON CONFLICT (resource_key) DO UPDATE SET last_checked_at = EXCLUDED.last_checked_at;
	`
	if _, err := s.db.Exec(ctx, query, resourceKey, at); err != nil {
		return fmt.Errorf("mark checkpoint %s: %w", resourceKey, err)
	}
	return nil
}
