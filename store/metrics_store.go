package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"insightboard/api/models"
)

type MetricsStore struct {
	db *sql.DB
}

func NewMetricsStore(db *sql.DB) *MetricsStore {
	return &MetricsStore{db: db}
}

// SaveSnapshot upserts the latest snapshot for a website. Only the newest
// snapshot lives in Postgres; per-day history goes to ClickHouse.
func (s *MetricsStore) SaveSnapshot(ctx context.Context, snap *models.MetricsSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO metrics_snapshots (website_id, data, fetched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (website_id)
		DO UPDATE SET data = EXCLUDED.data, fetched_at = EXCLUDED.fetched_at;
	`
	if _, err := s.db.ExecContext(ctx, query, snap.WebsiteID, data, snap.FetchedAt); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the latest snapshot for a website, or ErrNotFound
// when it has never been synced.
func (s *MetricsStore) GetSnapshot(ctx context.Context, websiteID int) (*models.MetricsSnapshot, error) {
	query := `SELECT data FROM metrics_snapshots WHERE website_id = $1;`

	var data []byte
	err := s.db.QueryRowContext(ctx, query, websiteID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	snap := &models.MetricsSnapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, nil
}
