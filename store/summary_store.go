package store

import (
	"context"
	"database/sql"
	"fmt"

	"insightboard/api/models"
)

type SummaryStore struct {
	db *sql.DB
}

func NewSummaryStore(db *sql.DB) *SummaryStore {
	return &SummaryStore{db: db}
}

func (s *SummaryStore) CreateSummary(ctx context.Context, websiteID int, content string) (*models.Summary, error) {
	summary := &models.Summary{WebsiteID: websiteID, Content: content}
	query := `
		INSERT INTO summaries (website_id, content)
		VALUES ($1, $2)
		RETURNING id, created_at;
	`
	err := s.db.QueryRowContext(ctx, query, websiteID, content).Scan(&summary.ID, &summary.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create summary: %w", err)
	}
	return summary, nil
}

// GetLatestSummary returns the newest summary for a website.
func (s *SummaryStore) GetLatestSummary(ctx context.Context, websiteID int) (*models.Summary, error) {
	summary := &models.Summary{}
	query := `
		SELECT id, website_id, content, created_at
		FROM summaries
		WHERE website_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1;
	`
	err := s.db.QueryRowContext(ctx, query, websiteID).Scan(
		&summary.ID,
		&summary.WebsiteID,
		&summary.Content,
		&summary.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest summary: %w", err)
	}
	return summary, nil
}
