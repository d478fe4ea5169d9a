package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"insightboard/api/models"
)

type InsightStore struct {
	db *sql.DB
}

func NewInsightStore(db *sql.DB) *InsightStore {
	return &InsightStore{db: db}
}

// ReplaceInsights swaps a website's insights for a fresh generation in
// one transaction, so a reader never sees a mix of old and new rows.
func (s *InsightStore) ReplaceInsights(ctx context.Context, websiteID int, insights []models.Insight) ([]models.Insight, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM insights WHERE website_id = $1;`, websiteID); err != nil {
		return nil, fmt.Errorf("failed to clear old insights: %w", err)
	}

	query := `
		INSERT INTO insights (website_id, title, description, category, impact, recommendations)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at;
	`
	saved := make([]models.Insight, 0, len(insights))
	for _, ins := range insights {
		recs, err := json.Marshal(ins.Recommendations)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal recommendations: %w", err)
		}
		ins.WebsiteID = websiteID
		err = tx.QueryRowContext(ctx, query, websiteID, ins.Title, ins.Description, ins.Category, ins.Impact, recs).
			Scan(&ins.ID, &ins.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert insight: %w", err)
		}
		saved = append(saved, ins)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit insights: %w", err)
	}
	return saved, nil
}

func scanInsight(row interface{ Scan(...any) error }) (*models.Insight, error) {
	ins := &models.Insight{}
	var recs []byte
	err := row.Scan(
		&ins.ID,
		&ins.WebsiteID,
		&ins.Title,
		&ins.Description,
		&ins.Category,
		&ins.Impact,
		&recs,
		&ins.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(recs, &ins.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
	}
	return ins, nil
}

func (s *InsightStore) ListInsights(ctx context.Context, websiteID int) ([]models.Insight, error) {
	query := `
		SELECT id, website_id, title, description, category, impact, recommendations, created_at
		FROM insights
		WHERE website_id = $1
		ORDER BY id ASC;
	`
	rows, err := s.db.QueryContext(ctx, query, websiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	defer rows.Close()

	insights := []models.Insight{}
	for rows.Next() {
		ins, err := scanInsight(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan insight row: %w", err)
		}
		insights = append(insights, *ins)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error listing insights: %w", err)
	}
	return insights, nil
}

// GetInsightsByIDs loads the named insights, all of which must belong to
// the given website. A missing or foreign id fails the whole lookup.
func (s *InsightStore) GetInsightsByIDs(ctx context.Context, websiteID int, ids []int) ([]models.Insight, error) {
	insights := make([]models.Insight, 0, len(ids))
	query := `
		SELECT id, website_id, title, description, category, impact, recommendations, created_at
		FROM insights
		WHERE id = $1 AND website_id = $2;
	`
	for _, id := range ids {
		ins, err := scanInsight(s.db.QueryRowContext(ctx, query, id, websiteID))
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, fmt.Errorf("insight %d does not belong to website %d: %w", id, websiteID, ErrNotFound)
			}
			return nil, fmt.Errorf("failed to get insight %d: %w", id, err)
		}
		insights = append(insights, *ins)
	}
	return insights, nil
}

// DeleteInsight removes one insight, owner-scoped through the websites join.
func (s *InsightStore) DeleteInsight(ctx context.Context, userID, insightID int) error {
	query := `
		DELETE FROM insights
		USING websites
		WHERE insights.id = $1
		  AND websites.id = insights.website_id
		  AND websites.user_id = $2;
	`
	res, err := s.db.ExecContext(ctx, query, insightID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete insight: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
