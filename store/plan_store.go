package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"insightboard/api/models"
)

type PlanStore struct {
	db *sql.DB
}

func NewPlanStore(db *sql.DB) *PlanStore {
	return &PlanStore{db: db}
}

const planColumns = `id, website_id, title, objective, status, insight_ids, steps, created_at, updated_at`

func scanPlan(row interface{ Scan(...any) error }) (*models.Plan, error) {
	p := &models.Plan{}
	var insightIDs, steps []byte
	err := row.Scan(
		&p.ID,
		&p.WebsiteID,
		&p.Title,
		&p.Objective,
		&p.Status,
		&insightIDs,
		&steps,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(insightIDs, &p.InsightIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal insight_ids: %w", err)
	}
	if err := json.Unmarshal(steps, &p.Steps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal steps: %w", err)
	}
	return p, nil
}

func (s *PlanStore) CreatePlan(ctx context.Context, plan *models.Plan) (*models.Plan, error) {
	insightIDs, err := json.Marshal(plan.InsightIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal insight_ids: %w", err)
	}
	steps, err := json.Marshal(plan.Steps)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal steps: %w", err)
	}

	query := `
		INSERT INTO plans (website_id, title, objective, status, insight_ids, steps)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + planColumns + `;
	`
	saved, err := scanPlan(s.db.QueryRowContext(ctx, query,
		plan.WebsiteID, plan.Title, plan.Objective, plan.Status, insightIDs, steps))
	if err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return saved, nil
}

// GetPlan loads a plan, owner-scoped through the websites join.
func (s *PlanStore) GetPlan(ctx context.Context, userID, planID int) (*models.Plan, error) {
	query := `
		SELECT p.id, p.website_id, p.title, p.objective, p.status, p.insight_ids, p.steps, p.created_at, p.updated_at
		FROM plans p
		JOIN websites w ON w.id = p.website_id
		WHERE p.id = $1 AND w.user_id = $2;
	`
	p, err := scanPlan(s.db.QueryRowContext(ctx, query, planID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return p, nil
}

func (s *PlanStore) ListPlans(ctx context.Context, websiteID int) ([]models.Plan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM plans
		WHERE website_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := s.db.QueryContext(ctx, query, websiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	plans := []models.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error listing plans: %w", err)
	}
	return plans, nil
}

func (s *PlanStore) UpdatePlanStatus(ctx context.Context, userID, planID int, status string) (*models.Plan, error) {
	query := `
		UPDATE plans
		SET status = $3, updated_at = now()
		FROM websites w
		WHERE plans.id = $1
		  AND w.id = plans.website_id
		  AND w.user_id = $2
		RETURNING plans.id, plans.website_id, plans.title, plans.objective, plans.status, plans.insight_ids, plans.steps, plans.created_at, plans.updated_at;
	`
	p, err := scanPlan(s.db.QueryRowContext(ctx, query, planID, userID, status))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update plan status: %w", err)
	}
	return p, nil
}

func (s *PlanStore) DeletePlan(ctx context.Context, userID, planID int) error {
	query := `
		DELETE FROM plans
		USING websites
		WHERE plans.id = $1
		  AND websites.id = plans.website_id
		  AND websites.user_id = $2;
	`
	res, err := s.db.ExecContext(ctx, query, planID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
