package store

import (
	"context"
	"database/sql"
	"fmt"

	"insightboard/api/models"
)

type ReportStore struct {
	db *sql.DB
}

func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

const reportColumns = `id, website_id, question, answer, status, error, created_at, completed_at`

func scanReport(row interface{ Scan(...any) error }) (*models.Report, error) {
	r := &models.Report{}
	var completedAt sql.NullTime
	err := row.Scan(
		&r.ID,
		&r.WebsiteID,
		&r.Question,
		&r.Answer,
		&r.Status,
		&r.Error,
		&r.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		r.CompletedAt = &completedAt.Time
	}
	return r, nil
}

// CreateReport inserts a pending report row. The row exists before the
// generation goroutine starts, so a poll can never miss it.
func (s *ReportStore) CreateReport(ctx context.Context, id string, websiteID int, question string) (*models.Report, error) {
	query := `
		INSERT INTO reports (id, website_id, question, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING ` + reportColumns + `;
	`
	r, err := scanReport(s.db.QueryRowContext(ctx, query, id, websiteID, question))
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return r, nil
}

// GetReport loads a report, owner-scoped through the websites join.
func (s *ReportStore) GetReport(ctx context.Context, userID int, reportID string) (*models.Report, error) {
	query := `
		SELECT r.id, r.website_id, r.question, r.answer, r.status, r.error, r.created_at, r.completed_at
		FROM reports r
		JOIN websites w ON w.id = r.website_id
		WHERE r.id = $1 AND w.user_id = $2;
	`
	r, err := scanReport(s.db.QueryRowContext(ctx, query, reportID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return r, nil
}

func (s *ReportStore) ListReports(ctx context.Context, websiteID int) ([]models.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports
		WHERE website_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := s.db.QueryContext(ctx, query, websiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error listing reports: %w", err)
	}
	return reports, nil
}

// CompleteReport flips a pending report to completed. The status guard
// means a terminal row is never overwritten, even by a stale goroutine.
func (s *ReportStore) CompleteReport(ctx context.Context, reportID, answer string) error {
	query := `
		UPDATE reports
		SET status = 'completed', answer = $2, completed_at = now()
		WHERE id = $1 AND status = 'pending';
	`
	res, err := s.db.ExecContext(ctx, query, reportID, answer)
	if err != nil {
		return fmt.Errorf("failed to complete report: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("report %s is not pending", reportID)
	}
	return nil
}

// FailReport flips a pending report to failed with an error message.
func (s *ReportStore) FailReport(ctx context.Context, reportID, errMsg string) error {
	query := `
		UPDATE reports
		SET status = 'failed', error = $2, completed_at = now()
		WHERE id = $1 AND status = 'pending';
	`
	res, err := s.db.ExecContext(ctx, query, reportID, errMsg)
	if err != nil {
		return fmt.Errorf("failed to mark report failed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("report %s is not pending", reportID)
	}
	return nil
}

// DeleteReport removes a report, owner-scoped through the websites join.
func (s *ReportStore) DeleteReport(ctx context.Context, userID int, reportID string) error {
	query := `
		DELETE FROM reports
		USING websites
		WHERE reports.id = $1
		  AND websites.id = reports.website_id
		  AND websites.user_id = $2;
	`
	res, err := s.db.ExecContext(ctx, query, reportID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
