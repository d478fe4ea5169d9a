package store

import (
	"context"
	"database/sql"
	"fmt"

	"insightboard/api/models"
)

// ErrNotFound is returned for rows that don't exist or belong to another
// user; handlers map it to 404 either way.
var ErrNotFound = fmt.Errorf("not found")

type WebsiteStore struct {
	db *sql.DB
}

func NewWebsiteStore(db *sql.DB) *WebsiteStore {
	return &WebsiteStore{db: db}
}

const websiteColumns = `id, user_id, name, domain, property_id, last_synced_at, created_at, updated_at`

func scanWebsite(row interface{ Scan(...any) error }) (*models.Website, error) {
	w := &models.Website{}
	var lastSynced sql.NullTime
	err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.Name,
		&w.Domain,
		&w.PropertyID,
		&lastSynced,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastSynced.Valid {
		w.LastSyncedAt = &lastSynced.Time
	}
	return w, nil
}

func (s *WebsiteStore) CreateWebsite(ctx context.Context, userID int, req *models.CreateWebsiteRequest) (*models.Website, error) {
	query := `
		INSERT INTO websites (user_id, name, domain, property_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + websiteColumns + `;
	`
	w, err := scanWebsite(s.db.QueryRowContext(ctx, query, userID, req.Name, req.Domain, req.PropertyID))
	if err != nil {
		return nil, fmt.Errorf("failed to create website: %w", err)
	}
	return w, nil
}

// GetWebsite looks up a website scoped to its owner. Other users' rows
// are indistinguishable from missing ones.
func (s *WebsiteStore) GetWebsite(ctx context.Context, userID, websiteID int) (*models.Website, error) {
	query := `
		SELECT ` + websiteColumns + `
		FROM websites
		WHERE id = $1 AND user_id = $2;
	`
	w, err := scanWebsite(s.db.QueryRowContext(ctx, query, websiteID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get website: %w", err)
	}
	return w, nil
}

func (s *WebsiteStore) ListWebsites(ctx context.Context, userID int) ([]models.Website, error) {
	query := `
		SELECT ` + websiteColumns + `
		FROM websites
		WHERE user_id = $1
		ORDER BY created_at ASC;
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list websites: %w", err)
	}
	defer rows.Close()

	websites := []models.Website{}
	for rows.Next() {
		w, err := scanWebsite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan website row: %w", err)
		}
		websites = append(websites, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error listing websites: %w", err)
	}
	return websites, nil
}

func (s *WebsiteStore) UpdateWebsite(ctx context.Context, userID, websiteID int, req *models.UpdateWebsiteRequest) (*models.Website, error) {
	query := `
		UPDATE websites
		SET name = $3, domain = $4, property_id = $5, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + websiteColumns + `;
	`
	w, err := scanWebsite(s.db.QueryRowContext(ctx, query, websiteID, userID, req.Name, req.Domain, req.PropertyID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update website: %w", err)
	}
	return w, nil
}

// DeleteWebsite removes a website; snapshots, insights, plans, reports
// and summaries go with it via ON DELETE CASCADE.
func (s *WebsiteStore) DeleteWebsite(ctx context.Context, userID, websiteID int) error {
	query := `DELETE FROM websites WHERE id = $1 AND user_id = $2;`
	res, err := s.db.ExecContext(ctx, query, websiteID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete website: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastSynced stamps a successful sync.
func (s *WebsiteStore) TouchLastSynced(ctx context.Context, websiteID int) error {
	query := `UPDATE websites SET last_synced_at = now(), updated_at = now() WHERE id = $1;`
	if _, err := s.db.ExecContext(ctx, query, websiteID); err != nil {
		return fmt.Errorf("failed to stamp last_synced_at: %w", err)
	}
	return nil
}

// ListSyncable returns every website bound to a GA4 property, across all
// users. The scheduler walks this list.
func (s *WebsiteStore) ListSyncable(ctx context.Context) ([]models.Website, error) {
	query := `
		SELECT ` + websiteColumns + `
		FROM websites
		WHERE property_id <> ''
		ORDER BY id ASC;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list syncable websites: %w", err)
	}
	defer rows.Close()

	var websites []models.Website
	for rows.Next() {
		w, err := scanWebsite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan website row: %w", err)
		}
		websites = append(websites, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error listing syncable websites: %w", err)
	}
	return websites, nil
}
