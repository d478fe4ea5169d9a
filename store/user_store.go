package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"insightboard/api/models"
)

type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore instance.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// CreateUser inserts a new user into the database.
func (s *UserStore) CreateUser(ctx context.Context, email string, hashedPassword []byte) (*models.User, error) {
	user := &models.User{}
	query := `
		INSERT INTO users (email, hashed_password)
		VALUES ($1, $2)
		RETURNING id, email, created_at, updated_at;
	`
	err := s.db.QueryRowContext(ctx, query, email, hashedPassword).Scan(
		&user.ID,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err.Error() == `pq: duplicate key value violates unique constraint "idx_users_email"` ||
			err.Error() == `pq: duplicate key value violates unique constraint "users_email_key"` {
			return nil, fmt.Errorf("user with email '%s' already exists", email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("User created in DB: ID=%d, Email=%s", user.ID, user.Email)
	return user, nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, hashed_password, google_token, created_at, updated_at
		FROM users
		WHERE email = $1;
	`
	var googleToken sql.NullString
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&googleToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user with email '%s' not found", email)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if googleToken.Valid {
		user.GoogleToken = []byte(googleToken.String)
	}

	return user, nil
}

func (s *UserStore) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, hashed_password, google_token, created_at, updated_at
		FROM users
		WHERE id = $1;
	`
	var googleToken sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&googleToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %d not found", id)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	if googleToken.Valid {
		user.GoogleToken = []byte(googleToken.String)
	}

	return user, nil
}

// UpdateGoogleToken stores (or replaces) the serialized oauth token for a
// user. Reconnecting overwrites the previous grant.
func (s *UserStore) UpdateGoogleToken(ctx context.Context, userID int, token []byte) error {
	query := `
		UPDATE users
		SET google_token = $2, updated_at = now()
		WHERE id = $1;
	`
	res, err := s.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("failed to update google token: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d not found", userID)
	}
	return nil
}

// ClearGoogleToken disconnects the user's Google account.
func (s *UserStore) ClearGoogleToken(ctx context.Context, userID int) error {
	query := `
		UPDATE users
		SET google_token = NULL, updated_at = now()
		WHERE id = $1;
	`
	if _, err := s.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear google token: %w", err)
	}
	return nil
}
