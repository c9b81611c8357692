package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PostgresTokenStore is the TokenStore used when TOKEN_STORE=postgres.
type PostgresTokenStore struct {
	db *sql.DB
}

func NewPostgresTokenStore(db *sql.DB) *PostgresTokenStore {
	return &PostgresTokenStore{db: db}
}

func (s *PostgresTokenStore) Get(ctx context.Context, userID string) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, "SELECT refresh_token FROM refresh_tokens WHERE user_id = $1", userID).Scan(&token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, userID)
		}
		return "", err
	}
	return token, nil
}

func (s *PostgresTokenStore) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT user_id FROM refresh_tokens ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

func (s *PostgresTokenStore) Put(ctx context.Context, userID, refreshToken string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (user_id, refresh_token, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET refresh_token = EXCLUDED.refresh_token, updated_at = EXCLUDED.updated_at`,
		userID, refreshToken, time.Now())
	return err
}
