package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"fitexport/internal/config"
)

const schema = `CREATE TABLE IF NOT EXISTS refresh_tokens (
	user_id       TEXT PRIMARY KEY,
	refresh_token TEXT NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func New(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Open returns the token store selected by cfg and a func releasing its resources.
func Open(ctx context.Context, cfg *config.Config) (TokenStore, func() error, error) {
	if cfg.TokenStore == config.TokenStorePostgres {
		db, err := New(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("create schema: %w", err)
		}
		return NewPostgresTokenStore(db), db.Close, nil
	}

	s, err := NewFileTokenStore(cfg.TokenDir())
	if err != nil {
		return nil, nil, err
	}
	return s, func() error { return nil }, nil
}
