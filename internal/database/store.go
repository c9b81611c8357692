package database

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound      = errors.New("refresh token not found")
	ErrInvalidUserID = errors.New("invalid user id")
)

// TokenStore maps a user id to that user's current refresh token.
// Implementations do no locking; callers must not Put the same user concurrently.
type TokenStore interface {
	Get(ctx context.Context, userID string) (string, error)
	ListUsers(ctx context.Context) ([]string, error)
	Put(ctx context.Context, userID, refreshToken string) error
}

// validateUserID rejects ids that could not be used as a single file name.
func validateUserID(userID string) error {
	if userID == "" || userID == "." || userID == ".." ||
		strings.ContainsAny(userID, `/\`) || strings.ContainsRune(userID, 0) {
		return ErrInvalidUserID
	}
	return nil
}
