package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileTokenStore keeps one file per user, named after the user id and holding the raw token.
type FileTokenStore struct {
	dir string
}

func NewFileTokenStore(dir string) (*FileTokenStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create token directory: %w", err)
	}
	return &FileTokenStore{dir: dir}, nil
}

func (s *FileTokenStore) Get(_ context.Context, userID string) (string, error) {
	if err := validateUserID(userID); err != nil {
		return "", err
	}

	b, err := os.ReadFile(filepath.Join(s.dir, userID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, userID)
		}
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// ListUsers returns user ids in lexical order. Directories and dot files are skipped.
func (s *FileTokenStore) ListUsers(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list token directory: %w", err)
	}

	users := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		users = append(users, e.Name())
	}
	return users, nil
}

func (s *FileTokenStore) Put(_ context.Context, userID, refreshToken string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, userID), []byte(refreshToken), 0o600)
}
