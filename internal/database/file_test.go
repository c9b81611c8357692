package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitexport/internal/config"
)

func TestFileTokenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Put then Get", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "refresh-tokens")
		s, err := NewFileTokenStore(dir)
		require.NoError(t, err)

		require.NoError(t, s.Put(ctx, "ABC123", "first"))
		tok, err := s.Get(ctx, "ABC123")
		require.NoError(t, err)
		assert.Equal(t, "first", tok)

		require.NoError(t, s.Put(ctx, "ABC123", "second"))
		tok, err = s.Get(ctx, "ABC123")
		require.NoError(t, err)
		assert.Equal(t, "second", tok)

		raw, err := os.ReadFile(filepath.Join(dir, "ABC123"))
		require.NoError(t, err)
		assert.Equal(t, "second", string(raw))
	})

	t.Run("Get missing user", func(t *testing.T) {
		s, err := NewFileTokenStore(t.TempDir())
		require.NoError(t, err)

		_, err = s.Get(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Get trims trailing newline", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "U1"), []byte("tok\n"), 0o600))
		s, err := NewFileTokenStore(dir)
		require.NoError(t, err)

		tok, err := s.Get(ctx, "U1")
		require.NoError(t, err)
		assert.Equal(t, "tok", tok)
	})

	t.Run("ListUsers is sorted and skips non-token entries", func(t *testing.T) {
		dir := t.TempDir()
		s, err := NewFileTokenStore(dir)
		require.NoError(t, err)

		for _, id := range []string{"ZZZ", "AAA", "MMM"} {
			require.NoError(t, s.Put(ctx, id, "tok-"+id))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".DS_Store"), nil, 0o600))

		users, err := s.ListUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"AAA", "MMM", "ZZZ"}, users)
	})

	t.Run("ListUsers on empty directory", func(t *testing.T) {
		s, err := NewFileTokenStore(t.TempDir())
		require.NoError(t, err)

		users, err := s.ListUsers(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("ListUsers fails when directory is gone", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "tokens")
		s, err := NewFileTokenStore(dir)
		require.NoError(t, err)
		require.NoError(t, os.RemoveAll(dir))

		_, err = s.ListUsers(ctx)
		assert.Error(t, err)
	})

	t.Run("Rejects unsafe user ids", func(t *testing.T) {
		s, err := NewFileTokenStore(t.TempDir())
		require.NoError(t, err)

		for _, id := range []string{"", ".", "..", "../escape", `a\b`} {
			assert.ErrorIs(t, s.Put(ctx, id, "tok"), ErrInvalidUserID, id)
			_, err := s.Get(ctx, id)
			assert.ErrorIs(t, err, ErrInvalidUserID, id)
		}
	})
}

func TestOpen_File(t *testing.T) {
	cfg := &config.Config{TokenStore: config.TokenStoreFile, DataDir: t.TempDir()}

	s, closeFn, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &FileTokenStore{}, s)
	assert.DirExists(t, cfg.TokenDir())
}
