package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(SQLite, filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	_, err = st.ExecContext(context.Background(), `CREATE TABLE kv (k TEXT PRIMARY KEY, v INTEGER NOT NULL)`)
	require.NoError(t, err)
	return st
}

func count(t *testing.T, h Handle) int {
	t.Helper()
	var n int
	require.NoError(t, h.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM kv`).Scan(&n))
	return n
}

func TestStore_Ping(t *testing.T) {
	st := openTestStore(t)
	assert.NoError(t, st.Ping(context.Background()))
	assert.Equal(t, SQLite, st.Dialect())
}

func TestStore_UpdateCommitsAndRollsBack(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	err := st.Update(ctx, func(s *Session) error {
		_, err := s.ExecContext(ctx, `INSERT INTO kv (k, v) VALUES (?, ?)`, "a", 1)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, st))

	boom := errors.New("boom")
	err = st.Update(ctx, func(s *Session) error {
		if _, err := s.ExecContext(ctx, `INSERT INTO kv (k, v) VALUES (?, ?)`, "b", 2); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, count(t, st))
}

func TestStore_ViewNeverCommits(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	err := st.View(ctx, func(s *Session) error {
		_, err := s.ExecContext(ctx, `INSERT INTO kv (k, v) VALUES (?, ?)`, "x", 9)
		require.NoError(t, err)
		assert.Equal(t, 1, count(t, s))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count(t, st))
}

func TestStore_ForeignKeysEnabled(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.ExecContext(ctx, `CREATE TABLE child (id INTEGER PRIMARY KEY, k TEXT NOT NULL REFERENCES kv(k))`)
	require.NoError(t, err)
	_, err = st.ExecContext(ctx, `INSERT INTO child (k) VALUES (?)`, "missing")
	assert.Error(t, err)
}
