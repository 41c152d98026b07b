package migrate

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-directory/internal/logger"
	"org-directory/internal/store"
)

func TestEnsureSchema_Idempotent(t *testing.T) {
	logger.Set(slog.New(slog.NewTextHandler(io.Discard, nil)))
	st, err := store.Open(store.SQLite, filepath.Join(t.TempDir(), "schema.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	require.NoError(t, EnsureSchema(ctx, st))
	require.NoError(t, EnsureSchema(ctx, st))

	for _, table := range []string{"addresses", "activities", "organizations", "organization_phones", "organization_activities"} {
		var n int
		require.NoError(t, st.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n))
		assert.Equal(t, 1, n, table)
	}
}

func TestEnsureSchema_Constraints(t *testing.T) {
	logger.Set(slog.New(slog.NewTextHandler(io.Discard, nil)))
	st, err := store.Open(store.SQLite, filepath.Join(t.TempDir(), "schema.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	require.NoError(t, EnsureSchema(ctx, st))

	ins := `INSERT INTO addresses (country, city, street, house, building, lat, lon) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = st.ExecContext(ctx, ins, "Russia", "Moscow", "Arbat", 1, nil, nil, nil)
	require.NoError(t, err)
	_, err = st.ExecContext(ctx, ins, "RUSSIA", "moscow", "ARBAT", 1, nil, nil, nil)
	assert.Error(t, err, "case-insensitive duplicate")
	_, err = st.ExecContext(ctx, ins, "Russia", "Moscow", "Arbat", 0, nil, nil, nil)
	assert.Error(t, err, "house must be positive")
	_, err = st.ExecContext(ctx, ins, "Russia", "Moscow", "Arbat", 2, 0, nil, nil)
	assert.Error(t, err, "building must be positive")
	_, err = st.ExecContext(ctx, ins, "Russia", "Moscow", "Arbat", 3, nil, 55.7, nil)
	assert.Error(t, err, "lat without lon")

	_, err = st.ExecContext(ctx, `INSERT INTO activities (name) VALUES (?)`, "Food")
	require.NoError(t, err)
	_, err = st.ExecContext(ctx, `INSERT INTO activities (name) VALUES (?)`, "Food")
	assert.Error(t, err, "root siblings share a namespace")
}
