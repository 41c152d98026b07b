package directory

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"org-directory/internal/logger"
	"org-directory/internal/migrate"
	"org-directory/internal/model"
	"org-directory/internal/seed"
	"org-directory/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	logger.Set(slog.New(slog.NewTextHandler(io.Discard, nil)))

	st, err := store.Open(store.SQLite, filepath.Join(t.TempDir(), "directory.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	require.NoError(t, migrate.EnsureSchema(ctx, st))
	_, err = seed.LoadFile(ctx, st, filepath.Join("testdata", "directory.yaml"))
	require.NoError(t, err)
	return st
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func orgNames(orgs []model.Organization) []string {
	out := make([]string, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, o.Name)
	}
	return out
}

func hitIDs(hits []AddressHit) []int64 {
	out := make([]int64, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Address.ID)
	}
	return out
}
