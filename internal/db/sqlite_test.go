package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"blog-platform/internal/config"
	"blog-platform/internal/db"
	"blog-platform/internal/types"

	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) db.Store {
	store, err := db.Open(context.Background(), &config.Config{
		DBDriver:    config.DriverSQLite,
		DatabaseURL: filepath.Join(t.TempDir(), "test.sqlite"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, newSQLiteStore)
}

func TestSQLiteInMemory(t *testing.T) {
	ctx, cancel := getTestContext()
	defer cancel()

	store, err := db.NewSQLiteStore(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.CreateTables(ctx))

	user := mustCreateUser(ctx, t, store, true)
	loaded, err := store.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	require.True(t, loaded.IsAdmin)
}

func TestTruncate(t *testing.T) {
	ctx, cancel := getTestContext()
	defer cancel()

	store := newSQLiteStore(t)
	user := mustCreateUser(ctx, t, store, false)
	require.NoError(t, store.Truncate(ctx))

	_, err := store.GetUserByID(ctx, user.ID)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestCreateTablesIsIdempotent(t *testing.T) {
	ctx, cancel := getTestContext()
	defer cancel()

	store := newSQLiteStore(t)
	require.NoError(t, store.CreateTables(ctx))
	require.NoError(t, store.CreateTables(ctx))
}
