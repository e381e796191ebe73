package db

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apiscope-hq/apiscope/internal/testutil"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	tdb := testutil.SetupTestDB(t)
	t.Cleanup(func() {
		tdb.Cleanup(t)
		tdb.Close()
	})

	store := NewStoreWithPool(tdb.Pool)
	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func TestSaveAndGetReport(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	surface := json.RawMessage(`{"elements":[]}`)
	saved, err := store.SaveReport(ctx, "mypkg", "/tmp/mypkg", nil, surface)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := store.GetReport(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "mypkg", got.Package)
	assert.JSONEq(t, string(surface), string(got.Surface))
}

func TestGetReportNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.GetReport(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListReportsFiltersByPackage(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	surface := json.RawMessage(`{"elements":[]}`)
	_, err := store.SaveReport(ctx, "alpha", "/tmp/alpha", nil, surface)
	require.NoError(t, err)
	_, err = store.SaveReport(ctx, "beta", "/tmp/beta", nil, surface)
	require.NoError(t, err)

	alpha, err := store.ListReports(ctx, "alpha", 10)
	require.NoError(t, err)
	require.Len(t, alpha, 1)
	assert.Equal(t, "alpha", alpha[0].Package)

	all, err := store.ListReports(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
