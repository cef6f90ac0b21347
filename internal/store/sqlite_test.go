package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, model.SearchRequest{Prompt: "dentists in Ohio", Size: 10})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)
	assert.Equal(t, 10, run.Size)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "dentists in Ohio", got.Prompt)
	assert.Equal(t, model.RunStatusQueued, got.Status)
}

func TestSQLite_CreateRunClampsSize(t *testing.T) {
	st := newTestSQLiteStore(t)

	run, err := st.CreateRun(context.Background(), model.SearchRequest{Prompt: "x", Size: 500})
	require.NoError(t, err)
	assert.Equal(t, model.MaxSize, run.Size)
}

func TestSQLite_FinishRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, model.SearchRequest{Prompt: "founders", Size: 5})
	require.NoError(t, err)

	err = st.FinishRun(ctx, run.ID, model.RunOutcome{
		Provider: model.ProviderPrimary,
		Status:   model.RunStatusComplete,
		ListID:   "list-1",
		RowCount: 5,
	})
	require.NoError(t, err)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Equal(t, model.ProviderPrimary, got.Provider)
	assert.Equal(t, "list-1", got.ListID)
	assert.Equal(t, 5, got.RowCount)
}

func TestSQLite_FinishRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.FinishRun(context.Background(), "missing", model.RunOutcome{Status: model.RunStatusFailed})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_ListRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	first, err := st.CreateRun(ctx, model.SearchRequest{Prompt: "one", Size: 1})
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, model.SearchRequest{Prompt: "two", Size: 2})
	require.NoError(t, err)

	require.NoError(t, st.FinishRun(ctx, first.ID, model.RunOutcome{
		Status: model.RunStatusFailed,
		Error:  "provider down",
	}))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	failed, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "one", failed[0].Prompt)
	assert.Equal(t, "provider down", failed[0].Error)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}
