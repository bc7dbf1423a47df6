package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/berkelium-go/internal/domain/entity"
	"github.com/bnema/berkelium-go/internal/domain/repository"
	"github.com/bnema/berkelium-go/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/berkelium-go/internal/logging"
)

func historyTestCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func newHistoryRepo(t *testing.T) (context.Context, repository.HistoryRepository) {
	t.Helper()
	ctx := historyTestCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })
	return ctx, sqlite.NewHistoryRepository(db)
}

func TestHistoryRepository_SaveUpserts(t *testing.T) {
	ctx, repo := newHistoryRepo(t)
	first := time.UnixMilli(1_700_000_000_000)

	require.NoError(t, repo.Save(ctx, &entity.HistoryEntry{URL: "data:text/html,a", Title: "A", LastVisited: first}))
	require.NoError(t, repo.Save(ctx, &entity.HistoryEntry{URL: "data:text/html,a", LastVisited: first.Add(time.Minute)}))

	got, err := repo.FindByURL(ctx, "data:text/html,a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "A", got.Title, "empty title keeps the recorded one")
	assert.Equal(t, int64(2), got.VisitCount)
	assert.True(t, got.LastVisited.Equal(first.Add(time.Minute)))
	assert.True(t, got.CreatedAt.Equal(first))

	missing, err := repo.FindByURL(ctx, "data:text/html,b")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestHistoryRepository_SkipsBlank(t *testing.T) {
	ctx, repo := newHistoryRepo(t)
	require.NoError(t, repo.Save(ctx, entity.NewHistoryEntry("about:blank", "")))
	require.NoError(t, repo.Save(ctx, nil))

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEntries)
	assert.Zero(t, stats.TotalVisits)
}

func TestHistoryRepository_GetRecent(t *testing.T) {
	ctx, repo := newHistoryRepo(t)
	base := time.UnixMilli(1_700_000_000_000)
	for i, url := range []string{"app://one", "app://two", "app://three"} {
		require.NoError(t, repo.Save(ctx, &entity.HistoryEntry{URL: url, LastVisited: base.Add(time.Duration(i) * time.Hour)}))
	}

	recent, err := repo.GetRecent(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "app://three", recent[0].URL)
	assert.Equal(t, "app://two", recent[1].URL)
	assert.Equal(t, "app://two", recent[1].DisplayTitle())

	rest, err := repo.GetRecent(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "app://one", rest[0].URL)
}

func TestHistoryRepository_Delete(t *testing.T) {
	ctx, repo := newHistoryRepo(t)
	base := time.UnixMilli(1_700_000_000_000)
	require.NoError(t, repo.Save(ctx, &entity.HistoryEntry{URL: "app://old", LastVisited: base}))
	require.NoError(t, repo.Save(ctx, &entity.HistoryEntry{URL: "app://new", LastVisited: base.Add(48 * time.Hour)}))
	require.NoError(t, repo.Save(ctx, &entity.HistoryEntry{URL: "app://newer", LastVisited: base.Add(72 * time.Hour)}))

	require.NoError(t, repo.DeleteOlderThan(ctx, base.Add(24*time.Hour)))
	old, err := repo.FindByURL(ctx, "app://old")
	require.NoError(t, err)
	assert.Nil(t, old)

	newer, err := repo.FindByURL(ctx, "app://newer")
	require.NoError(t, err)
	require.NotNil(t, newer)
	require.NoError(t, repo.Delete(ctx, newer.ID))

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalEntries)

	require.NoError(t, repo.DeleteAll(ctx))
	stats, err = repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEntries)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	ctx := historyTestCtx()
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := sqlite.NewConnection(ctx, path)
	require.NoError(t, err)
	require.NoError(t, sqlite.RunMigrations(ctx, db))

	version, err := sqlite.GetMigrationStatus(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	require.NoError(t, sqlite.Close(db))

	_, err = sqlite.NewConnection(ctx, "")
	assert.Error(t, err)
}
