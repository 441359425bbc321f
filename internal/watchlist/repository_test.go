package watchlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangalog/internal/entities"
	"mangalog/internal/storage"
)

func setupRepo(t *testing.T) (*Repository, *storage.MemoryStore) {
	t.Helper()
	kv := storage.NewMemoryStore()
	return NewRepository(kv), kv
}

func TestAddAndList(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)

	err := repo.Add(ctx, entities.WatchlistEntry{
		ItemID:    "m1",
		ItemTitle: "Berserk",
		CoverURL:  "https://uploads.example.org/covers/m1.jpg",
		Author:    "Kentaro Miura",
		Genres:    []string{"Action", "Horror"},
	})
	require.NoError(t, err)

	entries := repo.List(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, "m1", entries[0].ItemID)
	assert.Equal(t, "Berserk", entries[0].ItemTitle)
	assert.False(t, entries[0].AddedAt.Time().IsZero())

	require.NoError(t, repo.Remove(ctx, "m1"))
	assert.Empty(t, repo.List(ctx))
}

func TestAddRequiresItemID(t *testing.T) {
	repo, _ := setupRepo(t)
	assert.Error(t, repo.Add(context.Background(), entities.WatchlistEntry{ItemTitle: "No ID"}))
}

func TestAddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }

	require.NoError(t, repo.Add(ctx, entities.WatchlistEntry{ItemID: "m1", ItemTitle: "Original"}))

	// A later duplicate add must not update fields or refresh the timestamp.
	repo.now = func() time.Time { return base.Add(time.Hour) }
	require.NoError(t, repo.Add(ctx, entities.WatchlistEntry{ItemID: "m1", ItemTitle: "Changed"}))

	entries := repo.List(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, "Original", entries[0].ItemTitle)
	assert.Equal(t, base, entries[0].AddedAt.Time())
}

func TestListSortedByAddedAtDescending(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)

	current := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		current = current.Add(time.Minute)
		return current
	}

	for _, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, repo.Add(ctx, entities.WatchlistEntry{ItemID: id}))
	}

	entries := repo.List(ctx)
	require.Len(t, entries, 3)
	assert.Equal(t, "m3", entries[0].ItemID)
	assert.Equal(t, "m2", entries[1].ItemID)
	assert.Equal(t, "m1", entries[2].ItemID)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].AddedAt.After(entries[i-1].AddedAt))
	}
}

func TestContains(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)

	assert.False(t, repo.Contains(ctx, "m1"))
	require.NoError(t, repo.Add(ctx, entities.WatchlistEntry{ItemID: "m1"}))
	assert.True(t, repo.Contains(ctx, "m1"))
	assert.False(t, repo.Contains(ctx, "m2"))
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)

	require.NoError(t, repo.Add(ctx, entities.WatchlistEntry{ItemID: "m1"}))
	require.NoError(t, repo.Remove(ctx, "does-not-exist"))
	assert.Len(t, repo.List(ctx), 1)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)

	require.NoError(t, repo.Add(ctx, entities.WatchlistEntry{ItemID: "m1"}))
	require.NoError(t, repo.Add(ctx, entities.WatchlistEntry{ItemID: "m2"}))
	require.NoError(t, repo.Clear(ctx))
	assert.Empty(t, repo.List(ctx))
}

func TestCorruptDataFailsClosed(t *testing.T) {
	ctx := context.Background()
	repo, kv := setupRepo(t)

	require.NoError(t, repo.Add(ctx, entities.WatchlistEntry{ItemID: "m1"}))
	require.NoError(t, kv.Set(ctx, storageKey, "{not json"))

	assert.Empty(t, repo.List(ctx))
	assert.False(t, repo.Contains(ctx, "m1"))

	// The store stays usable: the next write replaces the corrupt value.
	require.NoError(t, repo.Add(ctx, entities.WatchlistEntry{ItemID: "m2"}))
	entries := repo.List(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, "m2", entries[0].ItemID)
}

func TestRoundTripThroughSerialization(t *testing.T) {
	ctx := context.Background()
	repo, kv := setupRepo(t)

	require.NoError(t, repo.Add(ctx, entities.WatchlistEntry{
		ItemID:       "m1",
		ItemTitle:    "Vagabond",
		CoverURL:     "https://uploads.example.org/covers/m1.jpg",
		Author:       "Takehiko Inoue",
		Status:       "hiatus",
		ChapterCount: 327,
		Score:        4.6,
		Genres:       []string{"Action", "Drama"},
	}))

	before := repo.List(ctx)

	// Rehydrate through a fresh repository over the same backing value.
	after := NewRepository(kv).List(ctx)
	assert.Equal(t, before, after)
}
