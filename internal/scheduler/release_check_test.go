package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangalog/internal/entities"
	"mangalog/internal/storage"
	"mangalog/internal/watchlist"
)

type fakeCounter struct {
	counts map[string]int
	errs   map[string]error
}

func (f *fakeCounter) ChapterCount(_ context.Context, mangaID string) (int, error) {
	if err := f.errs[mangaID]; err != nil {
		return 0, err
	}
	return f.counts[mangaID], nil
}

func TestRunOnceReportsNewChapters(t *testing.T) {
	ctx := context.Background()
	repo := watchlist.NewRepository(storage.NewMemoryStore())

	require.NoError(t, repo.Add(ctx, entities.WatchlistEntry{ItemID: "m1", ItemTitle: "Berserk", ChapterCount: 370}))
	require.NoError(t, repo.Add(ctx, entities.WatchlistEntry{ItemID: "m2", ItemTitle: "One Piece", ChapterCount: 1100}))

	counter := &fakeCounter{counts: map[string]int{"m1": 373, "m2": 1100}}
	checker := NewReleaseChecker(repo, counter, "0 */6 * * *")

	results := checker.RunOnce(ctx)
	require.Len(t, results, 2)

	byID := map[string]Result{}
	for _, r := range results {
		byID[r.ItemID] = r
	}

	assert.Equal(t, 3, byID["m1"].NewChapters)
	assert.Equal(t, 373, byID["m1"].LatestChapters)
	assert.Equal(t, 0, byID["m2"].NewChapters)
}

func TestRunOnceRecordsPerEntryErrors(t *testing.T) {
	ctx := context.Background()
	repo := watchlist.NewRepository(storage.NewMemoryStore())

	require.NoError(t, repo.Add(ctx, entities.WatchlistEntry{ItemID: "m1", ChapterCount: 10}))
	require.NoError(t, repo.Add(ctx, entities.WatchlistEntry{ItemID: "m2", ChapterCount: 20}))

	counter := &fakeCounter{
		counts: map[string]int{"m2": 25},
		errs:   map[string]error{"m1": errors.New("rate limited")},
	}
	checker := NewReleaseChecker(repo, counter, "0 */6 * * *")

	results := checker.RunOnce(ctx)
	require.Len(t, results, 2)

	byID := map[string]Result{}
	for _, r := range results {
		byID[r.ItemID] = r
	}

	assert.Contains(t, byID["m1"].Error, "rate limited")
	assert.Equal(t, 5, byID["m2"].NewChapters)
}

func TestSnapshotReflectsLastRun(t *testing.T) {
	ctx := context.Background()
	repo := watchlist.NewRepository(storage.NewMemoryStore())
	checker := NewReleaseChecker(repo, &fakeCounter{}, "0 */6 * * *")

	results, lastRun := checker.Snapshot()
	assert.Empty(t, results)
	assert.True(t, lastRun.IsZero())

	require.NoError(t, repo.Add(ctx, entities.WatchlistEntry{ItemID: "m1"}))
	checker.RunOnce(ctx)

	results, lastRun = checker.Snapshot()
	assert.Len(t, results, 1)
	assert.False(t, lastRun.IsZero())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	checker := NewReleaseChecker(watchlist.NewRepository(storage.NewMemoryStore()), &fakeCounter{}, "not-a-schedule")
	assert.Error(t, checker.Start(context.Background()))
}

func TestStartAndStop(t *testing.T) {
	checker := NewReleaseChecker(watchlist.NewRepository(storage.NewMemoryStore()), &fakeCounter{}, "0 */6 * * *")

	require.NoError(t, checker.Start(context.Background()))
	// Idempotent start.
	require.NoError(t, checker.Start(context.Background()))
	checker.Stop()
	checker.Stop()
}
