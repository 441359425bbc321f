package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangalog/internal/downloads"
	"mangalog/internal/storage"
)

type fakePageFetcher struct {
	pages map[string][]string
	err   error
}

func (f *fakePageFetcher) ChapterPages(_ context.Context, chapterID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[chapterID], nil
}

func TestDownloadChapterProcessorSavesFetchedPages(t *testing.T) {
	ctx := context.Background()
	repo := downloads.NewRepository(storage.NewMemoryStore())
	fetcher := &fakePageFetcher{pages: map[string][]string{
		"c1": {"https://cdn.example.org/1.png", "https://cdn.example.org/2.png"},
	}}

	process := DownloadChapterProcessor(fetcher, repo)
	err := process(ctx, DownloadChapterTask{
		ItemID:        "m1",
		ItemTitle:     "Berserk",
		ChapterID:     "c1",
		ChapterNumber: "1",
	})
	require.NoError(t, err)

	entry, found := repo.GetByChapterID(ctx, "c1")
	require.True(t, found)
	assert.Equal(t, "Berserk", entry.ItemTitle)
	assert.Len(t, entry.PageURLs, 2)
}

func TestDownloadChapterProcessorFailedFetchLeavesNoEntry(t *testing.T) {
	ctx := context.Background()
	repo := downloads.NewRepository(storage.NewMemoryStore())
	fetcher := &fakePageFetcher{err: errors.New("upstream unavailable")}

	process := DownloadChapterProcessor(fetcher, repo)
	err := process(ctx, DownloadChapterTask{ItemID: "m1", ChapterID: "c1"})
	require.Error(t, err)

	_, found := repo.GetByChapterID(ctx, "c1")
	assert.False(t, found)
	assert.Empty(t, repo.List(ctx))
}

func TestDownloadChapterProcessorRejectsEmptyPageList(t *testing.T) {
	ctx := context.Background()
	repo := downloads.NewRepository(storage.NewMemoryStore())
	fetcher := &fakePageFetcher{pages: map[string][]string{}}

	process := DownloadChapterProcessor(fetcher, repo)
	err := process(ctx, DownloadChapterTask{ItemID: "m1", ChapterID: "c1"})
	require.Error(t, err)
	assert.Empty(t, repo.List(ctx))
}
