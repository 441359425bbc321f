// Package library merges the three reading-state stores into a single
// feed for the library surface.
package library

import (
	"context"
	"sort"

	"mangalog/internal/entities"
)

// WatchlistLister, HistoryLister and DownloadsLister are the read-only
// slices of the stores the feed consumes.
type (
	WatchlistLister interface {
		List(ctx context.Context) []entities.WatchlistEntry
	}
	HistoryLister interface {
		List(ctx context.Context) []entities.HistoryEntry
	}
	DownloadsLister interface {
		List(ctx context.Context) []entities.DownloadedChapterEntry
	}
)

// Feed assembles the merged library feed.
type Feed struct {
	watchlist WatchlistLister
	history   HistoryLister
	downloads DownloadsLister
}

func NewFeed(watchlist WatchlistLister, history HistoryLister, downloads DownloadsLister) *Feed {
	return &Feed{watchlist: watchlist, history: history, downloads: downloads}
}

// Items returns every store entry wrapped as a tagged FeedItem, ordered by
// timestamp descending across all three kinds. The feed is a fresh snapshot
// on every call; callers re-fetch rather than caching it.
func (f *Feed) Items(ctx context.Context) []entities.FeedItem {
	watching := f.watchlist.List(ctx)
	reading := f.history.List(ctx)
	downloaded := f.downloads.List(ctx)

	items := make([]entities.FeedItem, 0, len(watching)+len(reading)+len(downloaded))

	for i := range watching {
		entry := watching[i]
		items = append(items, entities.FeedItem{
			Kind:      entities.FeedKindWatchlist,
			Timestamp: entry.AddedAt,
			Watchlist: &entry,
		})
	}
	for i := range reading {
		entry := reading[i]
		items = append(items, entities.FeedItem{
			Kind:      entities.FeedKindHistory,
			Timestamp: entry.LastReadAt,
			History:   &entry,
		})
	}
	for i := range downloaded {
		entry := downloaded[i]
		items = append(items, entities.FeedItem{
			Kind:      entities.FeedKindDownload,
			Timestamp: entry.DownloadedAt,
			Download:  &entry,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	return items
}
