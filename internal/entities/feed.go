package entities

// FeedKind discriminates the variants of a FeedItem. Consumers switch on
// the kind instead of sniffing which payload field happens to be set.
type FeedKind string

const (
	FeedKindWatchlist FeedKind = "watchlist"
	FeedKindHistory   FeedKind = "history"
	FeedKindDownload  FeedKind = "download"
)

// FeedItem is one entry of the merged library feed: a tagged union over the
// three store record types. Exactly one payload pointer is non-nil, and it
// always matches Kind. Timestamp carries the variant's own timestamp field
// so merged feeds can be ordered without inspecting the payload.
type FeedItem struct {
	Kind      FeedKind                `json:"kind"`
	Timestamp EpochMillis             `json:"timestamp"`
	Watchlist *WatchlistEntry         `json:"watchlist,omitempty"`
	History   *HistoryEntry           `json:"history,omitempty"`
	Download  *DownloadedChapterEntry `json:"download,omitempty"`
}
