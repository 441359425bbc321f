// Package entities defines the records persisted by the reading-state
// stores. Each store serializes its full collection as a single JSON array
// under a fixed key, so these shapes are the on-disk format as well as the
// API format.
package entities

// WatchlistEntry is a catalog item saved for later. Entries are never
// mutated in place: removing and re-adding is the only way to change one.
type WatchlistEntry struct {
	ItemID       string      `json:"itemId"`
	ItemTitle    string      `json:"itemTitle"`
	CoverURL     string      `json:"coverUrl"`
	AddedAt      EpochMillis `json:"addedAt"`
	Author       string      `json:"author,omitempty"`
	Status       string      `json:"status,omitempty"`
	ChapterCount int         `json:"chapterCount,omitempty"`
	Score        float64     `json:"score,omitempty"`
	Genres       []string    `json:"genres,omitempty"`
}

// HistoryEntry is the single "continue reading" pointer kept per item.
// Saving progress for a new chapter of the same item replaces the prior
// entry, so at most one entry exists per ItemID.
type HistoryEntry struct {
	ItemID              string      `json:"itemId"`
	ItemTitle           string      `json:"itemTitle"`
	LastReadUnitID      string      `json:"lastReadUnitId"`
	LastReadUnitNumber  string      `json:"lastReadUnitNumber"`
	LastReadPosition    int         `json:"lastReadPosition"`
	TotalUnitsInChapter int         `json:"totalUnitsInChapter"`
	LastReadAt          EpochMillis `json:"lastReadAt"`
	CoverURL            string      `json:"coverUrl"`
}

// DownloadedChapterEntry is a fully fetched chapter cached for offline
// reading. PageURLs holds one URI per page in reading order and is never
// persisted partially: a failed fetch never produces an entry.
type DownloadedChapterEntry struct {
	ItemID        string      `json:"itemId"`
	ItemTitle     string      `json:"itemTitle"`
	ChapterID     string      `json:"chapterId"`
	ChapterNumber string      `json:"chapterNumber"`
	CoverURL      string      `json:"coverUrl"`
	DownloadedAt  EpochMillis `json:"downloadedAt"`
	PageURLs      []string    `json:"pageUrls"`
}
