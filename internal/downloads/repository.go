// Package downloads persists the offline chapter cache: one entry per
// chapter id, holding the full ordered page URL list of a successfully
// fetched chapter. Partially fetched chapters are never stored.
package downloads

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"mangalog/internal/entities"
	"mangalog/internal/storage"
)

const storageKey = "downloaded_chapters"

// Repository handles all offline-chapter persistence operations.
type Repository struct {
	kv  storage.KeyValue
	now func() time.Time

	mu sync.Mutex
}

// NewRepository creates a new downloads repository.
func NewRepository(kv storage.KeyValue) *Repository {
	return &Repository{kv: kv, now: time.Now}
}

// List returns all downloaded chapters, most recently downloaded first.
// Missing or corrupt persisted data yields an empty list, never an error.
func (r *Repository) List(ctx context.Context) []entities.DownloadedChapterEntry {
	return r.load(ctx)
}

// Save stamps DownloadedAt and stores the entry. A prior entry with the
// same chapter id is replaced, so re-downloading refreshes the pages and
// the timestamp. The page list must already be fully fetched.
func (r *Repository) Save(ctx context.Context, entry entities.DownloadedChapterEntry) error {
	if entry.ChapterID == "" {
		return fmt.Errorf("download entry requires a chapter id")
	}
	if len(entry.PageURLs) == 0 {
		return fmt.Errorf("download entry requires at least one page")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry.DownloadedAt = entities.EpochMillis(r.now().UTC())

	current := r.load(ctx)
	kept := make([]entities.DownloadedChapterEntry, 0, len(current)+1)
	kept = append(kept, entry)
	for _, existing := range current {
		if existing.ChapterID != entry.ChapterID {
			kept = append(kept, existing)
		}
	}
	return r.persist(ctx, kept)
}

// GetByChapterID returns the cached entry for chapterID, if any. It serves
// both the "already downloaded" check and offline page retrieval.
func (r *Repository) GetByChapterID(ctx context.Context, chapterID string) (entities.DownloadedChapterEntry, bool) {
	for _, entry := range r.load(ctx) {
		if entry.ChapterID == chapterID {
			return entry, true
		}
	}
	return entities.DownloadedChapterEntry{}, false
}

// Delete removes the entry for chapterID, if present.
func (r *Repository) Delete(ctx context.Context, chapterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.load(ctx)
	kept := make([]entities.DownloadedChapterEntry, 0, len(current))
	for _, entry := range current {
		if entry.ChapterID != chapterID {
			kept = append(kept, entry)
		}
	}
	return r.persist(ctx, kept)
}

// Clear removes the whole collection.
func (r *Repository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.kv.Delete(ctx, storageKey)
}

func (r *Repository) load(ctx context.Context) []entities.DownloadedChapterEntry {
	raw, found, err := r.kv.Get(ctx, storageKey)
	if err != nil {
		log.Printf("downloads: read failed, treating as empty: %v", err)
		return []entities.DownloadedChapterEntry{}
	}
	if !found {
		return []entities.DownloadedChapterEntry{}
	}

	var entries []entities.DownloadedChapterEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Printf("downloads: discarding corrupt data: %v", err)
		return []entities.DownloadedChapterEntry{}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DownloadedAt.After(entries[j].DownloadedAt)
	})
	return entries
}

func (r *Repository) persist(ctx context.Context, entries []entities.DownloadedChapterEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("serialize downloads: %w", err)
	}
	if err := r.kv.Set(ctx, storageKey, string(data)); err != nil {
		return fmt.Errorf("persist downloads: %w", err)
	}
	return nil
}
