// Package history persists the per-item "continue reading" pointer. Each
// item keeps at most one entry, the most recent reading position; saving
// progress for a new chapter of the same item replaces the old entry.
package history

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

const storageKey = "reading_history"

// Repository handles all reading-history persistence operations.
//
// SaveProgress fires roughly once per page turn, so callers treat it as a
// best-effort write path: failures are logged, never fatal, never retried.
type Repository struct {
	kv  storage.KeyValue
	now func() time.Time

	mu sync.Mutex
}

// NewRepository creates a new history repository.
func NewRepository(kv storage.KeyValue) *Repository {
	return &Repository{kv: kv, now: time.Now}
}

// List returns all entries, most recently read first. Missing or corrupt
// persisted data yields an empty list, never an error.
func (r *Repository) List(ctx context.Context) []entities.HistoryEntry {
	return r.load(ctx)
}

// SaveProgress stamps LastReadAt and records the entry as the item's
// continue pointer. Any prior entry for the same item is replaced and the
// new one moves to the front of the collection.
func (r *Repository) SaveProgress(ctx context.Context, entry entities.HistoryEntry) error {
	if entry.ItemID == "" {
		return fmt.Errorf("history entry requires an item id")
	}
	if entry.LastReadPosition < 0 {
		return fmt.Errorf("last read position must not be negative")
	}
	if entry.TotalUnitsInChapter < 0 {
		return fmt.Errorf("total units must not be negative")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry.LastReadAt = entities.EpochMillis(r.now().UTC())

	current := r.load(ctx)
	kept := make([]entities.HistoryEntry, 0, len(current)+1)
	kept = append(kept, entry)
	for _, existing := range current {
		if existing.ItemID != entry.ItemID {
			kept = append(kept, existing)
		}
	}
	return r.persist(ctx, kept)
}

// Delete removes the entry for itemID, if present.
func (r *Repository) Delete(ctx context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.load(ctx)
	kept := make([]entities.HistoryEntry, 0, len(current))
	for _, entry := range current {
		if entry.ItemID != itemID {
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

func (r *Repository) load(ctx context.Context) []entities.HistoryEntry {
	raw, found, err := r.kv.Get(ctx, storageKey)
	if err != nil {
		log.Printf("history: read failed, treating as empty: %v", err)
		return []entities.HistoryEntry{}
	}
	if !found {
		return []entities.HistoryEntry{}
	}

	var entries []entities.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Printf("history: discarding corrupt data: %v", err)
		return []entities.HistoryEntry{}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastReadAt.After(entries[j].LastReadAt)
	})
	return entries
}

func (r *Repository) persist(ctx context.Context, entries []entities.HistoryEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("serialize history: %w", err)
	}
	if err := r.kv.Set(ctx, storageKey, string(data)); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}
