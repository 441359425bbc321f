// Package watchlist persists the set of catalog items saved for later.
//
// The whole collection is serialized as one JSON array under a fixed key,
// so every mutation is a full read-modify-write cycle. A repository-level
// mutex serializes those cycles; the store is safe for concurrent use
// within a single process.
package watchlist

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

const storageKey = "watchlist"

// Repository handles all watchlist persistence operations.
type Repository struct {
	kv  storage.KeyValue
	now func() time.Time

	mu sync.Mutex
}

// NewRepository creates a new watchlist repository.
func NewRepository(kv storage.KeyValue) *Repository {
	return &Repository{kv: kv, now: time.Now}
}

// List returns all saved entries, most recently added first. Missing or
// corrupt persisted data yields an empty list, never an error.
func (r *Repository) List(ctx context.Context) []entities.WatchlistEntry {
	return r.load(ctx)
}

// Add stamps AddedAt and prepends the entry. Adding an item that is already
// present is a no-op: the existing entry keeps its fields and its position.
func (r *Repository) Add(ctx context.Context, entry entities.WatchlistEntry) error {
	if entry.ItemID == "" {
		return fmt.Errorf("watchlist entry requires an item id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.load(ctx)
	for _, existing := range current {
		if existing.ItemID == entry.ItemID {
			return nil
		}
	}

	entry.AddedAt = entities.EpochMillis(r.now().UTC())
	return r.persist(ctx, append([]entities.WatchlistEntry{entry}, current...))
}

// Remove deletes the entry for itemID, if present.
func (r *Repository) Remove(ctx context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.load(ctx)
	kept := make([]entities.WatchlistEntry, 0, len(current))
	for _, entry := range current {
		if entry.ItemID != itemID {
			kept = append(kept, entry)
		}
	}
	return r.persist(ctx, kept)
}

// Contains reports whether itemID is on the watchlist.
func (r *Repository) Contains(ctx context.Context, itemID string) bool {
	for _, entry := range r.load(ctx) {
		if entry.ItemID == itemID {
			return true
		}
	}
	return false
}

// Clear removes the whole collection.
func (r *Repository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.kv.Delete(ctx, storageKey)
}

func (r *Repository) load(ctx context.Context) []entities.WatchlistEntry {
	raw, found, err := r.kv.Get(ctx, storageKey)
	if err != nil {
		log.Printf("watchlist: read failed, treating as empty: %v", err)
		return []entities.WatchlistEntry{}
	}
	if !found {
		return []entities.WatchlistEntry{}
	}

	var entries []entities.WatchlistEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Printf("watchlist: discarding corrupt data: %v", err)
		return []entities.WatchlistEntry{}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AddedAt.After(entries[j].AddedAt)
	})
	return entries
}

func (r *Repository) persist(ctx context.Context, entries []entities.WatchlistEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("serialize watchlist: %w", err)
	}
	if err := r.kv.Set(ctx, storageKey, string(data)); err != nil {
		return fmt.Errorf("persist watchlist: %w", err)
	}
	return nil
}
