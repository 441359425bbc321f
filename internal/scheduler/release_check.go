// Package scheduler runs the periodic new-chapter sweep over the
// watchlist. Results are held in memory and served through the API; the
// sweep never mutates the watchlist itself.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"mangalog/internal/entities"
)

// WatchlistLister provides the entries to sweep.
type WatchlistLister interface {
	List(ctx context.Context) []entities.WatchlistEntry
}

// ChapterCounter reports the live chapter count for an item.
type ChapterCounter interface {
	ChapterCount(ctx context.Context, mangaID string) (int, error)
}

// Result is the outcome of checking one watchlist entry.
type Result struct {
	ItemID         string `json:"itemId"`
	ItemTitle      string `json:"itemTitle"`
	KnownChapters  int    `json:"knownChapters"`
	LatestChapters int    `json:"latestChapters"`
	NewChapters    int    `json:"newChapters"`
	Error          string `json:"error,omitempty"`
}

// ReleaseChecker manages the periodic sweep.
type ReleaseChecker struct {
	watchlist WatchlistLister
	counter   ChapterCounter
	schedule  string

	cron       *cron.Cron
	entryID    cron.EntryID
	cancelFunc context.CancelFunc

	mu        sync.RWMutex
	isRunning bool
	results   []Result
	lastRun   time.Time
}

// NewReleaseChecker creates a checker with the given cron schedule.
func NewReleaseChecker(watchlist WatchlistLister, counter ChapterCounter, schedule string) *ReleaseChecker {
	return &ReleaseChecker{
		watchlist: watchlist,
		counter:   counter,
		schedule:  schedule,
		cron:      cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start schedules the sweep and begins the cron loop.
func (s *ReleaseChecker) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("invalid release check schedule %q: %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true
	log.Printf("Release checker started with schedule %q", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the cron loop. Safe to call when not running.
func (s *ReleaseChecker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	s.cron.Remove(s.entryID)
	s.cron.Stop()
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	log.Printf("Release checker stopped")
}

// RunOnce sweeps the whole watchlist now and records the results. Errors
// on individual entries are recorded per entry and do not abort the sweep.
func (s *ReleaseChecker) RunOnce(ctx context.Context) []Result {
	entries := s.watchlist.List(ctx)
	results := make([]Result, 0, len(entries))

	for _, entry := range entries {
		result := Result{
			ItemID:        entry.ItemID,
			ItemTitle:     entry.ItemTitle,
			KnownChapters: entry.ChapterCount,
		}

		latest, err := s.counter.ChapterCount(ctx, entry.ItemID)
		if err != nil {
			result.Error = err.Error()
			log.Printf("Release check for %q failed: %v", entry.ItemTitle, err)
		} else {
			result.LatestChapters = latest
			if latest > entry.ChapterCount {
				result.NewChapters = latest - entry.ChapterCount
			}
		}
		results = append(results, result)
	}

	s.mu.Lock()
	s.results = results
	s.lastRun = time.Now()
	s.mu.Unlock()

	return results
}

// Snapshot returns the results of the most recent sweep and when it ran.
func (s *ReleaseChecker) Snapshot() ([]Result, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]Result, len(s.results))
	copy(results, s.results)
	return results, s.lastRun
}
