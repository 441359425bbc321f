package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"mangalog/internal/entities"
)

// PageFetcher resolves the full ordered page URL list for a chapter.
type PageFetcher interface {
	ChapterPages(ctx context.Context, chapterID string) ([]string, error)
}

// DownloadSaver persists a fully fetched chapter.
type DownloadSaver interface {
	Save(ctx context.Context, entry entities.DownloadedChapterEntry) error
}

// DownloadChapterTask fetches a chapter's pages and caches them for
// offline reading. The download store is only written after the complete
// page list has been fetched; a failed fetch leaves no trace.
type DownloadChapterTask struct {
	ItemID        string `json:"item_id"`
	ItemTitle     string `json:"item_title"`
	ChapterID     string `json:"chapter_id"`
	ChapterNumber string `json:"chapter_number"`
	CoverURL      string `json:"cover_url"`
}

// Config returns the queue configuration for chapter download tasks.
func (t DownloadChapterTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "download_chapter",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// DownloadChapterProcessor creates the processor function for
// DownloadChapterTask.
func DownloadChapterProcessor(pages PageFetcher, store DownloadSaver) backlite.QueueProcessor[DownloadChapterTask] {
	return func(ctx context.Context, task DownloadChapterTask) error {
		urls, err := pages.ChapterPages(ctx, task.ChapterID)
		if err != nil {
			return fmt.Errorf("fetch pages for chapter %s: %w", task.ChapterID, err)
		}
		if len(urls) == 0 {
			return fmt.Errorf("chapter %s has no pages", task.ChapterID)
		}

		err = store.Save(ctx, entities.DownloadedChapterEntry{
			ItemID:        task.ItemID,
			ItemTitle:     task.ItemTitle,
			ChapterID:     task.ChapterID,
			ChapterNumber: task.ChapterNumber,
			CoverURL:      task.CoverURL,
			PageURLs:      urls,
		})
		if err != nil {
			return fmt.Errorf("save chapter %s: %w", task.ChapterID, err)
		}

		log.Printf("[TASK] Downloaded chapter %s of %q (%d pages)", task.ChapterNumber, task.ItemTitle, len(urls))
		return nil
	}
}

// NewDownloadChapterQueue creates the backlite queue for chapter downloads.
func NewDownloadChapterQueue(pages PageFetcher, store DownloadSaver) backlite.Queue {
	return backlite.NewQueue(DownloadChapterProcessor(pages, store))
}
