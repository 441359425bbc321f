package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"mangalog/internal/catalog"
	"mangalog/internal/config"
	"mangalog/internal/downloads"
	"mangalog/internal/entities"
	"mangalog/internal/storage"
)

// DownloadCommand fetches one chapter's pages synchronously and caches
// them for offline reading, without going through the task queue.
type DownloadCommand struct {
	DatabasePath string
	Backend      string
	ItemID       string
	ItemTitle    string
	ChapterID    string
	ChapterNum   string
	Force        bool
}

// NewDownloadCommand creates a new DownloadCommand
func NewDownloadCommand() *DownloadCommand {
	return &DownloadCommand{}
}

// ParseFlags parses command line flags
func (cmd *DownloadCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("download", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.Backend, "backend", config.BackendSQLite, "Storage backend (sqlite or bolt)")
	fs.StringVar(&cmd.ItemID, "item", "", "MangaDex manga ID the chapter belongs to (required)")
	fs.StringVar(&cmd.ItemTitle, "title", "", "Manga title stored with the download")
	fs.StringVar(&cmd.ChapterID, "chapter", "", "MangaDex chapter ID to download (required)")
	fs.StringVar(&cmd.ChapterNum, "number", "", "Chapter number stored with the download")
	fs.BoolVar(&cmd.Force, "force", false, "Re-download even if the chapter is already cached")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s download -item <manga-id> -chapter <chapter-id> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Fetch a chapter's page URLs from MangaDex and cache them for offline reading.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s download -item 801513ba-a712-498c-8f57-cae55b38cc92 -chapter a54c491c -number 1\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ItemID == "" || cmd.ChapterID == "" {
		fs.Usage()
		return fmt.Errorf("-item and -chapter are required")
	}
	return nil
}

// Run performs the download
func (cmd *DownloadCommand) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	kv, err := storage.Open(cmd.Backend, cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer kv.Close()

	repo := downloads.NewRepository(kv)

	if !cmd.Force {
		if _, found := repo.GetByChapterID(ctx, cmd.ChapterID); found {
			fmt.Printf("Chapter %s is already cached (use -force to re-download)\n", cmd.ChapterID)
			return nil
		}
	}

	cfg := config.NewConfig()
	client := catalog.NewClient(catalog.Options{
		Timeout:    cfg.Catalog.Timeout,
		MaxRetries: cfg.Catalog.MaxRetries,
		RetryDelay: cfg.Catalog.RetryDelay,
	})
	mangadex := catalog.NewMangaDex(client, cfg.Catalog.MangaDexBaseURL)

	pages, err := mangadex.ChapterPages(ctx, cmd.ChapterID)
	if err != nil {
		return fmt.Errorf("fetch chapter pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("chapter %s has no pages", cmd.ChapterID)
	}

	entry := entities.DownloadedChapterEntry{
		ItemID:        cmd.ItemID,
		ItemTitle:     cmd.ItemTitle,
		ChapterID:     cmd.ChapterID,
		ChapterNumber: cmd.ChapterNum,
		PageURLs:      pages,
	}
	if cmd.Force {
		if err := repo.Delete(ctx, cmd.ChapterID); err != nil {
			return fmt.Errorf("evict cached chapter: %w", err)
		}
	}
	if err := repo.Save(ctx, entry); err != nil {
		return fmt.Errorf("save download: %w", err)
	}

	fmt.Printf("Cached chapter %s: %d pages\n", cmd.ChapterID, len(pages))
	return nil
}
