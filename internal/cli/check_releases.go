package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"mangalog/internal/catalog"
	"mangalog/internal/config"
	"mangalog/internal/scheduler"
	"mangalog/internal/storage"
	"mangalog/internal/watchlist"
)

// CheckReleasesCommand runs one release sweep over the watchlist and
// prints which entries have new chapters.
type CheckReleasesCommand struct {
	DatabasePath string
	Backend      string
	Verbose      bool
}

// NewCheckReleasesCommand creates a new CheckReleasesCommand
func NewCheckReleasesCommand() *CheckReleasesCommand {
	return &CheckReleasesCommand{}
}

// ParseFlags parses command line flags
func (cmd *CheckReleasesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("check-releases", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.Backend, "backend", config.BackendSQLite, "Storage backend (sqlite or bolt)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print entries with no new chapters too")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s check-releases [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Check every watchlist entry against MangaDex for newly released chapters.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run performs the sweep
func (cmd *CheckReleasesCommand) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	kv, err := storage.Open(cmd.Backend, cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer kv.Close()

	cfg := config.NewConfig()
	client := catalog.NewClient(catalog.Options{
		Timeout:    cfg.Catalog.Timeout,
		MaxRetries: cfg.Catalog.MaxRetries,
		RetryDelay: cfg.Catalog.RetryDelay,
	})
	mangadex := catalog.NewMangaDex(client, cfg.Catalog.MangaDexBaseURL)

	checker := scheduler.NewReleaseChecker(watchlist.NewRepository(kv), mangadex, cfg.ReleaseCheck.Schedule)
	results := checker.RunOnce(ctx)

	if len(results) == 0 {
		fmt.Println("Watchlist is empty, nothing to check")
		return nil
	}

	newReleases := 0
	for _, result := range results {
		switch {
		case result.Error != "":
			fmt.Printf("  %s: check failed: %s\n", result.ItemTitle, result.Error)
		case result.NewChapters > 0:
			newReleases++
			fmt.Printf("  %s: %d new chapter(s) (%d -> %d)\n",
				result.ItemTitle, result.NewChapters, result.KnownChapters, result.LatestChapters)
		case cmd.Verbose:
			fmt.Printf("  %s: up to date (%d chapters)\n", result.ItemTitle, result.LatestChapters)
		}
	}

	fmt.Printf("Checked %d entries, %d with new chapters\n", len(results), newReleases)
	return nil
}
