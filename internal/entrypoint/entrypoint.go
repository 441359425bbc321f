package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"mangalog/internal/catalog"
	"mangalog/internal/config"
	"mangalog/internal/downloads"
	"mangalog/internal/history"
	http_controllers "mangalog/internal/http"
	"mangalog/internal/library"
	"mangalog/internal/scheduler"
	"mangalog/internal/storage"
	"mangalog/internal/tasks"
	"mangalog/internal/watchlist"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// taskQueue adapts the backlite client to the download controller's
// enqueue-one-task interface.
type taskQueue struct {
	client *tasks.Client
}

func (q *taskQueue) Enqueue(ctx context.Context, task tasks.DownloadChapterTask) error {
	_, err := q.client.Add(task).Ctx(ctx).Save()
	return err
}

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background workers before the listener so in-flight tasks can
	// finish against a live store.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the stores, catalog clients, task queue and scheduler together
// and serves the API.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting mangalog v%s", version)

	kv, err := storage.Open(cfg.Database.Backend, cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Printf("Error closing storage: %v", err)
		}
	}()

	watchlistRepo := watchlist.NewRepository(kv)
	historyRepo := history.NewRepository(kv)
	downloadsRepo := downloads.NewRepository(kv)

	httpClient := catalog.NewClient(catalog.Options{
		Timeout:    cfg.Catalog.Timeout,
		MaxRetries: cfg.Catalog.MaxRetries,
		RetryDelay: cfg.Catalog.RetryDelay,
	})
	mangadex := catalog.NewMangaDex(httpClient, cfg.Catalog.MangaDexBaseURL)
	jikan := catalog.NewJikan(httpClient, cfg.Catalog.JikanBaseURL)

	// Task queue for background chapter downloads.
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var downloadQueue http_controllers.DownloadQueue
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewDownloadChapterQueue(mangadex, downloadsRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		downloadQueue = &taskQueue{client: taskClient}
	} else {
		log.Printf("Task queue disabled; chapter downloads will be rejected")
	}

	// Scheduled release sweep over the watchlist.
	var releaseChecker *scheduler.ReleaseChecker
	if cfg.ReleaseCheck.Enabled {
		releaseChecker = scheduler.NewReleaseChecker(watchlistRepo, mangadex, cfg.ReleaseCheck.Schedule)
		if err := releaseChecker.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start release checker: %v", err)
		}
	} else {
		log.Printf("Release checking disabled")
	}

	feed := library.NewFeed(watchlistRepo, historyRepo, downloadsRepo)

	// A nil *ReleaseChecker must stay a nil interface for the controller's
	// disabled check to fire.
	var checkerForHTTP http_controllers.ReleaseChecker
	if releaseChecker != nil {
		checkerForHTTP = releaseChecker
	}

	router := http_controllers.NewRouter(http_controllers.Controllers{
		Watchlist: http_controllers.NewWatchlistController(watchlistRepo),
		History:   http_controllers.NewHistoryController(historyRepo),
		Downloads: http_controllers.NewDownloadsController(downloadsRepo, downloadQueue),
		Catalog:   http_controllers.NewCatalogController(mangadex, jikan),
		Library:   http_controllers.NewLibraryController(feed, checkerForHTTP),
		Health:    http_controllers.NewHealthController(kv, version),
	})

	Serve(router, cfg, func(ctx context.Context) {
		if releaseChecker != nil {
			releaseChecker.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
			if taskCtxCancel != nil {
				taskCtxCancel()
			}
		}
	})
}
