package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Catalog
		Tasks
		ReleaseCheck
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}

	Database struct {
		Path    string
		Backend string // "sqlite" (default) or "bolt"
	}

	// Catalog configures the remote catalog clients (MangaDex, Jikan).
	Catalog struct {
		MangaDexBaseURL string
		JikanBaseURL    string
		Timeout         time.Duration
		MaxRetries      int
		RetryDelay      time.Duration
	}

	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}

	// ReleaseCheck configures the scheduled new-chapter sweep over the watchlist.
	ReleaseCheck struct {
		Enabled  bool
		Schedule string // Cron format: "0 */6 * * *" = every 6 hours
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8099)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_backend", BackendSQLite)

	// Catalog defaults mirror the public API limits: MangaDex allows a
	// handful of requests per second, Jikan roughly one per second.
	v.SetDefault("catalog_mangadex_base_url", "https://api.mangadex.org")
	v.SetDefault("catalog_jikan_base_url", "https://api.jikan.moe/v4")
	v.SetDefault("catalog_timeout", "10s")
	v.SetDefault("catalog_max_retries", 2)
	v.SetDefault("catalog_retry_delay", "1s")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Release check defaults
	v.SetDefault("release_check_enabled", false)
	v.SetDefault("release_check_schedule", "0 */6 * * *") // Every 6 hours

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path:    v.GetString("DATABASE_PATH"),
			Backend: v.GetString("DATABASE_BACKEND"),
		},
		Catalog: Catalog{
			MangaDexBaseURL: v.GetString("CATALOG_MANGADEX_BASE_URL"),
			JikanBaseURL:    v.GetString("CATALOG_JIKAN_BASE_URL"),
			Timeout:         v.GetDuration("CATALOG_TIMEOUT"),
			MaxRetries:      v.GetInt("CATALOG_MAX_RETRIES"),
			RetryDelay:      v.GetDuration("CATALOG_RETRY_DELAY"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		ReleaseCheck: ReleaseCheck{
			Enabled:  v.GetBool("RELEASE_CHECK_ENABLED"),
			Schedule: v.GetString("RELEASE_CHECK_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
