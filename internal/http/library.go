package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mangalog/internal/entities"
	"mangalog/internal/scheduler"
)

// FeedProvider assembles the merged library feed.
type FeedProvider interface {
	Items(ctx context.Context) []entities.FeedItem
}

// ReleaseChecker exposes the watchlist release sweep.
type ReleaseChecker interface {
	RunOnce(ctx context.Context) []scheduler.Result
	Snapshot() ([]scheduler.Result, time.Time)
}

type LibraryController struct {
	feed     FeedProvider
	releases ReleaseChecker
}

func NewLibraryController(feed FeedProvider, releases ReleaseChecker) *LibraryController {
	return &LibraryController{feed: feed, releases: releases}
}

// Feed returns the merged library feed: watchlist, history and downloads
// as tagged items ordered newest first.
// GET /api/library/feed
func (lc *LibraryController) Feed(c *gin.Context) {
	c.JSON(http.StatusOK, lc.feed.Items(c.Request.Context()))
}

// Releases returns the results of the most recent release sweep.
// GET /api/library/releases
func (lc *LibraryController) Releases(c *gin.Context) {
	if lc.releases == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "release checking is disabled"})
		return
	}
	results, lastRun := lc.releases.Snapshot()
	response := gin.H{"results": results}
	if !lastRun.IsZero() {
		response["checkedAt"] = lastRun.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, response)
}

// CheckReleases runs a release sweep now and returns the fresh results.
// POST /api/library/releases/check
func (lc *LibraryController) CheckReleases(c *gin.Context) {
	if lc.releases == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "release checking is disabled"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": lc.releases.RunOnce(c.Request.Context())})
}
