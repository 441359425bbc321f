package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mangalog/internal/entities"
	"mangalog/internal/tasks"
)

// DownloadStore defines the store operations for the offline chapter cache.
type DownloadStore interface {
	List(ctx context.Context) []entities.DownloadedChapterEntry
	GetByChapterID(ctx context.Context, chapterID string) (entities.DownloadedChapterEntry, bool)
	Delete(ctx context.Context, chapterID string) error
	Clear(ctx context.Context) error
}

// DownloadQueue enqueues chapter download jobs for background processing.
type DownloadQueue interface {
	Enqueue(ctx context.Context, task tasks.DownloadChapterTask) error
}

type DownloadsController struct {
	store DownloadStore
	queue DownloadQueue
}

func NewDownloadsController(store DownloadStore, queue DownloadQueue) *DownloadsController {
	return &DownloadsController{store: store, queue: queue}
}

// List returns all downloaded chapters, most recent first.
// GET /api/downloads
func (dc *DownloadsController) List(c *gin.Context) {
	c.JSON(http.StatusOK, dc.store.List(c.Request.Context()))
}

// Get returns one cached chapter with its page URLs.
// GET /api/downloads/:chapterId
func (dc *DownloadsController) Get(c *gin.Context) {
	entry, found := dc.store.GetByChapterID(c.Request.Context(), c.Param("chapterId"))
	if !found {
		respondNotFound(c, "downloaded chapter")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Enqueue accepts a chapter download request. The chapter is fetched in
// the background; the store is only written once all pages are known.
// Unlike history writes, failures here are surfaced: a download is an
// intentional action the user is waiting on.
// POST /api/downloads
func (dc *DownloadsController) Enqueue(c *gin.Context) {
	var req tasks.DownloadChapterTask
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid download request: "+err.Error())
		return
	}
	if req.ItemID == "" || req.ChapterID == "" {
		respondBadRequest(c, "item_id and chapter_id are required")
		return
	}

	if entry, found := dc.store.GetByChapterID(c.Request.Context(), req.ChapterID); found {
		c.JSON(http.StatusConflict, gin.H{
			"message":  "chapter already downloaded",
			"download": entry,
		})
		return
	}

	if dc.queue == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "downloads are disabled"})
		return
	}

	if err := dc.queue.Enqueue(c.Request.Context(), req); err != nil {
		respondInternalError(c, err, "enqueue download")
		return
	}
	c.JSON(http.StatusAccepted, SuccessResponse{Message: "download queued"})
}

// Delete removes one cached chapter.
// DELETE /api/downloads/:chapterId
func (dc *DownloadsController) Delete(c *gin.Context) {
	if err := dc.store.Delete(c.Request.Context(), c.Param("chapterId")); err != nil {
		respondInternalError(c, err, "delete download")
		return
	}
	respondSuccess(c, "download deleted")
}

// Clear empties the offline cache.
// DELETE /api/downloads
func (dc *DownloadsController) Clear(c *gin.Context) {
	if err := dc.store.Clear(c.Request.Context()); err != nil {
		respondInternalError(c, err, "clear downloads")
		return
	}
	respondSuccess(c, "downloads cleared")
}
