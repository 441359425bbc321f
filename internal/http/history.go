package http

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"mangalog/internal/entities"
	"mangalog/internal/readstatus"
)

// HistoryStore defines the store operations for reading-history management.
type HistoryStore interface {
	List(ctx context.Context) []entities.HistoryEntry
	SaveProgress(ctx context.Context, entry entities.HistoryEntry) error
	Delete(ctx context.Context, itemID string) error
	Clear(ctx context.Context) error
}

type HistoryController struct {
	store HistoryStore
}

func NewHistoryController(store HistoryStore) *HistoryController {
	return &HistoryController{store: store}
}

// List returns the reading history, most recently read first.
// GET /api/history
func (hc *HistoryController) List(c *gin.Context) {
	c.JSON(http.StatusOK, hc.store.List(c.Request.Context()))
}

// SaveProgress records a reading position. The reader fires this on every
// page turn, so persistence failures are logged and swallowed: the caller
// always gets 204 once the payload validates.
// PUT /api/history
func (hc *HistoryController) SaveProgress(c *gin.Context) {
	var entry entities.HistoryEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		respondBadRequest(c, "invalid history entry: "+err.Error())
		return
	}
	if entry.ItemID == "" {
		respondBadRequest(c, "itemId is required")
		return
	}
	if entry.LastReadPosition < 0 || entry.TotalUnitsInChapter < 0 {
		respondBadRequest(c, "lastReadPosition and totalUnitsInChapter must not be negative")
		return
	}

	if err := hc.store.SaveProgress(c.Request.Context(), entry); err != nil {
		log.Printf("Saving reading progress for %s failed: %v", entry.ItemID, err)
	}
	c.Status(http.StatusNoContent)
}

// Delete removes one item's history entry.
// DELETE /api/history/:itemId
func (hc *HistoryController) Delete(c *gin.Context) {
	if err := hc.store.Delete(c.Request.Context(), c.Param("itemId")); err != nil {
		respondInternalError(c, err, "delete history entry")
		return
	}
	respondSuccess(c, "history entry deleted")
}

// Clear empties the reading history.
// DELETE /api/history
func (hc *HistoryController) Clear(c *gin.Context) {
	if err := hc.store.Clear(c.Request.Context()); err != nil {
		respondInternalError(c, err, "clear history")
		return
	}
	respondSuccess(c, "history cleared")
}

// ReadStatus derives per-chapter read state for one item from its history
// entry.
// GET /api/items/:itemId/read-status
func (hc *HistoryController) ReadStatus(c *gin.Context) {
	itemID := c.Param("itemId")
	entries := hc.store.List(c.Request.Context())

	response := gin.H{
		"itemId":     itemID,
		"readStatus": readstatus.ForItem(entries, itemID),
	}

	for _, entry := range entries {
		if entry.ItemID == itemID {
			response["lastReadUnitId"] = entry.LastReadUnitID
			response["progressPercent"] = readstatus.ProgressPercent(entry)
			break
		}
	}

	c.JSON(http.StatusOK, response)
}
