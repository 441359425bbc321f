package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mangalog/internal/entities"
)

// WatchlistStore defines the store operations for watchlist management.
type WatchlistStore interface {
	List(ctx context.Context) []entities.WatchlistEntry
	Add(ctx context.Context, entry entities.WatchlistEntry) error
	Remove(ctx context.Context, itemID string) error
	Contains(ctx context.Context, itemID string) bool
	Clear(ctx context.Context) error
}

type WatchlistController struct {
	store WatchlistStore
}

func NewWatchlistController(store WatchlistStore) *WatchlistController {
	return &WatchlistController{store: store}
}

// List returns the watchlist, most recently added first.
// GET /api/watchlist
func (wc *WatchlistController) List(c *gin.Context) {
	c.JSON(http.StatusOK, wc.store.List(c.Request.Context()))
}

// Add saves an item for later. Adding an item that is already saved is a
// no-op and still answers 201.
// POST /api/watchlist
func (wc *WatchlistController) Add(c *gin.Context) {
	var entry entities.WatchlistEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		respondBadRequest(c, "invalid watchlist entry: "+err.Error())
		return
	}
	if entry.ItemID == "" || entry.ItemTitle == "" {
		respondBadRequest(c, "itemId and itemTitle are required")
		return
	}

	if err := wc.store.Add(c.Request.Context(), entry); err != nil {
		respondInternalError(c, err, "add to watchlist")
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Message: "added to watchlist"})
}

// Remove deletes an item from the watchlist.
// DELETE /api/watchlist/:itemId
func (wc *WatchlistController) Remove(c *gin.Context) {
	if err := wc.store.Remove(c.Request.Context(), c.Param("itemId")); err != nil {
		respondInternalError(c, err, "remove from watchlist")
		return
	}
	respondSuccess(c, "removed from watchlist")
}

// Contains reports whether an item is saved.
// GET /api/watchlist/:itemId
func (wc *WatchlistController) Contains(c *gin.Context) {
	itemID := c.Param("itemId")
	c.JSON(http.StatusOK, gin.H{
		"itemId": itemID,
		"saved":  wc.store.Contains(c.Request.Context(), itemID),
	})
}

// Clear empties the watchlist.
// DELETE /api/watchlist
func (wc *WatchlistController) Clear(c *gin.Context) {
	if err := wc.store.Clear(c.Request.Context()); err != nil {
		respondInternalError(c, err, "clear watchlist")
		return
	}
	respondSuccess(c, "watchlist cleared")
}
