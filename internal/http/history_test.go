package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangalog/internal/entities"
	"mangalog/internal/history"
	"mangalog/internal/storage"
)

// failingStore errors on every write but reads fine, to prove that
// progress writes never bubble a 5xx back to the reader.
type failingStore struct {
	storage.KeyValue
}

func (f *failingStore) Set(context.Context, string, string) error {
	return assert.AnError
}

func setupHistoryRouter(t *testing.T, kv storage.KeyValue) (*gin.Engine, *history.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := history.NewRepository(kv)
	router := gin.New()
	RegisterRoutes(router, Controllers{History: NewHistoryController(repo)})
	return router, repo
}

func TestHistoryController_SaveProgress(t *testing.T) {
	t.Run("saves and promotes the entry", func(t *testing.T) {
		router, repo := setupHistoryRouter(t, storage.NewMemoryStore())

		body := bytes.NewBufferString(`{
			"itemId": "m1",
			"itemTitle": "Berserk",
			"lastReadUnitId": "c5",
			"lastReadUnitNumber": "5",
			"lastReadPosition": 7,
			"totalUnitsInChapter": 10
		}`)
		w := httptest.NewRecorder()
		request, _ := http.NewRequest("PUT", "/api/history", body)
		request.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, request)

		assert.Equal(t, http.StatusNoContent, w.Code)

		entries := repo.List(req())
		require.Len(t, entries, 1)
		assert.Equal(t, "c5", entries[0].LastReadUnitID)
		assert.Equal(t, 7, entries[0].LastReadPosition)
	})

	t.Run("rejects negative positions", func(t *testing.T) {
		router, _ := setupHistoryRouter(t, storage.NewMemoryStore())

		body := bytes.NewBufferString(`{"itemId": "m1", "lastReadPosition": -1}`)
		w := httptest.NewRecorder()
		request, _ := http.NewRequest("PUT", "/api/history", body)
		request.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, request)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("swallows store failures after validation", func(t *testing.T) {
		router, _ := setupHistoryRouter(t, &failingStore{KeyValue: storage.NewMemoryStore()})

		body := bytes.NewBufferString(`{"itemId": "m1", "lastReadUnitId": "c1", "lastReadPosition": 0, "totalUnitsInChapter": 10}`)
		w := httptest.NewRecorder()
		request, _ := http.NewRequest("PUT", "/api/history", body)
		request.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, request)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestHistoryController_ReadStatus(t *testing.T) {
	router, repo := setupHistoryRouter(t, storage.NewMemoryStore())
	require.NoError(t, repo.SaveProgress(req(), entities.HistoryEntry{
		ItemID:              "m1",
		LastReadUnitID:      "c5",
		LastReadPosition:    7,
		TotalUnitsInChapter: 10,
	}))

	w := httptest.NewRecorder()
	request, _ := http.NewRequest("GET", "/api/items/m1/read-status", nil)
	router.ServeHTTP(w, request)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		ItemID          string          `json:"itemId"`
		ReadStatus      map[string]bool `json:"readStatus"`
		LastReadUnitID  string          `json:"lastReadUnitId"`
		ProgressPercent int             `json:"progressPercent"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "m1", response.ItemID)
	assert.True(t, response.ReadStatus["c5"])
	assert.Equal(t, "c5", response.LastReadUnitID)
	assert.Equal(t, 80, response.ProgressPercent)
}

func TestHistoryController_DeleteAndClear(t *testing.T) {
	router, repo := setupHistoryRouter(t, storage.NewMemoryStore())
	require.NoError(t, repo.SaveProgress(req(), entities.HistoryEntry{ItemID: "m1", LastReadUnitID: "c1"}))
	require.NoError(t, repo.SaveProgress(req(), entities.HistoryEntry{ItemID: "m2", LastReadUnitID: "c1"}))

	w := httptest.NewRecorder()
	request, _ := http.NewRequest("DELETE", "/api/history/m1", nil)
	router.ServeHTTP(w, request)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.List(req()), 1)

	w = httptest.NewRecorder()
	request, _ = http.NewRequest("DELETE", "/api/history", nil)
	router.ServeHTTP(w, request)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, repo.List(req()))
}
