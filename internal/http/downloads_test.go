package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangalog/internal/downloads"
	"mangalog/internal/entities"
	"mangalog/internal/storage"
	"mangalog/internal/tasks"
)

type fakeQueue struct {
	enqueued []tasks.DownloadChapterTask
	err      error
}

func (q *fakeQueue) Enqueue(_ context.Context, task tasks.DownloadChapterTask) error {
	if q.err != nil {
		return q.err
	}
	q.enqueued = append(q.enqueued, task)
	return nil
}

func setupDownloadsRouter(t *testing.T, queue DownloadQueue) (*gin.Engine, *downloads.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := downloads.NewRepository(storage.NewMemoryStore())
	router := gin.New()
	RegisterRoutes(router, Controllers{Downloads: NewDownloadsController(repo, queue)})
	return router, repo
}

func TestDownloadsController_Enqueue(t *testing.T) {
	t.Run("queues a new chapter", func(t *testing.T) {
		queue := &fakeQueue{}
		router, _ := setupDownloadsRouter(t, queue)

		body := bytes.NewBufferString(`{"item_id": "m1", "item_title": "Berserk", "chapter_id": "c1", "chapter_number": "1"}`)
		w := httptest.NewRecorder()
		request, _ := http.NewRequest("POST", "/api/downloads", body)
		request.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, request)

		assert.Equal(t, http.StatusAccepted, w.Code)
		require.Len(t, queue.enqueued, 1)
		assert.Equal(t, "c1", queue.enqueued[0].ChapterID)
	})

	t.Run("rejects an already downloaded chapter", func(t *testing.T) {
		queue := &fakeQueue{}
		router, repo := setupDownloadsRouter(t, queue)
		require.NoError(t, repo.Save(req(), entities.DownloadedChapterEntry{
			ItemID:    "m1",
			ChapterID: "c1",
			PageURLs:  []string{"https://p/1.png"},
		}))

		body := bytes.NewBufferString(`{"item_id": "m1", "chapter_id": "c1"}`)
		w := httptest.NewRecorder()
		request, _ := http.NewRequest("POST", "/api/downloads", body)
		request.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, request)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Empty(t, queue.enqueued)
	})

	t.Run("rejects missing chapter id", func(t *testing.T) {
		router, _ := setupDownloadsRouter(t, &fakeQueue{})

		body := bytes.NewBufferString(`{"item_id": "m1"}`)
		w := httptest.NewRecorder()
		request, _ := http.NewRequest("POST", "/api/downloads", body)
		request.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, request)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reports downloads disabled when no queue is wired", func(t *testing.T) {
		router, _ := setupDownloadsRouter(t, nil)

		body := bytes.NewBufferString(`{"item_id": "m1", "chapter_id": "c1"}`)
		w := httptest.NewRecorder()
		request, _ := http.NewRequest("POST", "/api/downloads", body)
		request.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, request)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestDownloadsController_Get(t *testing.T) {
	router, repo := setupDownloadsRouter(t, &fakeQueue{})
	require.NoError(t, repo.Save(req(), entities.DownloadedChapterEntry{
		ItemID:    "m1",
		ChapterID: "c1",
		PageURLs:  []string{"https://p/1.png", "https://p/2.png"},
	}))

	w := httptest.NewRecorder()
	request, _ := http.NewRequest("GET", "/api/downloads/c1", nil)
	router.ServeHTTP(w, request)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://p/2.png")

	w = httptest.NewRecorder()
	request, _ = http.NewRequest("GET", "/api/downloads/missing", nil)
	router.ServeHTTP(w, request)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadsController_DeleteAndClear(t *testing.T) {
	router, repo := setupDownloadsRouter(t, &fakeQueue{})
	require.NoError(t, repo.Save(req(), entities.DownloadedChapterEntry{ItemID: "m1", ChapterID: "c1", PageURLs: []string{"u"}}))
	require.NoError(t, repo.Save(req(), entities.DownloadedChapterEntry{ItemID: "m1", ChapterID: "c2", PageURLs: []string{"u"}}))

	w := httptest.NewRecorder()
	request, _ := http.NewRequest("DELETE", "/api/downloads/c1", nil)
	router.ServeHTTP(w, request)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.List(req()), 1)

	w = httptest.NewRecorder()
	request, _ = http.NewRequest("DELETE", "/api/downloads", nil)
	router.ServeHTTP(w, request)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, repo.List(req()))
}
