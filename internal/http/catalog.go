package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mangalog/internal/catalog"
)

// MangaCatalog is the slice of the MangaDex client the API exposes.
type MangaCatalog interface {
	GetManga(ctx context.Context, mangaID string) (*catalog.Manga, error)
	Search(ctx context.Context, query string, limit int) ([]catalog.Manga, error)
	Top(ctx context.Context, limit int) ([]catalog.Manga, error)
	Chapters(ctx context.Context, mangaID string, limit int) ([]catalog.Chapter, error)
	ChapterPages(ctx context.Context, chapterID string) ([]string, error)
}

// AnimeCatalog is the slice of the Jikan client the API exposes.
type AnimeCatalog interface {
	Top(ctx context.Context, limit, page int) ([]catalog.Anime, error)
	Search(ctx context.Context, query string, limit int) ([]catalog.Anime, error)
	Get(ctx context.Context, malID int) (*catalog.Anime, error)
	Episodes(ctx context.Context, malID, page int) ([]catalog.AnimeEpisode, error)
}

// CatalogController proxies the remote catalog APIs for the client UI.
type CatalogController struct {
	manga MangaCatalog
	anime AnimeCatalog
}

func NewCatalogController(manga MangaCatalog, anime AnimeCatalog) *CatalogController {
	return &CatalogController{manga: manga, anime: anime}
}

// GET /api/catalog/manga/top
func (cc *CatalogController) TopManga(c *gin.Context) {
	results, err := cc.manga.Top(c.Request.Context(), queryInt(c, "limit", 10))
	if err != nil {
		respondInternalError(c, err, "top manga")
		return
	}
	c.JSON(http.StatusOK, results)
}

// GET /api/catalog/manga/search?q=...
func (cc *CatalogController) SearchManga(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "query parameter q is required")
		return
	}
	results, err := cc.manga.Search(c.Request.Context(), query, queryInt(c, "limit", 20))
	if err != nil {
		respondInternalError(c, err, "search manga")
		return
	}
	c.JSON(http.StatusOK, results)
}

// GET /api/catalog/manga/:id
func (cc *CatalogController) GetManga(c *gin.Context) {
	manga, err := cc.manga.GetManga(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "get manga")
		return
	}
	c.JSON(http.StatusOK, manga)
}

// GET /api/catalog/manga/:id/chapters
func (cc *CatalogController) MangaChapters(c *gin.Context) {
	chapters, err := cc.manga.Chapters(c.Request.Context(), c.Param("id"), queryInt(c, "limit", 100))
	if err != nil {
		respondInternalError(c, err, "manga chapters")
		return
	}
	c.JSON(http.StatusOK, chapters)
}

// GET /api/catalog/chapters/:id/pages
func (cc *CatalogController) ChapterPages(c *gin.Context) {
	pages, err := cc.manga.ChapterPages(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "chapter pages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"chapterId": c.Param("id"), "pageUrls": pages})
}

// GET /api/catalog/anime/top
func (cc *CatalogController) TopAnime(c *gin.Context) {
	results, err := cc.anime.Top(c.Request.Context(), queryInt(c, "limit", 10), queryInt(c, "page", 1))
	if err != nil {
		respondInternalError(c, err, "top anime")
		return
	}
	c.JSON(http.StatusOK, results)
}

// GET /api/catalog/anime/search?q=...
func (cc *CatalogController) SearchAnime(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondBadRequest(c, "query parameter q is required")
		return
	}
	results, err := cc.anime.Search(c.Request.Context(), query, queryInt(c, "limit", 20))
	if err != nil {
		respondInternalError(c, err, "search anime")
		return
	}
	c.JSON(http.StatusOK, results)
}

// GET /api/catalog/anime/:malId
func (cc *CatalogController) GetAnime(c *gin.Context) {
	malID, err := strconv.Atoi(c.Param("malId"))
	if err != nil {
		respondBadRequest(c, "malId must be an integer")
		return
	}
	anime, err := cc.anime.Get(c.Request.Context(), malID)
	if err != nil {
		respondInternalError(c, err, "get anime")
		return
	}
	c.JSON(http.StatusOK, anime)
}

// GET /api/catalog/anime/:malId/episodes
func (cc *CatalogController) AnimeEpisodes(c *gin.Context) {
	malID, err := strconv.Atoi(c.Param("malId"))
	if err != nil {
		respondBadRequest(c, "malId must be an integer")
		return
	}
	episodes, err := cc.anime.Episodes(c.Request.Context(), malID, queryInt(c, "page", 1))
	if err != nil {
		respondInternalError(c, err, "anime episodes")
		return
	}
	c.JSON(http.StatusOK, episodes)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			return value
		}
	}
	return fallback
}
