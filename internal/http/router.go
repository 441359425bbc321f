package http

import "github.com/gin-gonic/gin"

// Controllers bundles everything the router serves. Optional controllers
// (catalog, library) may be nil; their routes are simply not registered.
type Controllers struct {
	Watchlist *WatchlistController
	History   *HistoryController
	Downloads *DownloadsController
	Catalog   *CatalogController
	Library   *LibraryController
	Health    *HealthController
}

// NewRouter builds the gin engine with all API routes registered.
func NewRouter(c Controllers) *gin.Engine {
	router := gin.Default()
	RegisterRoutes(router, c)
	return router
}

// RegisterRoutes attaches the API routes to an existing engine.
func RegisterRoutes(router *gin.Engine, c Controllers) {
	api := router.Group("/api")

	if c.Health != nil {
		api.GET("/health", c.Health.Status)
	}

	if c.Watchlist != nil {
		api.GET("/watchlist", c.Watchlist.List)
		api.POST("/watchlist", c.Watchlist.Add)
		api.DELETE("/watchlist", c.Watchlist.Clear)
		api.GET("/watchlist/:itemId", c.Watchlist.Contains)
		api.DELETE("/watchlist/:itemId", c.Watchlist.Remove)
	}

	if c.History != nil {
		api.GET("/history", c.History.List)
		api.PUT("/history", c.History.SaveProgress)
		api.DELETE("/history", c.History.Clear)
		api.DELETE("/history/:itemId", c.History.Delete)
		api.GET("/items/:itemId/read-status", c.History.ReadStatus)
	}

	if c.Downloads != nil {
		api.GET("/downloads", c.Downloads.List)
		api.POST("/downloads", c.Downloads.Enqueue)
		api.DELETE("/downloads", c.Downloads.Clear)
		api.GET("/downloads/:chapterId", c.Downloads.Get)
		api.DELETE("/downloads/:chapterId", c.Downloads.Delete)
	}

	if c.Library != nil {
		api.GET("/library/feed", c.Library.Feed)
		api.GET("/library/releases", c.Library.Releases)
		api.POST("/library/releases/check", c.Library.CheckReleases)
	}

	if c.Catalog != nil {
		manga := api.Group("/catalog/manga")
		manga.GET("/top", c.Catalog.TopManga)
		manga.GET("/search", c.Catalog.SearchManga)
		manga.GET("/:id", c.Catalog.GetManga)
		manga.GET("/:id/chapters", c.Catalog.MangaChapters)
		api.GET("/catalog/chapters/:id/pages", c.Catalog.ChapterPages)

		anime := api.Group("/catalog/anime")
		anime.GET("/top", c.Catalog.TopAnime)
		anime.GET("/search", c.Catalog.SearchAnime)
		anime.GET("/:malId", c.Catalog.GetAnime)
		anime.GET("/:malId/episodes", c.Catalog.AnimeEpisodes)
	}
}
