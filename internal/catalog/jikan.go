package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Anime is the catalog view of a Jikan (MyAnimeList) title.
type Anime struct {
	ID          string   `json:"id"`
	MalID       int      `json:"malId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Genres      []string `json:"genres,omitempty"`
	Status      string   `json:"status,omitempty"`
	Episodes    int      `json:"episodes,omitempty"`
	Year        int      `json:"year,omitempty"`
	Score       float64  `json:"score,omitempty"`
}

// AnimeEpisode is one entry of an anime's episode list.
type AnimeEpisode struct {
	MalID int    `json:"malId"`
	Title string `json:"title"`
	Aired string `json:"aired,omitempty"`
}

// Jikan is a client for the Jikan v4 REST API.
type Jikan struct {
	client  *Client
	baseURL string
}

func NewJikan(client *Client, baseURL string) *Jikan {
	return &Jikan{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Top lists the top-rated anime.
func (j *Jikan) Top(ctx context.Context, limit, page int) ([]Anime, error) {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	var resp jikanListResponse
	endpoint := fmt.Sprintf("%s/top/anime?limit=%d&page=%d", j.baseURL, limit, page)
	if err := j.client.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("top anime: %w", err)
	}
	return mapAnimeList(resp.Data), nil
}

// Search finds anime matching the query.
func (j *Jikan) Search(ctx context.Context, query string, limit int) ([]Anime, error) {
	if limit <= 0 {
		limit = 20
	}
	var resp jikanListResponse
	endpoint := fmt.Sprintf("%s/anime?q=%s&limit=%d", j.baseURL, url.QueryEscape(query), limit)
	if err := j.client.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("search anime %q: %w", query, err)
	}
	return mapAnimeList(resp.Data), nil
}

// Get fetches a single anime by its MyAnimeList id.
func (j *Jikan) Get(ctx context.Context, malID int) (*Anime, error) {
	var resp jikanSingleResponse
	endpoint := fmt.Sprintf("%s/anime/%d", j.baseURL, malID)
	if err := j.client.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("get anime %d: %w", malID, err)
	}
	anime := mapAnime(resp.Data)
	return &anime, nil
}

// Episodes lists one page of an anime's episodes.
func (j *Jikan) Episodes(ctx context.Context, malID, page int) ([]AnimeEpisode, error) {
	if page <= 0 {
		page = 1
	}
	var resp jikanEpisodesResponse
	endpoint := fmt.Sprintf("%s/anime/%d/episodes?page=%d", j.baseURL, malID, page)
	if err := j.client.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("episodes for anime %d: %w", malID, err)
	}

	episodes := make([]AnimeEpisode, 0, len(resp.Data))
	for _, ep := range resp.Data {
		episodes = append(episodes, AnimeEpisode{
			MalID: ep.MalID,
			Title: ep.Title,
			Aired: ep.Aired,
		})
	}
	return episodes, nil
}

func mapAnimeList(data []jikanAnime) []Anime {
	result := make([]Anime, 0, len(data))
	for _, item := range data {
		result = append(result, mapAnime(item))
	}
	return result
}

func mapAnime(data jikanAnime) Anime {
	anime := Anime{
		ID:          fmt.Sprintf("jikan-%d", data.MalID),
		MalID:       data.MalID,
		Title:       data.Title,
		Description: data.Synopsis,
		ImageURL:    data.Images.JPG.LargeImageURL,
		Status:      mapAnimeStatus(data.Status),
		Episodes:    data.Episodes,
		Year:        data.Year,
		Score:       data.Score,
	}
	for _, genre := range data.Genres {
		anime.Genres = append(anime.Genres, genre.Name)
	}
	return anime
}

func mapAnimeStatus(status string) string {
	switch status {
	case "Finished Airing":
		return "completed"
	case "Currently Airing":
		return "ongoing"
	case "Not yet aired":
		return "upcoming"
	default:
		return strings.ToLower(status)
	}
}

// --- wire types ---

type jikanListResponse struct {
	Data []jikanAnime `json:"data"`
}

type jikanSingleResponse struct {
	Data jikanAnime `json:"data"`
}

type jikanAnime struct {
	MalID    int    `json:"mal_id"`
	Title    string `json:"title"`
	Synopsis string `json:"synopsis"`
	Images   struct {
		JPG struct {
			LargeImageURL string `json:"large_image_url"`
		} `json:"jpg"`
	} `json:"images"`
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Status   string  `json:"status"`
	Episodes int     `json:"episodes"`
	Year     int     `json:"year"`
	Score    float64 `json:"score"`
}

type jikanEpisodesResponse struct {
	Data []struct {
		MalID int    `json:"mal_id"`
		Title string `json:"title"`
		Aired string `json:"aired"`
	} `json:"data"`
}
