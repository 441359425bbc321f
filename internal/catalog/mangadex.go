package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const defaultCoverBaseURL = "https://uploads.mangadex.org/covers"

// Manga is the catalog view of a MangaDex title.
type Manga struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	CoverURL     string   `json:"coverUrl"`
	Author       string   `json:"author,omitempty"`
	Genres       []string `json:"genres,omitempty"`
	Status       string   `json:"status,omitempty"`
	Year         int      `json:"year,omitempty"`
	Score        float64  `json:"score,omitempty"`
	ChapterCount int      `json:"chapterCount,omitempty"`
}

// Chapter is one entry of a manga's chapter feed.
type Chapter struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Title  string `json:"title"`
	Pages  int    `json:"pages,omitempty"`
}

// MangaDex is a client for the MangaDex REST API.
type MangaDex struct {
	client       *Client
	baseURL      string
	coverBaseURL string
}

func NewMangaDex(client *Client, baseURL string) *MangaDex {
	return &MangaDex{
		client:       client,
		baseURL:      strings.TrimRight(baseURL, "/"),
		coverBaseURL: defaultCoverBaseURL,
	}
}

// GetManga fetches a single title including its author, cover and an exact
// chapter count from the aggregate endpoint.
func (m *MangaDex) GetManga(ctx context.Context, mangaID string) (*Manga, error) {
	var resp mdMangaResponse
	endpoint := fmt.Sprintf("%s/manga/%s?includes[]=cover_art&includes[]=author", m.baseURL, url.PathEscape(mangaID))
	if err := m.client.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("get manga %s: %w", mangaID, err)
	}

	manga := m.mapManga(resp.Data)

	count, err := m.ChapterCount(ctx, mangaID)
	if err == nil {
		manga.ChapterCount = count
	}
	return &manga, nil
}

// Search finds titles matching the query.
func (m *MangaDex) Search(ctx context.Context, query string, limit int) ([]Manga, error) {
	if limit <= 0 {
		limit = 20
	}
	var resp mdMangaListResponse
	endpoint := fmt.Sprintf("%s/manga?title=%s&limit=%d&includes[]=cover_art&includes[]=author",
		m.baseURL, url.QueryEscape(query), limit)
	if err := m.client.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("search manga %q: %w", query, err)
	}
	return m.mapMangaList(resp.Data), nil
}

// Top lists the highest-rated titles.
func (m *MangaDex) Top(ctx context.Context, limit int) ([]Manga, error) {
	if limit <= 0 {
		limit = 10
	}
	var resp mdMangaListResponse
	endpoint := fmt.Sprintf("%s/manga?limit=%d&order[rating]=desc&includes[]=cover_art", m.baseURL, limit)
	if err := m.client.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("top manga: %w", err)
	}
	return m.mapMangaList(resp.Data), nil
}

// Chapters fetches the English chapter feed in ascending chapter order.
func (m *MangaDex) Chapters(ctx context.Context, mangaID string, limit int) ([]Chapter, error) {
	if limit <= 0 {
		limit = 100
	}
	var resp mdChapterFeedResponse
	endpoint := fmt.Sprintf("%s/manga/%s/feed?limit=%d&translatedLanguage[]=en&order[chapter]=asc&includes[]=scanlation_group",
		m.baseURL, url.PathEscape(mangaID), limit)
	if err := m.client.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("chapters for %s: %w", mangaID, err)
	}

	chapters := make([]Chapter, 0, len(resp.Data))
	for i, ch := range resp.Data {
		number := ch.Attributes.Chapter
		if number == "" {
			number = fmt.Sprintf("%d", i+1)
		}
		chapters = append(chapters, Chapter{
			ID:     ch.ID,
			Number: number,
			Title:  chapterDisplayTitle(number, ch.Attributes.Title),
			Pages:  ch.Attributes.Pages,
		})
	}
	return chapters, nil
}

// ChapterCount sums the chapters listed by the aggregate endpoint.
func (m *MangaDex) ChapterCount(ctx context.Context, mangaID string) (int, error) {
	var resp mdAggregateResponse
	endpoint := fmt.Sprintf("%s/manga/%s/aggregate?translatedLanguage[]=en", m.baseURL, url.PathEscape(mangaID))
	if err := m.client.getJSON(ctx, endpoint, &resp); err != nil {
		return 0, fmt.Errorf("aggregate for %s: %w", mangaID, err)
	}

	total := 0
	for _, volume := range resp.Volumes {
		total += len(volume.Chapters)
	}
	return total, nil
}

// ChapterPages resolves the full ordered page URL list for a chapter via
// the at-home server endpoint.
func (m *MangaDex) ChapterPages(ctx context.Context, chapterID string) ([]string, error) {
	var resp mdAtHomeResponse
	endpoint := fmt.Sprintf("%s/at-home/server/%s", m.baseURL, url.PathEscape(chapterID))
	if err := m.client.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("pages for chapter %s: %w", chapterID, err)
	}

	pages := make([]string, 0, len(resp.Chapter.Data))
	for _, page := range resp.Chapter.Data {
		pages = append(pages, fmt.Sprintf("%s/data/%s/%s", resp.BaseURL, resp.Chapter.Hash, page))
	}
	return pages, nil
}

// --- response mapping ---

func (m *MangaDex) mapMangaList(data []mdManga) []Manga {
	result := make([]Manga, 0, len(data))
	for _, item := range data {
		result = append(result, m.mapManga(item))
	}
	return result
}

func (m *MangaDex) mapManga(data mdManga) Manga {
	attrs := data.Attributes

	manga := Manga{
		ID:          data.ID,
		Title:       pickLocalized(attrs.Title),
		Description: pickLocalized(attrs.Description),
		Status:      attrs.Status,
		Year:        attrs.Year,
	}

	if attrs.AverageRating > 0 {
		// MangaDex rates on a 100-point scale; the tracker uses 5.
		manga.Score = attrs.AverageRating / 20
	}

	for _, tag := range attrs.Tags {
		if tag.Attributes.Group == "genre" {
			manga.Genres = append(manga.Genres, pickLocalized(tag.Attributes.Name))
		}
	}

	for _, rel := range data.Relationships {
		switch rel.Type {
		case "cover_art":
			if rel.Attributes.FileName != "" {
				manga.CoverURL = fmt.Sprintf("%s/%s/%s", m.coverBaseURL, data.ID, rel.Attributes.FileName)
			}
		case "author":
			if manga.Author == "" {
				manga.Author = rel.Attributes.Name
			}
		}
	}

	return manga
}

// pickLocalized prefers the English value, then Japanese, then whatever is
// present.
func pickLocalized(values map[string]string) string {
	if v := values["en"]; v != "" {
		return v
	}
	if v := values["ja"]; v != "" {
		return v
	}
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var chapterPrefixRe = regexp.MustCompile(`(?i)^chapter\s+[\d.]+\s*(?:[:\-]\s*)?`)

// chapterDisplayTitle builds "Chapter N" or "Chapter N - Title", stripping
// any "Chapter X" prefix the feed already embeds in the raw title.
func chapterDisplayTitle(number, rawTitle string) string {
	clean := strings.TrimSpace(chapterPrefixRe.ReplaceAllString(rawTitle, ""))
	if clean == "" {
		return fmt.Sprintf("Chapter %s", number)
	}
	return fmt.Sprintf("Chapter %s - %s", number, clean)
}

// --- wire types ---

type mdMangaResponse struct {
	Data mdManga `json:"data"`
}

type mdMangaListResponse struct {
	Data []mdManga `json:"data"`
}

type mdManga struct {
	ID            string           `json:"id"`
	Attributes    mdMangaAttrs     `json:"attributes"`
	Relationships []mdRelationship `json:"relationships"`
}

type mdMangaAttrs struct {
	Title         map[string]string `json:"title"`
	Description   map[string]string `json:"description"`
	Status        string            `json:"status"`
	Year          int               `json:"year"`
	AverageRating float64           `json:"averageRating"`
	Tags          []mdTag           `json:"tags"`
}

type mdRelationship struct {
	Type       string `json:"type"`
	Attributes struct {
		FileName string `json:"fileName"`
		Name     string `json:"name"`
	} `json:"attributes"`
}

type mdTag struct {
	Attributes struct {
		Group string            `json:"group"`
		Name  map[string]string `json:"name"`
	} `json:"attributes"`
}

type mdChapterFeedResponse struct {
	Data []mdChapter `json:"data"`
}

type mdChapter struct {
	ID         string `json:"id"`
	Attributes struct {
		Chapter            string `json:"chapter"`
		Title              string `json:"title"`
		Pages              int    `json:"pages"`
		TranslatedLanguage string `json:"translatedLanguage"`
	} `json:"attributes"`
}

type mdAggregateResponse struct {
	Volumes map[string]struct {
		Chapters map[string]json.RawMessage `json:"chapters"`
	} `json:"volumes"`
}

type mdAtHomeResponse struct {
	BaseURL string `json:"baseUrl"`
	Chapter struct {
		Hash string   `json:"hash"`
		Data []string `json:"data"`
	} `json:"chapter"`
}
