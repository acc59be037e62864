// Package catalog implements the MangaDex API client. The sync layer treats
// its results as opaque payloads; the reader views use it to browse, search,
// and hydrate bookmarked items from bare catalog IDs.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/kenread/kenread/models"
)

// Config holds upstream API settings.
type Config struct {
	BaseURL           string
	UserAgent         string
	RequestsPerSecond int
	Timeout           time.Duration
}

// Client is a rate-limited MangaDex API client. MangaDex asks integrations
// to stay under 5 req/s and to send an identifying User-Agent.
type Client struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// envelope is the standard MangaDex response wrapper.
type envelope struct {
	Result string          `json:"result"`
	Data   json.RawMessage `json:"data"`
	Errors []apiError      `json:"errors"`
}

type apiError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// AtHome is the page-server response for a chapter.
type AtHome struct {
	BaseURL string `json:"baseUrl"`
	Chapter struct {
		Hash      string   `json:"hash"`
		Data      []string `json:"data"`
		DataSaver []string `json:"dataSaver"`
	} `json:"chapter"`
}

// NewClient builds a catalog client from cfg, filling unset fields with the
// MangaDex defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.mangadex.org"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "KenRead/1.0"
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	return &Client{
		client:  cli,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestsPerSecond),
	}
}

// Trending returns manga ordered by follower count.
func (c *Client) Trending(ctx context.Context, limit, offset int) ([]models.Manga, error) {
	params := listParams(limit, offset)
	params.Set("order[followedCount]", "desc")

	var out []models.Manga
	if err := c.doJSON(ctx, "/manga", params, &out); err != nil {
		return nil, fmt.Errorf("fetch trending manga: %w", err)
	}
	return out, nil
}

// Latest returns manga ordered by most recent update.
func (c *Client) Latest(ctx context.Context, limit, offset int) ([]models.Manga, error) {
	params := listParams(limit, offset)
	params.Set("order[updatedAt]", "desc")

	var out []models.Manga
	if err := c.doJSON(ctx, "/manga", params, &out); err != nil {
		return nil, fmt.Errorf("fetch latest manga: %w", err)
	}
	return out, nil
}

// Search returns manga matching the title query.
func (c *Client) Search(ctx context.Context, title string, limit, offset int) ([]models.Manga, error) {
	params := listParams(limit, offset)
	params.Set("title", title)

	var out []models.Manga
	if err := c.doJSON(ctx, "/manga", params, &out); err != nil {
		return nil, fmt.Errorf("search manga: %w", err)
	}
	return out, nil
}

// GetManga returns a single catalog item with cover includes.
func (c *Client) GetManga(ctx context.Context, mangaID string) (models.Manga, error) {
	params := url.Values{}
	addIncludes(params)

	var out models.Manga
	if err := c.doJSON(ctx, "/manga/"+url.PathEscape(mangaID), params, &out); err != nil {
		return models.Manga{}, fmt.Errorf("fetch manga %s: %w", mangaID, err)
	}
	return out, nil
}

// GetMangaByIDs hydrates full payloads for a list of bare catalog IDs, as
// needed after a bookmark load (which fetches IDs only).
func (c *Client) GetMangaByIDs(ctx context.Context, mangaIDs []string) ([]models.Manga, error) {
	if len(mangaIDs) == 0 {
		return nil, nil
	}

	params := listParams(len(mangaIDs), 0)
	for _, id := range mangaIDs {
		params.Add("ids[]", id)
	}

	var out []models.Manga
	if err := c.doJSON(ctx, "/manga", params, &out); err != nil {
		return nil, fmt.Errorf("hydrate manga ids: %w", err)
	}
	return out, nil
}

// GetChapters returns the English chapter feed for a manga, newest chapter
// number first.
func (c *Client) GetChapters(ctx context.Context, mangaID string, limit, offset int) ([]models.Chapter, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	params.Add("translatedLanguage[]", "en")
	params.Set("order[chapter]", "desc")

	var out []models.Chapter
	if err := c.doJSON(ctx, "/manga/"+url.PathEscape(mangaID)+"/feed", params, &out); err != nil {
		return nil, fmt.Errorf("fetch chapters for %s: %w", mangaID, err)
	}
	return out, nil
}

// GetChapterPages returns the page-server descriptor for a chapter.
func (c *Client) GetChapterPages(ctx context.Context, chapterID string) (AtHome, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return AtHome{}, fmt.Errorf("rate limit: %w", err)
	}

	var out AtHome
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/at-home/server/" + url.PathEscape(chapterID))
	if err != nil {
		return AtHome{}, fmt.Errorf("fetch chapter pages: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return AtHome{}, fmt.Errorf("fetch chapter pages: http %d", resp.StatusCode())
	}
	return out, nil
}

// doJSON executes a GET, unwraps the MangaDex envelope, and decodes Data
// into out.
func (c *Client) doJSON(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		Get(path)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}

	var env envelope
	if decodeErr := json.Unmarshal(resp.Body(), &env); decodeErr != nil {
		if resp.StatusCode() != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode())
		}
		return fmt.Errorf("decode envelope: %w", decodeErr)
	}

	if resp.StatusCode() != http.StatusOK || env.Result == "error" {
		if len(env.Errors) > 0 {
			first := env.Errors[0]
			return fmt.Errorf("api error (%d): %s: %s", first.Status, first.Title, first.Detail)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err = json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func listParams(limit, offset int) url.Values {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	addIncludes(params)
	params.Add("contentRating[]", "safe")
	params.Add("contentRating[]", "suggestive")
	params.Add("availableTranslatedLanguage[]", "en")
	return params
}

func addIncludes(params url.Values) {
	params.Add("includes[]", "cover_art")
	params.Add("includes[]", "author")
	params.Add("includes[]", "artist")
}
