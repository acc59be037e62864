package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srvURL string) *Client {
	return NewClient(Config{
		BaseURL:           srvURL,
		UserAgent:         "KenRead-test/1.0",
		RequestsPerSecond: 100,
	})
}

func TestClient_TrendingParams(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		_, _ = w.Write([]byte(`{"result":"ok","data":[{"id":"m1","type":"manga"}]}`))
	}))
	defer srv.Close()

	manga, err := newTestClient(srv.URL).Trending(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Len(t, manga, 1)
	assert.Equal(t, "m1", manga[0].ID)

	require.NotNil(t, got)
	assert.Equal(t, "/manga", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "20", q.Get("limit"))
	assert.Equal(t, "desc", q.Get("order[followedCount]"))
	assert.ElementsMatch(t, []string{"cover_art", "author", "artist"}, q["includes[]"])
	assert.ElementsMatch(t, []string{"safe", "suggestive"}, q["contentRating[]"])
	assert.Equal(t, []string{"en"}, q["availableTranslatedLanguage[]"])
	assert.Equal(t, "KenRead-test/1.0", got.Header.Get("User-Agent"))
}

func TestClient_SearchSendsTitle(t *testing.T) {
	var gotTitle string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.URL.Query().Get("title")
		_, _ = w.Write([]byte(`{"result":"ok","data":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Search(context.Background(), "one piece", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "one piece", gotTitle)
}

func TestClient_GetMangaByIDs(t *testing.T) {
	var gotIDs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIDs = r.URL.Query()["ids[]"]
		_, _ = w.Write([]byte(`{"result":"ok","data":[{"id":"m1","type":"manga"},{"id":"m2","type":"manga"}]}`))
	}))
	defer srv.Close()

	manga, err := newTestClient(srv.URL).GetMangaByIDs(context.Background(), []string{"m1", "m2"})
	require.NoError(t, err)
	require.Len(t, manga, 2)
	assert.Equal(t, []string{"m1", "m2"}, gotIDs)
}

func TestClient_GetMangaByIDsEmpty(t *testing.T) {
	manga, err := newTestClient("http://127.0.0.1:1").GetMangaByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, manga)
}

func TestClient_GetChaptersFeed(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(r.Context())
		_, _ = w.Write([]byte(`{"result":"ok","data":[{"id":"c1","type":"chapter","attributes":{"chapter":"12"}}]}`))
	}))
	defer srv.Close()

	chapters, err := newTestClient(srv.URL).GetChapters(context.Background(), "m1", 50, 0)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "12", chapters[0].Attributes.Chapter)

	assert.Equal(t, "/manga/m1/feed", got.URL.Path)
	assert.Equal(t, "desc", got.URL.Query().Get("order[chapter]"))
	assert.Equal(t, []string{"en"}, got.URL.Query()["translatedLanguage[]"])
}

func TestClient_GetChapterPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/at-home/server/c1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"baseUrl":"https://uploads.example","chapter":{"hash":"abc","data":["1.png","2.png"]}}`))
	}))
	defer srv.Close()

	pages, err := newTestClient(srv.URL).GetChapterPages(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "https://uploads.example", pages.BaseURL)
	assert.Equal(t, []string{"1.png", "2.png"}, pages.Chapter.Data)
}

func TestClient_APIErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"result":"error","errors":[{"status":400,"title":"bad_request","detail":"invalid uuid"}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetManga(context.Background(), "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad_request")
	assert.Contains(t, err.Error(), "invalid uuid")
}

func TestClient_RateLimiterHonorsContext(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", RequestsPerSecond: 1})
	// Drain the initial burst so the next call has to wait.
	require.NoError(t, c.limiter.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Trending(ctx, 10, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}
