package yts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetcharr/fetcharr/internal/scraper"
)

const listMoviesJSON = `{
	"status": "ok",
	"status_message": "Query was successful",
	"data": {
		"movie_count": 1,
		"movies": [
			{
				"title": "Dune",
				"year": 2021,
				"date_uploaded": "2021-12-01 10:00:00",
				"torrents": [
					{
						"hash": "ABC123",
						"quality": "1080p",
						"type": "bluray",
						"seeds": 310,
						"peers": 40,
						"size": "2.4 GB",
						"date_uploaded": "2021-12-02 09:00:00"
					},
					{
						"hash": "DEF456",
						"quality": "2160p",
						"seeds": 95,
						"peers": 11,
						"size": "11.2 GB"
					}
				]
			}
		]
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, UserAgent: "test-agent"}, zerolog.Nop())
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/list_movies.json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "dune", q.Get("query_term"))
		assert.Equal(t, "50", q.Get("limit"))
		assert.Equal(t, "date_added", q.Get("sort_by"))
		assert.Equal(t, "desc", q.Get("order_by"))
		w.Write([]byte(listMoviesJSON))
	})

	records, err := client.Search(context.Background(), "dune")
	require.NoError(t, err)
	require.Len(t, records, 2) // one record per torrent of the movie

	first := records[0]
	assert.Equal(t, "Dune (2021) [1080p]", first.Title)
	assert.True(t, strings.HasPrefix(first.Identity, "magnet:?xt=urn:btih:ABC123"), "identity %q", first.Identity)
	assert.Contains(t, first.Identity, "&tr=udp://tracker.opentrackr.org:1337/announce")
	assert.Equal(t, "yts", first.Source)
	require.NotNil(t, first.Seeders)
	assert.Equal(t, 310, *first.Seeders)
	require.NotNil(t, first.Size)
	assert.Equal(t, "2.4 GB", *first.Size)
	require.NotNil(t, first.Uploaded)
	assert.Equal(t, "2021-12-02 09:00:00", *first.Uploaded) // torrent date wins

	second := records[1]
	assert.Equal(t, "Dune (2021) [2160p]", second.Title)
	require.NotNil(t, second.Uploaded)
	assert.Equal(t, "2021-12-01 10:00:00", *second.Uploaded) // falls back to movie date
}

func TestSearchNoMovies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok", "data": {"movie_count": 0}}`))
	})

	records, err := client.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearchAPIErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "error", "status_message": "bad query"}`))
	})

	_, err := client.Search(context.Background(), "query")
	require.Error(t, err)
	source, ok := scraper.IsSourceError(err)
	require.True(t, ok)
	assert.Equal(t, "yts", source)
}

func TestSearchHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := client.Search(context.Background(), "query")
	require.Error(t, err)
	_, ok := scraper.IsSourceError(err)
	assert.True(t, ok)
}
