// Package yts adapts the YTS movie listing API to the common record shape.
package yts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fetcharr/fetcharr/internal/scraper"
	"github.com/fetcharr/fetcharr/internal/search/types"
)

const sourceName = "yts"

// trackers is the announce list embedded in synthesized magnet links.
var trackers = []string{
	"udp://open.demonii.com:1337",
	"udp://tracker.openbittorrent.com:80",
	"udp://tracker.coppersurfer.tk:6969",
	"udp://glotorrents.pw:6969/announce",
	"udp://tracker.opentrackr.org:1337/announce",
	"udp://torrent.gresille.org:80/announce",
	"udp://p4p.arenabg.com:1337",
	"udp://tracker.leechers-paradise.org:6969",
}

// Config holds the adapter configuration.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client queries the YTS REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     zerolog.Logger
}

var _ scraper.Scraper = (*Client)(nil)

// New creates a new YTS adapter.
func New(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		logger:    logger.With().Str("component", sourceName).Logger(),
	}
}

// Name returns the source identifier.
func (c *Client) Name() string {
	return sourceName
}

type listResponse struct {
	Status string `json:"status"`
	Data   struct {
		Movies []movie `json:"movies"`
	} `json:"data"`
}

type movie struct {
	Title        string    `json:"title"`
	Year         int       `json:"year"`
	Torrents     []torrent `json:"torrents"`
	DateUploaded string    `json:"date_uploaded"`
}

type torrent struct {
	Hash         string `json:"hash"`
	Quality      string `json:"quality"`
	Seeds        *int   `json:"seeds"`
	Peers        *int   `json:"peers"`
	Size         string `json:"size"`
	DateUploaded string `json:"date_uploaded"`
}

// Search queries the movie list endpoint. Each torrent of each movie becomes
// one Record; the magnet link is synthesized from the torrent hash.
func (c *Client) Search(ctx context.Context, query string) ([]types.Record, error) {
	params := url.Values{}
	params.Set("query_term", query)
	params.Set("limit", "50")
	params.Set("sort_by", "date_added")
	params.Set("order_by", "desc")

	reqURL := fmt.Sprintf("%s/list_movies.json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, &scraper.SourceError{Source: sourceName, Cause: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &scraper.SourceError{Source: sourceName, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &scraper.SourceError{Source: sourceName, Cause: fmt.Errorf("HTTP status %d", resp.StatusCode)}
	}

	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, &scraper.SourceError{Source: sourceName, Cause: fmt.Errorf("failed to decode response: %w", err)}
	}

	if list.Status != "ok" {
		return nil, &scraper.SourceError{Source: sourceName, Cause: fmt.Errorf("API returned status %q", list.Status)}
	}

	records := make([]types.Record, 0)
	for _, m := range list.Data.Movies {
		for _, t := range m.Torrents {
			title := fmt.Sprintf("%s (%d) [%s]", m.Title, m.Year, t.Quality)

			record := types.Record{
				Title:    title,
				Identity: magnetLink(t.Hash, title),
				Seeders:  t.Seeds,
				Leechers: t.Peers,
				Source:   sourceName,
			}
			if t.Size != "" {
				size := t.Size
				record.Size = &size
			}
			switch {
			case t.DateUploaded != "":
				uploaded := t.DateUploaded
				record.Uploaded = &uploaded
			case m.DateUploaded != "":
				uploaded := m.DateUploaded
				record.Uploaded = &uploaded
			}

			records = append(records, record)
		}
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(records)).
		Msg("Search completed")

	return records, nil
}

// magnetLink builds a magnet URI from an info hash and display name.
func magnetLink(hash, displayName string) string {
	var b strings.Builder
	b.WriteString("magnet:?xt=urn:btih:")
	b.WriteString(hash)
	b.WriteString("&dn=")
	b.WriteString(url.QueryEscape(displayName))
	for _, tracker := range trackers {
		b.WriteString("&tr=")
		b.WriteString(tracker)
	}
	return b.String()
}
