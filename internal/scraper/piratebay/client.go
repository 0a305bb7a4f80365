// Package piratebay scrapes The Pirate Bay's HTML search results.
package piratebay

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/fetcharr/fetcharr/internal/scraper"
	"github.com/fetcharr/fetcharr/internal/search/types"
)

const sourceName = "piratebay"

// Config holds the scraper configuration.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client scrapes the search result table into Records.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     zerolog.Logger
}

var _ scraper.Scraper = (*Client)(nil)

// New creates a new Pirate Bay scraper.
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

// Search fetches one results page and parses the listing table.
func (c *Client) Search(ctx context.Context, query string) ([]types.Record, error) {
	searchURL := fmt.Sprintf("%s/search/%s/1/99/0", c.baseURL, url.PathEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, http.NoBody)
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

	records, err := c.parseResults(resp)
	if err != nil {
		return nil, &scraper.SourceError{Source: sourceName, Cause: err}
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(records)).
		Msg("Search completed")

	return records, nil
}

// parseResults walks the rows of table#searchResult. Column layout:
// 1 title link, 2 upload date, 4 size, 5 seeders, 6 leechers; the magnet
// anchor sits anywhere in the row.
func (c *Client) parseResults(resp *http.Response) ([]types.Record, error) {
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	records := make([]types.Record, 0)

	doc.Find("table#searchResult tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return // header or spacer row
		}

		title := strings.TrimSpace(cells.Eq(1).Find("a").First().Text())
		if title == "" || strings.Contains(title, "Details for") {
			return
		}

		magnet, ok := row.Find(`a[href^="magnet:"]`).First().Attr("href")
		if !ok || !strings.HasPrefix(magnet, "magnet:") {
			return
		}

		record := types.Record{
			Title:    title,
			Identity: magnet,
			Source:   sourceName,
		}
		if size := cellText(cells, 4); size != "" {
			record.Size = &size
		}
		if seeders, ok := cellInt(cells, 5); ok {
			record.Seeders = &seeders
		}
		if leechers, ok := cellInt(cells, 6); ok {
			record.Leechers = &leechers
		}
		if uploaded := cellText(cells, 2); uploaded != "" {
			record.Uploaded = &uploaded
		}

		records = append(records, record)
	})

	return records, nil
}

func cellText(cells *goquery.Selection, index int) string {
	if index >= cells.Length() {
		return ""
	}
	return strings.TrimSpace(cells.Eq(index).Text())
}

func cellInt(cells *goquery.Selection, index int) (int, bool) {
	n, err := strconv.Atoi(cellText(cells, index))
	if err != nil {
		return 0, false
	}
	return n, true
}
