package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dlmock "github.com/fetcharr/fetcharr/internal/downloader/mock"
	"github.com/fetcharr/fetcharr/internal/evaluation"
	"github.com/fetcharr/fetcharr/internal/grab"
	"github.com/fetcharr/fetcharr/internal/history"
	"github.com/fetcharr/fetcharr/internal/intent"
	"github.com/fetcharr/fetcharr/internal/scraper"
	scrapermock "github.com/fetcharr/fetcharr/internal/scraper/mock"
	"github.com/fetcharr/fetcharr/internal/search"
	"github.com/fetcharr/fetcharr/internal/testutil"
	"github.com/fetcharr/fetcharr/internal/watch"

	"github.com/fetcharr/fetcharr/internal/decisioning"
)

// scriptedGenerator replays canned model responses in call order.
type scriptedGenerator struct {
	responses []string
	calls     int
}

func (g *scriptedGenerator) Generate(_ context.Context, _ string) (string, error) {
	if g.calls >= len(g.responses) {
		return g.responses[len(g.responses)-1], nil
	}
	response := g.responses[g.calls]
	g.calls++
	return response, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	tdb := testutil.NewTestDB(t)
	t.Cleanup(tdb.Close)
	logger := testutil.NopLogger()

	generator := &scriptedGenerator{responses: []string{
		`{"content_type": "movie", "title": "Dune", "year": 2021}`,
		`{"primary_queries": ["dune 2021"], "fallback_queries": []}`,
		`[{"relevance_score": 0.95, "confidence": 0.92, "quality_score": 0.9, "completeness_score": 1.0, "match_reasons": ["title match"], "warnings": []}]`,
	}}

	scrapers := []scraper.Scraper{
		scrapermock.New("alpha", scrapermock.MakeRecords("aaa", 1)...),
	}
	aggregator := search.NewAggregator(scrapers, false, logger)
	searchService := search.NewService(
		intent.NewExtractor(generator, logger),
		intent.NewStrategist(generator, logger),
		aggregator,
		evaluation.New(generator, logger),
		decisioning.Rank,
		decisioning.Decide,
		search.Config{MaxResults: 20, MinConfidence: 0.7, AutoThreshold: 0.9},
		logger,
	)

	historyService := history.NewService(tdb.Conn, logger)
	grabService := grab.NewService(dlmock.New(), historyService, "", logger)
	watchStore := watch.NewStore(tdb.Conn)
	watchService := watch.NewService(watchStore, searchService, grabService, logger)

	return NewServer(Services{
		Search:  searchService,
		Grab:    grabService,
		History: historyService,
		Watch:   watchService,
	}, logger)
}

func TestHealthCheck(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
}

func TestStatus(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Version string   `json:"version"`
		Sources []string `json:"sources"`
		Client  string   `json:"client"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode status body: %v", err)
	}
	if len(body.Sources) != 1 || body.Sources[0] != "alpha" {
		t.Errorf("Expected sources [alpha], got %v", body.Sources)
	}
	if body.Client != "mock" {
		t.Errorf("Expected mock client, got %s", body.Client)
	}
}

func TestSearchEndpoint(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search",
		strings.NewReader(`{"request": "that dune movie from 2021"}`))
	req.Header.Set(echoHeaderContentType, "application/json")
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body search.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode search response: %v", err)
	}
	if body.RequestID == "" {
		t.Error("Expected a request id")
	}
	if len(body.Results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(body.Results))
	}
	if body.Results[0].RelevanceScore != 0.95 {
		t.Errorf("Expected relevance 0.95, got %f", body.Results[0].RelevanceScore)
	}
}

func TestSearchEndpoint_MissingRequest(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{}`))
	req.Header.Set(echoHeaderContentType, "application/json")
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestWatchLifecycle(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/watches",
		strings.NewReader(`{"request": "dune movie"}`))
	req.Header.Set(echoHeaderContentType, "application/json")
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/watches", nil)
	rec = httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body struct {
		Watches []watch.Watch `json:"watches"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode watches: %v", err)
	}
	if len(body.Watches) != 1 || body.Watches[0].Request != "dune movie" {
		t.Errorf("Unexpected watches: %+v", body.Watches)
	}
}

const echoHeaderContentType = "Content-Type"
