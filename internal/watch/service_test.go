package watch

import (
	"context"
	"errors"
	"testing"

	"github.com/fetcharr/fetcharr/internal/grab"
	"github.com/fetcharr/fetcharr/internal/search"
	"github.com/fetcharr/fetcharr/internal/search/types"
	"github.com/fetcharr/fetcharr/internal/testutil"
)

type stubSearcher struct {
	responses map[string]*search.Response
	err       error
}

func (s *stubSearcher) Search(_ context.Context, request string) (*search.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	if resp, ok := s.responses[request]; ok {
		return resp, nil
	}
	return &search.Response{
		Request:   request,
		NoResults: true,
		Results:   []types.EvaluatedRecord{},
		Action:    types.Action{Kind: types.ActionNone},
	}, nil
}

type stubGrabber struct {
	results []grab.Input
	err     error
}

func (g *stubGrabber) Grab(_ context.Context, input grab.Input) (*grab.Result, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.results = append(g.results, input)
	return &grab.Result{ClientID: "client-1"}, nil
}

func downloadResponse(identity string) *search.Response {
	return &search.Response{
		RequestID: "req-1",
		Results: []types.EvaluatedRecord{
			{
				Record:         types.Record{Title: "Dune (2021) [1080p]", Identity: identity, Source: "yts"},
				RelevanceScore: 0.95,
				Confidence:     0.9,
			},
		},
		Action: types.Action{Kind: types.ActionDownload, Identity: identity},
	}
}

func TestCheckAll_FulfillsWatchOnDownload(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	store := NewStore(tdb.Conn)
	searcher := &stubSearcher{responses: map[string]*search.Response{
		"dune movie": downloadResponse("magnet:?xt=urn:btih:abc123"),
	}}
	grabber := &stubGrabber{}
	service := NewService(store, searcher, grabber, testutil.NopLogger())
	ctx := context.Background()

	watch, err := store.Create(ctx, "dune movie")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := service.CheckAll(ctx); err != nil {
		t.Fatalf("CheckAll returned error: %v", err)
	}

	if len(grabber.results) != 1 {
		t.Fatalf("Expected 1 grab, got %d", len(grabber.results))
	}
	if !grabber.results[0].Automatic {
		t.Error("Expected watch grabs to be marked automatic")
	}

	updated, err := store.Get(ctx, watch.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !updated.Fulfilled {
		t.Error("Expected watch to be fulfilled")
	}
	if updated.LastCheckedAt == nil {
		t.Error("Expected last_checked_at to be stamped")
	}
}

func TestCheckAll_NoResultKeepsWatchOpen(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	store := NewStore(tdb.Conn)
	grabber := &stubGrabber{}
	service := NewService(store, &stubSearcher{}, grabber, testutil.NopLogger())
	ctx := context.Background()

	watch, err := store.Create(ctx, "some unreleased show")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := service.CheckAll(ctx); err != nil {
		t.Fatalf("CheckAll returned error: %v", err)
	}

	if len(grabber.results) != 0 {
		t.Errorf("Expected no grabs, got %d", len(grabber.results))
	}

	updated, err := store.Get(ctx, watch.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if updated.Fulfilled {
		t.Error("Expected watch to stay open")
	}
	if updated.LastCheckedAt == nil {
		t.Error("Expected last_checked_at to be stamped even without results")
	}
}

func TestCheckAll_SearchFailureDoesNotStopSweep(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	store := NewStore(tdb.Conn)
	// Searcher fails for every request.
	searcher := &stubSearcher{err: errors.New("backend down")}
	service := NewService(store, searcher, &stubGrabber{}, testutil.NopLogger())
	ctx := context.Background()

	if _, err := store.Create(ctx, "first"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := store.Create(ctx, "second"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Per-watch failures are swallowed; the sweep itself succeeds.
	if err := service.CheckAll(ctx); err != nil {
		t.Fatalf("CheckAll returned error: %v", err)
	}

	watches, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	for _, w := range watches {
		if w.LastCheckedAt == nil {
			t.Errorf("Expected watch %d to be stamped checked", w.ID)
		}
	}
}

func TestCheckAll_SkipsDisabledAndFulfilled(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	store := NewStore(tdb.Conn)
	searcher := &stubSearcher{responses: map[string]*search.Response{
		"disabled one":  downloadResponse("magnet:a"),
		"fulfilled one": downloadResponse("magnet:b"),
	}}
	grabber := &stubGrabber{}
	service := NewService(store, searcher, grabber, testutil.NopLogger())
	ctx := context.Background()

	disabled, err := store.Create(ctx, "disabled one")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := store.SetEnabled(ctx, disabled.ID, false); err != nil {
		t.Fatalf("SetEnabled returned error: %v", err)
	}

	fulfilled, err := store.Create(ctx, "fulfilled one")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := store.MarkFulfilled(ctx, fulfilled.ID); err != nil {
		t.Fatalf("MarkFulfilled returned error: %v", err)
	}

	if err := service.CheckAll(ctx); err != nil {
		t.Fatalf("CheckAll returned error: %v", err)
	}
	if len(grabber.results) != 0 {
		t.Errorf("Expected no grabs for disabled or fulfilled watches, got %d", len(grabber.results))
	}
}
