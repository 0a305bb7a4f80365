package history

import (
	"context"
	"testing"

	"github.com/fetcharr/fetcharr/internal/testutil"
)

func TestCreateAndList(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	service := NewService(tdb.Conn, testutil.NopLogger())
	ctx := context.Background()

	grab, err := service.Create(ctx, CreateInput{
		RequestID:      "req-1",
		Title:          "Dune (2021) [1080p]",
		Identity:       "magnet:?xt=urn:btih:abc123",
		Source:         "yts",
		ClientType:     "transmission",
		ClientID:       "abc123",
		RelevanceScore: 0.95,
		Confidence:     0.9,
		Automatic:      true,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if grab.ID == 0 {
		t.Error("Expected a non-zero id")
	}
	if grab.GrabbedAt.IsZero() {
		t.Error("Expected grabbed_at to be set")
	}

	if _, err := service.Create(ctx, CreateInput{
		Title:    "Dark S01 Complete",
		Identity: "magnet:?xt=urn:btih:def456",
		Source:   "piratebay",
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	result, err := service.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.TotalCount != 2 {
		t.Errorf("Expected total count 2, got %d", result.TotalCount)
	}
	if len(result.Grabs) != 2 {
		t.Fatalf("Expected 2 grabs, got %d", len(result.Grabs))
	}
}

func TestListSourceFilter(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	service := NewService(tdb.Conn, testutil.NopLogger())
	ctx := context.Background()

	for i, source := range []string{"yts", "piratebay", "yts"} {
		if _, err := service.Create(ctx, CreateInput{
			Title:    "Release",
			Identity: "magnet:?xt=urn:btih:" + string(rune('a'+i)),
			Source:   source,
		}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	result, err := service.List(ctx, ListOptions{Source: "yts"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.TotalCount != 2 {
		t.Errorf("Expected 2 yts grabs, got %d", result.TotalCount)
	}
	for _, grab := range result.Grabs {
		if grab.Source != "yts" {
			t.Errorf("Expected only yts grabs, got source %q", grab.Source)
		}
	}
}

func TestListPagination(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	service := NewService(tdb.Conn, testutil.NopLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := service.Create(ctx, CreateInput{
			Title:    "Release",
			Identity: "magnet:?xt=urn:btih:" + string(rune('a'+i)),
		}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	result, err := service.List(ctx, ListOptions{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.TotalCount != 5 {
		t.Errorf("Expected total count 5, got %d", result.TotalCount)
	}
	if len(result.Grabs) != 2 {
		t.Errorf("Expected page of 2 grabs, got %d", len(result.Grabs))
	}
	if result.Page != 2 || result.PageSize != 2 {
		t.Errorf("Unexpected pagination echo: %+v", result)
	}
}

func TestHasGrabbed(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	service := NewService(tdb.Conn, testutil.NopLogger())
	ctx := context.Background()

	if _, err := service.Create(ctx, CreateInput{
		Title:    "Dune",
		Identity: "magnet:?xt=urn:btih:abc123",
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	grabbed, err := service.HasGrabbed(ctx, "magnet:?xt=urn:btih:abc123")
	if err != nil {
		t.Fatalf("HasGrabbed returned error: %v", err)
	}
	if !grabbed {
		t.Error("Expected identity to be marked grabbed")
	}

	grabbed, err = service.HasGrabbed(ctx, "magnet:?xt=urn:btih:unknown")
	if err != nil {
		t.Fatalf("HasGrabbed returned error: %v", err)
	}
	if grabbed {
		t.Error("Expected unknown identity to not be grabbed")
	}
}

func TestDeleteAll(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	service := NewService(tdb.Conn, testutil.NopLogger())
	ctx := context.Background()

	if _, err := service.Create(ctx, CreateInput{Title: "Dune", Identity: "magnet:a"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := service.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll returned error: %v", err)
	}

	result, err := service.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if result.TotalCount != 0 {
		t.Errorf("Expected empty history, got %d entries", result.TotalCount)
	}
}
