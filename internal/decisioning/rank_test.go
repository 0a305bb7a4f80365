package decisioning

import (
	"math"
	"testing"

	"github.com/fetcharr/fetcharr/internal/search/types"
)

func evaluated(identity string, relevance, confidence float64) types.EvaluatedRecord {
	return types.EvaluatedRecord{
		Record:         types.Record{Title: identity, Identity: identity},
		RelevanceScore: relevance,
		Confidence:     confidence,
	}
}

func identities(ranked []types.EvaluatedRecord) []string {
	out := make([]string, len(ranked))
	for i, er := range ranked {
		out[i] = er.Record.Identity
	}
	return out
}

func TestRankFiltersAndSorts(t *testing.T) {
	input := []types.EvaluatedRecord{
		evaluated("a", 0.5, 0.9),
		evaluated("b", 0.95, 0.8),
		evaluated("c", 0.8, 0.3), // below confidence threshold
		evaluated("d", 0.7, 0.7), // exactly at threshold, kept
	}

	ranked := Rank(input, 0.7)

	want := []string{"b", "d", "a"}
	got := identities(ranked)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	// Every survivor meets the threshold and the order is non-increasing.
	for i, er := range ranked {
		if er.Confidence < 0.7 {
			t.Errorf("result %d has confidence %v below threshold", i, er.Confidence)
		}
		if i > 0 && ranked[i-1].RelevanceScore < er.RelevanceScore {
			t.Errorf("relevance increases at position %d", i)
		}
	}
}

func TestRankStableOnTies(t *testing.T) {
	input := []types.EvaluatedRecord{
		evaluated("first", 0.8, 1.0),
		evaluated("second", 0.8, 1.0),
		evaluated("third", 0.8, 1.0),
	}

	got := identities(Rank(input, 0.0))
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tie order not preserved: got %v, want %v", got, want)
		}
	}
}

func TestRankNaNSortsLast(t *testing.T) {
	input := []types.EvaluatedRecord{
		evaluated("nan", math.NaN(), 1.0),
		evaluated("low", 0.1, 1.0),
		evaluated("high", 0.9, 1.0),
	}

	got := identities(Rank(input, 0.0))
	want := []string{"high", "low", "nan"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRankAllFiltered(t *testing.T) {
	input := []types.EvaluatedRecord{
		evaluated("a", 0.9, 0.2),
		evaluated("b", 0.8, 0.6),
	}

	ranked := Rank(input, 0.7)
	if len(ranked) != 0 {
		t.Errorf("expected empty result, got %v", identities(ranked))
	}
}

func TestRankEmptyInput(t *testing.T) {
	if got := Rank(nil, 0.7); len(got) != 0 {
		t.Errorf("expected empty result for nil input, got %v", got)
	}
}
