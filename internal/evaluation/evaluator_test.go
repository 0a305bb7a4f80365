package evaluation

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetcharr/fetcharr/internal/llm"
	"github.com/fetcharr/fetcharr/internal/scraper/mock"
	"github.com/fetcharr/fetcharr/internal/search/types"
)

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func tvIntent() *types.SearchIntent {
	season := 2
	return &types.SearchIntent{
		ContentType: types.ContentType{Kind: types.ContentTVShow},
		Title:       "Show X",
		TVDetails:   &types.TVDetails{Season: &season, CompleteSeason: true},
	}
}

func TestEvaluate(t *testing.T) {
	gen := &stubGenerator{response: `Here are my evaluations:
	[
		{"relevance_score": 0.95, "confidence": 0.9, "match_reasons": ["Complete season 2"], "warnings": [], "quality_score": 0.9, "completeness_score": 1.0},
		{"relevance_score": 0.4, "confidence": 0.8, "match_reasons": [], "warnings": ["single episode only"], "quality_score": 0.7, "completeness_score": 0.1}
	]`}
	evaluator := New(gen, zerolog.Nop())

	records := mock.MakeRecords("showx", 2)
	evaluated, err := evaluator.Evaluate(context.Background(), tvIntent(), records)
	require.NoError(t, err)
	require.Len(t, evaluated, 2)

	assert.Equal(t, records[0], evaluated[0].Record)
	assert.InDelta(t, 0.95, evaluated[0].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.9, evaluated[0].Confidence, 1e-9)
	assert.Equal(t, []string{"Complete season 2"}, evaluated[0].MatchReasons)
	assert.Empty(t, evaluated[0].Warnings)

	assert.Equal(t, records[1], evaluated[1].Record)
	assert.Equal(t, []string{"single episode only"}, evaluated[1].Warnings)

	// Prompt lists records with 1-based ordinals and names the intent.
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "1: showx release 1")
	assert.Contains(t, gen.prompts[0], "2: showx release 2")
	assert.Contains(t, gen.prompts[0], "TV Show - Show X Season 2")
}

func TestEvaluateShortArrayDropsTail(t *testing.T) {
	gen := &stubGenerator{response: `[
		{"relevance_score": 0.9, "confidence": 0.9},
		{"relevance_score": 0.5, "confidence": 0.6}
	]`}
	evaluator := New(gen, zerolog.Nop())

	records := mock.MakeRecords("showx", 5)
	evaluated, err := evaluator.Evaluate(context.Background(), tvIntent(), records)
	require.NoError(t, err)

	// Two scores for five records: exactly two outputs, no error.
	require.Len(t, evaluated, 2)
	assert.Equal(t, records[0], evaluated[0].Record)
	assert.Equal(t, records[1], evaluated[1].Record)
}

func TestEvaluateExtraElementsIgnored(t *testing.T) {
	gen := &stubGenerator{response: `[
		{"relevance_score": 0.9},
		{"relevance_score": 0.8},
		{"relevance_score": 0.7}
	]`}
	evaluator := New(gen, zerolog.Nop())

	evaluated, err := evaluator.Evaluate(context.Background(), tvIntent(), mock.MakeRecords("showx", 2))
	require.NoError(t, err)
	assert.Len(t, evaluated, 2)
}

func TestEvaluateFieldDefaults(t *testing.T) {
	// Missing fields, mistyped fields, and non-object elements all default
	// instead of failing the call.
	gen := &stubGenerator{response: `[
		{},
		{"relevance_score": "high", "confidence": true, "match_reasons": "good", "warnings": [1, "real warning"]},
		"not an object"
	]`}
	evaluator := New(gen, zerolog.Nop())

	evaluated, err := evaluator.Evaluate(context.Background(), tvIntent(), mock.MakeRecords("showx", 3))
	require.NoError(t, err)
	require.Len(t, evaluated, 3)

	for _, er := range evaluated[:2] {
		assert.Zero(t, er.RelevanceScore)
		assert.Zero(t, er.Confidence)
		assert.Zero(t, er.QualityScore)
		assert.Zero(t, er.CompletenessScore)
		assert.NotNil(t, er.MatchReasons)
		assert.Empty(t, er.MatchReasons)
	}
	// Non-string list elements are dropped, string ones kept.
	assert.Equal(t, []string{"real warning"}, evaluated[1].Warnings)
	// A non-object element still produces a fully defaulted record.
	assert.Zero(t, evaluated[2].RelevanceScore)
}

func TestEvaluateUnparsableArray(t *testing.T) {
	for _, response := range []string{"no array here", "", "[{\"trunca"} {
		evaluator := New(&stubGenerator{response: response}, zerolog.Nop())
		_, err := evaluator.Evaluate(context.Background(), tvIntent(), mock.MakeRecords("showx", 1))
		require.Error(t, err, "response %q", response)
		assert.True(t, llm.IsParseError(err), "response %q: %v", response, err)
	}
}

func TestEvaluateEmptyInput(t *testing.T) {
	gen := &stubGenerator{response: "should never be called"}
	evaluator := New(gen, zerolog.Nop())

	evaluated, err := evaluator.Evaluate(context.Background(), tvIntent(), nil)
	require.NoError(t, err)
	assert.Empty(t, evaluated)
	assert.Empty(t, gen.prompts, "no generation call for empty input")
}
