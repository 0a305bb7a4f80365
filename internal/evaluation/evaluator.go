// Package evaluation scores aggregated records against the original intent
// with one batched generation call.
package evaluation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fetcharr/fetcharr/internal/intent"
	"github.com/fetcharr/fetcharr/internal/llm"
	"github.com/fetcharr/fetcharr/internal/search/types"
)

// Evaluator produces one EvaluatedRecord per scored input record.
type Evaluator struct {
	generator llm.Generator
	logger    zerolog.Logger
}

// New creates a new evaluator.
func New(generator llm.Generator, logger zerolog.Logger) *Evaluator {
	return &Evaluator{
		generator: generator,
		logger:    logger.With().Str("component", "evaluation").Logger(),
	}
}

// Evaluate sends all records in one prompt with 1-based ordinal labels and
// maps the returned array back positionally: element i scores records[i].
// A response array shorter than the input silently drops the tail; a
// response that is not an array at all is an evaluation-stage ParseError.
//
// Individual score objects are decoded loosely: a missing or mistyped field
// defaults to 0.0 or an empty list instead of failing the record.
func (e *Evaluator) Evaluate(ctx context.Context, searchIntent *types.SearchIntent, records []types.Record) ([]types.EvaluatedRecord, error) {
	if len(records) == 0 {
		return []types.EvaluatedRecord{}, nil
	}

	response, err := e.generator.Generate(ctx, buildPrompt(searchIntent, records))
	if err != nil {
		return nil, fmt.Errorf("evaluation generation failed: %w", err)
	}

	var payloads []interface{}
	if err := llm.DecodeArray(llm.StageEvaluation, response, &payloads); err != nil {
		return nil, err
	}

	evaluated := make([]types.EvaluatedRecord, 0, len(records))
	for i, payload := range payloads {
		if i >= len(records) {
			// Extra elements have no corresponding record.
			break
		}
		fields, _ := payload.(map[string]interface{})
		evaluated = append(evaluated, types.EvaluatedRecord{
			Record:            records[i],
			RelevanceScore:    floatField(fields, "relevance_score"),
			Confidence:        floatField(fields, "confidence"),
			QualityScore:      floatField(fields, "quality_score"),
			CompletenessScore: floatField(fields, "completeness_score"),
			MatchReasons:      stringListField(fields, "match_reasons"),
			Warnings:          stringListField(fields, "warnings"),
		})
	}

	if len(evaluated) < len(records) {
		e.logger.Warn().
			Int("records", len(records)).
			Int("scored", len(evaluated)).
			Msg("Evaluation response shorter than record list, dropping unscored tail")
	}

	e.logger.Debug().
		Int("records", len(records)).
		Int("scored", len(evaluated)).
		Msg("Evaluation completed")

	return evaluated, nil
}

// floatField extracts a numeric score, defaulting to 0.0 when the field is
// absent or not a number.
func floatField(fields map[string]interface{}, key string) float64 {
	if v, ok := fields[key].(float64); ok {
		return v
	}
	return 0.0
}

// stringListField extracts a list of strings, dropping non-string elements
// and defaulting to an empty list.
func stringListField(fields map[string]interface{}, key string) []string {
	raw, ok := fields[key].([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// buildPrompt lists every record with a 1-based ordinal and asks for a JSON
// array of score objects in the same order.
func buildPrompt(searchIntent *types.SearchIntent, records []types.Record) string {
	var listing strings.Builder
	for i, record := range records {
		fmt.Fprintf(&listing, "%d: %s\n", i+1, record.Title)
	}

	return fmt.Sprintf(`
You are evaluating torrent search results for relevance.

User wants: %s - %s%s

Results to evaluate:
%s
For each result, provide:
1. Relevance score (0.0-1.0) - how well it matches the request
2. Confidence (0.0-1.0) - how sure you are about the match
3. Match reasons - why this is or isn't a good match
4. Warnings - any concerns (fake, wrong content, low quality)
5. Quality score (0.0-1.0) - based on resolution, encoding, source
6. Completeness score (0.0-1.0) - does it have everything requested?

Respond with a JSON array of evaluations in order. Each evaluation should have this structure:
{
    "relevance_score": 0.95,
    "confidence": 0.9,
    "match_reasons": ["Complete season 2", "High quality BluRay"],
    "warnings": [],
    "quality_score": 0.9,
    "completeness_score": 1.0
}
`, searchIntent.ContentType.Display(), searchIntent.Title, intent.DescribeTarget(searchIntent), listing.String())
}
