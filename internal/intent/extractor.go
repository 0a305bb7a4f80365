// Package intent converts free-text content requests into structured search
// intents and query plans via the text-generation backend.
package intent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fetcharr/fetcharr/internal/llm"
	"github.com/fetcharr/fetcharr/internal/search/types"
)

// Extractor turns a raw request string into a SearchIntent.
type Extractor struct {
	generator llm.Generator
	logger    zerolog.Logger
}

// NewExtractor creates a new intent extractor.
func NewExtractor(generator llm.Generator, logger zerolog.Logger) *Extractor {
	return &Extractor{
		generator: generator,
		logger:    logger.With().Str("component", "intent").Logger(),
	}
}

// Extract sends one generation request and parses the structured intent out
// of the response. The model may wrap the JSON in prose; only the first-brace
// to last-brace span is decoded. A missing or undecodable span is fatal for
// the request.
func (e *Extractor) Extract(ctx context.Context, query string) (*types.SearchIntent, error) {
	response, err := e.generator.Generate(ctx, buildExtractPrompt(query))
	if err != nil {
		return nil, fmt.Errorf("intent generation failed: %w", err)
	}

	intent := &types.SearchIntent{}
	if err := llm.DecodeObject(llm.StageIntent, response, intent); err != nil {
		return nil, err
	}

	// tv_details on a non-TV intent is a model slip, not a hard failure.
	if intent.TVDetails != nil && !intent.ContentType.TVShow() {
		e.logger.Debug().
			Str("contentType", intent.ContentType.String()).
			Str("title", intent.Title).
			Msg("Ignoring tv_details on non-TV intent")
	}

	e.logger.Info().
		Str("contentType", intent.ContentType.String()).
		Str("title", intent.Title).
		Strs("quality", intent.QualityPreferences).
		Msg("Extracted intent")

	return intent, nil
}
