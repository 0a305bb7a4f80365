package intent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fetcharr/fetcharr/internal/llm"
	"github.com/fetcharr/fetcharr/internal/search/types"
)

// Strategist turns an intent into an ordered query plan.
type Strategist struct {
	generator llm.Generator
	logger    zerolog.Logger
}

// NewStrategist creates a new query strategist.
func NewStrategist(generator llm.Generator, logger zerolog.Logger) *Strategist {
	return &Strategist{
		generator: generator,
		logger:    logger.With().Str("component", "strategy").Logger(),
	}
}

// Plan derives candidate search queries for the intent. Same call and parse
// shape as Extract, with the strategy object schema.
func (s *Strategist) Plan(ctx context.Context, intent *types.SearchIntent) (*types.SearchStrategy, error) {
	response, err := s.generator.Generate(ctx, buildPlanPrompt(intent))
	if err != nil {
		return nil, fmt.Errorf("strategy generation failed: %w", err)
	}

	strategy := &types.SearchStrategy{}
	if err := llm.DecodeObject(llm.StageStrategy, response, strategy); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("primaryQueries", len(strategy.PrimaryQueries)).
		Int("fallbackQueries", len(strategy.FallbackQueries)).
		Msg("Planned search queries")

	return strategy, nil
}
