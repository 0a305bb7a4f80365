package search

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fetcharr/fetcharr/internal/search/types"
)

// IntentExtractor turns a natural-language request into a structured intent.
type IntentExtractor interface {
	Extract(ctx context.Context, request string) (*types.SearchIntent, error)
}

// QueryStrategist turns an intent into concrete search queries.
type QueryStrategist interface {
	Plan(ctx context.Context, intent *types.SearchIntent) (*types.SearchStrategy, error)
}

// RecordEvaluator scores candidate records against the user's intent.
type RecordEvaluator interface {
	Evaluate(ctx context.Context, intent *types.SearchIntent, records []types.Record) ([]types.EvaluatedRecord, error)
}

// Ranker orders and filters evaluated records.
type Ranker func(evaluated []types.EvaluatedRecord, minConfidence float64) []types.EvaluatedRecord

// Decider picks the action to take for a ranked result set.
type Decider func(ranked []types.EvaluatedRecord, autoDownload bool, autoThreshold float64) types.Action

// Config holds the orchestration thresholds for a search run.
type Config struct {
	MaxResults    int
	MinConfidence float64
	AutoDownload  bool
	AutoThreshold float64
}

// Response is the complete outcome of one search request.
type Response struct {
	RequestID string                  `json:"requestId"`
	Request   string                  `json:"request"`
	Intent    *types.SearchIntent     `json:"intent"`
	Queries   []string                `json:"queries"`
	Results   []types.EvaluatedRecord `json:"results"`
	Action    types.Action            `json:"action"`
	NoResults bool                    `json:"noResults"`
}

// Service orchestrates the full pipeline: intent extraction, query planning,
// source aggregation, evaluation, ranking, and the final action decision.
type Service struct {
	extractor  IntentExtractor
	strategist QueryStrategist
	aggregator *Aggregator
	evaluator  RecordEvaluator
	rank       Ranker
	decide     Decider
	config     Config
	logger     zerolog.Logger
}

// NewService creates the search pipeline service.
func NewService(
	extractor IntentExtractor,
	strategist QueryStrategist,
	aggregator *Aggregator,
	evaluator RecordEvaluator,
	rank Ranker,
	decide Decider,
	config Config,
	logger zerolog.Logger,
) *Service {
	if config.MaxResults <= 0 {
		config.MaxResults = 20
	}
	return &Service{
		extractor:  extractor,
		strategist: strategist,
		aggregator: aggregator,
		evaluator:  evaluator,
		rank:       rank,
		decide:     decide,
		config:     config,
		logger:     logger.With().Str("component", "search").Logger(),
	}
}

// Sources returns the names of the configured content sources.
func (s *Service) Sources() []string {
	return s.aggregator.Sources()
}

// Search runs an end-to-end search for a natural-language request.
func (s *Service) Search(ctx context.Context, request string) (*Response, error) {
	requestID := uuid.NewString()
	logger := s.logger.With().Str("request_id", requestID).Logger()

	logger.Info().Str("request", request).Msg("Starting search")

	intent, err := s.extractor.Extract(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("extracting intent: %w", err)
	}
	logger.Info().
		Str("content_type", intent.ContentType.String()).
		Str("title", intent.Title).
		Msg("Extracted search intent")

	strategy, err := s.strategist.Plan(ctx, intent)
	if err != nil {
		return nil, fmt.Errorf("planning queries: %w", err)
	}
	if len(strategy.FallbackQueries) > 0 {
		// Fallbacks are planned for future escalation but never issued.
		logger.Debug().
			Strs("fallback_queries", strategy.FallbackQueries).
			Msg("Fallback queries available")
	}

	response := &Response{
		RequestID: requestID,
		Request:   request,
		Intent:    intent,
		Queries:   strategy.PrimaryQueries,
	}

	collected := make([]types.Record, 0, s.config.MaxResults)
	for _, query := range strategy.PrimaryQueries {
		if len(collected) >= s.config.MaxResults {
			break
		}
		logger.Info().Str("query", query).Msg("Searching sources")
		records, err := s.aggregator.Aggregate(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("searching sources for %q: %w", query, err)
		}
		collected = append(collected, records...)
	}

	collected = Deduplicate(collected)
	if len(collected) > s.config.MaxResults {
		collected = collected[:s.config.MaxResults]
	}

	if len(collected) == 0 {
		logger.Info().Msg("No results found for any query")
		response.NoResults = true
		response.Results = []types.EvaluatedRecord{}
		response.Action = types.Action{Kind: types.ActionNone}
		return response, nil
	}

	logger.Info().Int("candidates", len(collected)).Msg("Evaluating candidates")
	evaluated, err := s.evaluator.Evaluate(ctx, intent, collected)
	if err != nil {
		return nil, fmt.Errorf("evaluating results: %w", err)
	}

	ranked := s.rank(evaluated, s.config.MinConfidence)
	response.Results = ranked
	response.Action = s.decide(ranked, s.config.AutoDownload, s.config.AutoThreshold)

	// Everything filtered out is the same empty outcome as no records at all.
	if len(ranked) == 0 {
		response.NoResults = true
	}

	logger.Info().
		Int("results", len(ranked)).
		Str("action", string(response.Action.Kind)).
		Msg("Search complete")

	return response, nil
}
