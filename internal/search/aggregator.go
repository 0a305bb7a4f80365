package search

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fetcharr/fetcharr/internal/scraper"
	"github.com/fetcharr/fetcharr/internal/search/types"
)

// Aggregator fans one query out to every registered scraper concurrently.
//
// The default join policy is fail-fast: the first scraper failure fails the
// whole call and in-flight siblings are abandoned (they may still complete;
// their results are discarded). With partial results enabled, failed sources
// are logged and the surviving sources' records returned instead.
type Aggregator struct {
	scrapers []scraper.Scraper
	partial  bool
	logger   zerolog.Logger
}

// NewAggregator creates an aggregator over the given scrapers. Scrapers are
// long-lived clients injected once at construction, not rebuilt per call.
func NewAggregator(scrapers []scraper.Scraper, partial bool, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		scrapers: scrapers,
		partial:  partial,
		logger:   logger.With().Str("component", "aggregator").Logger(),
	}
}

// Sources returns the names of the registered scrapers.
func (a *Aggregator) Sources() []string {
	names := make([]string, len(a.scrapers))
	for i, s := range a.scrapers {
		names[i] = s.Name()
	}
	return names
}

// searchTaskResult is one scraper's outcome for a query.
type searchTaskResult struct {
	Source  string
	Records []types.Record
	Error   error
}

// Aggregate runs one query against all scrapers and concatenates their
// records with no source-level weighting. Deduplication is not applied here;
// the orchestrator dedups once after all queries for a request complete.
func (a *Aggregator) Aggregate(ctx context.Context, query string) ([]types.Record, error) {
	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultsChan := make(chan searchTaskResult, len(a.scrapers))
	for _, s := range a.scrapers {
		go func(s scraper.Scraper) {
			records, err := s.Search(searchCtx, query)
			resultsChan <- searchTaskResult{Source: s.Name(), Records: records, Error: err}
		}(s)
	}

	all := make([]types.Record, 0)
	for i := 0; i < len(a.scrapers); i++ {
		result := <-resultsChan
		if result.Error != nil {
			if !a.partial {
				// Abandon the remaining scrapers; buffered channel lets
				// their goroutines finish without blocking.
				cancel()
				if _, ok := scraper.IsSourceError(result.Error); ok {
					return nil, result.Error
				}
				return nil, &scraper.SourceError{Source: result.Source, Cause: result.Error}
			}
			a.logger.Warn().
				Err(result.Error).
				Str("source", result.Source).
				Str("query", query).
				Msg("Source failed, continuing with remaining sources")
			continue
		}
		a.logger.Debug().
			Str("source", result.Source).
			Str("query", query).
			Int("results", len(result.Records)).
			Msg("Received results from source")
		all = append(all, result.Records...)
	}

	return all, nil
}

// Deduplicate keeps the first record seen for each distinct identity,
// preserving first-seen order. Identity comparison is exact-string; no fuzzy
// matching across sources.
func Deduplicate(records []types.Record) []types.Record {
	if len(records) == 0 {
		return records
	}

	seen := make(map[string]struct{}, len(records))
	unique := make([]types.Record, 0, len(records))
	for _, record := range records {
		if _, dup := seen[record.Identity]; dup {
			continue
		}
		seen[record.Identity] = struct{}{}
		unique = append(unique, record)
	}
	return unique
}
