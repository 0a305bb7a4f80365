package watch

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fetcharr/fetcharr/internal/grab"
	"github.com/fetcharr/fetcharr/internal/search"
	"github.com/fetcharr/fetcharr/internal/search/types"
)

// Searcher runs the full search pipeline for a request.
type Searcher interface {
	Search(ctx context.Context, request string) (*search.Response, error)
}

// Grabber sends a chosen record to the download client.
type Grabber interface {
	Grab(ctx context.Context, input grab.Input) (*grab.Result, error)
}

// Service re-runs watched requests and grabs results that clear the
// auto-download gate. A watch is fulfilled once a grab succeeds.
type Service struct {
	store    *Store
	searcher Searcher
	grabber  Grabber
	logger   zerolog.Logger
}

// NewService creates a watch service.
func NewService(store *Store, searcher Searcher, grabber Grabber, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		searcher: searcher,
		grabber:  grabber,
		logger:   logger.With().Str("component", "watch").Logger(),
	}
}

// Store exposes the underlying store for handlers.
func (s *Service) Store() *Store {
	return s.store
}

// CheckAll re-searches every due watch. Individual watch failures are
// logged and the sweep continues; the scheduler retries next interval.
func (s *Service) CheckAll(ctx context.Context) error {
	watches, err := s.store.ListDue(ctx)
	if err != nil {
		return err
	}

	s.logger.Info().Int("watches", len(watches)).Msg("Checking watches")

	for i := range watches {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.checkOne(ctx, &watches[i]); err != nil {
			s.logger.Warn().
				Err(err).
				Int64("watch_id", watches[i].ID).
				Str("request", watches[i].Request).
				Msg("Watch check failed")
		}
	}

	return nil
}

func (s *Service) checkOne(ctx context.Context, watch *Watch) error {
	if err := s.store.MarkChecked(ctx, watch.ID, time.Now()); err != nil {
		return err
	}

	response, err := s.searcher.Search(ctx, watch.Request)
	if err != nil {
		return err
	}

	if response.Action.Kind != types.ActionDownload {
		s.logger.Debug().
			Int64("watch_id", watch.ID).
			Str("action", string(response.Action.Kind)).
			Msg("No auto-grabbable result for watch")
		return nil
	}

	top := response.Results[0]
	result, err := s.grabber.Grab(ctx, grab.Input{
		RequestID:  response.RequestID,
		Record:     top.Record,
		Relevance:  top.RelevanceScore,
		Confidence: top.Confidence,
		Automatic:  true,
	})
	if err != nil {
		return err
	}

	// A duplicate means an earlier run already grabbed this; either way the
	// watch is satisfied.
	if result.Duplicate {
		s.logger.Info().Int64("watch_id", watch.ID).Msg("Watch result was already grabbed")
	} else {
		s.logger.Info().
			Int64("watch_id", watch.ID).
			Str("title", top.Record.Title).
			Msg("Watch fulfilled, sent to download client")
	}

	return s.store.MarkFulfilled(ctx, watch.ID)
}
