// Package grab hands chosen search results to the download client and
// records them in grab history.
package grab

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fetcharr/fetcharr/internal/downloader"
	"github.com/fetcharr/fetcharr/internal/history"
	"github.com/fetcharr/fetcharr/internal/search/types"
)

// Input identifies what to grab and why.
type Input struct {
	RequestID  string
	Record     types.Record
	Relevance  float64
	Confidence float64
	Automatic  bool
}

// Result reports a completed grab.
type Result struct {
	ClientID  string        `json:"clientId"`
	Duplicate bool          `json:"duplicate"`
	Grab      *history.Grab `json:"grab,omitempty"`
}

// Service submits magnet links to the configured download client.
// The client is injected once at startup and reused for every grab.
type Service struct {
	client      downloader.Client
	history     *history.Service
	downloadDir string
	logger      zerolog.Logger
}

// NewService creates a new grab service. downloadDir is the destination
// passed to the client for every grab; empty leaves the client's default.
func NewService(client downloader.Client, historyService *history.Service, downloadDir string, logger zerolog.Logger) *Service {
	return &Service{
		client:      client,
		history:     historyService,
		downloadDir: downloadDir,
		logger:      logger.With().Str("component", "grab").Logger(),
	}
}

// ClientType returns the type of the backing download client.
func (s *Service) ClientType() downloader.ClientType {
	return s.client.Type()
}

// Grab sends the record's magnet link to the download client. An identity
// already present in grab history is skipped and reported as a duplicate.
func (s *Service) Grab(ctx context.Context, input Input) (*Result, error) {
	grabbed, err := s.history.HasGrabbed(ctx, input.Record.Identity)
	if err != nil {
		return nil, fmt.Errorf("checking grab history: %w", err)
	}
	if grabbed {
		s.logger.Info().
			Str("title", input.Record.Title).
			Msg("Skipping grab, identity already in history")
		return &Result{Duplicate: true}, nil
	}

	clientID, err := s.client.AddMagnet(ctx, input.Record.Identity, downloader.AddOptions{
		Name:        input.Record.Title,
		DownloadDir: s.downloadDir,
	})
	if err != nil {
		return nil, fmt.Errorf("adding magnet to %s: %w", s.client.Type(), err)
	}

	grab, err := s.history.Create(ctx, history.CreateInput{
		RequestID:      input.RequestID,
		Title:          input.Record.Title,
		Identity:       input.Record.Identity,
		Source:         input.Record.Source,
		ClientType:     string(s.client.Type()),
		ClientID:       clientID,
		RelevanceScore: input.Relevance,
		Confidence:     input.Confidence,
		Automatic:      input.Automatic,
	})
	if err != nil {
		// The download is already running; a history write failure must not
		// fail the grab.
		s.logger.Error().Err(err).Str("title", input.Record.Title).Msg("Failed to record grab in history")
	}

	s.logger.Info().
		Str("title", input.Record.Title).
		Str("client", string(s.client.Type())).
		Str("client_id", clientID).
		Msg("Sent to download client")

	return &Result{ClientID: clientID, Grab: grab}, nil
}

// Downloads lists the download client's current items.
func (s *Service) Downloads(ctx context.Context) ([]downloader.DownloadItem, error) {
	return s.client.List(ctx)
}
