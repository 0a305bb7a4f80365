// Package history records grabs so repeat searches can tell what was
// already handed to the download client.
package history

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
)

// Service provides grab history management.
type Service struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewService creates a new history service.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "history").Logger(),
	}
}

// Create records a new grab.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Grab, error) {
	const query = `
		INSERT INTO grabs (request_id, title, identity, source, client_type, client_id, relevance_score, confidence, automatic)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, request_id, title, identity, source, client_type, client_id, relevance_score, confidence, automatic, grabbed_at`

	row := s.db.QueryRowContext(ctx, query,
		input.RequestID, input.Title, input.Identity, input.Source,
		input.ClientType, input.ClientID,
		input.RelevanceScore, input.Confidence, input.Automatic,
	)

	grab, err := scanGrab(row)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("title", grab.Title).
		Str("source", grab.Source).
		Bool("automatic", grab.Automatic).
		Msg("Recorded grab")

	return grab, nil
}

// List returns one page of grabs, newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 50
	}

	where, filterArgs := "", []interface{}{}
	if opts.Source != "" {
		where = ` WHERE source = ?`
		filterArgs = append(filterArgs, opts.Source)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM grabs`+where, filterArgs...).Scan(&total); err != nil {
		return nil, err
	}

	query := `
		SELECT id, request_id, title, identity, source, client_type, client_id, relevance_score, confidence, automatic, grabbed_at
		FROM grabs` + where + `
		ORDER BY grabbed_at DESC, id DESC
		LIMIT ? OFFSET ?`

	args := append(filterArgs, opts.PageSize, (opts.Page-1)*opts.PageSize)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grabs := make([]Grab, 0, opts.PageSize)
	for rows.Next() {
		grab, err := scanGrab(rows)
		if err != nil {
			return nil, err
		}
		grabs = append(grabs, *grab)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ListResult{
		Grabs:      grabs,
		TotalCount: total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
	}, nil
}

// HasGrabbed reports whether an identity was already grabbed.
func (s *Service) HasGrabbed(ctx context.Context, identity string) (bool, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM grabs WHERE identity = ?`, identity).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteAll clears the grab history.
func (s *Service) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM grabs`)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGrab(row rowScanner) (*Grab, error) {
	var grab Grab
	err := row.Scan(
		&grab.ID, &grab.RequestID, &grab.Title, &grab.Identity, &grab.Source,
		&grab.ClientType, &grab.ClientID,
		&grab.RelevanceScore, &grab.Confidence, &grab.Automatic, &grab.GrabbedAt,
	)
	if err != nil {
		return nil, err
	}
	return &grab, nil
}
