// Package watch keeps standing requests that are re-searched on a schedule
// until something worth grabbing shows up.
package watch

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a watch id does not exist.
var ErrNotFound = errors.New("watch not found")

// Watch is one standing natural-language request.
type Watch struct {
	ID            int64      `json:"id"`
	Request       string     `json:"request"`
	Enabled       bool       `json:"enabled"`
	Fulfilled     bool       `json:"fulfilled"`
	LastCheckedAt *time.Time `json:"lastCheckedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Store persists watches in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a watch store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create adds a new watch.
func (s *Store) Create(ctx context.Context, request string) (*Watch, error) {
	const query = `
		INSERT INTO watches (request)
		VALUES (?)
		RETURNING id, request, enabled, fulfilled, last_checked_at, created_at`

	return scanWatch(s.db.QueryRowContext(ctx, query, request))
}

// Get fetches one watch by id.
func (s *Store) Get(ctx context.Context, id int64) (*Watch, error) {
	const query = `
		SELECT id, request, enabled, fulfilled, last_checked_at, created_at
		FROM watches WHERE id = ?`

	watch, err := scanWatch(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return watch, err
}

// List returns all watches, newest first.
func (s *Store) List(ctx context.Context) ([]Watch, error) {
	const query = `
		SELECT id, request, enabled, fulfilled, last_checked_at, created_at
		FROM watches ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	watches := make([]Watch, 0)
	for rows.Next() {
		watch, err := scanWatch(rows)
		if err != nil {
			return nil, err
		}
		watches = append(watches, *watch)
	}
	return watches, rows.Err()
}

// ListDue returns enabled, unfulfilled watches.
func (s *Store) ListDue(ctx context.Context) ([]Watch, error) {
	const query = `
		SELECT id, request, enabled, fulfilled, last_checked_at, created_at
		FROM watches
		WHERE enabled = 1 AND fulfilled = 0
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	watches := make([]Watch, 0)
	for rows.Next() {
		watch, err := scanWatch(rows)
		if err != nil {
			return nil, err
		}
		watches = append(watches, *watch)
	}
	return watches, rows.Err()
}

// MarkChecked stamps the watch with a check time.
func (s *Store) MarkChecked(ctx context.Context, id int64, at time.Time) error {
	return s.exec(ctx, `UPDATE watches SET last_checked_at = ? WHERE id = ?`, at.UTC(), id)
}

// MarkFulfilled marks the watch done so the scheduler stops re-searching it.
func (s *Store) MarkFulfilled(ctx context.Context, id int64) error {
	return s.exec(ctx, `UPDATE watches SET fulfilled = 1 WHERE id = ?`, id)
}

// SetEnabled toggles a watch.
func (s *Store) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	return s.exec(ctx, `UPDATE watches SET enabled = ? WHERE id = ?`, enabled, id)
}

// Delete removes a watch.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return s.exec(ctx, `DELETE FROM watches WHERE id = ?`, id)
}

func (s *Store) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWatch(row rowScanner) (*Watch, error) {
	var watch Watch
	var lastChecked sql.NullTime
	err := row.Scan(&watch.ID, &watch.Request, &watch.Enabled, &watch.Fulfilled, &lastChecked, &watch.CreatedAt)
	if err != nil {
		return nil, err
	}
	if lastChecked.Valid {
		watch.LastCheckedAt = &lastChecked.Time
	}
	return &watch, nil
}
