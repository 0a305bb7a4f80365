// Package mock provides an in-memory scraper for tests and developer mode.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/fetcharr/fetcharr/internal/scraper"
	"github.com/fetcharr/fetcharr/internal/search/types"
)

// Scraper returns canned records for every query.
type Scraper struct {
	SourceName string
	Records    []types.Record
	Err        error

	mu      sync.Mutex
	queries []string
}

var _ scraper.Scraper = (*Scraper)(nil)

// New creates a mock scraper that yields the given records.
func New(name string, records ...types.Record) *Scraper {
	return &Scraper{SourceName: name, Records: records}
}

// NewFailing creates a mock scraper whose Search always fails.
func NewFailing(name string, err error) *Scraper {
	return &Scraper{SourceName: name, Err: err}
}

// Name returns the source identifier.
func (s *Scraper) Name() string {
	if s.SourceName == "" {
		return "mock"
	}
	return s.SourceName
}

// Queries returns every query passed to Search so far. Safe for use after
// concurrent fan-out.
func (s *Scraper) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.queries))
	copy(out, s.queries)
	return out
}

// Search returns the canned records, tagged with this source's name.
func (s *Scraper) Search(_ context.Context, query string) ([]types.Record, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	if s.Err != nil {
		return nil, &scraper.SourceError{Source: s.Name(), Cause: s.Err}
	}
	out := make([]types.Record, len(s.Records))
	copy(out, s.Records)
	for i := range out {
		if out[i].Source == "" {
			out[i].Source = s.Name()
		}
	}
	return out, nil
}

// MakeRecords builds n distinct records for test setups, with identities
// derived from the prefix.
func MakeRecords(prefix string, n int) []types.Record {
	records := make([]types.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, types.Record{
			Title:    fmt.Sprintf("%s release %d", prefix, i+1),
			Identity: fmt.Sprintf("magnet:?xt=urn:btih:%s%03d", prefix, i+1),
		})
	}
	return records
}
