// Package scraper defines the content-source adapter contract.
//
// A scraper normalizes one external catalog's listing format (HTML tables,
// REST JSON) into the common Record shape. Each scraper owns its request
// timeout and headers; the aggregation layer adds none of its own.
package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/fetcharr/fetcharr/internal/search/types"
)

// Scraper is implemented once per content source.
type Scraper interface {
	// Name returns the stable source identifier used in logs, hints,
	// and Record.Source.
	Name() string

	// Search runs one query against the source and returns normalized
	// records.
	Search(ctx context.Context, query string) ([]types.Record, error)
}

// SourceError wraps a scraper failure with the failing source identified.
type SourceError struct {
	Source string
	Cause  error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Cause)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error {
	return e.Cause
}

// IsSourceError reports whether err came from a specific source, returning
// the source name when it did.
func IsSourceError(err error) (string, bool) {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Source, true
	}
	return "", false
}
