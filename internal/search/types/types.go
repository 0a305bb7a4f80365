// Package types contains shared type definitions for the search pipeline.
package types

// SearchIntent is the structured interpretation of a free-text content
// request. It is produced by the intent extractor and consumed by the
// strategist and evaluator.
type SearchIntent struct {
	ContentType        ContentType `json:"content_type"`
	Title              string      `json:"title"`
	Year               *int        `json:"year,omitempty"`
	TVDetails          *TVDetails  `json:"tv_details,omitempty"`
	QualityPreferences []string    `json:"quality_preferences,omitempty"`
	Language           *string     `json:"language,omitempty"`
	AdditionalContext  []string    `json:"additional_context,omitempty"`
}

// TVDetails carries episode targeting for TV show requests.
// Presence on a non-TV intent is tolerated, not enforced.
type TVDetails struct {
	Season         *int    `json:"season,omitempty"`
	Episode        *int    `json:"episode,omitempty"`
	EpisodeRange   *[2]int `json:"episode_range,omitempty"`
	CompleteSeason bool    `json:"complete_season"`
	CompleteSeries bool    `json:"complete_series"`
}

// SearchStrategy is an ordered query plan derived from an intent.
// FallbackQueries are carried in the model but the orchestrator does not
// issue them when PrimaryQueries exhausts below the result cap.
type SearchStrategy struct {
	PrimaryQueries  []string            `json:"primary_queries"`
	FallbackQueries []string            `json:"fallback_queries,omitempty"`
	ScraperHints    map[string][]string `json:"scraper_hints,omitempty"`
}

// Record is one normalized listing from a content source. Records are
// produced exclusively by scrapers and never mutated afterwards.
type Record struct {
	Title    string  `json:"title"`
	Identity string  `json:"identity"` // magnet URI; stable dedup and retrieval key
	Size     *string `json:"size,omitempty"`
	Seeders  *int    `json:"seeders,omitempty"`
	Leechers *int    `json:"leechers,omitempty"`
	Uploaded *string `json:"uploaded,omitempty"`
	Source   string  `json:"source,omitempty"`
}

// EvaluatedRecord wraps a Record with the evaluator's per-record scores.
// All scores are constrained to [0.0, 1.0]. Created once, never mutated.
type EvaluatedRecord struct {
	Record            Record   `json:"record"`
	RelevanceScore    float64  `json:"relevanceScore"`
	Confidence        float64  `json:"confidence"`
	QualityScore      float64  `json:"qualityScore"`
	CompletenessScore float64  `json:"completenessScore"`
	MatchReasons      []string `json:"matchReasons,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`
}

// ActionKind classifies the decision gate's outcome.
type ActionKind string

const (
	ActionNone          ActionKind = "none"
	ActionDownload      ActionKind = "download"
	ActionSuggestManual ActionKind = "suggest_manual"
)

// Action is the decision gate's verdict for a ranked result set.
// Identity is set for ActionDownload and ActionSuggestManual.
type Action struct {
	Kind     ActionKind `json:"kind"`
	Identity string     `json:"identity,omitempty"`
}
