// Package decisioning filters, ranks, and gates evaluated search results.
package decisioning

import (
	"math"
	"sort"

	"github.com/fetcharr/fetcharr/internal/search/types"
)

// Rank filters out results below the confidence threshold (inclusive
// boundary keeps the result) and sorts the remainder descending by relevance.
// The sort is stable: exact relevance ties keep the evaluator's order. NaN
// relevance sorts after every valid score instead of breaking the sort.
func Rank(evaluated []types.EvaluatedRecord, minConfidence float64) []types.EvaluatedRecord {
	ranked := make([]types.EvaluatedRecord, 0, len(evaluated))
	for _, er := range evaluated {
		if er.Confidence >= minConfidence {
			ranked = append(ranked, er)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return relevanceLess(ranked[j].RelevanceScore, ranked[i].RelevanceScore)
	})

	return ranked
}

// relevanceLess orders scores ascending with NaN below everything, so the
// descending sort above pushes NaN to the end.
func relevanceLess(a, b float64) bool {
	if math.IsNaN(a) {
		return !math.IsNaN(b)
	}
	if math.IsNaN(b) {
		return false
	}
	return a < b
}
