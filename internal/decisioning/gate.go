package decisioning

import (
	"github.com/fetcharr/fetcharr/internal/search/types"
)

// DefaultAutoThreshold is the relevance a top result needs before an
// unattended download is triggered. Independent of the confidence filter.
const DefaultAutoThreshold = 0.9

// Decide is the go/no-go gate over a ranked result list. It has no side
// effects; the caller performs the actual retrieval for ActionDownload.
//
// Empty input yields ActionNone. With autoDownload set and the top result's
// relevance at or above autoThreshold the verdict is ActionDownload;
// otherwise the top result is suggested for manual confirmation.
func Decide(ranked []types.EvaluatedRecord, autoDownload bool, autoThreshold float64) types.Action {
	if len(ranked) == 0 {
		return types.Action{Kind: types.ActionNone}
	}

	top := ranked[0]
	if autoDownload && top.RelevanceScore >= autoThreshold {
		return types.Action{Kind: types.ActionDownload, Identity: top.Record.Identity}
	}
	return types.Action{Kind: types.ActionSuggestManual, Identity: top.Record.Identity}
}
