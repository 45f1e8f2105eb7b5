package solver

import "github.com/agenthands/matchbox/internal/core/model"

// Classify partitions truth booth results into couples that must appear in
// every solution (forced) and couples that may appear in none (forbidden).
// Conflicting duplicates are not reconciled here; Validate rejects them.
func Classify(results []model.BinaryTestResult) (forced, forbidden model.PairSet) {
	forced = model.NewPairSet()
	forbidden = model.NewPairSet()
	for _, r := range results {
		if r.IsConfirmedMatch {
			forced.Add(r.Pair)
		} else {
			forbidden.Add(r.Pair)
		}
	}
	return forced, forbidden
}
