package analysis

import (
	"sort"

	"github.com/agenthands/matchbox/internal/core/model"
	"github.com/agenthands/matchbox/internal/core/solver"
)

// Probabilities scores every couple that appeared in a matching night or a
// truth booth by the share of solutions containing it, in percent. Confirmed
// couples are pinned at 100. With no solutions every unconfirmed couple
// scores 0. Results are ordered by probability, highest first.
func Probabilities(season *model.Season, solutions []model.Solution) []model.PairProbability {
	forced, _ := solver.Classify(season.BinaryTests)

	seen := model.NewPairSet()
	var observed []model.PairKey
	note := func(k model.PairKey) {
		if !seen.Has(k) {
			seen.Add(k)
			observed = append(observed, k)
		}
	}
	for _, ev := range season.Events {
		for _, k := range ev.Pairs {
			note(k)
		}
	}
	for _, bt := range season.BinaryTests {
		note(bt.Pair)
	}

	out := make([]model.PairProbability, 0, len(observed))
	for _, k := range observed {
		p := model.PairProbability{Pair: k}
		for _, sol := range solutions {
			if sol.Contains(k) {
				p.Count++
			}
		}
		if len(solutions) > 0 {
			p.Probability = 100 * float64(p.Count) / float64(len(solutions))
		}
		if forced.Has(k) {
			p.Confirmed = true
			p.Probability = 100
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return out[i].Pair.Less(out[j].Pair)
	})
	return out
}
