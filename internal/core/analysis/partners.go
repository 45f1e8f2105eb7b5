// Package analysis derives per-contestant conclusions from solver output.
package analysis

import (
	"fmt"
	"sort"

	"github.com/agenthands/matchbox/internal/core/model"
	"github.com/agenthands/matchbox/internal/core/solver"
)

// AnalyzePartnerPossibilities lists, for every contestant, the partners that
// remain possible across the given solutions. Truth booth confirmations
// override whatever the solutions say; a single remaining solution makes
// every contestant it maps certain. Contestants left without any possible
// partner are reported as contradictions. Inputs are not modified.
func AnalyzePartnerPossibilities(season *model.Season, solutions []model.Solution) *model.Analysis {
	forced, forbidden := solver.Classify(season.BinaryTests)

	men := season.Men()
	women := season.Women()
	out := &model.Analysis{
		Men:            make(map[model.ID]*model.PartnerAnalysis, len(men)),
		Women:          make(map[model.ID]*model.PartnerAnalysis, len(women)),
		Contradictions: []model.Contradiction{},
	}

	possible := make(map[model.ID]map[model.ID]struct{}, len(men)+len(women))
	for _, c := range men {
		out.Men[c.ID] = &model.PartnerAnalysis{ID: c.ID, Name: c.Name}
		possible[c.ID] = make(map[model.ID]struct{})
	}
	for _, c := range women {
		out.Women[c.ID] = &model.PartnerAnalysis{ID: c.ID, Name: c.Name}
		possible[c.ID] = make(map[model.ID]struct{})
	}

	for _, sol := range solutions {
		for man, woman := range sol {
			if forbidden.Has(model.PairKey{Man: man, Woman: woman}) {
				continue
			}
			if _, ok := out.Men[man]; ok {
				possible[man][woman] = struct{}{}
			}
			if _, ok := out.Women[woman]; ok {
				possible[woman][man] = struct{}{}
			}
		}
	}

	for _, k := range forced.Sorted() {
		if m, ok := out.Men[k.Man]; ok {
			possible[k.Man] = map[model.ID]struct{}{k.Woman: {}}
			m.CertainPartner = idPtr(k.Woman)
		}
		if w, ok := out.Women[k.Woman]; ok {
			possible[k.Woman] = map[model.ID]struct{}{k.Man: {}}
			w.CertainPartner = idPtr(k.Man)
		}
	}

	if len(solutions) == 1 {
		for man, woman := range solutions[0] {
			if m, ok := out.Men[man]; ok {
				m.CertainPartner = idPtr(woman)
			}
			if w, ok := out.Women[woman]; ok {
				w.CertainPartner = idPtr(man)
			}
		}
	}

	collect := func(group model.Group, cs []model.Contestant, into map[model.ID]*model.PartnerAnalysis) {
		for _, c := range cs {
			pa := into[c.ID]
			pa.PossiblePartners = sortedIDs(possible[c.ID])
			if len(pa.PossiblePartners) == 0 {
				out.Contradictions = append(out.Contradictions, model.Contradiction{
					Type:         model.ContradictionNoPartner,
					ContestantID: c.ID,
					Name:         c.Name,
					Group:        group,
					Message:      fmt.Sprintf("%s has no possible partner left; the recorded evidence is contradictory", displayName(c)),
				})
			}
		}
	}
	collect(model.GroupA, men, out.Men)
	collect(model.GroupB, women, out.Women)

	return out
}

func idPtr(id model.ID) *model.ID { return &id }

func sortedIDs(set map[model.ID]struct{}) []model.ID {
	out := make([]model.ID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func displayName(c model.Contestant) string {
	if c.Name != "" {
		return c.Name
	}
	return string(c.ID)
}
