package solver

import "github.com/agenthands/matchbox/internal/core/model"

func pair(man, woman string) model.PairKey {
	return model.PairKey{Man: model.ID(man), Woman: model.ID(woman)}
}

func night(id string, lights int, pairs ...model.PairKey) model.PairingEvent {
	return model.PairingEvent{ID: model.ID(id), Pairs: pairs, CorrectCount: lights}
}

func booth(id, man, woman string, match bool) model.BinaryTestResult {
	return model.BinaryTestResult{ID: model.ID(id), Pair: pair(man, woman), IsConfirmedMatch: match}
}

func newSeason(men, women []string, nights []model.PairingEvent, booths []model.BinaryTestResult) *model.Season {
	s := &model.Season{ID: "s1", Name: "test season", Events: nights, BinaryTests: booths}
	for _, m := range men {
		s.Contestants = append(s.Contestants, model.Contestant{ID: model.ID(m), Name: "Mr " + m, Group: model.GroupA})
	}
	for _, w := range women {
		s.Contestants = append(s.Contestants, model.Contestant{ID: model.ID(w), Name: "Ms " + w, Group: model.GroupB})
	}
	return s
}

func sol(pairs ...model.PairKey) model.Solution {
	s := model.Solution{}
	for _, p := range pairs {
		s[p.Man] = p.Woman
	}
	return s
}
