package solver

import (
	"github.com/agenthands/matchbox/internal/core/model"
)

// Validate checks the structural integrity of a season snapshot and returns
// the first defect found as a *ValidationError. It does not judge whether
// the evidence is logically consistent; that is the solver's job.
//
// Events are only required to be injective, not to cover every contestant:
// nights recorded after a confirmed match usually leave that couple out.
func Validate(season *model.Season) error {
	groups := make(map[model.ID]model.Group, len(season.Contestants))
	for _, c := range season.Contestants {
		if _, dup := groups[c.ID]; dup {
			return invalid(KindDuplicateContestantID, string(c.ID), "contestant id listed twice")
		}
		if !c.Group.Valid() {
			return invalid(KindUnknownGroup, string(c.ID), "unrecognized group %q", c.Group)
		}
		groups[c.ID] = c.Group
	}

	checkPair := func(subject string, k model.PairKey) error {
		for _, side := range []struct {
			id   model.ID
			want model.Group
		}{{k.Man, model.GroupA}, {k.Woman, model.GroupB}} {
			got, ok := groups[side.id]
			if !ok {
				return invalid(KindUnknownContestant, subject, "couple %s references unknown contestant %q", k, side.id)
			}
			if got != side.want {
				return invalid(KindWrongGroup, subject, "couple %s expects %q in %s, found %s", k, side.id, side.want, got)
			}
		}
		return nil
	}

	for _, ev := range season.Events {
		subject := "night " + string(ev.ID)
		men := make(map[model.ID]struct{}, len(ev.Pairs))
		women := make(map[model.ID]struct{}, len(ev.Pairs))
		for _, k := range ev.Pairs {
			if err := checkPair(subject, k); err != nil {
				return err
			}
			if _, dup := men[k.Man]; dup {
				return invalid(KindDuplicateContestantInEvent, subject, "%q sits in two couples", k.Man)
			}
			if _, dup := women[k.Woman]; dup {
				return invalid(KindDuplicateContestantInEvent, subject, "%q sits in two couples", k.Woman)
			}
			men[k.Man] = struct{}{}
			women[k.Woman] = struct{}{}
		}
		if ev.CorrectCount < 0 || ev.CorrectCount > len(ev.Pairs) {
			return invalid(KindCorrectCountOutOfRange, subject, "%d lights for %d couples", ev.CorrectCount, len(ev.Pairs))
		}
	}

	verdicts := make(map[model.PairKey]bool, len(season.BinaryTests))
	confirmedMan := make(map[model.ID]model.PairKey)
	confirmedWoman := make(map[model.ID]model.PairKey)
	for _, bt := range season.BinaryTests {
		subject := "truth booth " + string(bt.ID)
		if err := checkPair(subject, bt.Pair); err != nil {
			return err
		}
		if prev, seen := verdicts[bt.Pair]; seen && prev != bt.IsConfirmedMatch {
			return invalid(KindConflictingBinaryResults, subject, "couple %s is both confirmed and denied", bt.Pair)
		}
		verdicts[bt.Pair] = bt.IsConfirmedMatch
		if !bt.IsConfirmedMatch {
			continue
		}
		if other, ok := confirmedMan[bt.Pair.Man]; ok && other != bt.Pair {
			return invalid(KindAmbiguousForcedPairs, subject, "%q confirmed with both %s and %s", bt.Pair.Man, other, bt.Pair)
		}
		if other, ok := confirmedWoman[bt.Pair.Woman]; ok && other != bt.Pair {
			return invalid(KindAmbiguousForcedPairs, subject, "%q confirmed with both %s and %s", bt.Pair.Woman, other, bt.Pair)
		}
		confirmedMan[bt.Pair.Man] = bt.Pair
		confirmedWoman[bt.Pair.Woman] = bt.Pair
	}
	return nil
}
