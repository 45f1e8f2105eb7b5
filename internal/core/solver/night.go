package solver

import "github.com/agenthands/matchbox/internal/core/model"

// NightOutcome is the result of solving one matching night in isolation.
// Either Contradiction is set, or Assignments lists every way the night's
// lights can be explained: each assignment is the subset of this night's
// couples declared correct.
type NightOutcome struct {
	EventID       model.ID
	CorrectCount  int
	Confirmed     int
	Remaining     int
	Contradiction bool
	Assignments   [][]model.PairKey
}

type nightPlan struct {
	confirmed []model.PairKey // night couples already proven by a truth booth
	open      []model.PairKey // night couples that might or might not be correct
	remaining int
}

func planNight(event model.PairingEvent, forced, forbidden model.PairSet) nightPlan {
	var p nightPlan
	for _, k := range event.Pairs {
		switch {
		case forbidden.Has(k):
			// a denied couple can never be one of the lights
		case forced.Has(k):
			p.confirmed = append(p.confirmed, k)
		default:
			p.open = append(p.open, k)
		}
	}
	p.remaining = event.CorrectCount - len(p.confirmed)
	return p
}

// size is the number of assignments the night will produce.
func (p nightPlan) size() int64 {
	if p.remaining < 0 {
		return 0
	}
	return Binomial(len(p.open), p.remaining)
}

// SolveNight enumerates the assignments consistent with one night, given the
// truth booth evidence. A night whose confirmed couples already exceed its
// lights is reported as a contradiction with no assignments.
func SolveNight(event model.PairingEvent, forced, forbidden model.PairSet) NightOutcome {
	return planNight(event, forced, forbidden).outcome(event)
}

func (p nightPlan) outcome(event model.PairingEvent) NightOutcome {
	out := NightOutcome{
		EventID:      event.ID,
		CorrectCount: event.CorrectCount,
		Confirmed:    len(p.confirmed),
		Remaining:    p.remaining,
	}
	if p.remaining < 0 {
		out.Contradiction = true
		return out
	}

	combos := Combinations(p.open, p.remaining)
	out.Assignments = make([][]model.PairKey, 0, len(combos))
	for _, c := range combos {
		a := make([]model.PairKey, 0, len(p.confirmed)+len(c))
		a = append(a, p.confirmed...)
		a = append(a, c...)
		out.Assignments = append(out.Assignments, a)
	}
	return out
}
