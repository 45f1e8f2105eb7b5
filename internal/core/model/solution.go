package model

import "sort"

// Solution maps group A contestant ids to group B contestant ids. It may be
// partial: contestants the evidence does not pin down are absent.
type Solution map[ID]ID

// Pairs returns the solution as sorted couples.
func (s Solution) Pairs() []PairKey {
	out := make([]PairKey, 0, len(s))
	for man, woman := range s {
		out = append(out, PairKey{Man: man, Woman: woman})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (s Solution) Contains(p PairKey) bool {
	w, ok := s[p.Man]
	return ok && w == p.Woman
}

type PartnerAnalysis struct {
	ID               ID     `json:"id"`
	Name             string `json:"name"`
	PossiblePartners []ID   `json:"possiblePartners"`
	CertainPartner   *ID    `json:"certainPartner"`
}

const ContradictionNoPartner = "no_partner"

// Contradiction is a reported outcome, not an error: the contestant has no
// partner left under the given evidence.
type Contradiction struct {
	Type         string `json:"type"`
	ContestantID ID     `json:"contestantId"`
	Name         string `json:"name"`
	Group        Group  `json:"gender"`
	Message      string `json:"message"`
}

type Analysis struct {
	Men            map[ID]*PartnerAnalysis `json:"men"`
	Women          map[ID]*PartnerAnalysis `json:"women"`
	Contradictions []Contradiction         `json:"contradictions"`
}

type PairProbability struct {
	Pair        PairKey `json:"couple"`
	Count       int     `json:"count"`
	Probability float64 `json:"probability"`
	Confirmed   bool    `json:"confirmed"`
}
