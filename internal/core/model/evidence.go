package model

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// PairKey identifies one (group A, group B) couple. Two keys are equal iff
// both members match, so PairKey is usable directly as a map key.
type PairKey struct {
	Man   ID `json:"man" yaml:"man"`
	Woman ID `json:"woman" yaml:"woman"`
}

func (p PairKey) String() string { return fmt.Sprintf("%s-%s", p.Man, p.Woman) }

// Less orders keys by man, then woman.
func (p PairKey) Less(o PairKey) bool {
	if p.Man != o.Man {
		return p.Man < o.Man
	}
	return p.Woman < o.Woman
}

// pairWire accepts both spellings found in season records: matching nights
// use mann/frau, truth booths use man/woman.
type pairWire struct {
	Man   ID `json:"man" yaml:"man"`
	Woman ID `json:"woman" yaml:"woman"`
	Mann  ID `json:"mann" yaml:"mann"`
	Frau  ID `json:"frau" yaml:"frau"`
}

func (w pairWire) key() PairKey {
	k := PairKey{Man: w.Man, Woman: w.Woman}
	if k.Man == "" {
		k.Man = w.Mann
	}
	if k.Woman == "" {
		k.Woman = w.Frau
	}
	return k
}

func (p *PairKey) UnmarshalJSON(data []byte) error {
	var w pairWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("invalid couple: %w", err)
	}
	*p = w.key()
	return nil
}

func (p *PairKey) UnmarshalYAML(node *yaml.Node) error {
	var w pairWire
	if err := node.Decode(&w); err != nil {
		return fmt.Errorf("invalid couple at line %d: %w", node.Line, err)
	}
	*p = w.key()
	return nil
}

// PairSet is an unordered set of couples.
type PairSet map[PairKey]struct{}

func NewPairSet(keys ...PairKey) PairSet {
	s := make(PairSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s PairSet) Add(k PairKey) { s[k] = struct{}{} }

func (s PairSet) Has(k PairKey) bool {
	_, ok := s[k]
	return ok
}

// Sorted returns the members in PairKey order.
func (s PairSet) Sorted() []PairKey {
	out := make([]PairKey, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// PairingEvent is a matching night: every listed couple sat together and
// only the number of correct couples (lights) was revealed.
type PairingEvent struct {
	ID           ID        `json:"id" yaml:"id"`
	Pairs        []PairKey `json:"couples" yaml:"couples"`
	CorrectCount int       `json:"lights" yaml:"lights"`
}

// BinaryTestResult is a truth booth / match box outcome for one couple.
type BinaryTestResult struct {
	ID               ID      `json:"id" yaml:"id"`
	Pair             PairKey `json:"couple" yaml:"couple"`
	IsConfirmedMatch bool    `json:"is_perfect_match" yaml:"is_perfect_match"`
}

// Season is the read-only evidence snapshot the engine works on.
type Season struct {
	ID          ID                 `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Contestants []Contestant       `json:"candidates" yaml:"candidates"`
	Events      []PairingEvent     `json:"matchingNights" yaml:"matchingNights"`
	BinaryTests []BinaryTestResult `json:"truthBooths" yaml:"truthBooths"`
}

// Normalize fills in missing evidence ids with positional ones so every
// contradiction can be tied back to a record. It is deterministic and
// idempotent.
func (s *Season) Normalize() {
	for i := range s.Events {
		if s.Events[i].ID == "" {
			s.Events[i].ID = ID(fmt.Sprintf("night-%d", i+1))
		}
	}
	for i := range s.BinaryTests {
		if s.BinaryTests[i].ID == "" {
			s.BinaryTests[i].ID = ID(fmt.Sprintf("booth-%d", i+1))
		}
	}
}

// Men returns group A contestants in record order.
func (s *Season) Men() []Contestant { return s.byGroup(GroupA) }

// Women returns group B contestants in record order.
func (s *Season) Women() []Contestant { return s.byGroup(GroupB) }

func (s *Season) byGroup(g Group) []Contestant {
	var out []Contestant
	for _, c := range s.Contestants {
		if c.Group == g {
			out = append(out, c)
		}
	}
	return out
}
