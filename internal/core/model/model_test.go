package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCanonicalID(t *testing.T) {
	assert.Equal(t, ID("7"), CanonicalID("7"))
	assert.Equal(t, ID("7"), CanonicalID(" 007 "))
	assert.Equal(t, ID("7"), CanonicalID("7.0"))
	assert.Equal(t, ID("1700000000123"), CanonicalID("1.700000000123e12"))
	assert.Equal(t, ID("2.5"), CanonicalID("2.5"))
	assert.Equal(t, ID("c0ffee-42"), CanonicalID("c0ffee-42"))
	assert.Equal(t, ID(""), CanonicalID("  "))
}

// Season records from the web client mix numeric and string ids and use
// both couple spellings.
const seasonJSON = `{
	"id": 1700000000000,
	"name": "Season 5",
	"candidates": [
		{"id": 1, "name": "Alex", "gender": "Mann"},
		{"id": "2", "name": "Xenia", "gender": "Frau"}
	],
	"matchingNights": [
		{"id": 10, "couples": [{"mann": "1", "frau": 2}], "lights": 1}
	],
	"truthBooths": [
		{"id": 20, "couple": {"man": 1, "woman": "2"}, "is_perfect_match": true}
	]
}`

func TestSeason_UnmarshalJSON(t *testing.T) {
	var s Season
	require.NoError(t, json.Unmarshal([]byte(seasonJSON), &s))

	assert.Equal(t, ID("1700000000000"), s.ID)
	assert.Equal(t, GroupA, s.Contestants[0].Group)
	assert.Equal(t, GroupB, s.Contestants[1].Group)
	assert.Equal(t, PairKey{Man: "1", Woman: "2"}, s.Events[0].Pairs[0])
	assert.Equal(t, s.Events[0].Pairs[0], s.BinaryTests[0].Pair)
	assert.True(t, s.BinaryTests[0].IsConfirmedMatch)
}

func TestSeason_UnmarshalYAML(t *testing.T) {
	doc := `
id: s5
candidates:
  - {id: 1, name: Alex, gender: men}
  - {id: 2, name: Xenia, gender: women}
matchingNights:
  - couples:
      - {mann: 1, frau: 2}
    lights: 1
truthBooths:
  - couple: {man: "01", woman: 2}
    is_perfect_match: false
`
	var s Season
	require.NoError(t, yaml.Unmarshal([]byte(doc), &s))
	s.Normalize()

	assert.Equal(t, ID("night-1"), s.Events[0].ID)
	assert.Equal(t, ID("booth-1"), s.BinaryTests[0].ID)
	assert.Equal(t, PairKey{Man: "1", Woman: "2"}, s.BinaryTests[0].Pair)
	assert.Len(t, s.Men(), 1)
	assert.Len(t, s.Women(), 1)
}

func TestParseGroup(t *testing.T) {
	for _, in := range []string{"Mann", "men", "M", "a"} {
		g, ok := ParseGroup(in)
		assert.True(t, ok, in)
		assert.Equal(t, GroupA, g, in)
	}
	for _, in := range []string{"Frau", "women", "F", "w"} {
		g, ok := ParseGroup(in)
		assert.True(t, ok, in)
		assert.Equal(t, GroupB, g, in)
	}
	_, ok := ParseGroup("other")
	assert.False(t, ok)
	assert.Equal(t, GroupB, GroupA.Other())
}

func TestPairSet_Sorted(t *testing.T) {
	s := NewPairSet(PairKey{"2", "b"}, PairKey{"1", "c"}, PairKey{"1", "a"})
	assert.Equal(t, []PairKey{{"1", "a"}, {"1", "c"}, {"2", "b"}}, s.Sorted())
	assert.True(t, s.Has(PairKey{"1", "c"}))
}

func TestSolution_Pairs(t *testing.T) {
	sol := Solution{"2": "b", "1": "a"}
	assert.Equal(t, []PairKey{{"1", "a"}, {"2", "b"}}, sol.Pairs())
	assert.True(t, sol.Contains(PairKey{"2", "b"}))
	assert.False(t, sol.Contains(PairKey{"2", "a"}))
}
