package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/matchbox/internal/core/model"
)

func TestClassify(t *testing.T) {
	forced, forbidden := Classify([]model.BinaryTestResult{
		booth("b1", "A", "X", true),
		booth("b2", "B", "X", false),
		booth("b3", "C", "Y", false),
	})

	assert.Equal(t, model.NewPairSet(pair("A", "X")), forced)
	assert.Equal(t, model.NewPairSet(pair("B", "X"), pair("C", "Y")), forbidden)
}

func TestSolveNight_NoEvidence(t *testing.T) {
	// A-X, B-Y with one light: exactly one of the two couples is correct.
	ev := night("n1", 1, pair("A", "X"), pair("B", "Y"))
	out := SolveNight(ev, model.NewPairSet(), model.NewPairSet())

	assert.False(t, out.Contradiction)
	assert.Equal(t, 0, out.Confirmed)
	assert.Equal(t, 1, out.Remaining)
	assert.Equal(t, [][]model.PairKey{{pair("A", "X")}, {pair("B", "Y")}}, out.Assignments)
}

func TestSolveNight_ConfirmedCoupleConsumesLight(t *testing.T) {
	ev := night("n1", 1, pair("A", "X"), pair("B", "Y"))
	out := SolveNight(ev, model.NewPairSet(pair("A", "X")), model.NewPairSet())

	assert.Equal(t, 1, out.Confirmed)
	assert.Equal(t, 0, out.Remaining)
	assert.Equal(t, [][]model.PairKey{{pair("A", "X")}}, out.Assignments)
}

func TestSolveNight_ForbiddenNeverSelected(t *testing.T) {
	ev := night("n1", 1, pair("A", "X"), pair("B", "Y"), pair("C", "Z"))
	out := SolveNight(ev, model.NewPairSet(), model.NewPairSet(pair("B", "Y")))

	assert.Len(t, out.Assignments, 2)
	for _, a := range out.Assignments {
		assert.NotContains(t, a, pair("B", "Y"))
	}
}

func TestSolveNight_ZeroLights(t *testing.T) {
	ev := night("n1", 0, pair("A", "X"), pair("B", "Y"))
	out := SolveNight(ev, model.NewPairSet(), model.NewPairSet())

	assert.Equal(t, [][]model.PairKey{{}}, out.Assignments)
}

func TestSolveNight_MoreConfirmedThanLights(t *testing.T) {
	ev := night("n7", 0, pair("A", "X"), pair("B", "Y"))
	out := SolveNight(ev, model.NewPairSet(pair("A", "X")), model.NewPairSet())

	assert.True(t, out.Contradiction)
	assert.Equal(t, model.ID("n7"), out.EventID)
	assert.Equal(t, -1, out.Remaining)
	assert.Empty(t, out.Assignments)
}
