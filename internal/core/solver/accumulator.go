package solver

import (
	"context"
	"fmt"
	"math/bits"
	"sort"

	"github.com/agenthands/matchbox/internal/core/model"
)

// How many merges run between context checks.
const cancelCheckInterval = 4096

// pairIndex interns couples and contestants into dense bit positions.
type pairIndex struct {
	keys  []model.PairKey
	pos   map[model.PairKey]int
	men   map[model.ID]int
	women map[model.ID]int
}

func newPairIndex() *pairIndex {
	return &pairIndex{
		pos:   make(map[model.PairKey]int),
		men:   make(map[model.ID]int),
		women: make(map[model.ID]int),
	}
}

func (x *pairIndex) intern(k model.PairKey) (pair, man, woman int) {
	p, ok := x.pos[k]
	if !ok {
		p = len(x.keys)
		x.keys = append(x.keys, k)
		x.pos[k] = p
	}
	m, ok := x.men[k.Man]
	if !ok {
		m = len(x.men)
		x.men[k.Man] = m
	}
	w, ok := x.women[k.Woman]
	if !ok {
		w = len(x.women)
		x.women[k.Woman] = w
	}
	return p, m, w
}

// assignment is a set of couples declared correct, together with the
// contestants it uses on each side.
type assignment struct {
	pairs bitset
	men   bitset
	women bitset
}

// build returns false when keys put one contestant into two couples.
func (x *pairIndex) build(keys []model.PairKey) (assignment, bool) {
	var a assignment
	for _, k := range keys {
		p, m, w := x.intern(k)
		a.pairs = a.pairs.with(p)
		a.men = a.men.with(m)
		a.women = a.women.with(w)
	}
	return a, a.injective()
}

// injective holds iff no contestant appears in two different couples. Every
// couple contributes exactly one man and one woman, so the three counts agree
// exactly when nobody is shared.
func (a assignment) injective() bool {
	n := a.pairs.count()
	return a.men.count() == n && a.women.count() == n
}

func (a assignment) merge(b assignment) (assignment, bool) {
	m := assignment{
		pairs: a.pairs.union(b.pairs),
		men:   a.men.union(b.men),
		women: a.women.union(b.women),
	}
	return m, m.injective()
}

func (x *pairIndex) decode(a assignment) []model.PairKey {
	out := make([]model.PairKey, 0, a.pairs.count())
	a.pairs.forEach(func(i int) { out = append(out, x.keys[i]) })
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// lightCount requires an assignment to hold exactly want couples of one
// night. Merging only adds couples, so once exceeded it stays exceeded.
type lightCount struct {
	pairs bitset
	want  int
}

func (c lightCount) holds(a assignment) bool {
	n := 0
	for i, w := range c.pairs {
		if i < len(a.pairs) {
			n += bits.OnesCount64(w & a.pairs[i])
		}
	}
	return n == c.want
}

// Accumulator folds per-night assignment sets into the global set of
// consistent pairings. Merged assignments that reuse a contestant, or that
// declare more couples of a constrained night correct than it had lights,
// are discarded at every step. Equal assignments are kept once, so the fold
// result does not depend on night order. An Accumulator is not safe for
// concurrent use.
type Accumulator struct {
	index  *pairIndex
	sets   []assignment
	counts []lightCount
	max    int
	peak   int
	pruned int
}

// NewAccumulator seeds the fold with the forced couples. maxAssignments caps
// the accumulated set size; zero means unbounded. Forced couples that share a
// contestant leave the accumulator empty.
func NewAccumulator(forced model.PairSet, maxAssignments int) *Accumulator {
	a := &Accumulator{index: newPairIndex(), max: maxAssignments}
	if seed, ok := a.index.build(forced.Sorted()); ok {
		a.sets = []assignment{seed}
	} else {
		a.pruned++
	}
	a.peak = len(a.sets)
	return a
}

// Constrain registers a night's couples and light count. It is checked on
// every later merge.
func (a *Accumulator) Constrain(pairs []model.PairKey, lights int) {
	var c lightCount
	for _, k := range pairs {
		p, _, _ := a.index.intern(k)
		c.pairs = c.pairs.with(p)
	}
	c.want = lights
	a.counts = append(a.counts, c)
}

func (a *Accumulator) admits(m assignment) bool {
	for _, c := range a.counts {
		if !c.holds(m) {
			return false
		}
	}
	return true
}

// Fold merges every accumulated assignment with every assignment of one
// night. On error the accumulator keeps its previous state.
func (a *Accumulator) Fold(ctx context.Context, night [][]model.PairKey) error {
	if len(a.sets) == 0 {
		return nil
	}

	nightSets := make([]assignment, 0, len(night))
	for _, keys := range night {
		s, ok := a.index.build(keys)
		if !ok {
			a.pruned++
			continue
		}
		nightSets = append(nightSets, s)
	}

	next := make([]assignment, 0, len(a.sets))
	seen := make(map[string]struct{}, len(a.sets))
	pruned := 0
	steps := 0
	for _, acc := range a.sets {
		for _, n := range nightSets {
			steps++
			if steps%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return fmt.Errorf("fold interrupted: %w", err)
				}
			}

			merged, ok := acc.merge(n)
			if !ok || !a.admits(merged) {
				pruned++
				continue
			}
			key := merged.pairs.key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			next = append(next, merged)
			if a.max > 0 && len(next) > a.max {
				return fmt.Errorf("%w: more than %d after merge", ErrTooManyAssignments, a.max)
			}
		}
	}

	a.sets = next
	a.pruned += pruned
	if len(next) > a.peak {
		a.peak = len(next)
	}
	return nil
}

func (a *Accumulator) Len() int { return len(a.sets) }

// Peak is the largest accumulated set size seen so far.
func (a *Accumulator) Peak() int { return a.peak }

// Pruned counts merges discarded by either filter.
func (a *Accumulator) Pruned() int { return a.pruned }

// Assignments returns the accumulated couples in a deterministic order.
func (a *Accumulator) Assignments() [][]model.PairKey {
	out := make([][]model.PairKey, 0, len(a.sets))
	for _, s := range a.sets {
		out = append(out, a.index.decode(s))
	}
	sort.Slice(out, func(i, j int) bool { return lessPairs(out[i], out[j]) })
	return out
}

// Solutions projects the accumulated assignments into man -> woman maps.
func (a *Accumulator) Solutions() []model.Solution {
	assignments := a.Assignments()
	out := make([]model.Solution, 0, len(assignments))
	for _, keys := range assignments {
		sol := make(model.Solution, len(keys))
		for _, k := range keys {
			sol[k.Man] = k.Woman
		}
		out = append(out, sol)
	}
	return out
}

func lessPairs(a, b []model.PairKey) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i].Less(b[i])
		}
	}
	return len(a) < len(b)
}
