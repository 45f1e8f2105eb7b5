package solver

import "math"

// Combinations returns every k-element subset of items, each exactly once,
// in lexicographic index order. Items are assumed pairwise distinct.
// k == 0 yields a single empty subset; k > len(items) yields none.
func Combinations[T any](items []T, k int) [][]T {
	n := len(items)
	if k < 0 || k > n {
		return nil
	}
	if k == 0 {
		return [][]T{{}}
	}

	out := make([][]T, 0, clampInt(Binomial(n, k)))
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]T, k)
		for i, j := range idx {
			combo[i] = items[j]
		}
		out = append(out, combo)

		// Advance the rightmost index that still has room.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// Binomial returns C(n, k), saturating at math.MaxInt64.
func Binomial(n, k int) int64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	var r int64 = 1
	for i := 1; i <= k; i++ {
		num := int64(n - k + i)
		// r * num / i stays integral at each step.
		if r > math.MaxInt64/num {
			return math.MaxInt64
		}
		r = r * num / int64(i)
	}
	return r
}

func clampInt(v int64) int {
	const maxPrealloc = 1 << 16
	if v > maxPrealloc {
		return maxPrealloc
	}
	return int(v)
}
