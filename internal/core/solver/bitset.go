package solver

import (
	"encoding/binary"
	"math/bits"
)

// bitset is a growable set of small non-negative integers.
type bitset []uint64

func (b bitset) with(i int) bitset {
	w := i / 64
	if w >= len(b) {
		grown := make(bitset, w+1)
		copy(grown, b)
		b = grown
	}
	b[w] |= 1 << (uint(i) % 64)
	return b
}

func (b bitset) has(i int) bool {
	w := i / 64
	return w < len(b) && b[w]&(1<<(uint(i)%64)) != 0
}

func (b bitset) union(o bitset) bitset {
	long, short := b, o
	if len(short) > len(long) {
		long, short = short, long
	}
	out := make(bitset, len(long))
	copy(out, long)
	for i, w := range short {
		out[i] |= w
	}
	return out.trim()
}

func (b bitset) count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

func (b bitset) forEach(fn func(i int)) {
	for wi, w := range b {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			fn(wi*64 + tz)
			w &= w - 1
		}
	}
}

// trim drops trailing zero words so equal sets share one key.
func (b bitset) trim() bitset {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return b[:n]
}

func (b bitset) key() string {
	buf := make([]byte, 0, len(b)*8)
	for _, w := range b.trim() {
		buf = binary.LittleEndian.AppendUint64(buf, w)
	}
	return string(buf)
}
