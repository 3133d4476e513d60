package core

import "math/rand/v2"

// Source is the random stream consumed by the simulation. Implementations
// return a value in [0, n) for n > 0.
type Source interface {
	IntN(n int) int
}

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// IntN returns a random int in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// Float32Range returns a random float32 in [lo, hi).
func (r *RNG) Float32Range(lo, hi float32) float32 {
	if hi <= lo {
		return lo
	}
	return lo + r.r.Float32()*(hi-lo)
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }

// Chance reports true with probability num/den.
func Chance(src Source, num, den int) bool {
	return src.IntN(den) < num
}

// Side returns -1 or 1 with equal probability.
func Side(src Source) int {
	if src.IntN(2) == 0 {
		return -1
	}
	return 1
}

// Pick returns a uniformly chosen element of vals.
func Pick(src Source, vals []int) int {
	return vals[src.IntN(len(vals))]
}

// Shuffle permutes vals in place, walking from the back and swapping each
// slot with a uniformly chosen slot at or before it.
func Shuffle(src Source, vals []int) {
	for i := len(vals) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		vals[i], vals[j] = vals[j], vals[i]
	}
}
