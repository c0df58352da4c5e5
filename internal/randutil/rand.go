// Package randutil builds reproducible random sources for decks and bots.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed. The same seed
// always produces the same shuffles, which is what scenario tests and
// simulator replays rely on.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewSeed returns a seed derived from the wall clock.
func NewSeed() int64 {
	return time.Now().UnixNano()
}

// Resolve returns *seed when set, otherwise a fresh clock seed. The chosen
// seed is returned so callers can log it for replay.
func Resolve(seed *int64) (*rand.Rand, int64) {
	s := NewSeed()
	if seed != nil {
		s = *seed
	}
	return New(s), s
}

// Between returns a uniform integer in [lo, hi].
func Between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// splitmix64 finaliser
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
