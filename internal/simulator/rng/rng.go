// Package rng is the simulator's single source of stochastic draws (C1).
// Every exponential and uniform decision in the engine and placement
// packages goes through one *Source so that a seed fully
// determines a run.
package rng

import (
	"math/rand"
	"time"
)

// Source is a seeded random source. It is not safe for concurrent use —
// the scheduler is single-threaded and owns the only instance.
type Source struct {
	r        *rand.Rand
	seeded   bool
	seedUsed int64
}

// New creates a Source. When seed is nil the run is non-reproducible and
// seeds from the current time, per spec.
func New(seed *int64) *Source {
	var s int64
	if seed != nil {
		s = *seed
	} else {
		s = time.Now().UnixNano()
	}
	return &Source{r: rand.New(rand.NewSource(s)), seeded: seed != nil, seedUsed: s}
}

// Seeded reports whether the source was constructed with an explicit seed.
func (s *Source) Seeded() bool { return s.seeded }

// Expo draws from an exponential distribution with the given mean
// ("scale", in numpy's np.random.exponential(scale) convention — the
// Python original samples durations as
// np.random.exponential(1/mu), i.e. mean 1/mu). A caller wanting a
// distribution with rate r should pass 1/r.
func (s *Source) Expo(mean float64) float64 {
	return s.r.ExpFloat64() * mean
}

// UniformChoice returns an index in [0, n) chosen uniformly at random.
// Panics if n <= 0 — callers must not call this with an empty candidate set.
func (s *Source) UniformChoice(n int) int {
	if n <= 0 {
		panic("rng: UniformChoice called with n <= 0")
	}
	return s.r.Intn(n)
}
