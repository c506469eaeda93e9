package montecarlo

import "math/rand"

// Source is the random source a simulator draws from. It is a value
// seeded once per location and passed into each trial — never a shared
// global — so the draw sequence is fixed by the simulator's documented
// call order and is independent of any other concurrently running
// location.
type Source struct {
	rng *rand.Rand
}

// NewSource creates a source from a derived local seed.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Uniform draws a real number uniformly from [lo, hi). This is the sole
// operation simulators require.
func (s *Source) Uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}
