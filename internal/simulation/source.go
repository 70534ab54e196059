package simulation

import (
	"math/rand/v2"
)

// RandomSource yields independent uniform draws in [0, 1).
// *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewSource returns a PCG generator for the given seed and stream.
// Distinct streams under one seed are independent.
func NewSource(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// RandomSeed returns a fresh seed from the runtime's randomly seeded generator.
func RandomSeed() uint64 {
	return rand.Uint64()
}

// SequenceSource replays a fixed list of draws, wrapping around at the end.
// It is not safe for concurrent use.
type SequenceSource struct {
	draws []float64
	next  int
}

// NewSequenceSource creates a SequenceSource over draws.
// Panics if draws is empty.
func NewSequenceSource(draws ...float64) *SequenceSource {
	if len(draws) == 0 {
		panic("simulation: empty draw sequence")
	}
	cp := make([]float64, len(draws))
	copy(cp, draws)
	return &SequenceSource{draws: cp}
}

// Float64 returns the next draw.
func (s *SequenceSource) Float64() float64 {
	r := s.draws[s.next]
	s.next = (s.next + 1) % len(s.draws)
	return r
}
