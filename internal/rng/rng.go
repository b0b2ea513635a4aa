// Package rng provides the seedable 32-bit Mersenne Twister used for mine placement.
package rng

import "time"

const (
	stateSize  = 624
	shift      = 397
	matrixA    = 0x9908b0df
	upperMask  = 0x80000000
	lowerMask  = 0x7fffffff
	initFactor = 1812433253
)

// Source is an MT19937 generator. The zero value is not usable; call New.
type Source struct {
	mt  [stateSize]uint32
	idx int
}

// New returns a Source seeded with seed.
func New(seed uint32) *Source {
	s := &Source{}
	s.Seed(seed)
	return s
}

// Seed resets the generator so that it replays the sequence for seed.
func (s *Source) Seed(seed uint32) {
	s.mt[0] = seed
	for i := 1; i < stateSize; i++ {
		prev := s.mt[i-1]
		s.mt[i] = initFactor*(prev^(prev>>30)) + uint32(i)
	}
	s.idx = stateSize
}

// Uint32 returns the next pseudo-random value and advances the state.
func (s *Source) Uint32() uint32 {
	if s.idx >= stateSize {
		s.twist()
	}

	y := s.mt[s.idx]
	s.idx++

	// Tempering
	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// twist regenerates the whole state block.
func (s *Source) twist() {
	for i := 0; i < stateSize; i++ {
		y := (s.mt[i] & upperMask) | (s.mt[(i+1)%stateSize] & lowerMask)
		next := s.mt[(i+shift)%stateSize] ^ (y >> 1)
		if y&1 != 0 {
			next ^= matrixA
		}
		s.mt[i] = next
	}
	s.idx = 0
}

// TimeSeed derives a seed from the wall clock, keeping the low 32 bits of
// the Unix time in milliseconds.
func TimeSeed(t time.Time) uint32 {
	return uint32(t.UnixMilli())
}
