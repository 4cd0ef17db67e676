package board

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

// RandomSource supplies the randomness used to place and value new tiles.
type RandomSource interface {
	// Intn returns a uniform integer in [0, n).
	Intn(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// frandSource draws from frand's process-wide generator. It is safe for
// concurrent use and cannot be seeded.
type frandSource struct{}

func (frandSource) Intn(n int) int    { return frand.Intn(n) }
func (frandSource) Float64() float64 { return frand.Float64() }

// DefaultSource returns the unseeded source used when none is injected.
func DefaultSource() RandomSource {
	return frandSource{}
}

// NewSeededSource returns a deterministic source for replays and tests.
// The same seed always yields the same sequence. Not safe for concurrent use.
func NewSeededSource(seed int64) RandomSource {
	key := make([]byte, 32)
	binary.LittleEndian.PutUint64(key, uint64(seed))
	return frand.NewCustom(key, 1024, 12)
}
