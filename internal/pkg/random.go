package pkg

import (
	"math/rand/v2"
	"time"
)

// pcgIncrement is the second PCG word; the seed picks the position in the stream.
const pcgIncrement = 0x9e3779b97f4a7c15

// NewRand returns the single random stream a run draws from. A zero seed is replaced by one
// derived from the clock, which makes the run non-reproducible.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint: gosec // it's ok
	}

	return rand.New(rand.NewPCG(seed, pcgIncrement)) //nolint: gosec // it's ok
}
