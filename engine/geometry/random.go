package geometry

import "math/rand/v2"

// DefaultSeed is the seed used by scenes that must look the same on every load.
const DefaultSeed uint32 = 1234567

// Random is the uniform source every generator draws from.
// Implementations return values in [0, 1).
type Random interface {
	Float64() float64
}

// mulberry32 is a tiny 32-bit generator with a single word of state.
type mulberry32 struct {
	state uint32
}

var _ Random = &mulberry32{}

// NewSeeded creates a deterministic generator. Two generators built from the same seed
// yield the same sequence on every platform.
//
// Parameters:
//   - seed: the initial state
//
// Returns:
//   - Random: the seeded generator
func NewSeeded(seed uint32) Random {
	return &mulberry32{state: seed}
}

func (m *mulberry32) Float64() float64 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296
}

// NewUnseeded creates a generator seeded from the runtime's entropy source, for scenes where
// variety between loads is welcome.
//
// Returns:
//   - Random: a fresh PCG generator
func NewUnseeded() Random {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
