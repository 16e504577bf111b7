package engine

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// defaultSeed replaces a zero seed, which would lock xorshift at zero forever.
const defaultSeed uint64 = 88172645463325252

// IDGenerator mints identifiers for falling cells and blocks.
// The RNG satisfies it; tests may substitute a scripted sequence.
type IDGenerator interface {
	GenerateID() string
}

// RNG is a deterministic pseudo-random number generator (xorshift64).
// Its output is a pure function of the seed and the number of prior calls.
type RNG struct {
	Seed  uint64 `json:"seed"`
	Value uint64 `json:"state"`
}

// NewRNG creates a new RNG with the given seed.
func NewRNG(seed uint64) RNG {
	if seed == 0 {
		seed = defaultSeed
	}
	return RNG{Seed: seed, Value: seed}
}

// SeedFromString converts a user-supplied seed into a numeric one.
// Decimal strings are used verbatim, anything else is hashed with FNV-1a.
func SeedFromString(s string) uint64 {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n
	}
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

// advance steps the generator and returns the new state.
func (r *RNG) advance() uint64 {
	if r.Value == 0 {
		r.Value = defaultSeed
	}
	r.Value ^= r.Value << 13
	r.Value ^= r.Value >> 7
	r.Value ^= r.Value << 17
	return r.Value
}

// Next returns a float64 in [0, 1) built from the top 53 bits.
func (r *RNG) Next() float64 {
	return float64(r.advance()>>11) / (1 << 53)
}

// NextInt returns an int in [0, max). Returns 0 when max <= 0.
func (r *RNG) NextInt(max int) int {
	if max <= 0 {
		return 0
	}
	return int(r.advance() % uint64(max))
}

// GenerateID returns an identifier derived from the next state.
// States never repeat within the generator's period, so ids are unique per run.
func (r *RNG) GenerateID() string {
	return strconv.FormatUint(r.advance(), 36)
}

// State returns the current internal state for checkpointing.
func (r *RNG) State() uint64 {
	return r.Value
}

// SetState restores a state previously returned by State.
func (r *RNG) SetState(n uint64) {
	r.Value = n
}

// Reset rewinds the generator to its original seed.
func (r *RNG) Reset() {
	r.Value = r.Seed
}

// Clone returns an independent generator at the same position.
func (r *RNG) Clone() RNG {
	return RNG{Seed: r.Seed, Value: r.Value}
}

// Choice returns a uniformly chosen element of items.
// Panics on an empty slice, like indexing would.
func Choice[T any](r *RNG, items []T) T {
	return items[r.NextInt(len(items))]
}
