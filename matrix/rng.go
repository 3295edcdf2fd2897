// SPDX-License-Identifier: MIT

// Package matrix - deterministic random initialisation.
//
// Goals:
//   - Determinism: same seed ⇒ identical factors across platforms.
//   - Encapsulation: a single RNG factory; no time-based sources hidden anywhere.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Do not share a *rand.Rand across goroutines.

package matrix

import "math/rand"

// DefaultSeed is the fixed seed used when callers pass seed==0.
const DefaultSeed int64 = 1

// NewRand returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ DefaultSeed; otherwise the provided seed verbatim.
func NewRand(seed int64) *rand.Rand {
	s := seed
	if s == 0 {
		s = DefaultSeed
	}

	return rand.New(rand.NewSource(s))
}

// NewRandomPositive returns an r×c matrix with entries drawn uniformly from (0, 1].
// Entries are strictly positive so multiplicative update rules never start on
// an absorbing zero. If rng==nil, the DefaultSeed stream is used.
// Complexity: O(r*c).
func NewRandomPositive(rows, cols int, rng *rand.Rand) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	m.FillRandomPositive(rng)

	return m, nil
}

// FillRandomPositive overwrites every entry with a uniform draw from (0, 1].
func (m *Dense) FillRandomPositive(rng *rand.Rand) {
	r := rng
	if r == nil {
		r = NewRand(0)
	}
	var idx int
	for idx = range m.data {
		m.data[idx] = 1.0 - r.Float64() // Float64 ∈ [0,1) ⇒ (0,1]
	}
}
