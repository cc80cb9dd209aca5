// Package rng implements the engine's deterministic 64-bit LCG (spec §4.2).
//
// The step engine seeds one Rng per column per tick so a tick's outcome is a pure
// function of (grid state, tick, material table); see grid's step engine.
package rng

import "github.com/indubitablement2/eos/internal/assert"

const (
	multiplier uint64 = 2862933555777941757
	increment  uint64 = 3037000493

	// ColumnSeedMultiplier is the per-column, per-tick seed multiplier spec §4.2
	// requires: seed = column_idx * tick * ColumnSeedMultiplier.
	ColumnSeedMultiplier uint64 = 6364136223846792969
)

// Rng is a 64-bit linear-congruential generator. The zero value is a valid, if
// predictable, generator; seed it explicitly for meaningful sequences.
type Rng struct {
	state uint64
}

// New returns an Rng seeded with state.
func New(state uint64) Rng {
	return Rng{state: state}
}

// Seed reseeds the generator.
func (r *Rng) Seed(state uint64) {
	r.state = state
}

func (r *Rng) advance() {
	r.state = r.state*multiplier + increment
}

// U32 advances the generator and returns the high 32 bits of the new state.
func (r *Rng) U32() uint32 {
	r.advance()
	return uint32(r.state >> 32)
}

// Bool advances the generator and returns bit 32 of the new state. Each call to
// Bool or U32 performs its own advance, so the two draws never share a state
// word (spec §4.2: "must not alias with u32 output").
func (r *Rng) Bool() bool {
	r.advance()
	return (r.state>>32)&1 != 0
}

// Range returns a uniformly distributed value in [min, max). Panics (debug builds)
// if min >= max.
func (r *Rng) Range(min, max uint32) uint32 {
	assert.That(min < max, "rng: Range requires min < max, got min=%d max=%d", min, max)
	return min + r.U32()%(max-min)
}

// Probability reports whether a fresh draw falls below p interpreted as p/2^32,
// i.e. draw < p. p=0 never fires; p>=2^32-1 fires (effectively) always.
func (r *Rng) Probability(p uint32) bool {
	return r.U32() < p
}
