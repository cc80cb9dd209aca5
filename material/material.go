// Package material implements the material catalog and reaction table (spec
// §3, §4.4): physical parameters per material plus an upper-triangular,
// O(1)-lookup reaction table keyed by (lo, hi-lo).
package material

import (
	"fmt"
	"strings"

	"github.com/indubitablement2/eos/internal/assert"
	"github.com/indubitablement2/eos/rng"
)

// Movement selects a material's fall/flow/rise rule.
type Movement uint8

const (
	Solid Movement = iota
	Powder
	Liquid
	Gas
)

func (m Movement) String() string {
	switch m {
	case Solid:
		return "SOLID"
	case Powder:
		return "POWDER"
	case Liquid:
		return "LIQUID"
	case Gas:
		return "GAS"
	default:
		return "UNKNOWN"
	}
}

// Collision selects how the (out-of-scope) character controller treats a material.
type Collision uint8

const (
	CollisionNone Collision = iota
	CollisionSolid
	CollisionPlatform
	CollisionLiquid
)

func (c Collision) String() string {
	switch c {
	case CollisionNone:
		return "NONE"
	case CollisionSolid:
		return "SOLID"
	case CollisionPlatform:
		return "PLATFORM"
	case CollisionLiquid:
		return "LIQUID"
	default:
		return "UNKNOWN"
	}
}

// Reaction is one pairwise rewrite rule: probability is compared against a u32
// draw (fires iff probability != 0 and draw <= probability); OutLo/OutHi are the resulting material
// indices for the lower- and higher-indexed side of the pair respectively.
type Reaction struct {
	Probability uint32
	OutLo       uint32
	OutHi       uint32
}

// reactionRange packs [start, end) into the reactions slice for one delta, or
// is the zero value if that delta has no reactions (spec §4.4).
type reactionRange struct {
	start, end uint32
}

func (r reactionRange) empty() bool {
	return r.start >= r.end
}

// Material holds one material's physical parameters and its half of the
// reaction table (all reactions with materials at index >= this one's).
type Material struct {
	Movement   Movement
	Density    int
	Durability float32
	Collision  Collision
	Friction   float32

	ranges    []reactionRange
	reactions []Reaction
}

// Table is a material catalog, created by explicit constructor calls and held
// by the Grid that steps against it.
type Table struct {
	materials []Material
}

// NewTable allocates a table for n materials, all zero-valued (density 0,
// SOLID, no reactions) until populated by Add. Index 0 is conventionally
// "empty" per spec §3 but Table does not enforce that; callers must add it.
func NewTable(n int) *Table {
	return &Table{materials: make([]Material, n)}
}

// Len returns the number of material slots.
func (t *Table) Len() int {
	return len(t.materials)
}

// Get returns a pointer to material idx's parameters. Panics (debug builds) if
// idx is out of range.
func (t *Table) Get(idx uint32) *Material {
	assert.That(idx < uint32(len(t.materials)), "material: index %d out of range (len %d)", idx, len(t.materials))
	return &t.materials[idx]
}

// ReactionsByDelta groups reactions for a single material, keyed by
// delta = partnerIdx - thisIdx (delta >= 0, upper-triangular).
type ReactionsByDelta = map[int][]Reaction

// Add fills slot idx (two-phase construction: NewTable allocates, Add fills).
// reactionsByDelta maps delta (partner material index minus idx) to the
// ordered list of reactions tried for that pair; the first whose probability
// draw succeeds fires. Panics (debug builds) if idx is out of range.
func (t *Table) Add(idx int, movement Movement, density int, durability float32, collision Collision, friction float32, reactionsByDelta ReactionsByDelta) {
	assert.That(idx >= 0 && idx < len(t.materials), "material: Add idx %d out of range (len %d)", idx, len(t.materials))

	mat := Material{
		Movement:   movement,
		Density:    density,
		Durability: durability,
		Collision:  collision,
		Friction:   friction,
	}

	maxDelta := -1
	for d, rs := range reactionsByDelta {
		assert.That(d >= 0, "material: reaction delta %d must be >= 0 (upper-triangular)", d)
		if len(rs) > 0 && d > maxDelta {
			maxDelta = d
		}
	}

	if maxDelta >= 0 {
		rangesLen := maxDelta + 1
		mat.ranges = make([]reactionRange, rangesLen)

		total := 0
		for d := 0; d < rangesLen; d++ {
			total += len(reactionsByDelta[d])
		}
		mat.reactions = make([]Reaction, 0, total)

		for d := 0; d < rangesLen; d++ {
			rs := reactionsByDelta[d]
			if len(rs) == 0 {
				continue
			}
			start := uint32(len(mat.reactions))
			mat.reactions = append(mat.reactions, rs...)
			end := uint32(len(mat.reactions))
			mat.ranges[d] = reactionRange{start: start, end: end}
		}
	}

	t.materials[idx] = mat
}

// React attempts the reaction between materials a (this cell) and b (the
// neighbor), drawing from r. eligible reports whether this pair has any
// reaction candidates at all (the cell stays active even if none fire this
// tick, spec §4.5's step_reaction); fired reports whether one actually did.
// newA/newB are the resulting material indices (unchanged if nothing fired).
// Spec §4.4: lookup is O(1) by (lo, |a-b|); OutLo always lands on whichever
// of (a,b) is the lower material index and OutHi on whichever is higher,
// independent of which side the caller passed as a vs b — the upper-
// triangular table is stored once and read symmetrically either way.
func React(t *Table, a, b uint32, r *rng.Rng) (eligible, fired bool, newA, newB uint32) {
	newA, newB = a, b

	var lo, hi uint32
	swapped := a > b
	if swapped {
		lo, hi = b, a
	} else {
		lo, hi = a, b
	}

	mat := t.Get(lo)
	delta := hi - lo
	if int(delta) >= len(mat.ranges) {
		return false, false, a, b
	}

	rr := mat.ranges[delta]
	if rr.empty() {
		return false, false, a, b
	}

	eligible = true

	for i := rr.start; i < rr.end; i++ {
		reaction := mat.reactions[i]
		draw := r.U32()
		if reaction.Probability != 0 && draw <= reaction.Probability {
			outLo, outHi := reaction.OutLo, reaction.OutHi
			if swapped {
				newB, newA = outLo, outHi
			} else {
				newA, newB = outLo, outHi
			}
			return eligible, true, newA, newB
		}
	}

	return eligible, false, a, b
}

// Describe returns a human-readable dump of the catalog's packed reaction
// ranges, mirroring the original's debug Grid::print_materials() introspection
// (spec §9 supplemented feature — pure, side-effect free, useful for tests/tools).
func (t *Table) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "materials: %d\n", len(t.materials))
	for i, mat := range t.materials {
		fmt.Fprintf(&b, "-- %d: movement=%s density=%d durability=%.2f collision=%s friction=%.2f\n",
			i, mat.Movement, mat.Density, mat.Durability, mat.Collision, mat.Friction)
		for d, rr := range mat.ranges {
			if rr.empty() {
				continue
			}
			fmt.Fprintf(&b, "   delta=%d partner=%d range=[%d,%d)\n", d, i+d, rr.start, rr.end)
			for k := rr.start; k < rr.end; k++ {
				react := mat.reactions[k]
				fmt.Fprintf(&b, "      probability=%d out_lo=%d out_hi=%d\n", react.Probability, react.OutLo, react.OutHi)
			}
		}
	}
	return b.String()
}
