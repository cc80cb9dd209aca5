// Package worldgen fills a freshly created grid with initial terrain using
// layered 2D OpenSimplex noise. It replaces the single hardcoded debug block
// the original engine carved into new_empty — spec §9 calls that scaffolding,
// not part of the contract, so grid.NewEmpty stays fully empty and terrain
// generation is this separate, optional step.
package worldgen

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/indubitablement2/eos/chunk"
	"github.com/indubitablement2/eos/grid"
)

// Palette names the material indices Fill carves the terrain from.
type Palette struct {
	Stone uint32
	Sand  uint32
	Water uint32
}

// Params tunes the fractal noise that shapes the terrain. Octaves, Lacunarity
// and Gain follow the same fractional-Brownian-motion accumulation as the
// teacher's resource-field noise (systems/resource_field.go's fbmTiled),
// reduced to plain 2D since world generation is a one-shot carve, not an
// animated field.
type Params struct {
	Scale      float64
	Octaves    int
	Lacunarity float64
	Gain       float64

	// StoneThreshold and SandThreshold are noise levels (after folding to
	// [0,1]) above which a column carves stone, or sand, respectively.
	// Anything below SandThreshold is open air, or water below WaterLine.
	StoneThreshold float64
	SandThreshold  float64

	// WaterLine: every open-air cell at or below this row (0 at the top)
	// fills with water, pooling into whatever terrain the noise carved.
	WaterLine int
}

// DefaultParams mirrors the density ordering a falling-sand palette expects:
// stone (durable, dense) forms veins, sand forms dunes above it, and water
// pools in whatever is left open below WaterLine.
func DefaultParams(height int) Params {
	return Params{
		Scale:          0.04,
		Octaves:        4,
		Lacunarity:     2.0,
		Gain:           0.5,
		StoneThreshold: 0.62,
		SandThreshold:  0.48,
		WaterLine:      height * 2 / 3,
	}
}

// Fill carves terrain into every interior cell of g (the outer 1-chunk frame
// is left alone, matching the boundary policy the step engine itself
// enforces). Cells that Fill carves as stone, sand or water are overwritten;
// cells where the noise leaves open air are not written and keep whatever
// they held before.
func Fill(g *grid.Grid, seed int64, pal Palette, p Params) {
	noise := opensimplex.New(seed)
	width, height := g.GetSize()

	for y := chunk.Size; y < height-chunk.Size; y++ {
		for x := chunk.Size; x < width-chunk.Size; x++ {
			n := fbm2(noise, float64(x)*p.Scale, float64(y)*p.Scale, p.Octaves, p.Lacunarity, p.Gain)

			var material uint32
			switch {
			case n >= p.StoneThreshold:
				material = pal.Stone
			case n >= p.SandThreshold:
				material = pal.Sand
			case y >= p.WaterLine:
				material = pal.Water
			default:
				continue // open air, grid.NewEmpty already left it empty
			}
			g.SetCellMaterial(x, y, material)
		}
	}
}

// fbm2 accumulates octaves of 2D OpenSimplex noise, folded from [-1,1] to
// [0,1] per octave before summing (same fold the teacher's fbmTiled applies
// to its 4D samples).
func fbm2(noise opensimplex.Noise, x, y float64, octaves int, lacunarity, gain float64) float64 {
	sum := 0.0
	amp := 0.5
	freq := 1.0
	norm := 0.0

	for o := 0; o < octaves; o++ {
		n := (noise.Eval2(x*freq, y*freq) + 1) * 0.5
		sum += amp * n
		norm += amp
		freq *= lacunarity
		amp *= gain
	}

	if norm == 0 {
		return 0
	}
	return clamp01(sum / norm)
}

func clamp01(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}
