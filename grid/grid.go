// Package grid implements the falling-sand simulation façade (spec §4.6, §6):
// a single owned context gathering the cell buffer, chunk activity bitmap and
// material table that the source kept as process-wide globals (spec §9,
// "globals -> module struct"). External code holds one *Grid and mutates it
// only through this package's exported operations.
package grid

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/indubitablement2/eos/cell"
	"github.com/indubitablement2/eos/chunk"
	"github.com/indubitablement2/eos/material"
)

// defaultDissipateChance matches the source's hardcoded constant (spec §9's
// open question: resolved here as a grid-wide, config-overridable value
// rather than a per-material attribute, since nothing in the domain calls for
// per-material rates and the source never varied it either).
const defaultDissipateChance uint32 = 8388608

// Grid owns one simulation's cell buffer, chunk activity map and material
// table. The zero value is not usable; construct with NewEmpty.
type Grid struct {
	Cells  []cell.Cell
	Width  int
	Height int

	Chunks       *chunk.Map
	ChunksWidth  int
	ChunksHeight int

	Materials *material.Table

	tick int64
	gen  uint32

	// DissipateChance is the probability (draw < DissipateChance, spec §4.2)
	// that a sideways-moving LIQUID or GAS cell dissipates to empty instead of
	// moving (spec §4.5's LIQUID rule).
	DissipateChance uint32
}

// NewEmpty allocates a grid of at least 3x3 chunks, rounding wishWidth and
// wishHeight up to the nearest whole chunk. The interior is entirely empty
// (material 0, inactive) and the chunk map starts fully quiescent: nothing
// needs stepping until an external setter (SetCellMaterial) or the worldgen
// package activates a region (spec §4.6, §9's open question on the source's
// debug test pattern — treated as out of contract here).
func NewEmpty(wishWidth, wishHeight int) *Grid {
	chunksWidth := max((wishWidth+chunk.Size-1)/chunk.Size, 3)
	chunksHeight := max((wishHeight+chunk.Size-1)/chunk.Size, 3)

	width := chunksWidth * chunk.Size
	height := chunksHeight * chunk.Size

	chunks := chunk.NewMap(chunksWidth, chunksHeight)

	return &Grid{
		Cells:  make([]cell.Cell, width*height),
		Width:  width,
		Height: height,

		Chunks:       chunks,
		ChunksWidth:  chunksWidth,
		ChunksHeight: chunksHeight,

		DissipateChance: defaultDissipateChance,
	}
}

// DeleteGrid releases the cell buffer and chunk map. Idempotent.
func (g *Grid) DeleteGrid() {
	g.Cells = nil
	g.Width = 0
	g.Height = 0
	g.Chunks = nil
	g.ChunksWidth = 0
	g.ChunksHeight = 0
}

// FreeMemory releases everything DeleteGrid does, plus the material table.
// Idempotent.
func (g *Grid) FreeMemory() {
	g.Materials = nil
	g.DeleteGrid()
}

// GetSize returns the grid's size in cells.
func (g *Grid) GetSize() (width, height int) {
	return g.Width, g.Height
}

// GetSizeChunk returns the grid's size in chunks.
func (g *Grid) GetSizeChunk() (width, height int) {
	return g.ChunksWidth, g.ChunksHeight
}

// GetTick returns the number of completed steps.
func (g *Grid) GetTick() int64 {
	return g.tick
}

// GetCellMaterialIdx returns the material index at (x, y), or 0 if (x, y) is
// out of bounds (spec §6: "0 if OOB" is the normal path, not an error).
func (g *Grid) GetCellMaterialIdx(x, y int) uint32 {
	if !g.inBounds(x, y) {
		return 0
	}
	return cell.MaterialIdx(g.Cells[g.index(x, y)])
}

// IsChunkActive reports whether chunk (cx, cy) has any pending activity, or
// false if (cx, cy) is out of bounds.
func (g *Grid) IsChunkActive(cx, cy int) bool {
	if g.Chunks == nil || !g.Chunks.InBounds(cx, cy) {
		return false
	}
	return g.Chunks.Get(cx, cy) != 0
}

// SetCellMaterial writes a material index at (x, y), marks the cell active
// and wakes its chunk neighborhood — the external setter spec §3 reserves for
// mutating the grid outside the step engine (there is no dedicated spec
// operation table entry for it; step_cell's own swap/reaction paths are the
// only other cell writers, and they already call the same wake-up machinery).
// No-op out of bounds.
func (g *Grid) SetCellMaterial(x, y int, idx uint32) {
	if !g.inBounds(x, y) {
		return
	}

	i := g.index(x, y)
	g.Cells[i] = cell.SetMaterialIdx(g.Cells[i], idx)

	cx, cy := x/chunk.Size, y/chunk.Size
	lx, ly := x%chunk.Size, y%chunk.Size
	g.activateNeighbors(cx, cy, lx, ly, x, y)
}

// StepManual runs exactly one tick (spec §4.5, §5). No-op, with a warning, if
// the grid has not been initialized (spec §7's "caller misuse" class).
func (g *Grid) StepManual() {
	if g.Cells == nil {
		logger.Warn("grid.StepManual: grid is not initialized")
		return
	}
	g.preStep()
	g.stepColumns()
}

// InitMaterials (re)allocates the material table for n materials, discarding
// any previous table (spec §4.4, §6).
func (g *Grid) InitMaterials(n int) {
	g.Materials = material.NewTable(n)
}

// AddMaterial fills material slot idx (spec §4.4). Panics in debug builds if
// idx is out of range or InitMaterials was never called.
func (g *Grid) AddMaterial(idx int, movement material.Movement, density int, durability float32, collision material.Collision, friction float32, reactionsByDelta material.ReactionsByDelta) {
	g.Materials.Add(idx, movement, density, durability, collision, friction, reactionsByDelta)
}

// UpdateTextureData copies a texture-sized rectangular window of cells,
// starting at origin, into tex as one 32-bit word per pixel (spec §4.6, §6).
// Out-of-bounds reads within the window yield 0. Warns and no-ops if the grid
// is uninitialized or tex has zero size (spec §7's "caller misuse" class).
func (g *Grid) UpdateTextureData(tex rl.Texture2D, origin [2]int) {
	if g.Cells == nil {
		logger.Warn("grid.UpdateTextureData: grid is not initialized")
		return
	}
	if tex.Width == 0 || tex.Height == 0 {
		logger.Warn("grid.UpdateTextureData: texture has zero size", slog.Int("width", int(tex.Width)), slog.Int("height", int(tex.Height)))
		return
	}

	data := g.snapshotWindow(origin[0], origin[1], int(tex.Width), int(tex.Height))
	rl.UpdateTexture(tex, data)
}

// snapshotWindow reads a w x h row-major window of cells starting at
// (originX, originY), yielding 0 for any out-of-bounds position (spec §4.6).
// Split out from UpdateTextureData so the copy itself is testable without a
// live GPU texture.
func (g *Grid) snapshotWindow(originX, originY, w, h int) []cell.Cell {
	data := make([]cell.Cell, w*h)

	i := 0
	for y := originY; y < originY+h; y++ {
		for x := originX; x < originX+w; x++ {
			if g.inBounds(x, y) {
				data[i] = g.Cells[g.index(x, y)]
			}
			i++
		}
	}

	return data
}

func (g *Grid) index(x, y int) int {
	return y*g.Width + x
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}
