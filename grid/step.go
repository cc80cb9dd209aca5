package grid

import (
	"sync"

	"github.com/indubitablement2/eos/cell"
	"github.com/indubitablement2/eos/chunk"
	"github.com/indubitablement2/eos/material"
	"github.com/indubitablement2/eos/rng"
)

// preStep rotates the generation counter through 1,2,3 (never 0, reserved for
// "never stepped") and advances the tick (spec §4.5 step 1).
func (g *Grid) preStep() {
	g.gen = g.gen%3 + 1
	g.tick++
}

// stepColumns runs the column loop (spec §4.5 step 2, §5's determinism
// model): interior chunk-columns [1, ChunksWidth-1) split into three
// residue classes mod 3, each class stepped concurrently with a barrier
// between passes. A column at cx writes only within chunk-columns cx-1, cx,
// cx+1 (edge/diagonal/sideways swaps, and ActivateNeighbors' 3x3 chunk-word
// writes, chunk/map.go). Two columns in the same pass are at least 3 apart,
// so their write spans (each width 3) never overlap — unlike an even/odd
// split, where cx and cx+2 share parity but both reach into cx+1. Grounded
// on the teacher's snapshot/compute/apply worker pool (game/parallel.go),
// adapted to three fixed passes since the independent unit here is the
// column itself, not an arbitrary chunked index range.
func (g *Grid) stepColumns() {
	g.stepResidue(0)
	g.stepResidue(1)
	g.stepResidue(2)
}

func (g *Grid) stepResidue(residue int) {
	var wg sync.WaitGroup
	for cx := 1; cx < g.ChunksWidth-1; cx++ {
		if cx%3 != residue {
			continue
		}
		wg.Add(1)
		go func(cx int) {
			defer wg.Done()
			g.stepColumn(cx)
		}(cx)
	}
	wg.Wait()
}

// stepColumn walks one chunk-column from bottom to top, snapshotting and
// zeroing each chunk's activity word before stepping it so that reactivations
// produced during the chunk's own step persist in the fresh word (spec §4.5
// step 3).
func (g *Grid) stepColumn(cx int) {
	seed := uint64(cx) * uint64(g.tick) * rng.ColumnSeedMultiplier
	r := rng.New(seed)

	for cy := g.ChunksHeight - 2; cy >= 1; cy-- {
		snapshot := g.Chunks.Get(cx, cy)
		g.Chunks.Set(cx, cy, 0)
		if snapshot == 0 {
			continue
		}
		g.stepChunk(cx, cy, snapshot, &r)
	}
}

// stepChunk iterates a chunk's active rect, skipping cold rows, alternating
// horizontal direction by tick parity to remove systematic flow bias (spec
// §4.5 step 4).
func (g *Grid) stepChunk(cx, cy int, snapshot chunk.Activity, r *rng.Rng) {
	rows := chunk.Rows(snapshot)
	rect := chunk.ActiveRect(snapshot)

	var xStart, xEnd, xStep int
	if g.tick&1 == 0 {
		xStart, xEnd, xStep = rect.XStart, rect.XEnd, 1
	} else {
		xStart, xEnd, xStep = rect.XEnd-1, rect.XStart-1, -1
	}

	for ly := rect.YStart; ly < rect.YEnd; ly++ {
		if rows&(1<<uint(ly)) == 0 {
			continue
		}
		for lx := xStart; lx != xEnd; lx += xStep {
			g.stepCell(cx, cy, lx, ly, r)
		}
	}
}

type reactionNeighbor struct{ dx, dy int }

// reactionNeighbors is the fixed half-neighborhood (right, top-left, top,
// top-right): the complementary cells see this one from their own half on the
// same tick, so each unordered pair is considered exactly once (spec §4.5
// step 5).
var reactionNeighbors = [4]reactionNeighbor{
	{dx: 1, dy: 0},
	{dx: -1, dy: -1},
	{dx: 0, dy: -1},
	{dx: 1, dy: -1},
}

// stepCell runs one cell's full per-tick state machine: reaction phase,
// mark-updated, movement phase, quiescence (spec §4.5 step 5).
func (g *Grid) stepCell(cx, cy, lx, ly int, r *rng.Rng) {
	cellX, cellY := cx*chunk.Size+lx, cy*chunk.Size+ly
	idx := g.index(cellX, cellY)

	c := g.Cells[idx]
	if !cell.IsActive(c) || cell.IsUpdated(c, g.gen) {
		return
	}

	active := false
	changed := false
	matIdx := cell.MaterialIdx(c)

	for _, off := range reactionNeighbors {
		nIdx := g.index(cellX+off.dx, cellY+off.dy)
		other := g.Cells[nIdx]
		otherMat := cell.MaterialIdx(other)

		eligible, fired, newSelf, newOther := material.React(g.Materials, matIdx, otherMat, r)
		if eligible {
			active = true
		}
		if fired {
			if newSelf != matIdx {
				matIdx = newSelf
				changed = true
			}
			if newOther != otherMat {
				g.Cells[nIdx] = cell.SetMaterialIdx(other, newOther)
				g.activateNeighborsOffset(cx, cy, lx, ly, off.dx, off.dy)
			}
		}
	}

	c = cell.SetMaterialIdx(c, matIdx)
	c = cell.SetUpdated(c, g.gen)

	mat := g.Materials.Get(matIdx)

	switch mat.Movement {
	case material.Solid:
		// no motion

	case material.Powder:
		bMat := g.materialAt(cellX, cellY+1)
		blMat := g.materialAt(cellX-1, cellY+1)
		brMat := g.materialAt(cellX+1, cellY+1)

		switch {
		case bMat.Density < mat.Density:
			g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX, cellY+1, 0, 1)
			return
		case blMat.Density < mat.Density && brMat.Density < mat.Density:
			if r.Bool() {
				g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX-1, cellY+1, -1, 1)
			} else {
				g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX+1, cellY+1, 1, 1)
			}
			return
		case blMat.Density < mat.Density:
			g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX-1, cellY+1, -1, 1)
			return
		case brMat.Density < mat.Density:
			g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX+1, cellY+1, 1, 1)
			return
		}

	case material.Liquid:
		bMat := g.materialAt(cellX, cellY+1)
		blMat := g.materialAt(cellX-1, cellY+1)
		brMat := g.materialAt(cellX+1, cellY+1)
		lMat := g.materialAt(cellX-1, cellY)
		rMat := g.materialAt(cellX+1, cellY)

		switch {
		case bMat.Density < mat.Density:
			g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX, cellY+1, 0, 1)
			return
		case blMat.Density < mat.Density:
			c = cell.SetValue(c, 1, false)
			g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX-1, cellY+1, -1, 1)
			return
		case brMat.Density < mat.Density:
			c = cell.SetValue(c, 0, false)
			g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX+1, cellY+1, 1, 1)
			return
		case lMat.Density < mat.Density && rMat.Density < mat.Density:
			if cell.Value(c) != 0 {
				if r.Probability(g.DissipateChance) {
					c, changed = 0, true
				} else {
					g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX-1, cellY, -1, 0)
					return
				}
			} else {
				if r.Probability(g.DissipateChance) {
					c, changed = 0, true
				} else {
					g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX+1, cellY, 1, 0)
					return
				}
			}
		case lMat.Density < mat.Density:
			if r.Probability(g.DissipateChance) {
				c, changed = 0, true
			} else {
				c = cell.SetValue(c, 1, false)
				g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX-1, cellY, -1, 0)
				return
			}
		case rMat.Density < mat.Density:
			if r.Probability(g.DissipateChance) {
				c, changed = 0, true
			} else {
				c = cell.SetValue(c, 0, false)
				g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX+1, cellY, 1, 0)
				return
			}
		}

	case material.Gas:
		// Mirror of LIQUID vertically: a gas cell rises through material that
		// is denser than itself, instead of sinking through material that is
		// less dense. Horizontal flow keeps the same sense (into whichever
		// lateral neighbor is less dense).
		tMat := g.materialAt(cellX, cellY-1)
		tlMat := g.materialAt(cellX-1, cellY-1)
		trMat := g.materialAt(cellX+1, cellY-1)
		lMat := g.materialAt(cellX-1, cellY)
		rMat := g.materialAt(cellX+1, cellY)

		switch {
		case mat.Density < tMat.Density:
			g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX, cellY-1, 0, -1)
			return
		case mat.Density < tlMat.Density:
			c = cell.SetValue(c, 1, false)
			g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX-1, cellY-1, -1, -1)
			return
		case mat.Density < trMat.Density:
			c = cell.SetValue(c, 0, false)
			g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX+1, cellY-1, 1, -1)
			return
		case lMat.Density < mat.Density && rMat.Density < mat.Density:
			if cell.Value(c) != 0 {
				if r.Probability(g.DissipateChance) {
					c, changed = 0, true
				} else {
					g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX-1, cellY, -1, 0)
					return
				}
			} else {
				if r.Probability(g.DissipateChance) {
					c, changed = 0, true
				} else {
					g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX+1, cellY, 1, 0)
					return
				}
			}
		case lMat.Density < mat.Density:
			if r.Probability(g.DissipateChance) {
				c, changed = 0, true
			} else {
				c = cell.SetValue(c, 1, false)
				g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX-1, cellY, -1, 0)
				return
			}
		case rMat.Density < mat.Density:
			if r.Probability(g.DissipateChance) {
				c, changed = 0, true
			} else {
				c = cell.SetValue(c, 0, false)
				g.swapCells(c, cx, cy, lx, ly, cellX, cellY, cellX+1, cellY, 1, 0)
				return
			}
		}
	}

	switch {
	case changed:
		g.Cells[idx] = c
		g.activateNeighbors(cx, cy, lx, ly, cellX, cellY)
	case active:
		c = cell.SetActive(c, true)
		g.Cells[idx] = c
		g.Chunks.ActivatePoint(cx, cy, lx, ly)
	default:
		c = cell.SetActive(c, false)
		g.Cells[idx] = c
	}
}

// materialAt returns the material parameters of the cell at (x, y). Movement
// neighbor reads never cross the array boundary: the outer chunk frame is
// never stepped, so every offset used here stays inside the allocated buffer
// (spec §4.5 "Boundary policy", §9 "raw pointer walk -> indexed arenas").
func (g *Grid) materialAt(x, y int) *material.Material {
	return g.Materials.Get(cell.MaterialIdx(g.Cells[g.index(x, y)]))
}

// swapCells exchanges the full packed cell word at (cellX, cellY) with the one
// at (nx, ny) — not just the material field, so the destination inherits
// whatever active/updated/value state the source cell already carried. The
// local `self` value already has this tick's material and updated bits
// applied, so the destination slot is marked "already stepped this tick" and
// the moved cell will not be visited again; the vacated slot receives the
// destination's old word (spec §4.5 "ordering guarantees").
func (g *Grid) swapCells(self cell.Cell, cx, cy, lx, ly, cellX, cellY, nx, ny, dx, dy int) {
	idx := g.index(cellX, cellY)
	nIdx := g.index(nx, ny)

	g.Cells[idx] = g.Cells[nIdx]
	g.Cells[nIdx] = self

	g.activateNeighbors(cx, cy, lx, ly, cellX, cellY)
	g.activateNeighborsOffset(cx, cy, lx, ly, dx, dy)
}

// activateNeighbors wakes the 3x3 chunk-bitmap neighborhood around local
// (lx, ly) and sets the `active` cell bit on the matching 3x3 cell
// neighborhood centered at (cellX, cellY) — the grid owns the cell buffer's
// stride, so it (not the chunk package) is responsible for the cell-level
// half of activate_neighbors (spec §4.3).
func (g *Grid) activateNeighbors(cx, cy, lx, ly, cellX, cellY int) {
	g.Chunks.ActivateNeighbors(cx, cy, lx, ly)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			i := g.index(cellX+dx, cellY+dy)
			g.Cells[i] = cell.SetActive(g.Cells[i], true)
		}
	}
}

// activateNeighborsOffset resolves the chunk/local coordinate of the cell at
// offset (dx, dy) from (lx, ly) in chunk (cx, cy) and wakes its neighborhood.
func (g *Grid) activateNeighborsOffset(cx, cy, lx, ly, dx, dy int) {
	ncx, ncy, nlx, nly := g.Chunks.OffsetLocal(cx, cy, lx, ly, dx, dy)
	ncellX := cx*chunk.Size + lx + dx
	ncellY := cy*chunk.Size + ly + dy
	g.activateNeighbors(ncx, ncy, nlx, nly, ncellX, ncellY)
}
