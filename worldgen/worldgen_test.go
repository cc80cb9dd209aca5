package worldgen

import (
	"testing"

	"github.com/indubitablement2/eos/chunk"
	"github.com/indubitablement2/eos/grid"
	"github.com/indubitablement2/eos/material"
)

func terrainTable() *material.Table {
	t := material.NewTable(4)
	t.Add(0, material.Solid, 0, 0, material.CollisionNone, 0, nil)
	t.Add(1, material.Solid, 10, 10, material.CollisionSolid, 0.9, nil)
	t.Add(2, material.Powder, 3, 1, material.CollisionSolid, 0.4, nil)
	t.Add(3, material.Liquid, 1, 0, material.CollisionLiquid, 0.05, nil)
	return t
}

func TestFillLeavesOuterFrameEmpty(t *testing.T) {
	g := grid.NewEmpty(256, 256)
	g.Materials = terrainTable()

	Fill(g, 1, Palette{Stone: 1, Sand: 2, Water: 3}, DefaultParams(g.Height))

	w, h := g.GetSize()
	for x := 0; x < w; x++ {
		if got := g.GetCellMaterialIdx(x, 0); got != 0 {
			t.Fatalf("top frame row touched at x=%d: material %d", x, got)
		}
		if got := g.GetCellMaterialIdx(x, h-1); got != 0 {
			t.Fatalf("bottom frame row touched at x=%d: material %d", x, got)
		}
	}
	for y := 0; y < h; y++ {
		if got := g.GetCellMaterialIdx(0, y); got != 0 {
			t.Fatalf("left frame column touched at y=%d: material %d", y, got)
		}
		if got := g.GetCellMaterialIdx(w-1, y); got != 0 {
			t.Fatalf("right frame column touched at y=%d: material %d", y, got)
		}
	}
}

func TestFillProducesAllThreeMaterials(t *testing.T) {
	g := grid.NewEmpty(256, 256)
	g.Materials = terrainTable()

	Fill(g, 42, Palette{Stone: 1, Sand: 2, Water: 3}, DefaultParams(g.Height))

	counts := map[uint32]int{}
	w, h := g.GetSize()
	for y := chunk.Size; y < h-chunk.Size; y++ {
		for x := chunk.Size; x < w-chunk.Size; x++ {
			counts[g.GetCellMaterialIdx(x, y)]++
		}
	}

	if counts[1] == 0 {
		t.Fatalf("expected at least some stone, got none (counts=%v)", counts)
	}
	if counts[2] == 0 {
		t.Fatalf("expected at least some sand, got none (counts=%v)", counts)
	}
	if counts[3] == 0 {
		t.Fatalf("expected at least some water below the water line, got none (counts=%v)", counts)
	}
}

func TestFillIsDeterministicPerSeed(t *testing.T) {
	pal := Palette{Stone: 1, Sand: 2, Water: 3}

	g1 := grid.NewEmpty(128, 128)
	g1.Materials = terrainTable()
	Fill(g1, 7, pal, DefaultParams(g1.Height))

	g2 := grid.NewEmpty(128, 128)
	g2.Materials = terrainTable()
	Fill(g2, 7, pal, DefaultParams(g2.Height))

	w, h := g1.GetSize()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g1.GetCellMaterialIdx(x, y) != g2.GetCellMaterialIdx(x, y) {
				t.Fatalf("same seed produced different terrain at (%d,%d)", x, y)
			}
		}
	}
}

func TestFillActivatesGeneratedChunks(t *testing.T) {
	g := grid.NewEmpty(256, 256)
	g.Materials = terrainTable()

	Fill(g, 1, Palette{Stone: 1, Sand: 2, Water: 3}, DefaultParams(g.Height))

	cw, ch := g.GetSizeChunk()
	anyActive := false
	for cx := 1; cx < cw-1; cx++ {
		for cy := 1; cy < ch-1; cy++ {
			if g.IsChunkActive(cx, cy) {
				anyActive = true
			}
		}
	}
	if !anyActive {
		t.Fatalf("expected Fill's SetCellMaterial calls to activate interior chunks")
	}
}
