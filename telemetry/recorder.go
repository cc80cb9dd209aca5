// Package telemetry records per-tick grid statistics to CSV, the same
// incremental gocsv.Marshal/MarshalWithoutHeaders-on-first-write shape the
// teacher's own telemetry.OutputManager uses (telemetry/output.go). It is an
// optional external collaborator: construct a Recorder and call Sample
// alongside the step loop. The step engine itself does no I/O (spec §5).
package telemetry

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/indubitablement2/eos/cell"
	"github.com/indubitablement2/eos/grid"
)

// Sample is one row of the materials CSV: a tick's live-cell count per
// material index plus the number of active chunks (outer frame chunks
// included).
type Sample struct {
	Tick         int64  `csv:"tick"`
	MaterialIdx  uint32 `csv:"material_idx"`
	CellCount    int64  `csv:"cell_count"`
	ActiveChunks int64  `csv:"active_chunks"`
}

// Recorder samples a grid's per-material live-cell counts every N ticks and
// appends the rows to a CSV file.
type Recorder struct {
	file           *os.File
	sampleInterval int64
	headerWritten  bool
}

// NewRecorder opens (creating/truncating) path and returns a Recorder that
// samples every sampleInterval ticks. sampleInterval <= 0 is treated as 1
// (sample every tick).
func NewRecorder(path string, sampleInterval int64) (*Recorder, error) {
	if sampleInterval <= 0 {
		sampleInterval = 1
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}

	return &Recorder{file: f, sampleInterval: sampleInterval}, nil
}

// Sample records g's current per-material cell counts and active-chunk count
// if tick is a multiple of the recorder's sample interval; otherwise it is a
// no-op. Counting walks the full cell buffer and chunk map, so callers should
// not invoke this from inside the step loop's hot path (spec §5).
func (r *Recorder) Sample(g *grid.Grid, tick int64) error {
	if r == nil || tick%r.sampleInterval != 0 {
		return nil
	}

	counts := countMaterials(g)
	activeChunks := countActiveChunks(g)

	samples := make([]Sample, 0, len(counts))
	for idx, n := range counts {
		samples = append(samples, Sample{
			Tick:         tick,
			MaterialIdx:  idx,
			CellCount:    n,
			ActiveChunks: activeChunks,
		})
	}

	if !r.headerWritten {
		if err := gocsv.Marshal(samples, r.file); err != nil {
			return fmt.Errorf("writing materials sample: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(samples, r.file); err != nil {
		return fmt.Errorf("writing materials sample: %w", err)
	}
	return nil
}

// Close flushes and closes the recorder's output file.
func (r *Recorder) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

func countMaterials(g *grid.Grid) map[uint32]int64 {
	counts := make(map[uint32]int64)
	for _, c := range g.Cells {
		counts[cell.MaterialIdx(c)]++
	}
	return counts
}

func countActiveChunks(g *grid.Grid) int64 {
	cw, ch := g.GetSizeChunk()
	var n int64
	for cx := 0; cx < cw; cx++ {
		for cy := 0; cy < ch; cy++ {
			if g.IsChunkActive(cx, cy) {
				n++
			}
		}
	}
	return n
}
