// Package chunk implements the per-chunk activity bitmap (spec §4.3): each 32x32
// block of cells is tracked by a single 64-bit word whose low 32 bits are a
// row-active mask and whose high 32 bits are a column-active mask.
package chunk

import (
	"math/bits"

	"github.com/indubitablement2/eos/internal/assert"
)

// Size is the number of cells along one edge of a chunk.
const Size = 32

// Activity is the 64-bit activity word for one chunk: bits [0,32) are the
// row-active mask, bits [32,64) are the column-active mask. The zero value
// means "empty" — no active cell in this chunk.
type Activity = uint64

// Rows returns the 32-bit row-active mask (bit y set means row y has an active cell).
func Rows(a Activity) uint32 {
	return uint32(a)
}

// Columns returns the 32-bit column-active mask.
func Columns(a Activity) uint32 {
	return uint32(a >> 32)
}

// Rect is the tight bounding box of an activity word's set bits, half-open on
// both axes: valid coordinates satisfy x_start <= x < x_end.
type Rect struct {
	XStart, XEnd int
	YStart, YEnd int
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.XStart >= r.XEnd || r.YStart >= r.YEnd
}

// ActiveRect returns the tight bounding rectangle of a's set bits, derived from
// count-trailing/leading-zeros on each mask. An empty activity word returns the
// degenerate zero rect.
func ActiveRect(a Activity) Rect {
	if a == 0 {
		return Rect{}
	}

	rows := Rows(a)
	columns := Columns(a)

	assert.That(rows != 0, "chunk: non-zero activity with zero row mask")
	assert.That(columns != 0, "chunk: non-zero activity with zero column mask")

	return Rect{
		XStart: bits.TrailingZeros32(columns),
		XEnd:   32 - bits.LeadingZeros32(columns),
		YStart: bits.TrailingZeros32(rows),
		YEnd:   32 - bits.LeadingZeros32(rows),
	}
}

// ActivateRect sets bits [y, y+h) in the row mask and [x, x+w) in the column
// mask. The rectangle must lie entirely inside one chunk: 0 <= x, x+w <= 32,
// 0 <= y, y+h <= 32, w,h > 0.
func ActivateRect(a Activity, x, y, w, h int) Activity {
	assert.That(x >= 0 && y >= 0, "chunk: ActivateRect negative offset x=%d y=%d", x, y)
	assert.That(x+w <= Size && y+h <= Size, "chunk: ActivateRect out of bounds x=%d y=%d w=%d h=%d", x, y, w, h)
	assert.That(w > 0 && h > 0, "chunk: ActivateRect non-positive extent w=%d h=%d", w, h)

	rowBits := uint64((uint64(1)<<uint(h) - 1) << uint(y))
	colBits := uint64((uint64(1)<<uint(w) - 1) << uint(x+32))
	return a | rowBits | colBits
}

// ActivatePoint activates the single cell at local (x, y).
func ActivatePoint(a Activity, x, y int) Activity {
	return ActivateRect(a, x, y, 1, 1)
}
