package chunk

import "github.com/indubitablement2/eos/internal/assert"

// Map is the column-major array of chunk activity words covering a grid (spec
// §3's "chunk map"): index (cx, cy) lives at cx*Height + cy.
type Map struct {
	Width, Height int // in chunks
	data          []Activity
}

// NewMap allocates a chunk map of the given size, every chunk quiescent.
func NewMap(width, height int) *Map {
	return &Map{Width: width, Height: height, data: make([]Activity, width*height)}
}

// Index returns the flat offset of chunk (cx, cy) within the map's storage.
func (m *Map) Index(cx, cy int) int {
	return cx*m.Height + cy
}

// InBounds reports whether (cx, cy) addresses a chunk in this map.
func (m *Map) InBounds(cx, cy int) bool {
	return cx >= 0 && cy >= 0 && cx < m.Width && cy < m.Height
}

// Get returns the activity word of chunk (cx, cy).
func (m *Map) Get(cx, cy int) Activity {
	return m.data[m.Index(cx, cy)]
}

// Set replaces the activity word of chunk (cx, cy).
func (m *Map) Set(cx, cy int, a Activity) {
	m.data[m.Index(cx, cy)] = a
}

// ActivateRect activates a rectangle local to chunk (cx, cy).
func (m *Map) ActivateRect(cx, cy, x, y, w, h int) {
	idx := m.Index(cx, cy)
	m.data[idx] = ActivateRect(m.data[idx], x, y, w, h)
}

// ActivatePoint activates a single cell local to chunk (cx, cy).
func (m *Map) ActivatePoint(cx, cy, x, y int) {
	m.ActivateRect(cx, cy, x, y, 1, 1)
}

// OffsetLocal translates a local coordinate within chunk (cx, cy) by (dx, dy),
// returning the chunk and local coordinate that now contains it. |dx|,|dy| must
// be <= Size (spec §4.3: "Only works for offset up to 32").
func (m *Map) OffsetLocal(cx, cy, lx, ly, dx, dy int) (ncx, ncy, nlx, nly int) {
	assert.That(dx >= -Size && dx <= Size, "chunk: OffsetLocal dx out of range %d", dx)
	assert.That(dy >= -Size && dy <= Size, "chunk: OffsetLocal dy out of range %d", dy)

	ncx, ncy = cx, cy
	nlx, nly = lx+dx, ly+dy

	if nlx < 0 {
		ncx--
		nlx += Size
	} else if nlx >= Size {
		ncx++
		nlx -= Size
	}

	if nly < 0 {
		ncy--
		nly += Size
	} else if nly >= Size {
		ncy++
		nly -= Size
	}

	assert.That(nlx >= 0 && nlx < Size, "chunk: OffsetLocal produced invalid local x %d", nlx)
	assert.That(nly >= 0 && nly < Size, "chunk: OffsetLocal produced invalid local y %d", nly)

	return ncx, ncy, nlx, nly
}

// ActivateNeighbors activates the 3x3 chunk-bitmap region around local (lx, ly)
// in chunk (cx, cy), spilling into up to three neighbor chunks when the local
// coordinate sits on a chunk edge or corner (spec §4.3). It only touches the
// bitmap; setting the `active` bit on the actual 3x3 cell neighborhood is the
// caller's responsibility (the caller owns the cell buffer and its stride).
func (m *Map) ActivateNeighbors(cx, cy, lx, ly int) {
	switch {
	case lx <= 0 && ly <= 0: // top-left corner
		m.activateIfInBounds(cx, cy, 0, 0, 2, 2)
		m.activateIfInBounds(cx-1, cy, 31, 0, 1, 2)
		m.activateIfInBounds(cx-1, cy-1, 31, 31, 1, 1)
		m.activateIfInBounds(cx, cy-1, 0, 31, 2, 1)
	case lx <= 0 && ly >= 31: // bottom-left corner
		m.activateIfInBounds(cx, cy, 0, 30, 2, 2)
		m.activateIfInBounds(cx-1, cy, 31, 30, 1, 2)
		m.activateIfInBounds(cx-1, cy+1, 31, 0, 1, 1)
		m.activateIfInBounds(cx, cy+1, 0, 0, 2, 1)
	case lx >= 31 && ly <= 0: // top-right corner
		m.activateIfInBounds(cx, cy, 30, 0, 2, 2)
		m.activateIfInBounds(cx+1, cy, 0, 0, 1, 2)
		m.activateIfInBounds(cx+1, cy-1, 0, 31, 1, 1)
		m.activateIfInBounds(cx, cy-1, 30, 31, 2, 1)
	case lx >= 31 && ly >= 31: // bottom-right corner
		m.activateIfInBounds(cx, cy, 30, 30, 2, 2)
		m.activateIfInBounds(cx+1, cy, 0, 30, 1, 2)
		m.activateIfInBounds(cx+1, cy+1, 0, 0, 1, 1)
		m.activateIfInBounds(cx, cy+1, 30, 0, 2, 1)
	case lx <= 0: // left edge
		m.activateIfInBounds(cx, cy, 0, ly-1, 2, 3)
		m.activateIfInBounds(cx-1, cy, 31, ly-1, 1, 3)
	case ly <= 0: // top edge
		m.activateIfInBounds(cx, cy, lx-1, 0, 3, 2)
		m.activateIfInBounds(cx, cy-1, lx-1, 31, 3, 1)
	case lx >= 31: // right edge
		m.activateIfInBounds(cx, cy, 30, ly-1, 2, 3)
		m.activateIfInBounds(cx+1, cy, 0, ly-1, 1, 3)
	case ly >= 31: // bottom edge
		m.activateIfInBounds(cx, cy, lx-1, 30, 3, 2)
		m.activateIfInBounds(cx, cy+1, lx-1, 0, 3, 1)
	default: // middle
		m.activateIfInBounds(cx, cy, lx-1, ly-1, 3, 3)
	}
}

func (m *Map) activateIfInBounds(cx, cy, x, y, w, h int) {
	if m.InBounds(cx, cy) {
		m.ActivateRect(cx, cy, x, y, w, h)
	}
}

// ActivateNeighborsOffset activates the 3x3 neighborhood around the cell at
// offset (dx, dy) from local (lx, ly) in chunk (cx, cy).
func (m *Map) ActivateNeighborsOffset(cx, cy, lx, ly, dx, dy int) {
	ncx, ncy, nlx, nly := m.OffsetLocal(cx, cy, lx, ly, dx, dy)
	m.ActivateNeighbors(ncx, ncy, nlx, nly)
}
