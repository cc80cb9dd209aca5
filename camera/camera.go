// Package camera provides a 2D camera system for viewing a grid.
package camera

// Camera controls the viewport into the simulation grid. Pan and zoom are
// clamped to the grid's bounds: unlike a toroidal world, a falling-sand grid
// has a hard boundary (its outer chunk frame, spec §4.5's boundary policy)
// and nothing past it to scroll into.
type Camera struct {
	// Position is the camera center in world (cell) coordinates.
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification).
	Zoom float32

	// Viewport dimensions (screen size).
	ViewportW, ViewportH float32

	// World dimensions.
	WorldW, WorldH float32

	// Zoom constraints.
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the world with the zoom that exactly fits
// the world in the viewport's limiting dimension.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	minZoomX := viewportW / worldW
	minZoomY := viewportH / worldH
	minZoom := minZoomX
	if minZoomY > minZoom {
		minZoom = minZoomY
	}

	c := &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		Zoom:      minZoom,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MinZoom:   minZoom,
		MaxZoom:   8.0,
	}
	c.clampPosition()
	return c
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a point at (wx, wy) with the given radius could
// be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area,
// clamped to the grid itself — usable as the source rectangle when drawing the
// visible part of a grid-sized texture.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = clamp(c.X-halfW, 0, c.WorldW)
	maxX = clamp(c.X+halfW, 0, c.WorldW)
	minY = clamp(c.Y-halfH, 0, c.WorldH)
	maxY = clamp(c.Y+halfH, 0, c.WorldH)
	return
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	minZoomX := viewportW / c.WorldW
	minZoomY := viewportH / c.WorldH
	c.MinZoom = minZoomX
	if minZoomY > c.MinZoom {
		c.MinZoom = minZoomY
	}
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	c.clampPosition()
}

// Pan moves the camera by the given delta in screen pixels, clamped so the
// viewport never scrolls past the grid's edge.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampPosition()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampPosition()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = c.MinZoom
}

// clampPosition keeps the camera center far enough from the grid edge that
// the visible area never extends past it, except when zoomed out past the
// world's own size (then it centers).
func (c *Camera) clampPosition() {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	if halfW*2 >= c.WorldW {
		c.X = c.WorldW / 2
	} else {
		c.X = clamp(c.X, halfW, c.WorldW-halfW)
	}
	if halfH*2 >= c.WorldH {
		c.Y = c.WorldH / 2
	} else {
		c.Y = clamp(c.Y, halfH, c.WorldH-halfH)
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
