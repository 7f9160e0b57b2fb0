package render

import "arena-roguelite/internal/vmath"

// Camera maps arena coordinates onto a terminal viewport. Every cell is
// two columns wide so emoji glyphs line up.
type Camera struct {
	Arena      vmath.Rect
	ViewWidth  int // in terminal columns
	ViewHeight int // in terminal rows
}

// NewCamera fits arena into a viewW×viewH viewport.
func NewCamera(arena vmath.Rect, viewW, viewH int) *Camera {
	return &Camera{Arena: arena, ViewWidth: viewW, ViewHeight: viewH}
}

// Cells is the grid size in glyph cells.
func (c *Camera) Cells() (w, h int) { return c.ViewWidth / 2, c.ViewHeight }

// ArenaToScreen converts an arena position to screen (sx, sy). visible is
// false when it falls outside the arena or the viewport is empty.
func (c *Camera) ArenaToScreen(p vmath.Vec) (sx, sy int, visible bool) {
	cw, ch := c.Cells()
	size := c.Arena.Max.Sub(c.Arena.Min)
	if cw <= 0 || ch <= 0 || size.X <= 0 || size.Y <= 0 || !c.Arena.Contains(p) {
		return 0, 0, false
	}
	rel := p.Sub(c.Arena.Min)
	cx := int(rel.X / size.X * float64(cw))
	cy := int(rel.Y / size.Y * float64(ch))
	cx = min(cx, cw-1)
	cy = min(cy, ch-1)
	return cx * 2, cy, true
}

// ScreenToArena returns the arena position at the centre of cell (sx, sy).
func (c *Camera) ScreenToArena(sx, sy int) vmath.Vec {
	cw, ch := c.Cells()
	size := c.Arena.Max.Sub(c.Arena.Min)
	return vmath.Vec{
		X: c.Arena.Min.X + (float64(sx/2)+0.5)*size.X/float64(max(cw, 1)),
		Y: c.Arena.Min.Y + (float64(sy)+0.5)*size.Y/float64(max(ch, 1)),
	}
}
