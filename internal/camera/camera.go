// Package camera turns world coordinates into viewport coordinates and
// answers visibility queries for render culling. Culling is a rendering
// optimization only; protocol handling never consults it.
package camera

import (
	"snakepit/internal/geom"
	"snakepit/internal/world"
)

// Camera is a derived value, recomputed from the local snake head every
// tick. It is never persisted.
type Camera struct {
	Pos      geom.Point
	Viewport geom.Point
}

// Follow centers the camera on head, clamped so the viewport never shows
// space outside the world.
func Follow(head, viewport geom.Point, w world.World) Camera {
	pos := head.Sub(viewport.Scale(0.5))
	pos.X = geom.Clamp(pos.X, 0, w.Width-viewport.X)
	pos.Y = geom.Clamp(pos.Y, 0, w.Height-viewport.Y)
	return Camera{Pos: pos, Viewport: viewport}
}

// WorldToView converts a world position to viewport space.
func (c Camera) WorldToView(p geom.Point) geom.Point {
	return p.Sub(c.Pos)
}

// ViewToWorld converts a viewport position (e.g. the pointer) back to world
// space.
func (c Camera) ViewToWorld(p geom.Point) geom.Point {
	return p.Add(c.Pos)
}

// Visible reports whether p falls inside the viewport expanded by pad on
// every side.
func (c Camera) Visible(p geom.Point, pad float64) bool {
	return p.X >= c.Pos.X-pad && p.X <= c.Pos.X+c.Viewport.X+pad &&
		p.Y >= c.Pos.Y-pad && p.Y <= c.Pos.Y+c.Viewport.Y+pad
}
