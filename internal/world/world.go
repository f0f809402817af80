// Package world models the bounded arena and its border rules.
package world

import "snakepit/internal/geom"

// bounceDamping is applied to the offending direction component when an
// entity hits the border band, inverting it into a softened rebound.
const bounceDamping = -0.5

// World is the fixed arena every snake shares.
type World struct {
	Width  float64
	Height float64
	Border float64
}

// Clamp returns p bounded to [margin, size-margin] on both axes. The result
// is always a valid in-bounds point, even for inputs far outside the arena.
func (w World) Clamp(p geom.Point, margin float64) geom.Point {
	return geom.Point{
		X: geom.Clamp(p.X, margin, w.Width-margin),
		Y: geom.Clamp(p.Y, margin, w.Height-margin),
	}
}

// WithinBorder reports whether p sits inside the playable area, outside the
// border band.
func (w World) WithinBorder(p geom.Point) bool {
	return p.X >= w.Border && p.X <= w.Width-w.Border &&
		p.Y >= w.Border && p.Y <= w.Height-w.Border
}

// Bounce resolves a proposed head position against the border. Axes that
// left [margin, size-margin] are clamped back and their direction component
// inverted and damped, so the caller resumes smooth motion next tick instead
// of grinding along the wall.
func (w World) Bounce(p, dir geom.Point, margin float64) (geom.Point, geom.Point) {
	if p.X < margin || p.X > w.Width-margin {
		dir.X *= bounceDamping
	}
	if p.Y < margin || p.Y > w.Height-margin {
		dir.Y *= bounceDamping
	}
	return w.Clamp(p, margin), dir
}
