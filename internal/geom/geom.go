package geom

import "math"

// Point is a position or direction in world space, in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dist returns the Euclidean distance between two points.
func Dist(p, q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Normalize scales p to unit length. The zero vector is returned unchanged
// so an idle pointer never produces NaN direction components.
func Normalize(p Point) Point {
	length := math.Hypot(p.X, p.Y)
	if length == 0 {
		return p
	}
	return Point{X: p.X / length, Y: p.Y / length}
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
