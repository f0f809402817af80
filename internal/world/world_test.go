package world

import (
	"math"
	"testing"

	"snakepit/internal/geom"
)

func testWorld() World {
	return World{Width: 1200, Height: 800, Border: 20}
}

func TestClampAlwaysInBounds(t *testing.T) {
	w := testWorld()
	points := []geom.Point{
		{X: -500, Y: 400},
		{X: 5000, Y: 400},
		{X: 600, Y: -3},
		{X: 600, Y: 900},
		{X: math.Inf(-1), Y: math.Inf(1)},
	}
	for _, p := range points {
		got := w.Clamp(p, 20)
		if got.X < 20 || got.X > w.Width-20 || got.Y < 20 || got.Y > w.Height-20 {
			t.Errorf("Clamp(%+v) = %+v escapes the margin", p, got)
		}
	}
}

func TestBounceDampsOffendingAxis(t *testing.T) {
	w := testWorld()
	p, dir := w.Bounce(geom.Point{X: 1210, Y: 400}, geom.Point{X: 1, Y: 0.5}, 20)
	if p.X != w.Width-20 {
		t.Fatalf("clamped X = %v, want %v", p.X, w.Width-20)
	}
	if dir.X != -0.5 {
		t.Fatalf("reflected X component = %v, want -0.5", dir.X)
	}
	if dir.Y != 0.5 {
		t.Fatalf("Y component changed: %v", dir.Y)
	}
}

func TestBounceBothAxes(t *testing.T) {
	w := testWorld()
	_, dir := w.Bounce(geom.Point{X: -5, Y: -5}, geom.Point{X: -1, Y: -1}, 20)
	if dir.X != 0.5 || dir.Y != 0.5 {
		t.Fatalf("got %+v, want (0.5, 0.5)", dir)
	}
}

// Repeated bounces must hold the clamp invariant no matter how often the
// head keeps pushing into the wall.
func TestRepeatedBounceStaysInBounds(t *testing.T) {
	w := testWorld()
	p := geom.Point{X: 25, Y: 400}
	dir := geom.Point{X: -1, Y: 0}
	for i := 0; i < 50; i++ {
		p = p.Add(dir.Scale(10))
		if !w.WithinBorder(p) {
			p, dir = w.Bounce(p, dir, w.Border)
		}
		if p.X < 0 || p.X > w.Width || p.Y < 0 || p.Y > w.Height {
			t.Fatalf("iteration %d escaped world: %+v", i, p)
		}
	}
}

func TestWithinBorder(t *testing.T) {
	w := testWorld()
	if !w.WithinBorder(geom.Point{X: 600, Y: 400}) {
		t.Fatal("center should be inside")
	}
	if w.WithinBorder(geom.Point{X: 10, Y: 400}) {
		t.Fatal("border band should be outside")
	}
}
