package jigsaw

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// epsilon is the tolerance used when comparing point coordinates.
const epsilon = 0.0001

// Point is a polygon vertex.
type Point struct {
	X, Y float64
}

// Eq reports whether p and q are the same point within epsilon.
func (p Point) Eq(q Point) bool {
	return math.Abs(p.X-q.X) < epsilon && math.Abs(p.Y-q.Y) < epsilon
}

// Add translates p by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// orient returns twice the signed area of the triangle abc.
// With y pointing down it is positive for clockwise triangles on screen.
func orient(a, b, c Point) float64 {
	return r2.Cross(r2.Sub(b.vec(), a.vec()), r2.Sub(c.vec(), a.vec()))
}

// SignedArea returns the signed area of the closed polygon described by points (shoelace formula).
// It is positive for clockwise polygons on screen, where y grows downwards.
func SignedArea(points []Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += r2.Cross(points[i].vec(), points[(i+1)%n].vec())
	}
	return sum / 2
}

// Translate returns a copy of points moved by (dx, dy).
func Translate(points []Point, dx, dy float64) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = p.Add(Point{X: dx, Y: dy})
	}
	return out
}
