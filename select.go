package jigsaw

import "math"

// DefaultTolerance is the share of the half image size a piece center may deviate from the image center.
const DefaultTolerance = 0.95

// Selector picks the piece to mesh out of a detection result.
type Selector struct {
	Tolerance float64
}

// Select returns the piece with the largest bounding box among those whose center lies
// close enough to the center of a width×height image. It returns nil when none qualifies.
// The center of the bounding box is tested, not its origin, and the vertical offset is
// measured against the image height.
func (s Selector) Select(pieces []Piece, width, height int) *Piece {
	tol := s.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	cx, cy := float64(width)/2, float64(height)/2

	var (
		best    *Piece
		maxArea int
	)
	for i := range pieces {
		p := &pieces[i]
		c := p.Center()
		if math.Abs(c.X-cx) > tol*cx || math.Abs(c.Y-cy) > tol*cy {
			continue
		}
		if area := p.Width * p.Height; area > maxArea {
			best, maxArea = p, area
		}
	}
	return best
}

// Decimate keeps every stride-th point, starting with the first one.
func Decimate(points []Point, stride int) []Point {
	if stride <= 1 {
		return append([]Point(nil), points...)
	}
	out := make([]Point, 0, len(points)/stride+1)
	for i := 0; i < len(points); i += stride {
		out = append(out, points[i])
	}
	return out
}
