package jigsaw

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// areaEpsilon is the smallest doubled triangle area accepted as non-degenerate.
const areaEpsilon = 1e-9

// Triangle holds three indices into the point slice given to Triangulate.
type Triangle [3]int

// Mesh is the list of triangles covering a polygon.
type Mesh []Triangle

// Triangulate splits the simple polygon described by points into triangles using ear clipping.
// Both clockwise and counter-clockwise rings are accepted; the triangles follow the orientation
// of the input. Fewer than three distinct points, or a zero area ring, give an empty mesh.
// Self-intersecting rings are triangulated on a best effort basis.
func Triangulate(points []Point) Mesh {
	ring := make([]int, 0, len(points))
	for i, p := range points {
		if len(ring) > 0 && p.Eq(points[ring[len(ring)-1]]) {
			continue
		}
		ring = append(ring, i)
	}
	for len(ring) > 1 && points[ring[0]].Eq(points[ring[len(ring)-1]]) {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return Mesh{}
	}

	var area float64
	for i, v := range ring {
		area += orient(Point{}, points[v], points[ring[(i+1)%len(ring)]])
	}
	if math.Abs(area) < areaEpsilon {
		return Mesh{}
	}
	sign := 1.0
	if area < 0 {
		sign = -1
	}

	ec := &earClipper{
		points: points,
		sign:   sign,
		prev:   make([]int, len(points)),
		next:   make([]int, len(points)),
	}
	for i, v := range ring {
		ec.prev[v] = ring[(i+len(ring)-1)%len(ring)]
		ec.next[v] = ring[(i+1)%len(ring)]
	}
	return ec.clip(ring[0], len(ring))
}

// earClipper keeps the remaining polygon as a doubly linked list over the input indices.
type earClipper struct {
	points     []Point
	sign       float64
	prev, next []int
	mesh       Mesh
}

func (ec *earClipper) clip(start, remaining int) Mesh {
	cur := start
	for remaining > 3 {
		found := false
		v := cur
		for i := 0; i < remaining; i++ {
			a, c := ec.prev[v], ec.next[v]
			area := ec.area(a, v, c)
			if area <= areaEpsilon && area >= -areaEpsilon {
				// A flat vertex never forms a triangle: unlink it and keep going.
				ec.remove(v)
				remaining--
				cur, found = c, true
				break
			}
			if area > 0 && ec.isEar(a, v, c) {
				ec.emit(a, v, c)
				ec.remove(v)
				remaining--
				cur, found = c, true
				break
			}
			v = c
		}
		if !found {
			cur = ec.force(cur, remaining)
			remaining--
		}
	}
	if remaining == 3 {
		a := ec.prev[cur]
		c := ec.next[cur]
		if ec.area(a, cur, c) > areaEpsilon {
			ec.emit(a, cur, c)
		}
	}
	return ec.mesh
}

// force removes one vertex when no ear can be found, which happens for self-intersecting rings.
// The convex vertex spanning the largest triangle is clipped; without any convex vertex the
// flattest one is dropped.
func (ec *earClipper) force(start, remaining int) int {
	best, bestArea := -1, 0.0
	flat, flatArea := start, math.Inf(1)
	v := start
	for i := 0; i < remaining; i++ {
		area := ec.area(ec.prev[v], v, ec.next[v])
		if area > bestArea {
			best, bestArea = v, area
		}
		if math.Abs(area) < flatArea {
			flat, flatArea = v, math.Abs(area)
		}
		v = ec.next[v]
	}
	if best >= 0 {
		ec.emit(ec.prev[best], best, ec.next[best])
		flat = best
	}
	next := ec.next[flat]
	ec.remove(flat)
	return next
}

// area returns the doubled area of the triangle abc, positive when it turns like the ring.
func (ec *earClipper) area(a, b, c int) float64 {
	return ec.sign * orient(ec.points[a], ec.points[b], ec.points[c])
}

// isEar reports whether no other remaining vertex lies inside or on the triangle abc.
// When the ring crosses over itself at the position of a or c, the diagonal ac must
// also point into the corner of the other vertex found there.
func (ec *earClipper) isEar(a, b, c int) bool {
	pa, pb, pc := ec.points[a], ec.points[b], ec.points[c]
	for v := ec.next[c]; v != a; v = ec.next[v] {
		p := ec.points[v]
		switch {
		case p.Eq(pb):
			continue
		case p.Eq(pa):
			if ec.prev[v] != c && ec.next[v] != c && ec.crosses(a, v) && !ec.locallyInside(v, pc) {
				return false
			}
			continue
		case p.Eq(pc):
			if ec.prev[v] != a && ec.next[v] != a && ec.crosses(c, v) && !ec.locallyInside(v, pa) {
				return false
			}
			continue
		}
		if ec.sign*orient(pa, pb, p) >= -areaEpsilon &&
			ec.sign*orient(pb, pc, p) >= -areaEpsilon &&
			ec.sign*orient(pc, pa, p) >= -areaEpsilon {
			return false
		}
	}
	return true
}

// crosses reports whether the ring passes through the position of u again at v and
// crosses over there, with both edges of v entering the corner of u. Corners that only
// touch each other do not overlap and need no extra check.
func (ec *earClipper) crosses(u, v int) bool {
	return ec.locallyInside(u, ec.points[ec.prev[v]]) && ec.locallyInside(u, ec.points[ec.next[v]])
}

// locallyInside reports whether the direction from vertex v towards p points strictly
// into the polygon corner formed by v and its neighbours.
func (ec *earClipper) locallyInside(v int, p Point) bool {
	pp, pv, pn := ec.points[ec.prev[v]], ec.points[v], ec.points[ec.next[v]]
	inPrev := ec.sign*orient(pp, pv, p) > areaEpsilon
	inNext := ec.sign*orient(pv, pn, p) > areaEpsilon
	if ec.sign*orient(pp, pv, pn) >= 0 {
		return inPrev && inNext
	}
	return inPrev || inNext
}

func (ec *earClipper) emit(a, b, c int) {
	ec.mesh = append(ec.mesh, Triangle{a, b, c})
}

func (ec *earClipper) remove(v int) {
	p, n := ec.prev[v], ec.next[v]
	ec.next[p] = n
	ec.prev[n] = p
}

// Area returns the total area covered by the mesh.
func (m Mesh) Area(points []Point) float64 {
	areas := make([]float64, len(m))
	for i, t := range m {
		areas[i] = math.Abs(orient(points[t[0]], points[t[1]], points[t[2]])) / 2
	}
	return floats.Sum(areas)
}

// Validate checks that every triangle references three distinct points of
// the slice and spans a non-zero area.
func (m Mesh) Validate(points []Point) error {
	for i, t := range m {
		for _, idx := range t {
			if idx < 0 || idx >= len(points) {
				return errors.Errorf("triangle %d: index %d out of range [0, %d)", i, idx, len(points))
			}
		}
		if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
			return errors.Errorf("triangle %d: repeated index in %v", i, t)
		}
		if math.Abs(orient(points[t[0]], points[t[1]], points[t[2]])) <= areaEpsilon {
			return errors.Errorf("triangle %d: degenerate triangle %v", i, t)
		}
	}
	return nil
}
