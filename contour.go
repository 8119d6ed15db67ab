package jigsaw

import "image"

// Walking directions on the pixel corner lattice, in clockwise order (y grows downwards).
const (
	east = iota
	south
	west
	north
)

var (
	// steps holds the lattice move for every direction.
	steps = [4]image.Point{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

	// aheadLeft and aheadRight are the offsets, relative to a lattice vertex,
	// of the two pixels the walk is heading between.
	aheadLeft  = [4]image.Point{{0, -1}, {0, 0}, {-1, 0}, {-1, -1}}
	aheadRight = [4]image.Point{{0, 0}, {-1, 0}, {-1, -1}, {0, -1}}
)

// Tracer extracts the raster crop and the outer boundary polygon of a component.
type Tracer struct {
	// Corners keeps only the boundary vertices where the walk changes direction.
	Corners bool
}

// Trace returns the bounding box of c in image space, a crop holding only the
// component's pixels and the clockwise outer boundary in crop-local coordinates.
func (t Tracer) Trace(c Component) (image.Rectangle, *image.NRGBA, []Point) {
	return c.Bounds, crop(c), t.boundary(c)
}

// crop copies the pixels of c into a new image sized to its bounding box.
// Everything else stays fully transparent.
func crop(c Component) *image.NRGBA {
	b := c.Bounds
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if c.src == nil {
		return dst
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !c.Contains(x, y) {
				continue
			}
			si := c.src.PixOffset(x, y)
			di := dst.PixOffset(x-b.Min.X, y-b.Min.Y)
			copy(dst.Pix[di:di+4], c.src.Pix[si:si+4])
		}
	}
	return dst
}

// boundary follows the cracks between the component's pixels and the rest of the image,
// keeping the component on the right hand side. The walk starts at the top-left corner
// of the seed pixel heading east and stops once that state is reached again.
func (t Tracer) boundary(c Component) []Point {
	if c.Area == 0 || !c.Contains(c.Seed.X, c.Seed.Y) {
		return nil
	}

	var (
		ox, oy   = c.Bounds.Min.X, c.Bounds.Min.Y
		vx, vy   = c.Seed.X, c.Seed.Y
		dir      = east
		turned   = true // the walk reaches the seed corner heading north
		maxSteps = 4*c.Area + 4
		points   = make([]Point, 0, 64)
	)

	for step := 0; step < maxSteps; step++ {
		if !t.Corners || turned {
			points = append(points, Point{X: float64(vx - ox), Y: float64(vy - oy)})
		}
		vx += steps[dir].X
		vy += steps[dir].Y

		next := c.turn(vx, vy, dir)
		turned = next != dir
		dir = next

		if vx == c.Seed.X && vy == c.Seed.Y && dir == east {
			break
		}
	}
	return points
}

// turn decides the direction leaving the lattice vertex (vx, vy) when arriving with dir.
// The two pixels ahead of the walk settle it; when only the left one belongs to the
// component the diagonal is crossed for 8-connectivity and avoided for 4-connectivity.
func (c Component) turn(vx, vy, dir int) int {
	l, r := aheadLeft[dir], aheadRight[dir]
	left := c.Contains(vx+l.X, vy+l.Y)
	right := c.Contains(vx+r.X, vy+r.Y)

	if c.conn == Eight {
		switch {
		case left:
			return (dir + 3) % 4
		case right:
			return dir
		}
		return (dir + 1) % 4
	}

	switch {
	case !right:
		return (dir + 1) % 4
	case left:
		return (dir + 3) % 4
	}
	return dir
}
