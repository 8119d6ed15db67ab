package jigsaw

import (
	"image"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

var (
	square = []Point{{0, 0}, {100, 0}, {100, 100}, {0, 100}}
	lShape = []Point{{0, 0}, {20, 0}, {20, 60}, {60, 60}, {60, 80}, {0, 80}}
	comb   = []Point{
		{0, 0}, {50, 0}, {50, 40}, {40, 40}, {40, 10}, {30, 10}, {30, 40},
		{20, 40}, {20, 10}, {10, 10}, {10, 40}, {0, 40},
	}
)

// star returns a five pointed star centered on (50, 50).
func star() []Point {
	points := make([]Point, 0, 10)
	for i := 0; i < 10; i++ {
		r := 40.0
		if i%2 == 1 {
			r = 15
		}
		a := float64(i) * math.Pi / 5
		points = append(points, Point{X: 50 + r*math.Sin(a), Y: 50 - r*math.Cos(a)})
	}
	return points
}

func reversed(points []Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

// insidePolygon uses the crossing number rule.
func insidePolygon(points []Point, p Point) bool {
	inside := false
	for i, j := 0, len(points)-1; i < len(points); j, i = i, i+1 {
		a, b := points[i], points[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

func insideTriangle(a, b, c, p Point) bool {
	d1, d2, d3 := orient(a, b, p), orient(b, c, p), orient(c, a, p)
	neg := d1 < -1e-9 || d2 < -1e-9 || d3 < -1e-9
	pos := d1 > 1e-9 || d2 > 1e-9 || d3 > 1e-9
	return !(neg && pos)
}

// checkMesh verifies the mesh invariants and that it tiles the polygon.
func checkMesh(t *testing.T, points []Point, mesh Mesh) {
	t.Helper()
	if err := mesh.Validate(points); err != nil {
		t.Fatalf("invalid mesh: %v", err)
	}

	want := math.Abs(SignedArea(points))
	if got := mesh.Area(points); math.Abs(got-want) > 1e-6*math.Max(1, want) {
		t.Errorf("expected the triangles to cover %v, got %v", want, got)
	}

	sign := math.Copysign(1, SignedArea(points))
	for i, tri := range mesh {
		if sign*orient(points[tri[0]], points[tri[1]], points[tri[2]]) <= 0 {
			t.Errorf("triangle %d %v does not follow the input orientation", i, tri)
		}
	}

	minX, minY, maxX, maxY := math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	// Sample off the integer grid so no probe falls on an edge.
	for y := minY + 0.37; y < maxY; y += 1.91 {
		for x := minX + 0.23; x < maxX; x += 1.73 {
			p := Point{X: x, Y: y}
			if !insidePolygon(points, p) {
				continue
			}
			covered := false
			for _, tri := range mesh {
				if insideTriangle(points[tri[0]], points[tri[1]], points[tri[2]], p) {
					covered = true
					break
				}
			}
			if !covered {
				t.Fatalf("point %v inside the polygon is not covered by the mesh", p)
			}
		}
	}
}

func TestTriangulateSimplePolygons(t *testing.T) {
	// Vertices which become collinear once their neighbours are clipped are dropped
	// without a triangle, so only rings free of such alignments give n-2 triangles.
	tests := []struct {
		name   string
		points []Point
		exact  bool
	}{
		{"square", square, true},
		{"L shape", lShape, true},
		{"comb", comb, false},
		{"star", star(), true},
	}

	for _, tc := range tests {
		for _, dir := range []string{"clockwise", "counter-clockwise"} {
			points := tc.points
			if dir == "counter-clockwise" {
				points = reversed(points)
			}
			t.Run(tc.name+" "+dir, func(t *testing.T) {
				mesh := Triangulate(points)
				if tc.exact && len(mesh) != len(points)-2 {
					t.Errorf("expected %d triangles, got %d", len(points)-2, len(mesh))
				}
				checkMesh(t, points, mesh)
			})
		}
	}
}

func TestTriangulateSquare(t *testing.T) {
	mesh := Triangulate(square)
	if len(mesh) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(mesh))
	}
	if area := mesh.Area(square); area != 10000 {
		t.Errorf("expected area 10000, got %v", area)
	}
	for _, tri := range mesh {
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
			t.Errorf("repeated index in %v", tri)
		}
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{"nil", nil},
		{"one point", []Point{{1, 1}}},
		{"two points", []Point{{0, 0}, {10, 10}}},
		{"collinear", []Point{{0, 0}, {5, 5}, {10, 10}, {20, 20}}},
		{"duplicates", []Point{{0, 0}, {0, 0}, {10, 0}, {10, 0}, {0, 0}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mesh := Triangulate(tc.points)
			if len(mesh) != 0 {
				t.Errorf("expected an empty mesh, got %v", mesh)
			}
		})
	}
}

func TestTriangulateCollinearVertices(t *testing.T) {
	// A square with a point in the middle of every side.
	points := []Point{{0, 0}, {50, 0}, {100, 0}, {100, 50}, {100, 100}, {50, 100}, {0, 100}, {0, 50}}
	checkMesh(t, points, Triangulate(points))
}

func TestTriangulateDuplicatePoints(t *testing.T) {
	points := []Point{{0, 0}, {0, 0}, {20, 0}, {20, 60}, {20, 60}, {60, 60}, {60, 80}, {0, 80}, {0, 0}}
	mesh := Triangulate(points)
	checkMesh(t, points, mesh)
	if len(mesh) != 4 {
		t.Errorf("expected 4 triangles, got %d", len(mesh))
	}
}

func TestTriangulateDoesNotMutateInput(t *testing.T) {
	points := star()
	orig := append([]Point(nil), points...)
	Triangulate(points)
	if !reflect.DeepEqual(points, orig) {
		t.Error("the input points were modified")
	}
}

func TestTriangulateSelfIntersecting(t *testing.T) {
	bowtie := []Point{{0, 0}, {100, 100}, {100, 0}, {0, 100}}
	mesh := Triangulate(bowtie)
	if err := mesh.Validate(bowtie); err != nil {
		t.Errorf("best effort mesh must still be valid: %v", err)
	}

	// A decimated zig-zag which crosses itself several times.
	zigzag := []Point{{0, 0}, {50, 40}, {100, 0}, {60, 50}, {100, 100}, {50, 60}, {0, 100}, {40, 50}, {90, 50}, {10, 50}}
	mesh = Triangulate(zigzag)
	if err := mesh.Validate(zigzag); err != nil {
		t.Errorf("best effort mesh must still be valid: %v", err)
	}
}

func TestTriangulateTracedBoundary(t *testing.T) {
	img := newTestImage(80, 80, black, white,
		image.Rect(10, 10, 30, 70), image.Rect(10, 50, 70, 70), image.Rect(50, 20, 70, 50),
	)
	pieces, err := NewDetector().Detect(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pieces) != 1 {
		t.Fatalf("expected 1 piece, got %d", len(pieces))
	}

	points := pieces[0].Points
	mesh := Triangulate(points)
	checkMesh(t, points, mesh)
	if area := mesh.Area(points); math.Abs(area-float64(pieces[0].Area)) > 1e-6 {
		t.Errorf("expected the mesh to cover the %d pixels, got %v", pieces[0].Area, area)
	}

	decimated := Decimate(points, 4)
	checkMesh(t, decimated, Triangulate(decimated))
}

func TestTriangulateEightConnectedBoundary(t *testing.T) {
	// .##
	// #..
	// .#.
	// The boundary passes through two corners twice.
	img := newTestImage(5, 5, black, white, image.Rect(2, 1, 4, 2), image.Rect(1, 2, 2, 3), image.Rect(2, 3, 3, 4))
	d := NewDetector()
	d.Segmenter.MinArea = 1
	d.Segmenter.Connectivity = Eight

	pieces, err := d.Detect(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pieces) != 1 || pieces[0].Area != 4 {
		t.Fatalf("expected one piece of 4 pixels, got %+v", pieces)
	}
	points := pieces[0].Points
	mesh := Triangulate(points)
	checkMesh(t, points, mesh)
	if area := mesh.Area(points); area != 4 {
		t.Errorf("expected the mesh to cover 4 pixels, got %v", area)
	}
}

func TestTriangulateRandomBlobs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, conn := range []Connectivity{Four, Eight} {
		d := NewDetector()
		d.Segmenter.MinArea = 1
		d.Segmenter.Connectivity = conn

		for n := 0; n < 200; n++ {
			img := newTestImage(24, 24, black, white)
			for y := 1; y < 23; y++ {
				for x := 1; x < 23; x++ {
					if rng.Float64() < 0.45 {
						img.SetNRGBA(x, y, white)
					}
				}
			}
			pieces, err := d.Detect(img)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for i, p := range pieces {
				mesh := Triangulate(p.Points)
				if err := mesh.Validate(p.Points); err != nil {
					t.Fatalf("%d-connected blob %d, piece %d: %v", conn, n, i, err)
				}
				want := SignedArea(p.Points)
				if got := mesh.Area(p.Points); math.Abs(got-want) > 1e-6 {
					t.Fatalf("%d-connected blob %d, piece %d at %v: mesh area %v, polygon area %v",
						conn, n, i, p.Bounds(), got, want)
				}
			}
		}
	}
}

func TestMeshValidate(t *testing.T) {
	points := []Point{{0, 0}, {10, 0}, {10, 10}, {20, 20}}
	tests := []struct {
		name    string
		mesh    Mesh
		wantErr bool
	}{
		{"valid", Mesh{{0, 1, 2}}, false},
		{"empty", Mesh{}, false},
		{"out of range", Mesh{{0, 1, 4}}, true},
		{"negative", Mesh{{-1, 1, 2}}, true},
		{"repeated index", Mesh{{0, 1, 1}}, true},
		{"degenerate", Mesh{{0, 2, 3}}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.mesh.Validate(points)
			if (err != nil) != tc.wantErr {
				t.Errorf("expected error: %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSignedArea(t *testing.T) {
	if a := SignedArea(square); a != 10000 {
		t.Errorf("expected 10000 for a clockwise square, got %v", a)
	}
	if a := SignedArea(reversed(square)); a != -10000 {
		t.Errorf("expected -10000 for a counter-clockwise square, got %v", a)
	}
	if a := SignedArea(square[:2]); a != 0 {
		t.Errorf("expected 0 for a segment, got %v", a)
	}
}
