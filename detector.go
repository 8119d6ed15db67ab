package jigsaw

import (
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Piece is a detected foreground region.
type Piece struct {
	// X, Y, Width and Height describe the bounding box in image space.
	X, Y, Width, Height int
	// Area is the number of pixels of the region.
	Area int
	// Image is a crop of the bounding box holding only the region's pixels.
	Image *image.NRGBA
	// Points is the clockwise outer boundary in the crop's coordinate space.
	// The ring is implicitly closed.
	Points []Point
}

// Bounds returns the bounding box of the piece in image space.
func (p Piece) Bounds() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

// Center returns the center of the bounding box in image space.
func (p Piece) Center() Point {
	return Point{
		X: float64(p.X) + float64(p.Width)/2,
		Y: float64(p.Y) + float64(p.Height)/2,
	}
}

// Detector finds the pieces of an image.
type Detector struct {
	Segmenter Segmenter
	Tracer    Tracer
	// Workers bounds the number of components traced concurrently. Zero means runtime.NumCPU.
	Workers int
}

// NewDetector returns a Detector with the default segmentation options.
func NewDetector() *Detector {
	return &Detector{
		Segmenter: *NewSegmenter(),
	}
}

// Detect segments img and traces every component found. The pieces are ordered by the
// raster position of their topmost, leftmost pixel, so identical inputs give identical results.
func (d *Detector) Detect(img image.Image) ([]Piece, error) {
	comps, err := d.Segmenter.Segment(img)
	if err != nil {
		return nil, err
	}

	workers := d.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pieces := make([]Piece, len(comps))
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i := range comps {
		i := i
		g.Go(func() error {
			bounds, crop, points := d.Tracer.Trace(comps[i])
			pieces[i] = Piece{
				X:      bounds.Min.X,
				Y:      bounds.Min.Y,
				Width:  bounds.Dx(),
				Height: bounds.Dy(),
				Area:   comps[i].Area,
				Image:  crop,
				Points: points,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pieces, nil
}
