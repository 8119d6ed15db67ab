package jigsaw

import (
	"image"
	"image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

const (
	// DefaultStride is the decimation step applied to the boundary before triangulation.
	DefaultStride = 16
	// DefaultCanvasSize is the side of the square output image.
	DefaultCanvasSize = 2048
	// DefaultMargin is the share of the canvas kept free on every side.
	DefaultMargin = 0.05
)

// ErrNoPiece is returned when no piece qualifies for meshing.
var ErrNoPiece = errors.New("jigsaw: no piece found near the image center")

// Processor : type with processing options.
// Zero values fall back to the package defaults.
type Processor struct {
	Threshold    int
	MinArea      int
	Connectivity int
	BlurRadius   int
	MaxSize      int
	Stride       int
	Tolerance    float64
	CanvasSize   int
	Margin       float64
	PointRadius  float64
	LineWidth    float64
	Grayscale    bool
}

// Result holds the outcome of a processing run.
type Result struct {
	// Pieces are all the pieces found in the (possibly downscaled) image.
	Pieces []Piece
	// Piece is the selected piece.
	Piece *Piece
	// Points is the decimated boundary of Piece, in its crop coordinates.
	Points []Point
	// Mesh triangulates Points.
	Mesh Mesh
}

// Detector returns the piece detector configured by the processor options.
func (p *Processor) Detector() *Detector {
	d := NewDetector()
	if p.Threshold > 0 {
		d.Segmenter.Threshold = p.Threshold
	}
	if p.MinArea > 0 {
		d.Segmenter.MinArea = p.MinArea
	}
	d.Segmenter.BlurRadius = p.BlurRadius
	if p.Connectivity == 8 {
		d.Segmenter.Connectivity = Eight
	}
	return d
}

// Run detects the pieces of src, selects the most central and largest one,
// then decimates and triangulates its outline.
func (p *Processor) Run(src image.Image) (*Result, error) {
	if src == nil {
		return nil, ErrNilImage
	}
	img := src
	if b := src.Bounds(); p.MaxSize > 0 && (b.Dx() > p.MaxSize || b.Dy() > p.MaxSize) {
		img = imaging.Fit(src, p.MaxSize, p.MaxSize, imaging.Lanczos)
	}

	pieces, err := p.Detector().Detect(img)
	if err != nil {
		return nil, err
	}
	res := &Result{Pieces: pieces}

	b := img.Bounds()
	res.Piece = Selector{Tolerance: p.Tolerance}.Select(pieces, b.Dx(), b.Dy())
	if res.Piece == nil {
		return res, ErrNoPiece
	}
	res.Points = Decimate(res.Piece.Points, p.Stride)
	res.Mesh = Triangulate(res.Points)

	return res, nil
}

// Draw renders the selected piece centered on a square canvas, overlaid with its
// decimated boundary points and the triangles of its mesh.
func (p *Processor) Draw(res *Result) image.Image {
	size := p.CanvasSize
	if size <= 0 {
		size = DefaultCanvasSize
	}
	ctx := gg.NewContext(size, size)
	if res == nil || res.Piece == nil || res.Piece.Width == 0 || res.Piece.Height == 0 {
		return ctx.Image()
	}

	margin := p.Margin
	if margin <= 0 || margin >= 0.5 {
		margin = DefaultMargin
	}
	piece := res.Piece
	crop := piece.Image
	if p.Grayscale {
		crop = Grayscale(crop)
	}

	scale := float64(size) / float64(Max(piece.Width, piece.Height)) * (1 - margin*2)
	w, h := float64(piece.Width)*scale, float64(piece.Height)*scale
	ox, oy := (float64(size)-w)/2, (float64(size)-h)/2
	project := func(pt Point) Point {
		return Point{X: pt.X*scale + ox, Y: pt.Y*scale + oy}
	}

	ctx.Push()
	ctx.Translate(ox, oy)
	ctx.Scale(scale, scale)
	ctx.DrawImage(crop, 0, 0)
	ctx.Pop()

	radius := p.PointRadius
	if radius <= 0 {
		radius = 4
	}
	ctx.SetRGB(1, 0, 0)
	for _, pt := range res.Points {
		q := project(pt)
		ctx.DrawCircle(q.X, q.Y, radius)
		ctx.Fill()
	}

	lineWidth := p.LineWidth
	if lineWidth <= 0 {
		lineWidth = 2
	}
	ctx.SetLineWidth(lineWidth)
	for _, t := range res.Mesh {
		p0, p1, p2 := project(res.Points[t[0]]), project(res.Points[t[1]]), project(res.Points[t[2]])

		ctx.MoveTo(p0.X, p0.Y)
		ctx.LineTo(p1.X, p1.Y)
		ctx.LineTo(p2.X, p2.Y)
		ctx.ClosePath()

		ctx.SetRGBA(1, 0, 0, 1)
		ctx.StrokePreserve()
		ctx.SetRGBA(0, 0, 1, 0.5)
		ctx.Fill()
	}
	return ctx.Image()
}

// Process decodes the image read from file, meshes its central piece and saves the rendering as PNG into output.
func (p *Processor) Process(file io.Reader, output string) (*os.File, *Result, error) {
	src, err := DecodeImage(file)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decode image")
	}
	res, err := p.Run(src)
	if err != nil {
		return nil, res, err
	}

	fq, err := os.Create(output)
	if err != nil {
		return nil, res, errors.Wrap(err, "create output")
	}
	defer fq.Close()

	if err = png.Encode(fq, p.Draw(res)); err != nil {
		return nil, res, errors.Wrap(err, "encode png")
	}
	return fq, res, nil
}
