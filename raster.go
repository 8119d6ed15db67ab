package jigsaw

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"
)

// RasterizePolygon fills the closed polygon described by points into a width×height alpha mask
// using the non-zero winding rule. Pixels fully covered by the polygon get 0xff.
func RasterizePolygon(points []Point, width, height int) *image.Alpha {
	dst := image.NewAlpha(image.Rect(0, 0, Max(width, 0), Max(height, 0)))
	if len(points) < 3 || width <= 0 || height <= 0 {
		return dst
	}

	z := vector.NewRasterizer(width, height)
	z.DrawOp = draw.Src
	z.MoveTo(float32(points[0].X), float32(points[0].Y))
	for _, p := range points[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	return dst
}
