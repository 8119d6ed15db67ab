package jigsaw

import (
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/exp/constraints"

	// Register the decoders accepted by DecodeImage and LoadImage.
	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// DecodeImage decodes an image from r, rotating it according to its EXIF orientation tag.
func DecodeImage(r io.Reader) (image.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(true))
}

// LoadImage opens and decodes the image file found at path.
func LoadImage(path string) (image.Image, error) {
	return imaging.Open(path, imaging.AutoOrientation(true))
}

// ImgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
// The source is returned as is when it already satisfies both conditions.
func ImgToNRGBA(img image.Image) *image.NRGBA {
	srcBounds := img.Bounds()
	if srcBounds.Min.X == 0 && srcBounds.Min.Y == 0 {
		if src0, ok := img.(*image.NRGBA); ok {
			return src0
		}
	}
	return imaging.Clone(img)
}

// Grayscale converts the image to grayscale mode, keeping the alpha channel untouched.
func Grayscale(src *image.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si, di := src.PixOffset(x, y), dst.PixOffset(x, y)
			r, g, bl := src.Pix[si], src.Pix[si+1], src.Pix[si+2]
			lum := float32(r)*0.299 + float32(g)*0.587 + float32(bl)*0.114
			v := uint8(Clamp(lum+0.5, 0, 255))
			dst.Pix[di+0] = v
			dst.Pix[di+1] = v
			dst.Pix[di+2] = v
			dst.Pix[di+3] = src.Pix[si+3]
		}
	}
	return dst
}

// boxBlur averages every channel of img over a (2*radius+1)² window and returns the result as a new image.
// Pixels outside of the image are not part of the average.
func boxBlur(img *image.NRGBA, radius int) *image.NRGBA {
	var (
		width  = img.Bounds().Dx()
		height = img.Bounds().Dy()
		dst    = image.NewNRGBA(img.Bounds())
	)
	if radius <= 0 {
		copy(dst.Pix, img.Pix)
		return dst
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum [4]int
			total := 0

			for row := -radius; row <= radius; row++ {
				sy := y + row
				if sy < 0 || sy >= height {
					continue
				}
				for col := -radius; col <= radius; col++ {
					sx := x + col
					if sx < 0 || sx >= width {
						continue
					}
					si := img.PixOffset(sx, sy)
					sum[0] += int(img.Pix[si])
					sum[1] += int(img.Pix[si+1])
					sum[2] += int(img.Pix[si+2])
					sum[3] += int(img.Pix[si+3])
					total++
				}
			}
			di := dst.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				dst.Pix[di+c] = uint8(sum[c] / total)
			}
		}
	}
	return dst
}

// nrgbaAt returns the non-premultiplied color of c as an NRGBA value.
func nrgbaAt(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

// Min returns the smallest value between two numbers.
func Min[T constraints.Ordered](values ...T) T {
	var acc T = values[0]

	for _, v := range values {
		if v < acc {
			acc = v
		}
	}
	return acc
}

// Max returns the biggest value between two numbers.
func Max[T constraints.Ordered](values ...T) T {
	var acc T = values[0]

	for _, v := range values {
		if v > acc {
			acc = v
		}
	}
	return acc
}

// Clamp restricts v to the [lo, hi] interval.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return Min(Max(v, lo), hi)
}

// absDiff returns the absolute difference of two channel values.
func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
