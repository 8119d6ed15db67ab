package jigsaw

import (
	"image"
	"image/color"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Connectivity defines which neighbours join two foreground pixels into the same component.
type Connectivity int

const (
	// Four joins pixels sharing an edge.
	Four Connectivity = 4
	// Eight joins pixels sharing an edge or a corner.
	Eight Connectivity = 8
)

const (
	// DefaultThreshold is the minimum channel deviation from the background for a pixel to count as foreground.
	DefaultThreshold = 48
	// DefaultMinArea is the pixel count below which a component is treated as noise.
	DefaultMinArea = 64
)

var (
	// ErrNilImage is returned when no image is given to the segmenter.
	ErrNilImage = errors.New("jigsaw: nil image")
	// ErrInvalidBounds is returned for images reporting a negative width or height.
	ErrInvalidBounds = errors.New("jigsaw: invalid image bounds")
)

// Segmenter separates the foreground pixels of an image from the background
// and groups them into connected components.
type Segmenter struct {
	// Threshold is the minimum deviation of any NRGBA channel from the background reference.
	Threshold int
	// MinArea discards components with fewer pixels.
	MinArea int
	// Connectivity selects 4- or 8-connected labeling. The zero value means Four.
	Connectivity Connectivity
	// Background is the reference color. When nil it is sampled as the median of the border pixels.
	Background color.Color
	// BlurRadius smooths the image with a box filter before classification.
	BlurRadius int
}

// NewSegmenter returns a Segmenter with the default options.
func NewSegmenter() *Segmenter {
	return &Segmenter{
		Threshold:    DefaultThreshold,
		MinArea:      DefaultMinArea,
		Connectivity: Four,
	}
}

// labelMap is the label arena shared by all the components of one segmentation.
// A zero label marks background.
type labelMap struct {
	labels        []int32
	width, height int
}

func (m *labelMap) at(x, y int) int32 {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return 0
	}
	return m.labels[y*m.width+x]
}

// Component is a connected set of foreground pixels.
type Component struct {
	Label  int
	Seed   image.Point // topmost, then leftmost pixel
	Bounds image.Rectangle
	Area   int

	conn  Connectivity
	arena *labelMap
	src   *image.NRGBA
}

// Contains reports whether the pixel at (x, y) belongs to the component.
func (c Component) Contains(x, y int) bool {
	return c.arena != nil && c.Label > 0 && c.arena.at(x, y) == int32(c.Label)
}

// Segment classifies every pixel of img and returns the connected foreground components,
// ordered by the raster position of their seed pixel.
func (s *Segmenter) Segment(img image.Image) ([]Component, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	b := img.Bounds()
	if b.Dx() < 0 || b.Dy() < 0 {
		return nil, errors.Wrapf(ErrInvalidBounds, "%v", b)
	}
	if b.Empty() {
		return []Component{}, nil
	}

	src := ImgToNRGBA(img)
	arena, comps := s.label(s.foreground(src), b.Dx(), b.Dy())
	for i := range comps {
		comps[i].arena = arena
		comps[i].src = src
	}
	return comps, nil
}

// foreground returns the foreground mask of src in row-major order.
func (s *Segmenter) foreground(src *image.NRGBA) []bool {
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	if s.BlurRadius > 0 {
		src = boxBlur(src, s.BlurRadius)
	}

	var ref color.NRGBA
	if s.Background != nil {
		ref = nrgbaAt(s.Background)
	} else {
		ref = borderMedian(src)
	}

	mask := make([]bool, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := src.PixOffset(x, y)
			dev := Max(
				absDiff(src.Pix[i], ref.R),
				absDiff(src.Pix[i+1], ref.G),
				absDiff(src.Pix[i+2], ref.B),
				absDiff(src.Pix[i+3], ref.A),
			)
			mask[y*width+x] = dev > s.Threshold
		}
	}
	return mask
}

// borderMedian samples the image border and returns the per-channel median color.
func borderMedian(src *image.NRGBA) color.NRGBA {
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	var channels [4][]float64

	sample := func(x, y int) {
		i := src.PixOffset(x, y)
		for c := 0; c < 4; c++ {
			channels[c] = append(channels[c], float64(src.Pix[i+c]))
		}
	}
	for x := 0; x < width; x++ {
		sample(x, 0)
		if height > 1 {
			sample(x, height-1)
		}
	}
	for y := 1; y < height-1; y++ {
		sample(0, y)
		if width > 1 {
			sample(width-1, y)
		}
	}

	var med [4]uint8
	for c := range channels {
		sort.Float64s(channels[c])
		med[c] = uint8(Clamp(stat.Quantile(0.5, stat.Empirical, channels[c], nil), 0, 255))
	}
	return color.NRGBA{R: med[0], G: med[1], B: med[2], A: med[3]}
}

// label runs a two-pass connected component labeling over mask, using union-find
// over the provisional labels, and returns the resolved arena with the kept components.
func (s *Segmenter) label(mask []bool, width, height int) (*labelMap, []Component) {
	labels := make([]int32, width*height)
	parent := []int32{0}

	find := func(x int32) int32 {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int32) int32 {
		ra, rb := find(a), find(b)
		if ra < rb {
			parent[rb] = ra
			return ra
		}
		parent[ra] = rb
		return rb
	}

	eight := s.Connectivity == Eight
	// Previously visited neighbours: west, north, and for 8-connectivity north-west and north-east.
	neighbours := []image.Point{{-1, 0}, {0, -1}}
	if eight {
		neighbours = append(neighbours, image.Point{-1, -1}, image.Point{1, -1})
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if !mask[i] {
				continue
			}
			var cur int32
			for _, n := range neighbours {
				nx, ny := x+n.X, y+n.Y
				if nx < 0 || ny < 0 || nx >= width {
					continue
				}
				l := labels[ny*width+nx]
				if l == 0 {
					continue
				}
				if cur == 0 {
					cur = find(l)
				} else {
					cur = union(cur, l)
				}
			}
			if cur == 0 {
				cur = int32(len(parent))
				parent = append(parent, cur)
			}
			labels[i] = cur
		}
	}

	// Resolve the roots and number them in the raster order of their first pixel.
	var (
		order = make([]int32, len(parent))
		comps []Component
	)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if labels[i] == 0 {
				continue
			}
			root := find(labels[i])
			id := order[root]
			if id == 0 {
				comps = append(comps, Component{
					Seed:   image.Pt(x, y),
					Bounds: image.Rect(x, y, x+1, y+1),
				})
				id = int32(len(comps))
				order[root] = id
			}
			c := &comps[id-1]
			c.Area++
			c.Bounds = c.Bounds.Union(image.Rect(x, y, x+1, y+1))
			labels[i] = id
		}
	}

	// Drop the noise and compact the surviving labels.
	final := make([]int32, len(comps)+1)
	kept := comps[:0]
	for i, c := range comps {
		if c.Area < s.MinArea {
			continue
		}
		kept = append(kept, c)
		final[i+1] = int32(len(kept))
	}
	for i, l := range labels {
		if l != 0 {
			labels[i] = final[l]
		}
	}

	conn := Four
	if eight {
		conn = Eight
	}
	for i := range kept {
		kept[i].Label = i + 1
		kept[i].conn = conn
	}
	return &labelMap{labels: labels, width: width, height: height}, kept
}
