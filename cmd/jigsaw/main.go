package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/esimov/jigsaw"
	"github.com/esimov/jigsaw/utils"
)

var (
	// Flags
	source       = flag.String("in", "", "Source image, directory or URL")
	destination  = flag.String("out", "", "Destination")
	geoJSON      = flag.Bool("geojson", false, "Also save the pieces and the mesh as GeoJSON next to the output")
	threshold    = flag.Int("threshold", jigsaw.DefaultThreshold, "Foreground threshold")
	minArea      = flag.Int("minarea", jigsaw.DefaultMinArea, "Minimum piece area in pixels")
	connectivity = flag.Int("conn", 4, "Pixel connectivity (4 or 8)")
	blurRadius   = flag.Int("blur", 0, "Blur radius applied before segmentation")
	stride       = flag.Int("stride", jigsaw.DefaultStride, "Keep every n-th boundary point")
	tolerance    = flag.Float64("tolerance", jigsaw.DefaultTolerance, "Allowed distance of the piece from the image center")
	canvasSize   = flag.Int("size", jigsaw.DefaultCanvasSize, "Output canvas size")
	maxSize      = flag.Int("maxsize", 0, "Downscale larger images to this size before detection (0 disables)")
	pointRadius  = flag.Float64("radius", 4, "Boundary point radius")
	lineWidth    = flag.Float64("width", 2, "Triangle line width")
	grayscale    = flag.Bool("gray", false, "Convert the piece to grayscale")
)

func main() {
	flag.Parse()

	if len(*source) == 0 || len(*destination) == 0 {
		log.Fatal("Usage: jigsaw -in input.jpg -out out.png")
	}
	if *connectivity != 4 && *connectivity != 8 {
		log.Fatalf("Invalid connectivity %d: use 4 or 8", *connectivity)
	}

	p := &jigsaw.Processor{
		Threshold:    *threshold,
		MinArea:      *minArea,
		Connectivity: *connectivity,
		BlurRadius:   *blurRadius,
		MaxSize:      *maxSize,
		Stride:       *stride,
		Tolerance:    *tolerance,
		CanvasSize:   *canvasSize,
		PointRadius:  *pointRadius,
		LineWidth:    *lineWidth,
		Grayscale:    *grayscale,
	}

	toProcess := make(map[string]string)

	if utils.IsURL(*source) {
		f, err := utils.DownloadImage(*source)
		if err != nil {
			log.Fatalf("Unable to download source: %v", err)
		}
		f.Close()
		defer os.Remove(f.Name())
		toProcess[f.Name()] = *destination
	} else {
		fs, err := os.Stat(*source)
		if err != nil {
			log.Fatalf("Unable to open source: %v", err)
		}

		switch mode := fs.Mode(); {
		case mode.IsDir():
			// Supported image files.
			extensions := []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

			files, err := os.ReadDir(*source)
			if err != nil {
				log.Fatalf("Unable to read dir: %v", err)
			}

			// Check if the image destination is a directory or a file.
			dst, err := os.Stat(*destination)
			if err != nil {
				log.Fatalf("Unable to get dir stats: %v", err)
			}
			if dst.Mode().IsRegular() {
				log.Fatal("Please specify a directory as destination!")
			}

			for _, f := range files {
				ext := strings.ToLower(filepath.Ext(f.Name()))
				for _, iex := range extensions {
					if ext == iex {
						name := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
						toProcess[filepath.Join(*source, f.Name())] = filepath.Join(*destination, name+".png")
					}
				}
			}
		case mode.IsRegular():
			toProcess[*source] = *destination
		}
	}

	for in, out := range toProcess {
		if err := process(p, in, out); err != nil {
			fmt.Fprintf(os.Stderr, "\n%sError processing image %s: %s%s\n", utils.ErrorColor, in, err.Error(), utils.DefaultColor)
		}
	}
}

func process(p *jigsaw.Processor, in, out string) error {
	file, err := os.Open(in)
	if err != nil {
		return err
	}
	defer file.Close()

	s := utils.NewSpinner()
	s.Start("Meshing the central piece...")
	start := time.Now()
	_, res, err := p.Process(file, out)
	s.Stop()
	if err != nil {
		return err
	}

	fmt.Printf("\nGenerated in: %s\n", utils.Colorize(utils.SuccessColor, utils.FormatTime(time.Since(start))))
	fmt.Printf("Found %s pieces, selected %dx%d at (%d, %d)\n",
		utils.Colorize(utils.SuccessColor, fmt.Sprint(len(res.Pieces))),
		res.Piece.Width, res.Piece.Height, res.Piece.X, res.Piece.Y,
	)
	fmt.Printf("Total number of %s triangles generated out of %s points\n",
		utils.Colorize(utils.SuccessColor, fmt.Sprint(len(res.Mesh))),
		utils.Colorize(utils.SuccessColor, fmt.Sprint(len(res.Points))),
	)
	fmt.Printf("Saved as: %s %s\n", filepath.Base(out), utils.Colorize(utils.SuccessColor, "✓"))

	if *geoJSON {
		name := strings.TrimSuffix(out, filepath.Ext(out)) + ".geojson"
		if err := saveGeoJSON(res, name); err != nil {
			return err
		}
		fmt.Printf("GeoJSON saved as: %s\n\n", filepath.Base(name))
	}
	return nil
}

// saveGeoJSON writes all the pieces, followed by the triangles of the selected one, in image coordinates.
func saveGeoJSON(res *jigsaw.Result, name string) error {
	fc := jigsaw.FeatureCollection(res.Pieces)
	offset := jigsaw.Point{X: float64(res.Piece.X), Y: float64(res.Piece.Y)}
	mesh := jigsaw.MeshFeatureCollection(res.Points, res.Mesh, offset)
	for _, f := range mesh.Features {
		f.Properties["kind"] = "triangle"
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(name, data, 0o644)
}
