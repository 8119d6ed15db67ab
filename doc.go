/*
Package jigsaw is an image processing library which finds the pieces of a photograph and meshes their outline using ear clipping triangulation.

The package provides a command line utility supporting various customization options.
Check the supported commands by typing:

	$ jigsaw --help

The library is split into two independent engines. The Detector segments an image into
connected foreground regions and returns, for each one, its bounding box, a crop holding only
its pixels and the clockwise boundary polygon. Triangulate splits any simple polygon into
triangles indexing the input points.

Example to detect the pieces of an image and mesh the boundary of the first one:

	package main

	import (
		"fmt"
		"github.com/esimov/jigsaw"
	)

	func main() {
		img, err := jigsaw.LoadImage("piece.jpg")
		if err != nil {
			fmt.Printf("Error loading the image: %s", err.Error())
			return
		}

		pieces, err := jigsaw.NewDetector().Detect(img)
		if err != nil || len(pieces) == 0 {
			return
		}
		points := jigsaw.Decimate(pieces[0].Points, 16)
		mesh := jigsaw.Triangulate(points)
		fmt.Printf("%d triangles out of %d points\n", len(mesh), len(points))
	}

Example to mesh the most central piece and save the rendering as PNG:

	package main

	import (
		"fmt"
		"os"
		"github.com/esimov/jigsaw"
	)

	func main() {
		p := &jigsaw.Processor{
			// Initialize struct variables
		}

		file, _ := os.Open("piece.jpg")
		defer file.Close()

		_, res, err := p.Process(file, "output.png")
		if err != nil {
			fmt.Printf("Error on triangulation process: %s", err.Error())
			return
		}
		fmt.Printf("%d triangles generated\n", len(res.Mesh))
	}
*/
package jigsaw
