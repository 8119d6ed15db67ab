package jigsaw

import (
	"image"
	"testing"
)

func BenchmarkDetect(b *testing.B) {
	img := newTestImage(1024, 1024, black, white,
		image.Rect(100, 100, 600, 500), image.Rect(300, 450, 900, 900), image.Rect(700, 80, 950, 300),
	)
	d := NewDetector()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := d.Detect(img); err != nil {
			b.Fatalf("Failed detecting the pieces: %v", err)
		}
	}
}

func BenchmarkTriangulate(b *testing.B) {
	img := newTestImage(512, 512, black, white,
		image.Rect(50, 50, 200, 450), image.Rect(50, 300, 450, 450), image.Rect(300, 100, 450, 300),
	)
	pieces, err := NewDetector().Detect(img)
	if err != nil || len(pieces) == 0 {
		b.Skipf("Failed detecting the benchmark piece: %v", err)
	}
	points := pieces[0].Points

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Triangulate(points)
	}
}
