package jigsaw

import (
	"math"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// FeatureCollection exports the pieces as GeoJSON polygons in image pixel space.
// Feature IDs are derived from the geometry, so the same pieces always get the same IDs.
func FeatureCollection(pieces []Piece) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, p := range pieces {
		poly := orb.Polygon{closedRing(p.Points, float64(p.X), float64(p.Y))}

		f := geojson.NewFeature(poly)
		f.ID = featureID(poly)
		f.Properties["index"] = i
		f.Properties["x"] = p.X
		f.Properties["y"] = p.Y
		f.Properties["width"] = p.Width
		f.Properties["height"] = p.Height
		f.Properties["area"] = p.Area
		f.Properties["points"] = len(p.Points)
		f.Properties["polygon_area"] = math.Abs(planar.Area(poly))
		fc.Append(f)
	}
	return fc
}

// MeshFeatureCollection exports every triangle of the mesh as a GeoJSON polygon,
// with the points moved by offset.
func MeshFeatureCollection(points []Point, mesh Mesh, offset Point) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, t := range mesh {
		tri := []Point{points[t[0]], points[t[1]], points[t[2]]}
		f := geojson.NewFeature(orb.Polygon{closedRing(tri, offset.X, offset.Y)})
		f.ID = i
		f.Properties["indices"] = []int{t[0], t[1], t[2]}
		fc.Append(f)
	}
	return fc
}

// closedRing converts points to an orb ring, repeating the first point at the end.
func closedRing(points []Point, dx, dy float64) orb.Ring {
	ring := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, orb.Point{p.X + dx, p.Y + dy})
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

func featureID(g orb.Geometry) string {
	data, err := wkb.Marshal(g)
	if err != nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(g.GeoJSONType())).String()
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, data).String()
}
