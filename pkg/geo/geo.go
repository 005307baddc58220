// Package geo provides the small amount of spherical geometry the rest of
// the application needs: great-circle distances, bounding boxes around a
// point, and coordinate validation.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// Coordinate is a WGS84 position in floating-point degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate returns an error if the coordinate is outside the valid
// latitude/longitude ranges or is not a number.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return fmt.Errorf("coordinate contains NaN: %v", c)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("invalid latitude: %f (must be between -90 and 90)", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("invalid longitude: %f (must be between -180 and 180)", c.Lng)
	}
	return nil
}

// Haversine calculates the great-circle distance between two points in
// kilometers.
func Haversine(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// BoundingBox is a north/west/south/east rectangle in degrees.
type BoundingBox struct {
	North float64 `json:"north"`
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
}

// BoundsAround computes the bounding box spanning radiusMeters in every
// direction from center. One degree of latitude is roughly 111 km; the
// longitude delta is widened by the latitude's cosine.
func BoundsAround(center Coordinate, radiusMeters float64) BoundingBox {
	latDelta := radiusMeters / 111000
	lngDelta := radiusMeters / (111000 * math.Cos(center.Lat*math.Pi/180))

	return BoundingBox{
		North: center.Lat + latDelta,
		West:  center.Lng - lngDelta,
		South: center.Lat - latDelta,
		East:  center.Lng + lngDelta,
	}
}

// Extend grows the box to include p. A zero box adopts p as its initial
// extent, so boxes can be accumulated from an empty value.
func (b *BoundingBox) Extend(p Coordinate) {
	if b.IsZero() {
		b.North, b.South = p.Lat, p.Lat
		b.West, b.East = p.Lng, p.Lng
		return
	}
	b.North = math.Max(b.North, p.Lat)
	b.South = math.Min(b.South, p.Lat)
	b.West = math.Min(b.West, p.Lng)
	b.East = math.Max(b.East, p.Lng)
}

// Union grows the box to include another box.
func (b *BoundingBox) Union(other BoundingBox) {
	if other.IsZero() {
		return
	}
	b.Extend(Coordinate{Lat: other.North, Lng: other.West})
	b.Extend(Coordinate{Lat: other.South, Lng: other.East})
}

// IsZero reports whether the box has never been extended.
func (b BoundingBox) IsZero() bool {
	return b.North == 0 && b.South == 0 && b.West == 0 && b.East == 0
}
