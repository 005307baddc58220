package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	// GEC Circle to Agrabad, Chattogram: roughly 2.8km apart
	a := Coordinate{Lat: 22.3594, Lng: 91.8216}
	b := Coordinate{Lat: 22.3384, Lng: 91.8317}

	d := Haversine(a, b)
	if d < 2.0 || d > 3.5 {
		t.Errorf("expected roughly 2.8km between GEC and Agrabad, got %f", d)
	}

	// Distance to self must be zero
	if d := Haversine(a, a); d != 0 {
		t.Errorf("expected zero distance to self, got %f", d)
	}

	// Symmetry
	if Haversine(a, b) != Haversine(b, a) {
		t.Errorf("haversine is not symmetric")
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// One degree of latitude at the equator is ~111.19km
	a := Coordinate{Lat: 0, Lng: 0}
	b := Coordinate{Lat: 1, Lng: 0}

	d := Haversine(a, b)
	if math.Abs(d-111.19) > 0.5 {
		t.Errorf("expected ~111.19km for one degree of latitude, got %f", d)
	}
}

func TestValidate(t *testing.T) {
	valid := []Coordinate{
		{Lat: 0, Lng: 0},
		{Lat: 90, Lng: 180},
		{Lat: -90, Lng: -180},
		{Lat: 22.35, Lng: 91.83},
	}
	for _, c := range valid {
		if err := c.Validate(); err != nil {
			t.Errorf("expected %v to be valid, got %v", c, err)
		}
	}

	invalid := []Coordinate{
		{Lat: 91, Lng: 0},
		{Lat: -91, Lng: 0},
		{Lat: 0, Lng: 181},
		{Lat: 0, Lng: -181},
		{Lat: math.NaN(), Lng: 0},
	}
	for _, c := range invalid {
		if err := c.Validate(); err == nil {
			t.Errorf("expected %v to be invalid", c)
		}
	}
}

func TestBoundsAround(t *testing.T) {
	center := Coordinate{Lat: 22.35, Lng: 91.83}
	box := BoundsAround(center, 1000)

	wantLatDelta := 1000.0 / 111000
	if math.Abs((box.North-center.Lat)-wantLatDelta) > 1e-9 {
		t.Errorf("unexpected north delta: %f", box.North-center.Lat)
	}
	if math.Abs((center.Lat-box.South)-wantLatDelta) > 1e-9 {
		t.Errorf("unexpected south delta: %f", center.Lat-box.South)
	}

	wantLngDelta := 1000.0 / (111000 * math.Cos(center.Lat*math.Pi/180))
	if math.Abs((box.East-center.Lng)-wantLngDelta) > 1e-9 {
		t.Errorf("unexpected east delta: %f", box.East-center.Lng)
	}

	// The longitude delta must be wider than the latitude delta away from
	// the equator.
	if (box.East - center.Lng) <= (box.North - center.Lat) {
		t.Errorf("expected longitude delta to exceed latitude delta at lat=22.35")
	}
}

func TestBoundingBoxExtend(t *testing.T) {
	var box BoundingBox

	box.Extend(Coordinate{Lat: 22.35, Lng: 91.83})
	if box.North != 22.35 || box.South != 22.35 || box.West != 91.83 || box.East != 91.83 {
		t.Fatalf("first extend should adopt the point, got %+v", box)
	}

	box.Extend(Coordinate{Lat: 22.36, Lng: 91.82})
	if box.North != 22.36 || box.South != 22.35 {
		t.Errorf("unexpected latitude extent: %+v", box)
	}
	if box.West != 91.82 || box.East != 91.83 {
		t.Errorf("unexpected longitude extent: %+v", box)
	}

	var other BoundingBox
	other.Extend(Coordinate{Lat: 22.40, Lng: 91.90})
	box.Union(other)
	if box.North != 22.40 || box.East != 91.90 {
		t.Errorf("union did not grow the box: %+v", box)
	}
}
