// Package render is the presentation adapter: a map-surface abstraction the
// routing engine draws onto, concrete polyline/marker overlay types, and the
// display formatting helpers shared by the CLI and the HTTP API.
package render

import (
	"github.com/google/uuid"

	"mapper/pkg/geo"
)

// Surface is any object the engine can draw on. The real map lives in the
// excluded UI shell; the engine only needs these three operations.
type Surface interface {
	AddLayer(layer Layer)
	RemoveLayer(layer Layer)
	// FitBounds adjusts the viewport to the given box with padding in pixels.
	FitBounds(box geo.BoundingBox, padding int)
}

// Layer is one drawable overlay.
type Layer interface {
	LayerID() string
	Bounds() geo.BoundingBox
}

// Polyline is an ordered path drawn on the map.
type Polyline struct {
	ID      string           `json:"id"`
	Kind    string           `json:"kind"`
	Points  []geo.Coordinate `json:"points"`
	Color   string           `json:"color"`
	Weight  int              `json:"weight"`
	Opacity float64          `json:"opacity"`
	Dashed  bool             `json:"dashed"`
}

// NewPolyline builds a polyline overlay with a fresh identity.
func NewPolyline(points []geo.Coordinate, color string, weight int, dashed bool) *Polyline {
	return &Polyline{
		ID:      uuid.NewString(),
		Kind:    "polyline",
		Points:  points,
		Color:   color,
		Weight:  weight,
		Opacity: 0.8,
		Dashed:  dashed,
	}
}

func (p *Polyline) LayerID() string { return p.ID }

func (p *Polyline) Bounds() geo.BoundingBox {
	var box geo.BoundingBox
	for _, pt := range p.Points {
		box.Extend(pt)
	}
	return box
}

// Marker is a point overlay with an icon and a popup.
type Marker struct {
	ID    string         `json:"id"`
	Kind  string         `json:"kind"`
	At    geo.Coordinate `json:"at"`
	Icon  string         `json:"icon"`
	Color string         `json:"color"`
	Popup string         `json:"popup"`
}

// NewMarker builds a marker overlay with a fresh identity.
func NewMarker(at geo.Coordinate, icon, color, popup string) *Marker {
	return &Marker{
		ID:    uuid.NewString(),
		Kind:  "marker",
		At:    at,
		Icon:  icon,
		Color: color,
		Popup: popup,
	}
}

func (m *Marker) LayerID() string { return m.ID }

func (m *Marker) Bounds() geo.BoundingBox {
	var box geo.BoundingBox
	box.Extend(m.At)
	return box
}

// MemorySurface records overlays instead of drawing them. The CLI uses it to
// summarize what would be drawn and the HTTP API serializes its layers back
// to the UI shell.
type MemorySurface struct {
	Layers   []Layer
	Viewport geo.BoundingBox
	Padding  int
	FitCalls int
}

// NewMemorySurface returns an empty recording surface.
func NewMemorySurface() *MemorySurface {
	return &MemorySurface{}
}

func (s *MemorySurface) AddLayer(layer Layer) {
	s.Layers = append(s.Layers, layer)
}

func (s *MemorySurface) RemoveLayer(layer Layer) {
	for i, l := range s.Layers {
		if l.LayerID() == layer.LayerID() {
			s.Layers = append(s.Layers[:i], s.Layers[i+1:]...)
			return
		}
	}
}

func (s *MemorySurface) FitBounds(box geo.BoundingBox, padding int) {
	s.Viewport = box
	s.Padding = padding
	s.FitCalls++
}

// Polylines returns the recorded polyline layers in draw order.
func (s *MemorySurface) Polylines() []*Polyline {
	var out []*Polyline
	for _, l := range s.Layers {
		if p, ok := l.(*Polyline); ok {
			out = append(out, p)
		}
	}
	return out
}

// Markers returns the recorded marker layers in draw order.
func (s *MemorySurface) Markers() []*Marker {
	var out []*Marker
	for _, l := range s.Layers {
		if m, ok := l.(*Marker); ok {
			out = append(out, m)
		}
	}
	return out
}
