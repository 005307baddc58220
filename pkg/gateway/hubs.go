package gateway

import (
	"context"
	"log"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mapper/pkg/geo"
)

// Hub types, in classification-precedence order.
const (
	HubBusStation   = "bus_station"
	HubTaxi         = "taxi"
	HubMetro        = "metro"
	HubBusStop      = "bus_stop"
	HubRickshaw     = "rickshaw"
	HubTransportHub = "transport_hub"
)

// DefaultHubTypes are the amenity filters used when the caller does not
// express a preference.
var DefaultHubTypes = []string{"bus_station", "taxi", "public_transport"}

// Hub is a transit access point near a reference location. Distance is the
// great-circle distance in kilometers from that reference point, fixed at
// construction; hubs are recreated, not mutated, when the reference moves.
type Hub struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Lat      float64           `json:"lat"`
	Lng      float64           `json:"lng"`
	Tags     map[string]string `json:"tags,omitempty"`
	Distance float64           `json:"distance"`
}

// Coordinate returns the hub's position.
func (h Hub) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: h.Lat, Lng: h.Lng}
}

// FindNearestTransportHubs searches for transit hubs within radiusMeters of
// center, sorted ascending by distance. It never returns an error: any
// internal failure degrades to an empty list, because missing hubs downgrade
// a route calculation rather than abort it.
func (g *Gateway) FindNearestTransportHubs(ctx context.Context, center geo.Coordinate, radiusMeters float64, types []string) []Hub {
	if err := center.Validate(); err != nil {
		log.Printf("[gateway] hub search rejected: %v", err)
		return []Hub{}
	}
	if len(types) == 0 {
		types = DefaultHubTypes
	}

	box := geo.BoundsAround(center, radiusMeters)
	elements, err := g.FetchTransportPOIs(ctx, box, types)
	if err != nil {
		log.Printf("[gateway] hub search failed: %v", err)
		return []Hub{}
	}

	radiusKm := radiusMeters / 1000
	hubs := make([]Hub, 0, len(elements))
	for _, el := range elements {
		pos := geo.Coordinate{Lat: el.Lat, Lng: el.Lon}
		if (el.Lat == 0 && el.Lon == 0) || pos.Validate() != nil {
			continue
		}
		distance := geo.Haversine(center, pos)
		if distance > radiusKm {
			continue
		}
		hubs = append(hubs, Hub{
			ID:       el.ID,
			Name:     hubName(el.Tags),
			Type:     ClassifyHub(el.Tags),
			Lat:      el.Lat,
			Lng:      el.Lon,
			Tags:     el.Tags,
			Distance: distance,
		})
	}

	sort.Slice(hubs, func(i, j int) bool {
		return hubs[i].Distance < hubs[j].Distance
	})

	return hubs
}

// ClassifyHub derives the hub type from OSM tags. The precedence order is a
// tie-break policy and must not be reordered: an amenity=bus_station that is
// also a public_transport=station is a bus station.
func ClassifyHub(tags map[string]string) string {
	switch {
	case tags["amenity"] == "bus_station":
		return HubBusStation
	case tags["amenity"] == "taxi":
		return HubTaxi
	case tags["public_transport"] == "station":
		return HubMetro
	case tags["public_transport"] == "stop_position":
		return HubBusStop
	case tags["highway"] == "bus_stop":
		return HubBusStop
	default:
		return HubTransportHub
	}
}

var titleCaser = cases.Title(language.English)

// hubName picks a display name: the mapped name if present, otherwise the
// amenity value dressed up ("bus_station" -> "Bus Station"), otherwise a
// generic label.
func hubName(tags map[string]string) string {
	if name := tags["name"]; name != "" {
		return name
	}
	if amenity := tags["amenity"]; amenity != "" {
		return titleCaser.String(strings.ReplaceAll(amenity, "_", " "))
	}
	return "Transport Hub"
}
