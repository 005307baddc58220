package engine

import (
	"mapper/pkg/gateway"
	"mapper/pkg/geo"
)

// Mode selects the route calculation strategy.
type Mode string

const (
	// ModeFull is a single point-to-point driving route.
	ModeFull Mode = "full"
	// ModeLocal composes walk + transit-hub + walk itineraries.
	ModeLocal Mode = "local"
)

// SegmentType distinguishes the two kinds of itinerary legs.
type SegmentType string

const (
	SegmentWalking   SegmentType = "walking"
	SegmentTransport SegmentType = "transport"
)

// Itinerary types.
const (
	ItineraryFull       = "full"
	ItineraryWalking    = "walking"
	ItineraryMultiModal = "multi-modal"
)

// Segment is one leg of an itinerary. Coordinates form a connected path from
// the segment's start to its end; consecutive segments in an itinerary share
// an endpoint.
type Segment struct {
	Type           SegmentType      `json:"type"`
	Distance       float64          `json:"distance"` // meters
	Duration       float64          `json:"duration"` // seconds
	Coordinates    []geo.Coordinate `json:"coordinates"`
	Description    string           `json:"description"`
	Icon           string           `json:"icon"`
	TransportType  string           `json:"transportType,omitempty"`
	Hub            *gateway.Hub     `json:"hub,omitempty"`
	DestinationHub *gateway.Hub     `json:"destinationHub,omitempty"`
}

// Itinerary is one ranked route candidate. Distance and duration always equal
// the sums over its segments.
type Itinerary struct {
	Type      string    `json:"type"`
	Distance  float64   `json:"distance"` // meters
	Duration  float64   `json:"duration"` // seconds
	Segments  []Segment `json:"segments"`
	Transfers int       `json:"transfers"`
}

// Request describes one route calculation. Ephemeral; never persisted.
type Request struct {
	Origin         geo.Coordinate `json:"origin"`
	Destination    geo.Coordinate `json:"destination"`
	Mode           Mode           `json:"mode"`
	TransportTypes []string       `json:"transportTypes,omitempty"`
}

// transportSpeeds estimates hub-to-hub travel speed (km/h) per hub type when
// no routed geometry is available.
var transportSpeeds = map[string]float64{
	gateway.HubBusStation:   25,
	gateway.HubMetro:        40,
	gateway.HubTaxi:         30,
	gateway.HubRickshaw:     20,
	gateway.HubBusStop:      25,
	gateway.HubTransportHub: 25,
}

const defaultTransportSpeed = 25

// transportProfile maps a hub type to the routing profile used for its
// middle leg. Everything maps to driving today; metro in particular is a
// known approximation since no underground routing data source exists.
func transportProfile(hubType string) string {
	return gateway.ProfileDriving
}

// TransportName returns the rider-facing label for a hub type.
func TransportName(hubType string) string {
	switch hubType {
	case gateway.HubBusStation:
		return "Bus"
	case gateway.HubMetro:
		return "Metro"
	case gateway.HubTaxi:
		return "Taxi/CNG"
	case gateway.HubRickshaw:
		return "Rickshaw"
	default:
		return "Transport"
	}
}

// TransportIcon returns the emoji for a hub type.
func TransportIcon(hubType string) string {
	switch hubType {
	case gateway.HubMetro:
		return "🚇"
	case gateway.HubTaxi:
		return "🚕"
	case gateway.HubRickshaw:
		return "🛺"
	default:
		return "🚌"
	}
}
