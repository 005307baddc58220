// Package engine turns a route request into ranked itineraries by composing
// the gateway's capabilities: hub discovery, walking and driving sub-routes,
// and synthesized approximations when providers are unavailable.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"mapper/pkg/gateway"
	"mapper/pkg/geo"
	"mapper/pkg/render"
)

// Composition policy.
const (
	maxWalkDistance = 2000 // meters; beyond this pure walking is impractical
	hubSearchRadius = 1000 // meters around each endpoint
	maxHubsPerSide  = 3
	maxRouteOptions = 3
	fitPadding      = 20 // pixels
)

// routeColors distinguish simultaneously rendered candidates.
var routeColors = []string{"#4890E8", "#5EBE86", "#F29F51"}

var (
	// ErrNoRouteFound: the provider answered but had no usable route.
	ErrNoRouteFound = errors.New("no route found between the selected points")
	// ErrNoSuitableRoutes: local-mode composition produced zero candidates.
	ErrNoSuitableRoutes = errors.New("no suitable routes found, try adjusting your destination or transport preferences")
)

// Router composes itineraries and owns the overlays it has drawn on its
// surface. One calculation at a time per instance: the overlay list is
// cleared synchronously at the start of every request so a stale render
// never overlaps a fresh one.
type Router struct {
	api     *gateway.Gateway
	surface render.Surface
	current []render.Layer
}

// NewRouter builds a router drawing onto the given surface.
func NewRouter(api *gateway.Gateway, surface render.Surface) *Router {
	return &Router{api: api, surface: surface}
}

// CalculateRoute produces ranked itineraries for the request and renders
// them. Full mode yields exactly one itinerary; local mode yields up to
// three, sorted ascending by duration.
func (r *Router) CalculateRoute(ctx context.Context, req Request) ([]Itinerary, error) {
	if err := req.Origin.Validate(); err != nil {
		return nil, fmt.Errorf("invalid origin: %w", err)
	}
	if err := req.Destination.Validate(); err != nil {
		return nil, fmt.Errorf("invalid destination: %w", err)
	}

	// Must happen before any network work; see the ordering note above.
	r.ClearRoutes()

	switch req.Mode {
	case ModeFull, "":
		it, err := r.calculateFullRoute(ctx, req.Origin, req.Destination)
		if err != nil {
			return nil, err
		}
		return []Itinerary{*it}, nil
	case ModeLocal:
		return r.calculateLocalRoute(ctx, req)
	default:
		return nil, fmt.Errorf("unknown route mode: %q", req.Mode)
	}
}

// ClearRoutes removes every overlay drawn by the previous calculation.
func (r *Router) ClearRoutes() {
	for _, layer := range r.current {
		r.surface.RemoveLayer(layer)
	}
	r.current = nil
}

// calculateFullRoute requests one driving route between the endpoints and
// renders it as a single polyline.
func (r *Router) calculateFullRoute(ctx context.Context, origin, destination geo.Coordinate) (*Itinerary, error) {
	resp, err := r.api.FetchRoute(ctx, []geo.Coordinate{origin, destination}, gateway.ProfileDriving)
	if err != nil {
		return nil, err
	}
	if len(resp.Routes) == 0 {
		return nil, ErrNoRouteFound
	}

	route := resp.Routes[0]
	it := &Itinerary{
		Type:      ItineraryFull,
		Distance:  route.Distance,
		Duration:  route.Duration,
		Segments:  segmentsFromSteps(route),
		Transfers: 0,
	}

	line := render.NewPolyline(route.Geometry.Path(), routeColors[0], 6, false)
	r.addLayer(line)
	r.surface.FitBounds(line.Bounds(), fitPadding)

	return it, nil
}

// segmentsFromSteps reconstructs display segments from the provider's
// per-leg steps, falling back to one whole-route segment when the provider
// sent no step detail.
func segmentsFromSteps(route gateway.Route) []Segment {
	var segments []Segment
	for _, leg := range route.Legs {
		for _, step := range leg.Steps {
			desc := "Continue"
			if step.Name != "" {
				desc = "Drive along " + step.Name
			}
			segments = append(segments, Segment{
				Type:          SegmentTransport,
				TransportType: gateway.ProfileDriving,
				Distance:      step.Distance,
				Duration:      step.Duration,
				Coordinates:   step.Geometry.Path(),
				Description:   desc,
				Icon:          "🚗",
			})
		}
	}
	if len(segments) == 0 {
		segments = []Segment{{
			Type:          SegmentTransport,
			TransportType: gateway.ProfileDriving,
			Distance:      route.Distance,
			Duration:      route.Duration,
			Coordinates:   route.Geometry.Path(),
			Description:   "Drive to destination",
			Icon:          "🚗",
		}}
	}
	return segments
}

// calculateLocalRoute is the multi-modal composition: hub discovery on both
// sides, a direct walking candidate, up to nine walk+transport+walk
// combinations, then ranking.
func (r *Router) calculateLocalRoute(ctx context.Context, req Request) ([]Itinerary, error) {
	types := req.TransportTypes
	if len(types) == 0 {
		types = gateway.DefaultHubTypes
	}

	originHubs := r.api.FindNearestTransportHubs(ctx, req.Origin, hubSearchRadius, types)
	destHubs := r.api.FindNearestTransportHubs(ctx, req.Destination, hubSearchRadius, types)

	if len(originHubs) == 0 && len(destHubs) == 0 {
		// No transit anywhere nearby: a plain walking route is the answer,
		// not an error.
		walk, err := r.walkingSegment(ctx, req.Origin, req.Destination, "Walk to destination")
		if err != nil {
			return nil, err
		}
		it := walkingItinerary(walk)
		r.renderOptions([]Itinerary{it})
		return []Itinerary{it}, nil
	}

	var options []Itinerary

	// Direct walking is always computed but only competes under the
	// max-walk threshold.
	walk, err := r.walkingSegment(ctx, req.Origin, req.Destination, "Walk to destination")
	if err == nil && walk.Distance <= maxWalkDistance {
		options = append(options, walkingItinerary(walk))
	} else if err != nil {
		log.Printf("[engine] direct walking route unavailable: %v", err)
	}

	for _, originHub := range topHubs(originHubs, maxHubsPerSide) {
		for _, destHub := range topHubs(destHubs, maxHubsPerSide) {
			it, err := r.hubToHubRoute(ctx, req.Origin, originHub, destHub, req.Destination)
			if err != nil {
				log.Printf("[engine] hub pair %s -> %s skipped: %v", originHub.Name, destHub.Name, err)
				continue
			}
			options = append(options, *it)
		}
	}

	// Stable: ties keep generation order (walking first, then hub pairs in
	// origin-major iteration order).
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Duration < options[j].Duration
	})
	if len(options) > maxRouteOptions {
		options = options[:maxRouteOptions]
	}

	if len(options) == 0 {
		return nil, ErrNoSuitableRoutes
	}

	r.renderOptions(options)
	return options, nil
}

// hubToHubRoute builds the three-segment itinerary: walk to the origin hub,
// ride to the destination hub, walk to the destination.
func (r *Router) hubToHubRoute(ctx context.Context, origin geo.Coordinate, originHub, destHub gateway.Hub, destination geo.Coordinate) (*Itinerary, error) {
	walkIn, err := r.walkingSegment(ctx, origin, originHub.Coordinate(), "Walk to "+originHub.Name)
	if err != nil {
		return nil, err
	}

	ride := r.transportSegment(ctx, originHub, destHub)

	walkOut, err := r.walkingSegment(ctx, destHub.Coordinate(), destination, "Walk to destination")
	if err != nil {
		return nil, err
	}

	segments := []Segment{walkIn, ride, walkOut}
	var distance, duration float64
	for _, s := range segments {
		distance += s.Distance
		duration += s.Duration
	}

	return &Itinerary{
		Type:      ItineraryMultiModal,
		Distance:  distance,
		Duration:  duration,
		Segments:  segments,
		Transfers: 1,
	}, nil
}

// walkingSegment requests a foot route between two points.
func (r *Router) walkingSegment(ctx context.Context, from, to geo.Coordinate, description string) (Segment, error) {
	resp, err := r.api.FetchRoute(ctx, []geo.Coordinate{from, to}, gateway.ProfileFoot)
	if err != nil {
		return Segment{}, err
	}
	if len(resp.Routes) == 0 {
		return Segment{}, fmt.Errorf("walking route not available")
	}

	route := resp.Routes[0]
	return Segment{
		Type:        SegmentWalking,
		Distance:    route.Distance,
		Duration:    route.Duration,
		Coordinates: route.Geometry.Path(),
		Description: description,
		Icon:        "🚶",
	}, nil
}

// transportSegment resolves the middle leg between two hubs. Routed geometry
// is preferred; if the lookup fails entirely, the leg degrades to a straight
// line timed from the hub type's nominal speed.
func (r *Router) transportSegment(ctx context.Context, originHub, destHub gateway.Hub) Segment {
	seg := Segment{
		Type:           SegmentTransport,
		TransportType:  originHub.Type,
		Description:    fmt.Sprintf("Take %s to %s", TransportName(originHub.Type), destHub.Name),
		Icon:           TransportIcon(originHub.Type),
		Hub:            &originHub,
		DestinationHub: &destHub,
	}

	coords := []geo.Coordinate{originHub.Coordinate(), destHub.Coordinate()}
	resp, err := r.api.FetchRoute(ctx, coords, transportProfile(originHub.Type))
	if err == nil && len(resp.Routes) > 0 {
		route := resp.Routes[0]
		seg.Distance = route.Distance
		seg.Duration = route.Duration
		seg.Coordinates = route.Geometry.Path()
		return seg
	}
	if err != nil {
		log.Printf("[engine] transport route lookup failed, using straight line: %v", err)
	}

	distance := geo.Haversine(originHub.Coordinate(), destHub.Coordinate()) * 1000
	speed, ok := transportSpeeds[originHub.Type]
	if !ok {
		speed = defaultTransportSpeed
	}

	seg.Distance = distance
	seg.Duration = (distance / 1000) / speed * 3600
	seg.Coordinates = coords
	return seg
}

func walkingItinerary(walk Segment) Itinerary {
	return Itinerary{
		Type:      ItineraryWalking,
		Distance:  walk.Distance,
		Duration:  walk.Duration,
		Segments:  []Segment{walk},
		Transfers: 0,
	}
}

// renderOptions draws every kept candidate at once, each in its own color.
// Walking legs are dashed; transport legs get a hub marker with a summary
// popup at the boarding point. The viewport is fitted to the union of all
// drawn geometry.
func (r *Router) renderOptions(options []Itinerary) {
	for i, it := range options {
		color := routeColors[i%len(routeColors)]

		if it.Type == ItineraryWalking {
			r.addLayer(render.NewPolyline(it.Segments[0].Coordinates, color, 6, true))
			continue
		}

		for _, seg := range it.Segments {
			if seg.Type == SegmentWalking {
				r.addLayer(render.NewPolyline(seg.Coordinates, color, 4, true))
				continue
			}
			r.addLayer(render.NewPolyline(seg.Coordinates, color, 6, false))
			if seg.Hub != nil {
				popup := fmt.Sprintf("%s\n%s", seg.Hub.Name, seg.Description)
				r.addLayer(render.NewMarker(seg.Hub.Coordinate(), seg.Icon, color, popup))
			}
		}
	}

	var union geo.BoundingBox
	for _, layer := range r.current {
		union.Union(layer.Bounds())
	}
	if !union.IsZero() {
		r.surface.FitBounds(union, fitPadding)
	}
}

func (r *Router) addLayer(layer render.Layer) {
	r.surface.AddLayer(layer)
	r.current = append(r.current, layer)
}

func topHubs(hubs []gateway.Hub, n int) []gateway.Hub {
	if len(hubs) > n {
		return hubs[:n]
	}
	return hubs
}
