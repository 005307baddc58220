package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"mapper/pkg/geo"
)

// Travel profiles understood by OSRM.
const (
	ProfileDriving = "driving"
	ProfileFoot    = "foot"
	ProfileCycling = "cycling"
)

// fallbackSpeeds estimates travel speed (km/h) per profile when a route has
// to be synthesized without a routing provider.
var fallbackSpeeds = map[string]float64{
	ProfileDriving: 50,
	ProfileFoot:    5,
	ProfileCycling: 15,
}

// Geometry is a GeoJSON LineString. Coordinates are [lng, lat] pairs, the
// GeoJSON axis order.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// Path converts the GeoJSON lng/lat pairs into ordered coordinates.
func (g Geometry) Path() []geo.Coordinate {
	path := make([]geo.Coordinate, 0, len(g.Coordinates))
	for _, c := range g.Coordinates {
		if len(c) < 2 {
			continue
		}
		path = append(path, geo.Coordinate{Lat: c[1], Lng: c[0]})
	}
	return path
}

// Step is one maneuver within a route leg.
type Step struct {
	Distance float64  `json:"distance"`
	Duration float64  `json:"duration"`
	Name     string   `json:"name"`
	Geometry Geometry `json:"geometry"`
}

// Leg is the stretch of a route between two consecutive waypoints.
type Leg struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Steps    []Step  `json:"steps"`
}

// Route is one route alternative: total distance in meters, duration in
// seconds, and the full overview geometry.
type Route struct {
	Distance float64  `json:"distance"`
	Duration float64  `json:"duration"`
	Geometry Geometry `json:"geometry"`
	Legs     []Leg    `json:"legs"`
}

// RouteResponse is the OSRM route envelope.
type RouteResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Routes  []Route `json:"routes"`
}

// FetchRoute requests route geometry between the given points for a travel
// profile. Configured routing servers are tried in order; the first success
// wins and is cached. If every server fails, a straight-line fallback route
// is synthesized instead of returning an error — a degraded route beats no
// route for this application. Fallback routes are never cached.
func (g *Gateway) FetchRoute(ctx context.Context, coords []geo.Coordinate, profile string) (*RouteResponse, error) {
	if len(coords) < 2 {
		return nil, fmt.Errorf("route requires at least two coordinates, got %d", len(coords))
	}
	for _, c := range coords {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}

	key := cacheKey("osrm", profile, coordString(coords))
	if cached, ok := g.getCached(key); ok {
		return cached.(*RouteResponse), nil
	}

	if err := g.waitTurn(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for _, server := range g.cfg.RoutingServers {
		resp, err := g.fetchRouteFrom(ctx, server, coords, profile)
		if err != nil {
			log.Printf("[gateway] routing server %s failed: %v", server, err)
			lastErr = err
			continue
		}
		g.setCache(key, resp)
		return resp, nil
	}

	log.Printf("[gateway] %v", &ServiceExhaustedError{
		Operation: "route geometry",
		Attempts:  len(g.cfg.RoutingServers),
		LastErr:   lastErr,
	})
	return FallbackRoute(coords, profile), nil
}

func (g *Gateway) fetchRouteFrom(ctx context.Context, server string, coords []geo.Coordinate, profile string) (*RouteResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.RouteTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson&steps=true",
		server, profile, coordString(coords))

	req, err := g.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read route response body: %w", err)
	}

	var routeResp RouteResponse
	if err := json.Unmarshal(body, &routeResp); err != nil {
		return nil, fmt.Errorf("failed to decode route JSON: %w", err)
	}

	if routeResp.Code != "Ok" {
		return nil, fmt.Errorf("routing error: %s %s", routeResp.Code, routeResp.Message)
	}

	return &routeResp, nil
}

// FallbackRoute synthesizes a straight-line route between the first and last
// coordinate: distance is the great-circle distance in meters, duration is
// estimated from a nominal speed for the profile.
func FallbackRoute(coords []geo.Coordinate, profile string) *RouteResponse {
	start, end := coords[0], coords[len(coords)-1]
	distance := geo.Haversine(start, end) * 1000 // meters

	speed, ok := fallbackSpeeds[profile]
	if !ok {
		speed = fallbackSpeeds[ProfileDriving]
	}
	duration := (distance / 1000) / speed * 3600 // seconds

	line := Geometry{
		Type:        "LineString",
		Coordinates: make([][]float64, 0, len(coords)),
	}
	for _, c := range coords {
		line.Coordinates = append(line.Coordinates, []float64{c.Lng, c.Lat})
	}

	return &RouteResponse{
		Code: "Ok",
		Routes: []Route{{
			Distance: distance,
			Duration: duration,
			Geometry: line,
			Legs: []Leg{{
				Distance: distance,
				Duration: duration,
				Steps: []Step{{
					Distance: distance,
					Duration: duration,
					Geometry: line,
				}},
			}},
		}},
	}
}

// coordString renders coordinates in OSRM's lng,lat;lng,lat URL form. Also
// used as the normalized cache-key argument for route lookups.
func coordString(coords []geo.Coordinate) string {
	parts := make([]string, 0, len(coords))
	for _, c := range coords {
		parts = append(parts,
			strconv.FormatFloat(c.Lng, 'f', -1, 64)+","+strconv.FormatFloat(c.Lat, 'f', -1, 64))
	}
	return strings.Join(parts, ";")
}
