package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"mapper/pkg/gateway"
	"mapper/pkg/geo"
	"mapper/pkg/render"
)

var (
	testOrigin      = geo.Coordinate{Lat: 22.35, Lng: 91.83}
	testDestination = geo.Coordinate{Lat: 22.36, Lng: 91.85}
)

// mockUpstream serves both OSRM and Overpass shapes from one test server.
// Route requests are answered from the request's own endpoints: foot routes
// under 1km get a short leg, longer foot routes get the 2500m direct walk,
// and driving durations scale with distance so hub pairs rank differently.
type mockUpstream struct {
	overpassJSON   string
	routingStatus  int // if non-zero, every route request fails with it
	drivingFixed   bool
	drivingMeters  float64
	drivingSeconds float64
}

func (m *mockUpstream) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			// Overpass
			fmt.Fprint(w, m.overpassJSON)
			return
		}

		if m.routingStatus != 0 {
			http.Error(w, "unavailable", m.routingStatus)
			return
		}

		profile, from, to, err := parseRouteURL(r.URL.Path)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var distance, duration float64
		km := geo.Haversine(from, to)
		switch {
		case profile == "foot" && km > 1:
			distance, duration = 2500, 1800
		case profile == "foot":
			distance, duration = 200, 150
		case m.drivingFixed:
			distance, duration = m.drivingMeters, m.drivingSeconds
		default:
			distance = km * 1000
			duration = distance // 1 m/s keeps rankings proportional to length
		}

		fmt.Fprintf(w, `{
			"code": "Ok",
			"routes": [{
				"distance": %f,
				"duration": %f,
				"geometry": {"type": "LineString", "coordinates": [[%f, %f], [%f, %f]]},
				"legs": [{"distance": %f, "duration": %f, "steps": [{
					"distance": %f, "duration": %f, "name": "Test Road",
					"geometry": {"type": "LineString", "coordinates": [[%f, %f], [%f, %f]]}
				}]}]
			}]
		}`, distance, duration,
			from.Lng, from.Lat, to.Lng, to.Lat,
			distance, duration, distance, duration,
			from.Lng, from.Lat, to.Lng, to.Lat)
	})
}

func parseRouteURL(path string) (string, geo.Coordinate, geo.Coordinate, error) {
	// /route/v1/{profile}/{lng,lat;lng,lat}
	parts := strings.Split(strings.TrimPrefix(path, "/route/v1/"), "/")
	if len(parts) != 2 {
		return "", geo.Coordinate{}, geo.Coordinate{}, fmt.Errorf("bad route path %q", path)
	}
	profile := parts[0]
	pairs := strings.Split(parts[1], ";")
	if len(pairs) < 2 {
		return "", geo.Coordinate{}, geo.Coordinate{}, fmt.Errorf("bad coords %q", parts[1])
	}
	parse := func(pair string) (geo.Coordinate, error) {
		nums := strings.Split(pair, ",")
		if len(nums) != 2 {
			return geo.Coordinate{}, fmt.Errorf("bad pair %q", pair)
		}
		lng, err := strconv.ParseFloat(nums[0], 64)
		if err != nil {
			return geo.Coordinate{}, err
		}
		lat, err := strconv.ParseFloat(nums[1], 64)
		if err != nil {
			return geo.Coordinate{}, err
		}
		return geo.Coordinate{Lat: lat, Lng: lng}, nil
	}
	from, err := parse(pairs[0])
	if err != nil {
		return "", geo.Coordinate{}, geo.Coordinate{}, err
	}
	to, err := parse(pairs[len(pairs)-1])
	if err != nil {
		return "", geo.Coordinate{}, geo.Coordinate{}, err
	}
	return profile, from, to, nil
}

func newTestRouter(t *testing.T, mock *mockUpstream) (*Router, *render.MemorySurface, func()) {
	t.Helper()
	server := httptest.NewServer(mock.handler())

	cfg := gateway.DefaultConfig()
	cfg.RoutingServers = []string{server.URL}
	cfg.OverpassServers = []string{server.URL}
	cfg.RateLimitDelay = time.Millisecond

	surface := render.NewMemorySurface()
	return NewRouter(gateway.New(cfg), surface), surface, server.Close
}

func checkAccounting(t *testing.T, its []Itinerary) {
	t.Helper()
	for i, it := range its {
		var distance, duration float64
		for _, s := range it.Segments {
			distance += s.Distance
			duration += s.Duration
		}
		if math.Abs(it.Distance-distance) > 1e-6 {
			t.Errorf("itinerary %d distance %f != segment sum %f", i, it.Distance, distance)
		}
		if math.Abs(it.Duration-duration) > 1e-6 {
			t.Errorf("itinerary %d duration %f != segment sum %f", i, it.Duration, duration)
		}
	}
}

func TestFullRoute(t *testing.T) {
	mock := &mockUpstream{drivingFixed: true, drivingMeters: 2500, drivingSeconds: 300}
	router, surface, done := newTestRouter(t, mock)
	defer done()

	its, err := router.CalculateRoute(context.Background(), Request{
		Origin:      testOrigin,
		Destination: testDestination,
		Mode:        ModeFull,
	})
	if err != nil {
		t.Fatalf("CalculateRoute failed: %v", err)
	}
	if len(its) != 1 {
		t.Fatalf("expected exactly one itinerary, got %d", len(its))
	}

	it := its[0]
	if it.Type != ItineraryFull || it.Distance != 2500 || it.Duration != 300 {
		t.Errorf("unexpected itinerary: %+v", it)
	}
	if it.Transfers != 0 {
		t.Errorf("full route should have 0 transfers, got %d", it.Transfers)
	}
	checkAccounting(t, its)

	if len(surface.Polylines()) != 1 {
		t.Errorf("expected one rendered polyline, got %d", len(surface.Polylines()))
	}
	if surface.FitCalls != 1 || surface.Padding != 20 {
		t.Errorf("viewport not fitted with 20px padding: calls=%d padding=%d", surface.FitCalls, surface.Padding)
	}
}

func TestFullRouteFallbackWhenServersDown(t *testing.T) {
	mock := &mockUpstream{overpassJSON: `{"elements": []}`, routingStatus: http.StatusInternalServerError}
	router, surface, done := newTestRouter(t, mock)
	defer done()

	its, err := router.CalculateRoute(context.Background(), Request{
		Origin:      testOrigin,
		Destination: testDestination,
		Mode:        ModeFull,
	})
	if err != nil {
		t.Fatalf("expected synthesized fallback route, got error: %v", err)
	}

	want := geo.Haversine(testOrigin, testDestination) * 1000
	if math.Abs(its[0].Distance-want)/want > 0.005 {
		t.Errorf("fallback distance %f not within 0.5%% of %f", its[0].Distance, want)
	}
	if len(surface.Polylines()) != 1 {
		t.Errorf("fallback route should still render, got %d polylines", len(surface.Polylines()))
	}
}

func TestLocalRouteNoHubsFallsBackToWalking(t *testing.T) {
	mock := &mockUpstream{overpassJSON: `{"elements": []}`}
	router, surface, done := newTestRouter(t, mock)
	defer done()

	its, err := router.CalculateRoute(context.Background(), Request{
		Origin:      testOrigin,
		Destination: testDestination,
		Mode:        ModeLocal,
	})
	if err != nil {
		t.Fatalf("expected walking fallback, got error: %v", err)
	}
	if len(its) != 1 || its[0].Type != ItineraryWalking {
		t.Fatalf("expected a single walking itinerary, got %+v", its)
	}
	if its[0].Transfers != 0 {
		t.Errorf("walking itinerary should have 0 transfers")
	}
	checkAccounting(t, its)

	if len(surface.Markers()) != 0 {
		t.Errorf("no hub markers should be rendered, got %d", len(surface.Markers()))
	}
	if len(surface.Polylines()) != 1 {
		t.Errorf("expected one walking polyline, got %d", len(surface.Polylines()))
	}
	if !surface.Polylines()[0].Dashed {
		t.Errorf("walking polyline should be dashed")
	}
}

// One hub on each side; the direct walk is 2500m, over the 2000m threshold,
// so only the multi-modal candidate survives.
func TestLocalRouteExcludesLongWalk(t *testing.T) {
	mock := &mockUpstream{
		overpassJSON: `{"elements": [
			{"id": 1, "lat": 22.351, "lon": 91.831, "tags": {"amenity": "bus_station", "name": "Origin Stand"}},
			{"id": 2, "lat": 22.359, "lon": 91.849, "tags": {"amenity": "bus_station", "name": "Dest Stand"}}
		]}`,
		drivingFixed:   true,
		drivingMeters:  2000,
		drivingSeconds: 600,
	}
	router, surface, done := newTestRouter(t, mock)
	defer done()

	its, err := router.CalculateRoute(context.Background(), Request{
		Origin:      testOrigin,
		Destination: testDestination,
		Mode:        ModeLocal,
	})
	if err != nil {
		t.Fatalf("CalculateRoute failed: %v", err)
	}

	for _, it := range its {
		if it.Type == ItineraryWalking {
			t.Errorf("2500m direct walk should be excluded, got %+v", it)
		}
	}
	if len(its) != 1 {
		t.Fatalf("expected one multi-modal itinerary, got %d", len(its))
	}

	it := its[0]
	if it.Type != ItineraryMultiModal || it.Transfers != 1 {
		t.Errorf("unexpected itinerary: type=%s transfers=%d", it.Type, it.Transfers)
	}
	if len(it.Segments) != 3 {
		t.Fatalf("expected walk+transport+walk, got %d segments", len(it.Segments))
	}
	// 150 + 600 + 150
	if it.Duration != 900 {
		t.Errorf("expected total duration 900s, got %f", it.Duration)
	}
	if it.Segments[1].Type != SegmentTransport || it.Segments[1].Hub == nil {
		t.Errorf("middle leg should be a transport segment with its hub attached")
	}
	checkAccounting(t, its)

	if len(surface.Markers()) != 1 {
		t.Errorf("expected one hub marker, got %d", len(surface.Markers()))
	}
	if !strings.Contains(surface.Markers()[0].Popup, "Origin Stand") {
		t.Errorf("hub popup should summarize the hub, got %q", surface.Markers()[0].Popup)
	}
}

// Three hubs near the origin and two near the destination give six pairs;
// driving durations scale with hub separation, so the result must come back
// sorted ascending and capped at three.
func TestLocalRouteRankingAndTruncation(t *testing.T) {
	mock := &mockUpstream{
		overpassJSON: `{"elements": [
			{"id": 1, "lat": 22.351, "lon": 91.831, "tags": {"amenity": "bus_station", "name": "O1"}},
			{"id": 2, "lat": 22.352, "lon": 91.832, "tags": {"amenity": "taxi", "name": "O2"}},
			{"id": 3, "lat": 22.353, "lon": 91.833, "tags": {"highway": "bus_stop", "name": "O3"}},
			{"id": 4, "lat": 22.359, "lon": 91.849, "tags": {"amenity": "bus_station", "name": "D1"}},
			{"id": 5, "lat": 22.358, "lon": 91.848, "tags": {"amenity": "taxi", "name": "D2"}}
		]}`,
	}
	router, _, done := newTestRouter(t, mock)
	defer done()

	its, err := router.CalculateRoute(context.Background(), Request{
		Origin:      testOrigin,
		Destination: testDestination,
		Mode:        ModeLocal,
	})
	if err != nil {
		t.Fatalf("CalculateRoute failed: %v", err)
	}

	if len(its) != 3 {
		t.Fatalf("expected the top 3 of 6 candidates, got %d", len(its))
	}
	for i := 1; i < len(its); i++ {
		if its[i-1].Duration > its[i].Duration {
			t.Errorf("itineraries not sorted by duration at index %d: %f > %f",
				i, its[i-1].Duration, its[i].Duration)
		}
	}
	checkAccounting(t, its)
}

func TestCalculateRouteClearsPreviousRender(t *testing.T) {
	mock := &mockUpstream{drivingFixed: true, drivingMeters: 2500, drivingSeconds: 300}
	router, surface, done := newTestRouter(t, mock)
	defer done()

	req := Request{Origin: testOrigin, Destination: testDestination, Mode: ModeFull}
	if _, err := router.CalculateRoute(context.Background(), req); err != nil {
		t.Fatalf("first calculation failed: %v", err)
	}
	first := len(surface.Layers)

	if _, err := router.CalculateRoute(context.Background(), req); err != nil {
		t.Fatalf("second calculation failed: %v", err)
	}

	if len(surface.Layers) != first {
		t.Errorf("stale overlays left behind: %d layers after second run, want %d", len(surface.Layers), first)
	}
}

func TestCalculateRouteValidatesBeforeNetwork(t *testing.T) {
	// Deliberately unroutable server: validation must reject first.
	mock := &mockUpstream{routingStatus: http.StatusInternalServerError, overpassJSON: `{}`}
	router, _, done := newTestRouter(t, mock)
	defer done()

	_, err := router.CalculateRoute(context.Background(), Request{
		Origin:      geo.Coordinate{Lat: math.NaN(), Lng: 91.83},
		Destination: testDestination,
	})
	if err == nil {
		t.Fatal("expected validation error for NaN origin")
	}

	_, err = router.CalculateRoute(context.Background(), Request{
		Origin:      testOrigin,
		Destination: testDestination,
		Mode:        "teleport",
	})
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestTransportSegmentStraightLineFallback(t *testing.T) {
	// Routing down entirely: the leg degrades to a straight line between the
	// hubs but keeps its transport typing.
	mock := &mockUpstream{routingStatus: http.StatusInternalServerError}
	router, _, done := newTestRouter(t, mock)
	defer done()

	origin := gateway.Hub{ID: 1, Name: "A", Type: gateway.HubMetro, Lat: 22.351, Lng: 91.831}
	dest := gateway.Hub{ID: 2, Name: "B", Type: gateway.HubMetro, Lat: 22.359, Lng: 91.849}

	seg := router.transportSegment(context.Background(), origin, dest)

	want := geo.Haversine(origin.Coordinate(), dest.Coordinate()) * 1000
	if math.Abs(seg.Distance-want)/want > 0.005 {
		t.Errorf("fallback distance %f not within 0.5%% of %f", seg.Distance, want)
	}
	if seg.TransportType != gateway.HubMetro || seg.Icon != "🚇" {
		t.Errorf("segment lost its hub typing: %+v", seg)
	}
	if !strings.Contains(seg.Description, "Metro") {
		t.Errorf("description should name the transport: %q", seg.Description)
	}
}

func TestNoSuitableRoutesError(t *testing.T) {
	// Hubs exist only on the origin side and the direct walk is too long:
	// zero candidates survive.
	mock := &mockUpstream{
		overpassJSON: `{"elements": [
			{"id": 1, "lat": 22.351, "lon": 91.831, "tags": {"amenity": "bus_station", "name": "Lonely Stand"}}
		]}`,
	}
	router, _, done := newTestRouter(t, mock)
	defer done()

	_, err := router.CalculateRoute(context.Background(), Request{
		Origin:      testOrigin,
		Destination: testDestination,
		Mode:        ModeLocal,
	})
	if !errors.Is(err, ErrNoSuitableRoutes) {
		t.Errorf("expected ErrNoSuitableRoutes, got %v", err)
	}
}

func TestTransportTables(t *testing.T) {
	if TransportName(gateway.HubTaxi) != "Taxi/CNG" {
		t.Errorf("unexpected taxi name")
	}
	if TransportName("hoverboard") != "Transport" {
		t.Errorf("unknown types should fall back to Transport")
	}
	if TransportIcon(gateway.HubRickshaw) != "🛺" {
		t.Errorf("unexpected rickshaw icon")
	}
	if TransportIcon("hoverboard") != "🚌" {
		t.Errorf("unknown types should fall back to the bus icon")
	}
}
