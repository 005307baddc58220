package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mapper/pkg/geo"
)

func TestClassifyHub(t *testing.T) {
	cases := []struct {
		tags map[string]string
		want string
	}{
		{map[string]string{"amenity": "bus_station"}, HubBusStation},
		{map[string]string{"amenity": "taxi"}, HubTaxi},
		{map[string]string{"public_transport": "station"}, HubMetro},
		{map[string]string{"public_transport": "stop_position"}, HubBusStop},
		{map[string]string{"highway": "bus_stop"}, HubBusStop},
		{map[string]string{}, HubTransportHub},
		{map[string]string{"shop": "bakery"}, HubTransportHub},
		// Precedence: amenity beats public_transport, station beats
		// stop_position.
		{map[string]string{"amenity": "bus_station", "public_transport": "station"}, HubBusStation},
		{map[string]string{"public_transport": "station", "highway": "bus_stop"}, HubMetro},
	}

	for _, c := range cases {
		if got := ClassifyHub(c.tags); got != c.want {
			t.Errorf("ClassifyHub(%v) = %s, want %s", c.tags, got, c.want)
		}
	}
}

func TestHubName(t *testing.T) {
	if got := hubName(map[string]string{"name": "New Market Bus Stand"}); got != "New Market Bus Stand" {
		t.Errorf("expected mapped name to win, got %q", got)
	}
	if got := hubName(map[string]string{"amenity": "bus_station"}); got != "Bus Station" {
		t.Errorf("expected title-cased amenity, got %q", got)
	}
	if got := hubName(map[string]string{}); got != "Transport Hub" {
		t.Errorf("expected generic label, got %q", got)
	}
}

func TestFindNearestTransportHubs(t *testing.T) {
	center := geo.Coordinate{Lat: 22.35, Lng: 91.83}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// One close station, one farther stop, one outside the radius,
		// one with broken coordinates.
		w.Write([]byte(`{"elements": [
			{"id": 3, "lat": 22.357, "lon": 91.838, "tags": {"highway": "bus_stop", "name": "Far Stop"}},
			{"id": 1, "lat": 22.351, "lon": 91.831, "tags": {"amenity": "bus_station", "name": "Near Station"}},
			{"id": 4, "lat": 23.50, "lon": 92.90, "tags": {"amenity": "taxi"}},
			{"id": 5, "lat": 0, "lon": 0, "tags": {"amenity": "taxi"}}
		]}`))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.OverpassServers = []string{server.URL}
	cfg.RateLimitDelay = time.Millisecond
	g := New(cfg)

	hubs := g.FindNearestTransportHubs(context.Background(), center, 1000, nil)
	if len(hubs) != 2 {
		t.Fatalf("expected 2 hubs inside the radius, got %d: %+v", len(hubs), hubs)
	}

	// Ascending by distance from the center
	if hubs[0].Name != "Near Station" || hubs[1].Name != "Far Stop" {
		t.Errorf("hubs not sorted by distance: %s, %s", hubs[0].Name, hubs[1].Name)
	}
	if hubs[0].Type != HubBusStation || hubs[1].Type != HubBusStop {
		t.Errorf("unexpected hub types: %s, %s", hubs[0].Type, hubs[1].Type)
	}
	if hubs[0].Distance <= 0 || hubs[0].Distance > 1 {
		t.Errorf("near hub distance out of range: %f km", hubs[0].Distance)
	}
}

func TestFindNearestTransportHubsNeverErrors(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusTooManyRequests)
	}))
	defer bad.Close()

	cfg := DefaultConfig()
	cfg.OverpassServers = []string{bad.URL}
	cfg.RateLimitDelay = time.Millisecond
	g := New(cfg)

	hubs := g.FindNearestTransportHubs(context.Background(), geo.Coordinate{Lat: 22.35, Lng: 91.83}, 1000, nil)
	if hubs == nil || len(hubs) != 0 {
		t.Errorf("expected empty list on upstream failure, got %v", hubs)
	}

	// Invalid center degrades the same way
	hubs = g.FindNearestTransportHubs(context.Background(), geo.Coordinate{Lat: 200, Lng: 0}, 1000, nil)
	if len(hubs) != 0 {
		t.Errorf("expected empty list for invalid center, got %v", hubs)
	}
}
