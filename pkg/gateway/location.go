package gateway

import (
	"context"
	"fmt"
	"log"

	"mapper/pkg/geo"
)

// IP geolocation resolves to city level at best.
const ipAccuracyMeters = 25000

// Position is the device's current location.
type Position struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy"`
}

// Coordinate returns the position as a coordinate.
func (p Position) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: p.Lat, Lng: p.Lng}
}

type ipLocateResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
	Country string  `json:"country"`
}

// CurrentLocation approximates the device position from its public IP
// address. There is no GPS in a terminal process, so accuracy is city-level
// and reported as such. Failures surface as ErrLocationUnavailable.
func (g *Gateway) CurrentLocation(ctx context.Context) (*Position, error) {
	// Not cached: the answer depends on the network the process runs in,
	// and the endpoint is only hit on explicit user action.
	if err := g.waitTurn(ctx); err != nil {
		return nil, err
	}

	var loc ipLocateResponse
	if err := g.fetchJSON(ctx, g.cfg.GeoIPURL, &loc); err != nil {
		log.Printf("[gateway] ip geolocation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
	}

	if loc.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrLocationUnavailable, loc.Message)
	}

	pos := &Position{Lat: loc.Lat, Lng: loc.Lon, Accuracy: ipAccuracyMeters}
	if err := pos.Coordinate().Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
	}
	return pos, nil
}
