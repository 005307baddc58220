package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"mapper/pkg/geo"
)

// Place is a Nominatim search or reverse-geocoding result. Nominatim encodes
// coordinates as strings; use Coordinate to get the parsed position.
type Place struct {
	PlaceID     int64  `json:"place_id"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	Class       string `json:"class"`
}

// Coordinate parses the place's position.
func (p Place) Coordinate() (geo.Coordinate, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("invalid place latitude %q: %w", p.Lat, err)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("invalid place longitude %q: %w", p.Lon, err)
	}
	return geo.Coordinate{Lat: lat, Lng: lng}, nil
}

// Geocode resolves free text into candidate places, best match first. Unlike
// routing and amenity search there is no fallback endpoint: a transport
// failure surfaces as ErrGeocodeFailed.
func (g *Gateway) Geocode(ctx context.Context, query string, limit int) ([]Place, error) {
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if limit <= 0 {
		limit = 5
	}

	key := cacheKey("geocode", query, limit)
	if cached, ok := g.getCached(key); ok {
		return cached.([]Place), nil
	}

	if err := g.waitTurn(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/search?q=%s&format=json&limit=%d&addressdetails=1",
		g.cfg.NominatimURL, url.QueryEscape(query), limit)

	var places []Place
	if err := g.fetchJSON(ctx, reqURL, &places); err != nil {
		log.Printf("[gateway] nominatim search failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
	}

	g.setCache(key, places)
	return places, nil
}

// GeocodeOne resolves free text to its best match. A query with zero
// results is an error: callers use this when they need a coordinate, not a
// candidate list.
func (g *Gateway) GeocodeOne(ctx context.Context, query string) (geo.Coordinate, string, error) {
	places, err := g.Geocode(ctx, query, 1)
	if err != nil {
		return geo.Coordinate{}, "", err
	}
	if len(places) == 0 {
		return geo.Coordinate{}, "", fmt.Errorf("no results for %q", query)
	}
	coord, err := places[0].Coordinate()
	if err != nil {
		return geo.Coordinate{}, "", err
	}
	return coord, places[0].DisplayName, nil
}

// ReverseGeocode resolves a coordinate into the nearest address.
func (g *Gateway) ReverseGeocode(ctx context.Context, lat, lng float64) (*Place, error) {
	if err := (geo.Coordinate{Lat: lat, Lng: lng}).Validate(); err != nil {
		return nil, err
	}

	key := cacheKey("reverse", lat, lng)
	if cached, ok := g.getCached(key); ok {
		return cached.(*Place), nil
	}

	if err := g.waitTurn(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/reverse?lat=%s&lon=%s&format=json&addressdetails=1",
		g.cfg.NominatimURL,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lng, 'f', -1, 64))

	var place Place
	if err := g.fetchJSON(ctx, reqURL, &place); err != nil {
		log.Printf("[gateway] nominatim reverse failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrReverseGeocodeFailed, err)
	}

	g.setCache(key, &place)
	return &place, nil
}

// fetchJSON performs a GET with the geocoding timeout and decodes the body
// into out.
func (g *Gateway) fetchJSON(ctx context.Context, reqURL string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.GeocodeTimeout)
	defer cancel()

	req, err := g.newRequest(ctx, http.MethodGet, reqURL)
	if err != nil {
		return err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	return nil
}
