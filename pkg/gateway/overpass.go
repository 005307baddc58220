package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"mapper/pkg/geo"
)

// Element is a raw Overpass POI record.
type Element struct {
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

type overpassResponse struct {
	Elements []Element `json:"elements"`
}

// FetchTransportPOIs queries Overpass for transport amenities inside the
// bounding box. Configured servers are tried in order; if every one fails
// the result degrades to an empty element list rather than an error, so hub
// discovery never blocks a route calculation.
func (g *Gateway) FetchTransportPOIs(ctx context.Context, box geo.BoundingBox, types []string) ([]Element, error) {
	key := cacheKey("overpass", box.North, box.West, box.South, box.East, strings.Join(types, "_"))
	if cached, ok := g.getCached(key); ok {
		return cached.([]Element), nil
	}

	if err := g.waitTurn(ctx); err != nil {
		return nil, err
	}

	query := buildOverpassQuery(box, types)

	var lastErr error
	for _, server := range g.cfg.OverpassServers {
		elements, err := g.fetchPOIsFrom(ctx, server, query)
		if err != nil {
			log.Printf("[gateway] overpass server %s failed: %v", server, err)
			lastErr = err
			continue
		}
		g.setCache(key, elements)
		return elements, nil
	}

	log.Printf("[gateway] %v, returning empty transport data", &ServiceExhaustedError{
		Operation: "amenity search",
		Attempts:  len(g.cfg.OverpassServers),
		LastErr:   lastErr,
	})
	return []Element{}, nil
}

func (g *Gateway) fetchPOIsFrom(ctx context.Context, server, query string) ([]Element, error) {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.SearchTimeout)
	defer cancel()

	form := "data=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server, strings.NewReader(form))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", g.cfg.UserAgent)

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
		return nil, fmt.Errorf("failed to read overpass response body: %w", err)
	}

	var overpass overpassResponse
	if err := json.Unmarshal(body, &overpass); err != nil {
		return nil, fmt.Errorf("failed to decode overpass JSON: %w", err)
	}
	if overpass.Elements == nil {
		return nil, fmt.Errorf("invalid overpass response: missing elements")
	}

	return overpass.Elements, nil
}

// buildOverpassQuery assembles an Overpass QL union of one amenity clause per
// requested type plus a blanket public_transport clause.
func buildOverpassQuery(box geo.BoundingBox, types []string) string {
	bbox := fmt.Sprintf("(%f,%f,%f,%f)", box.South, box.West, box.North, box.East)

	var b strings.Builder
	b.WriteString("[out:json][timeout:15];\n(\n")
	for _, t := range types {
		fmt.Fprintf(&b, "  node[\"amenity\"=%q]%s;\n", t, bbox)
	}
	fmt.Fprintf(&b, "  node[\"public_transport\"]%s;\n", bbox)
	b.WriteString(");\nout body;")
	return b.String()
}
