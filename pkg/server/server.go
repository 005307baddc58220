// Package server exposes the trip-planning interface over HTTP for a map UI
// shell: geocoding, hub discovery, positioning and route calculation, with
// rendered overlays serialized back to the client.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"mapper/pkg/engine"
	"mapper/pkg/gateway"
	"mapper/pkg/geo"
	"mapper/pkg/render"
)

// Server wires the gateway and engine behind JSON endpoints.
type Server struct {
	api *gateway.Gateway
}

// New builds a server on top of the given gateway.
func New(api *gateway.Gateway) *Server {
	return &Server{api: api}
}

// Handler returns the fully routed HTTP handler, CORS included.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/geocode", s.handleGeocode).Methods(http.MethodGet)
	r.HandleFunc("/api/reverse", s.handleReverse).Methods(http.MethodGet)
	r.HandleFunc("/api/hubs", s.handleHubs).Methods(http.MethodGet)
	r.HandleFunc("/api/locate", s.handleLocate).Methods(http.MethodGet)
	r.HandleFunc("/api/route", s.handleRoute).Methods(http.MethodPost)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	return corsHandler.Handler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	places, err := s.api.Geocode(r.Context(), query, limit)
	if err != nil {
		log.Printf("[server] geocode failed: %v", err)
		writeError(w, http.StatusBadGateway, gateway.ErrGeocodeFailed.Error())
		return
	}
	writeJSON(w, http.StatusOK, places)
}

func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(w, http.StatusBadRequest, "lat and lng must be numbers")
		return
	}

	place, err := s.api.ReverseGeocode(r.Context(), lat, lng)
	if err != nil {
		if errors.Is(err, gateway.ErrReverseGeocodeFailed) {
			writeError(w, http.StatusBadGateway, err.Error())
		} else {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, place)
}

func (s *Server) handleHubs(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(w, http.StatusBadRequest, "lat and lng must be numbers")
		return
	}

	radius, err := strconv.ParseFloat(r.URL.Query().Get("radius"), 64)
	if err != nil || radius <= 0 {
		radius = 1000
	}

	var types []string
	if raw := r.URL.Query().Get("types"); raw != "" {
		types = strings.Split(raw, ",")
	}

	hubs := s.api.FindNearestTransportHubs(r.Context(),
		geo.Coordinate{Lat: lat, Lng: lng}, radius, types)
	writeJSON(w, http.StatusOK, hubs)
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	pos, err := s.api.CurrentLocation(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, gateway.ErrLocationUnavailable.Error())
		return
	}
	writeJSON(w, http.StatusOK, pos)
}

// routeResponse carries the ranked itineraries plus everything that was
// drawn, so the UI shell can replay the overlays onto its own map.
type routeResponse struct {
	Itineraries []engine.Itinerary `json:"itineraries"`
	Polylines   []*render.Polyline `json:"polylines"`
	Markers     []*render.Marker   `json:"markers"`
	Viewport    interface{}        `json:"viewport"`
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	surface := render.NewMemorySurface()
	router := engine.NewRouter(s.api, surface)

	its, err := router.CalculateRoute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrNoRouteFound), errors.Is(err, engine.ErrNoSuitableRoutes):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, gateway.ErrGeocodeFailed):
			writeError(w, http.StatusBadGateway, err.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, routeResponse{
		Itineraries: its,
		Polylines:   surface.Polylines(),
		Markers:     surface.Markers(),
		Viewport:    surface.Viewport,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[server] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
