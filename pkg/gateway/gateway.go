// Package gateway is the single point of access to every network-dependent
// capability: OSRM route geometry, Overpass amenity search, Nominatim
// geocoding and IP-based positioning. It shields the rest of the application
// from latency, rate limits and partial outages with a shared minimum-interval
// gate, a TTL response cache and per-operation endpoint failover.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Default endpoints. Public OSM infrastructure; all overridable via Config.
var (
	DefaultRoutingServers = []string{
		"https://router.project-osrm.org",
		"https://routing.openstreetmap.de",
	}
	DefaultOverpassServers = []string{
		"https://overpass-api.de/api/interpreter",
		"https://lz4.overpass-api.de/api/interpreter",
		"https://z.overpass-api.de/api/interpreter",
	}
)

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	DefaultGeoIPURL     = "http://ip-api.com/json"

	// Public APIs often block default Go user agents
	defaultUserAgent = "mapper/1.0 (multi-modal trip planner)"
)

// Config holds the tunables for one Gateway instance. Zero values fall back
// to the defaults above inside New.
type Config struct {
	RoutingServers  []string
	OverpassServers []string
	NominatimURL    string
	GeoIPURL        string
	UserAgent       string

	// RateLimitDelay is the minimum interval between any two network sends
	// through this gateway, regardless of endpoint.
	RateLimitDelay time.Duration

	// CacheTTL bounds how long a successful response is served from memory.
	CacheTTL time.Duration

	RouteTimeout   time.Duration
	SearchTimeout  time.Duration
	GeocodeTimeout time.Duration
}

// DefaultConfig returns the production configuration: 1s between sends,
// 5 minute cache, 10s route timeout, 20s amenity-search timeout.
func DefaultConfig() Config {
	return Config{
		RoutingServers:  DefaultRoutingServers,
		OverpassServers: DefaultOverpassServers,
		NominatimURL:    DefaultNominatimURL,
		GeoIPURL:        DefaultGeoIPURL,
		UserAgent:       defaultUserAgent,
		RateLimitDelay:  time.Second,
		CacheTTL:        5 * time.Minute,
		RouteTimeout:    10 * time.Second,
		SearchTimeout:   20 * time.Second,
		GeocodeTimeout:  10 * time.Second,
	}
}

// Gateway owns the only mutable shared state in the system: the response
// cache and the rate limiter. Both are instance fields, never package
// globals, so independent gateways do not contend.
type Gateway struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *gocache.Cache
}

// New constructs a Gateway from cfg, filling in defaults for any zero field.
func New(cfg Config) *Gateway {
	def := DefaultConfig()
	if len(cfg.RoutingServers) == 0 {
		cfg.RoutingServers = def.RoutingServers
	}
	if len(cfg.OverpassServers) == 0 {
		cfg.OverpassServers = def.OverpassServers
	}
	if cfg.NominatimURL == "" {
		cfg.NominatimURL = def.NominatimURL
	}
	if cfg.GeoIPURL == "" {
		cfg.GeoIPURL = def.GeoIPURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.RateLimitDelay == 0 {
		cfg.RateLimitDelay = def.RateLimitDelay
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.RouteTimeout == 0 {
		cfg.RouteTimeout = def.RouteTimeout
	}
	if cfg.SearchTimeout == 0 {
		cfg.SearchTimeout = def.SearchTimeout
	}
	if cfg.GeocodeTimeout == 0 {
		cfg.GeocodeTimeout = def.GeocodeTimeout
	}

	return &Gateway{
		cfg:        cfg,
		httpClient: &http.Client{},
		// Burst of one: every send waits out the full interval behind the
		// previous one.
		limiter: rate.NewLimiter(rate.Every(cfg.RateLimitDelay), 1),
		// Cleanup interval 0 disables the janitor; expired entries are
		// evicted lazily on the next lookup for that key.
		cache: gocache.New(cfg.CacheTTL, 0),
	}
}

// waitTurn blocks until the shared minimum-interval gate allows another
// network send. Cache hits must never reach this.
func (g *Gateway) waitTurn(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

func (g *Gateway) getCached(key string) (interface{}, bool) {
	return g.cache.Get(key)
}

func (g *Gateway) setCache(key string, data interface{}) {
	g.cache.SetDefault(key, data)
}

// cacheKey builds a deterministic key from an operation name and its
// normalized arguments.
func cacheKey(op string, params ...interface{}) string {
	key := op
	for _, p := range params {
		switch v := p.(type) {
		case float64:
			key += ":" + strconv.FormatFloat(v, 'f', -1, 64)
		default:
			key += ":" + fmt.Sprintf("%v", v)
		}
	}
	return key
}

// newRequest builds a request with the gateway's User-Agent attached.
func (g *Gateway) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.cfg.UserAgent)
	return req, nil
}
