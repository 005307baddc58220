package config

import (
	"time"

	"mapper/pkg/gateway"
)

// GatewayConfig translates the persisted user settings into a gateway
// configuration, leaving unset fields to the gateway's defaults.
func (c *AppConfig) GatewayConfig() gateway.Config {
	cfg := gateway.Config{
		RoutingServers:  c.RoutingServers,
		OverpassServers: c.OverpassServers,
	}
	if c.RateLimitMS > 0 {
		cfg.RateLimitDelay = time.Duration(c.RateLimitMS) * time.Millisecond
	}
	if c.CacheTTLMinutes > 0 {
		cfg.CacheTTL = time.Duration(c.CacheTTLMinutes) * time.Minute
	}
	return cfg
}
