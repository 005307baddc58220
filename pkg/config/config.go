// Package config persists user-level settings for the mapper CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// AppConfig holds all user-defined persistent settings
type AppConfig struct {
	HomeAddress     string   `json:"home_address,omitempty"`
	DefaultMode     string   `json:"default_mode,omitempty"`
	TransportTypes  []string `json:"transport_types,omitempty"`
	RoutingServers  []string `json:"routing_servers,omitempty"`
	OverpassServers []string `json:"overpass_servers,omitempty"`
	RateLimitMS     int      `json:"rate_limit_ms,omitempty"`
	CacheTTLMinutes int      `json:"cache_ttl_minutes,omitempty"`
	AccentColor     string   `json:"accent_color,omitempty"`
}

// getConfigPath returns the absolute path to ~/.mapper.json
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".mapper.json"), nil
}

// Load reads the application configuration from disk.
// Returns an empty struct if the file does not exist.
func Load() (*AppConfig, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just return an empty default configuration
		if os.IsNotExist(err) {
			return &AppConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Save writes the application configuration back to disk.
func Save(cfg *AppConfig) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
