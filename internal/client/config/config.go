package config

import "time"

// Config holds runtime settings for the FlexRent CLI.
//
// Fields:
//   - ServerURL: base URL of the FlexRent HTTP API.
//   - DatabasePath: sqlite file holding the saved session.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: upper bound for a single API call. Statement analysis
//     runs through the same client, so keep it generous.
type Config struct {
	ServerURL           string
	DatabasePath        string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "flexrent.db"
	c.OnlineCheckInterval = 5 * time.Second
	c.RequestTimeout = 60 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
