// Package config loads the solver's YAML configuration file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/amphipod/internal/database"
)

// Config is the whole configuration file. The logging block of the same file
// is read by the logger package.
type Config struct {
	Search SearchConfig `yaml:"search"`
	Store  StoreConfig  `yaml:"store"`
	Server ServerConfig `yaml:"server"`
}

// SearchConfig holds solve defaults.
type SearchConfig struct {
	// Unfold inserts the two hidden rows into every parsed board.
	Unfold bool `yaml:"unfold"`

	// History prints every intermediate configuration.
	History bool `yaml:"history"`

	// ProgressEvery logs search progress every N expansions. 0 disables it.
	ProgressEvery int `yaml:"progress_every"`
}

// StoreConfig selects the solution cache.
type StoreConfig struct {
	// Enabled turns the solution cache on.
	Enabled bool `yaml:"enabled"`

	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `yaml:"sqlite_path"`

	Postgres database.PostgresConfig `yaml:"postgres"`
}

// DatabaseConfig converts the store settings for database.OpenWithConfig.
func (c StoreConfig) DatabaseConfig() database.Config {
	return database.Config{
		Driver:     c.Driver,
		SQLitePath: c.SQLitePath,
		Postgres:   c.Postgres,
	}
}

// ServerConfig holds network service settings.
type ServerConfig struct {
	TelnetAddr    string `yaml:"telnet_addr"`
	WebSocketAddr string `yaml:"websocket_addr"`

	// MaxExpanded bounds each network solve. 0 means unlimited (not recommended).
	MaxExpanded int `yaml:"max_expanded"`

	// MaxBoardLines is the longest board a client may submit.
	MaxBoardLines int `yaml:"max_board_lines"`

	// IdleTimeoutSeconds disconnects clients that send nothing for this long.
	IdleTimeoutSeconds int `yaml:"idle_timeout_seconds"`

	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Connections ConnectionsConfig `yaml:"connections"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Flood       FloodConfig       `yaml:"flood"`
}

// IdleTimeout returns IdleTimeoutSeconds as a duration, 0 when disabled.
func (c *ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

// RateLimitConfig holds lockout settings for clients that keep submitting
// boards that fail to parse or cannot be solved within the bound.
type RateLimitConfig struct {
	// MaxRejections is the number of rejected submissions before lockout.
	MaxRejections int `yaml:"max_rejections"`

	// LockoutSeconds is the initial lockout duration in seconds.
	LockoutSeconds int `yaml:"lockout_seconds"`

	// MaxLockoutSeconds is the maximum lockout duration (for exponential backoff).
	MaxLockoutSeconds int `yaml:"max_lockout_seconds"`
}

// FloodConfig throttles board submissions within one session.
type FloodConfig struct {
	Enabled bool `yaml:"enabled"`

	// MaxSubmissions is the number of boards allowed per time window.
	MaxSubmissions int `yaml:"max_submissions"`

	TimeWindowSeconds int `yaml:"time_window_seconds"`

	// RepeatCooldownSeconds is how long before the same board may be sent again.
	RepeatCooldownSeconds int `yaml:"repeat_cooldown_seconds"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections allowed from a single IP address.
	// 0 means unlimited (not recommended).
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent connections to the server.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total"`

	// MaxConcurrentSolves is the number of searches that may run at once.
	// 0 means unlimited.
	MaxConcurrentSolves int `yaml:"max_concurrent_solves"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// DefaultConfig returns a Config with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			ProgressEvery: 10000,
		},
		Store: StoreConfig{
			Enabled:    false,
			Driver:     "sqlite",
			SQLitePath: "data/solutions.db",
			Postgres:   database.DefaultPostgresConfig(),
		},
		Server: ServerConfig{
			TelnetAddr:         ":4000",
			WebSocketAddr:      ":4080",
			MaxExpanded:        500000,
			MaxBoardLines:      16,
			IdleTimeoutSeconds: 300,
			WebSocket: WebSocketConfig{
				AllowedOrigins: []string{}, // Same-origin only by default
				MaxMessageSize: 4096,
			},
			Connections: ConnectionsConfig{
				MaxPerIP:            3,   // Default: 3 connections per IP
				MaxTotal:            100, // Default: 100 total connections
				MaxConcurrentSolves: 4,
			},
			RateLimit: RateLimitConfig{
				MaxRejections:     5,   // Default: 5 rejected boards before lockout
				LockoutSeconds:    30,  // Default: 30 second initial lockout
				MaxLockoutSeconds: 300, // Default: 5 minute max lockout
			},
			Flood: FloodConfig{
				Enabled:               true,
				MaxSubmissions:        10,
				TimeWindowSeconds:     60,
				RepeatCooldownSeconds: 5,
			},
		},
	}
}

// LoadConfig loads configuration from a YAML file over the defaults.
// A missing file yields the defaults; a file that can't be parsed yields the
// defaults and the error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil // Use defaults if file doesn't exist
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return config, nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	// If no origins configured, enforce same-origin policy
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	// Extract host from origin URL (e.g., "http://localhost:3000" -> "localhost:3000")
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
