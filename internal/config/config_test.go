package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if len(cfg.Server.WebSocket.AllowedOrigins) != 0 {
		t.Errorf("expected empty allowed origins by default, got %v", cfg.Server.WebSocket.AllowedOrigins)
	}

	if cfg.Server.WebSocket.MaxMessageSize != 4096 {
		t.Errorf("expected max message size 4096, got %d", cfg.Server.WebSocket.MaxMessageSize)
	}

	if cfg.Store.Enabled {
		t.Error("expected the solution store to be disabled by default")
	}

	if cfg.Server.MaxExpanded <= 0 {
		t.Errorf("expected a positive default expansion bound, got %d", cfg.Server.MaxExpanded)
	}

	if cfg.Server.IdleTimeout() != 5*time.Minute {
		t.Errorf("expected idle timeout 5m, got %v", cfg.Server.IdleTimeout())
	}

	if !cfg.Server.Flood.Enabled || cfg.Server.Flood.MaxSubmissions != 10 {
		t.Errorf("expected flood control on with 10 boards per window, got %+v", cfg.Server.Flood)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")

	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}

	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}

	if cfg.Server.TelnetAddr != ":4000" {
		t.Errorf("expected default telnet address, got %q", cfg.Server.TelnetAddr)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "amphipod.yaml")

	content := `
search:
  unfold: true
  progress_every: 500
store:
  enabled: true
  driver: postgres
  postgres:
    host: db.internal
    database: burrows
server:
  max_expanded: 1000
  websocket:
    allowed_origins:
      - "https://example.com"
      - "http://localhost:3000"
    max_message_size: 8192
  flood:
    max_submissions: 3
logging:
  level: DEBUG
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.Search.Unfold {
		t.Error("expected unfold to be enabled")
	}
	if cfg.Search.ProgressEvery != 500 {
		t.Errorf("expected progress every 500, got %d", cfg.Search.ProgressEvery)
	}

	db := cfg.Store.DatabaseConfig()
	if db.Driver != "postgres" {
		t.Errorf("expected postgres driver, got %q", db.Driver)
	}
	if db.Postgres.Host != "db.internal" || db.Postgres.Database != "burrows" {
		t.Errorf("unexpected postgres config %+v", db.Postgres)
	}
	// Unset keys keep their defaults
	if db.Postgres.Port != 5432 {
		t.Errorf("expected default port 5432, got %d", db.Postgres.Port)
	}
	if cfg.Server.Flood.MaxSubmissions != 3 || cfg.Server.Flood.RepeatCooldownSeconds != 5 {
		t.Errorf("unexpected flood config %+v", cfg.Server.Flood)
	}
	if cfg.Server.Connections.MaxPerIP != 3 {
		t.Errorf("expected default max per IP 3, got %d", cfg.Server.Connections.MaxPerIP)
	}

	if cfg.Server.MaxExpanded != 1000 {
		t.Errorf("expected max expanded 1000, got %d", cfg.Server.MaxExpanded)
	}

	if len(cfg.Server.WebSocket.AllowedOrigins) != 2 {
		t.Errorf("expected 2 allowed origins, got %d", len(cfg.Server.WebSocket.AllowedOrigins))
	}

	if cfg.Server.WebSocket.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("expected first origin 'https://example.com', got %s", cfg.Server.WebSocket.AllowedOrigins[0])
	}

	if cfg.Server.WebSocket.MaxMessageSize != 8192 {
		t.Errorf("expected max message size 8192, got %d", cfg.Server.WebSocket.MaxMessageSize)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("server: [\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected a parse error")
	}
	if cfg == nil || cfg.Server.TelnetAddr != ":4000" {
		t.Errorf("expected defaults alongside the error, got %+v", cfg)
	}
}

func TestIsOriginAllowed_EmptyList_SameOrigin(t *testing.T) {
	cfg := WebSocketConfig{
		AllowedOrigins: []string{},
	}

	// Same origin (no Origin header)
	if !cfg.IsOriginAllowed("", "localhost:4080") {
		t.Error("expected empty origin to be allowed (same-origin)")
	}

	// Same origin (matching host)
	if !cfg.IsOriginAllowed("http://localhost:4080", "localhost:4080") {
		t.Error("expected matching origin to be allowed (same-origin)")
	}

	// Different origin should be rejected
	if cfg.IsOriginAllowed("http://evil.com", "localhost:4080") {
		t.Error("expected different origin to be rejected (same-origin policy)")
	}
}

func TestIsOriginAllowed_Wildcard(t *testing.T) {
	cfg := WebSocketConfig{
		AllowedOrigins: []string{"*"},
	}

	if !cfg.IsOriginAllowed("http://anything.com", "localhost:4080") {
		t.Error("expected wildcard to allow any origin")
	}

	if !cfg.IsOriginAllowed("", "localhost:4080") {
		t.Error("expected wildcard to allow empty origin")
	}
}

func TestIsOriginAllowed_ExactMatch(t *testing.T) {
	cfg := WebSocketConfig{
		AllowedOrigins: []string{
			"https://example.com",
			"http://localhost:3000",
		},
	}

	if !cfg.IsOriginAllowed("https://example.com", "localhost:4080") {
		t.Error("expected exact match to be allowed")
	}

	if !cfg.IsOriginAllowed("http://localhost:3000", "localhost:4080") {
		t.Error("expected exact match to be allowed")
	}

	if cfg.IsOriginAllowed("http://evil.com", "localhost:4080") {
		t.Error("expected non-matching origin to be rejected")
	}

	// Partial match should not work
	if cfg.IsOriginAllowed("https://example.com:8080", "localhost:4080") {
		t.Error("expected partial match to be rejected")
	}
}

func TestIsSameOrigin(t *testing.T) {
	tests := []struct {
		origin      string
		requestHost string
		expected    bool
	}{
		{"", "localhost:4080", true},                       // No origin header
		{"http://localhost:4080", "localhost:4080", true},  // HTTP match
		{"https://localhost:4080", "localhost:4080", true}, // HTTPS match
		{"http://localhost:4080/", "localhost:4080", true}, // Trailing slash
		{"http://example.com", "localhost:4080", false},    // Different host
		{"http://localhost:3000", "localhost:4080", false}, // Different port
		{"ws://localhost:4080", "localhost:4080", true},    // WebSocket scheme
	}

	for _, tt := range tests {
		result := isSameOrigin(tt.origin, tt.requestHost)
		if result != tt.expected {
			t.Errorf("isSameOrigin(%q, %q) = %v, want %v",
				tt.origin, tt.requestHost, result, tt.expected)
		}
	}
}
