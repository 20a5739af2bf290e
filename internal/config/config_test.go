package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearRelayEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"API_PORT", "LOG_LEVEL", "UPSTAGE_API_KEY", "UPSTAGE_BASE_URL",
		"UPSTREAM_TIMEOUT_SECONDS", "UPSTREAM_BREAKER_ENABLED",
		"RELAY_CORS_ORIGINS", "RELAY_BASE_URL", "RELAY_STATIC_HOSTS", "RELAY_CONFIG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearRelayEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIPort != "5000" {
		t.Fatalf("expected default port 5000, got %q", cfg.APIPort)
	}
	if cfg.UpstageBaseURL != DefaultUpstageBaseURL {
		t.Fatalf("expected default base url, got %q", cfg.UpstageBaseURL)
	}
	if cfg.UpstageConfigured() {
		t.Fatalf("expected no credential without UPSTAGE_API_KEY")
	}
	if cfg.UpstageAPIKey != "" {
		t.Fatalf("expected empty credential, got a value")
	}
	if !cfg.UpstreamBreakerEnabled {
		t.Fatalf("expected breaker enabled by default")
	}
	if cfg.RelayBaseURL != "" {
		t.Fatalf("expected empty relay base url, got %q", cfg.RelayBaseURL)
	}
	if len(cfg.RelayStaticHosts) != 1 || cfg.RelayStaticHosts[0] != "netlify" {
		t.Fatalf("unexpected static hosts: %v", cfg.RelayStaticHosts)
	}
}

func TestLoadParsesEnvOverrides(t *testing.T) {
	clearRelayEnv(t)
	t.Setenv("UPSTAGE_API_KEY", "up_test")
	t.Setenv("UPSTAGE_BASE_URL", "http://localhost:9999/")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "7")
	t.Setenv("UPSTREAM_BREAKER_ENABLED", "false")
	t.Setenv("RELAY_CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.UpstageConfigured() {
		t.Fatalf("expected credential configured")
	}
	if cfg.UpstageBaseURL != "http://localhost:9999" {
		t.Fatalf("expected trimmed base url, got %q", cfg.UpstageBaseURL)
	}
	if cfg.UpstreamTimeout().Seconds() != 7 {
		t.Fatalf("expected 7s timeout, got %s", cfg.UpstreamTimeout())
	}
	if cfg.UpstreamBreakerEnabled {
		t.Fatalf("expected breaker disabled")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadLayersYAMLFileUnderEnv(t *testing.T) {
	clearRelayEnv(t)
	path := filepath.Join(t.TempDir(), "relay.yaml")
	content := []byte("api_port: \"9090\"\nlog_level: debug\nupstream_breaker_enabled: false\ncors_origins:\n  - https://app.example\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("RELAY_CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIPort != "9090" {
		t.Fatalf("expected port from file, got %q", cfg.APIPort)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected env to win over file, got %q", cfg.LogLevel)
	}
	if cfg.UpstreamBreakerEnabled {
		t.Fatalf("expected breaker disabled by file")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://app.example" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadFailsOnBrokenYAML(t *testing.T) {
	clearRelayEnv(t)
	path := filepath.Join(t.TempDir(), "relay.yaml")
	if err := os.WriteFile(path, []byte("api_port: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("RELAY_CONFIG_FILE", path)

	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}
