package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultUpstageBaseURL = "https://api.upstage.ai"

type Config struct {
	APIPort  string
	LogLevel string

	UpstageAPIKey  string
	UpstageBaseURL string

	UpstreamTimeoutSeconds int
	UpstreamBreakerEnabled bool

	CORSOrigins []string

	RelayBaseURL     string
	RelayStaticHosts []string
}

// fileConfig is the optional YAML layer. The credential is only read from the
// environment.
type fileConfig struct {
	APIPort                string   `yaml:"api_port"`
	LogLevel               string   `yaml:"log_level"`
	UpstageBaseURL         string   `yaml:"upstage_base_url"`
	UpstreamTimeoutSeconds int      `yaml:"upstream_timeout_seconds"`
	UpstreamBreakerEnabled *bool    `yaml:"upstream_breaker_enabled"`
	CORSOrigins            []string `yaml:"cors_origins"`
	RelayBaseURL           string   `yaml:"relay_base_url"`
	RelayStaticHosts       []string `yaml:"relay_static_hosts"`
}

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8000",
	"http://127.0.0.1:8000",
}

// Load resolves settings from defaults, then RELAY_CONFIG_FILE when set, then
// the environment.
func Load() (Config, error) {
	file := fileConfig{}
	if path := strings.TrimSpace(os.Getenv("RELAY_CONFIG_FILE")); path != "" {
		loaded, err := loadFile(path)
		if err != nil {
			return Config{}, err
		}
		file = loaded
	}

	breakerDefault := true
	if file.UpstreamBreakerEnabled != nil {
		breakerDefault = *file.UpstreamBreakerEnabled
	}

	return Config{
		APIPort:  mustEnv("API_PORT", orString(file.APIPort, "5000")),
		LogLevel: mustEnv("LOG_LEVEL", orString(file.LogLevel, "info")),

		UpstageAPIKey:  strings.TrimSpace(os.Getenv("UPSTAGE_API_KEY")),
		UpstageBaseURL: strings.TrimRight(mustEnv("UPSTAGE_BASE_URL", orString(file.UpstageBaseURL, DefaultUpstageBaseURL)), "/"),

		UpstreamTimeoutSeconds: mustEnvInt("UPSTREAM_TIMEOUT_SECONDS", orInt(file.UpstreamTimeoutSeconds, 120)),
		UpstreamBreakerEnabled: mustEnvBool("UPSTREAM_BREAKER_ENABLED", breakerDefault),

		CORSOrigins: mustEnvList("RELAY_CORS_ORIGINS", orList(file.CORSOrigins, defaultCORSOrigins)),

		RelayBaseURL:     mustEnv("RELAY_BASE_URL", file.RelayBaseURL),
		RelayStaticHosts: mustEnvList("RELAY_STATIC_HOSTS", orList(file.RelayStaticHosts, []string{"netlify"})),
	}, nil
}

// UpstageConfigured reports whether a provider credential is present.
func (c Config) UpstageConfigured() bool {
	return c.UpstageAPIKey != ""
}

func (c Config) UpstreamTimeout() time.Duration {
	if c.UpstreamTimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.UpstreamTimeoutSeconds) * time.Second
}

func loadFile(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config file: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// mustEnvList splits a comma-separated value, dropping blanks.
func mustEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	out := make([]string, 0)
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func orString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func orInt(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func orList(v, fallback []string) []string {
	if len(v) == 0 {
		return fallback
	}
	return v
}
