// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables; an empty
// variable counts as unset so its default applies.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" envDefault:"8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `env:"DATABASE_URL"`

	// LogLevel controls the minimum log level: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to the Vite dev server.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	// AuthSecret verifies HS256 session tokens. Required.
	AuthSecret string `env:"AUTH_SECRET"`

	// MapsAPIKey enables route composition and geocoding. Without it route
	// requests fail upstream and geocoding is skipped.
	MapsAPIKey  string `env:"MAPS_API_KEY"`
	MapsBaseURL string `env:"MAPS_BASE_URL" envDefault:"https://maps.googleapis.com"`

	// RedisURL enables the share rate limiter and the route cache.
	RedisURL      string        `env:"REDIS_URL"`
	RouteCacheTTL time.Duration `env:"ROUTE_CACHE_TTL" envDefault:"10m"`

	// ShareRateLimit is the number of share resolutions allowed per client
	// address per minute. Zero disables the limiter.
	ShareRateLimit int64 `env:"SHARE_RATE_LIMIT" envDefault:"30"`

	// TrustProxy makes the server take the client address from
	// X-Forwarded-For / X-Real-IP. Enable it only behind a proxy that
	// overwrites those headers; otherwise the TCP peer address is used.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	MaxBodyBytes   int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
}

// Load reads a local .env file when present, then configuration from
// environment variables. Returns an error listing any required variables
// that are not set.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg, env.Options{Environment: setEnv()}); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.AuthSecret == "" {
		missing = append(missing, "AUTH_SECRET")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// setEnv returns the process environment without empty variables.
func setEnv() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && v != "" {
			out[k] = v
		}
	}
	return out
}

// trimAll trims each entry and drops empty ones.
func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
