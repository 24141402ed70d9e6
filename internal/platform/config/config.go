package config

import (
	"os"
	"time"
)

// App captures process-level configuration for the storefront core.
type App struct {
	// APIURL is the catalog API root.
	APIURL string
	// StoreBackend selects where state persists: file, memory, redis, or
	// postgres.
	StoreBackend string
	// StorePath is the state file location for the file backend.
	StorePath string
	// RedisURL configures the redis backend.
	RedisURL string
	// PostgresDSN configures the postgres backend.
	PostgresDSN string
	// HTTPTimeout bounds catalog API calls.
	HTTPTimeout time.Duration
}

// DefaultAPIURL is the public demo catalog the web client ships against.
const DefaultAPIURL = "https://api.escuelajs.co/api/v1"

// FromEnv builds an App config from environment variables so main stays lean.
func FromEnv() App {
	cfg := App{
		APIURL:       os.Getenv("STOREFRONT_API_URL"),
		StoreBackend: os.Getenv("STOREFRONT_STORE_BACKEND"),
		StorePath:    os.Getenv("STOREFRONT_STORE_PATH"),
		RedisURL:     os.Getenv("STOREFRONT_REDIS_URL"),
		PostgresDSN:  os.Getenv("STOREFRONT_POSTGRES_DSN"),
		HTTPTimeout:  15 * time.Second,
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = "file"
	}
	if cfg.StorePath == "" {
		cfg.StorePath = "storefront-state.json"
	}
	if raw := os.Getenv("STOREFRONT_HTTP_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.HTTPTimeout = d
		}
	}
	return cfg
}
