package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const devSessionSecret = "dev-only-session-secret"

// Config holds environment-driven configuration.
type Config struct {
	Addr           string
	BackendURL     string
	BackendTimeout time.Duration
	SessionSecret  string
	CookieSecure   bool
	DatabaseURL    string
	LogLevel       string
	LogFormat      string
}

// Load reads configuration from a local .env file (when present) and the environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:           getenv("ADMIN_ADDR", ":3000"),
		BackendURL:     getenv("BACKEND_URL", "http://localhost:8080/api"),
		BackendTimeout: getDuration("BACKEND_TIMEOUT", 10*time.Second),
		SessionSecret:  getenv("SESSION_SECRET", devSessionSecret),
		CookieSecure:   getBool("COOKIE_SECURE", false),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFormat:      getenv("LOG_FORMAT", "text"),
	}
}

// UsesDevSecret reports whether the session cookie is signed with the built-in secret.
func (c Config) UsesDevSecret() bool {
	return c.SessionSecret == devSessionSecret
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
