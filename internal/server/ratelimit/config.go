package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Route is the limit applied to one endpoint. A Path ending in "/" matches
// as a prefix. Burst is the instantaneous capacity; it defaults to Limit.
type Route struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config holds the limiter settings.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	SweepInterval time.Duration
	Exempt        map[string]bool
	Blocked       map[string]bool
	Routes        []Route
}

// LoadConfig builds the limiter configuration from the environment:
// RATE_LIMIT_ENABLED, RATE_LIMIT_DEFAULT_LIMIT, RATE_LIMIT_DEFAULT_WINDOW,
// RATE_LIMIT_SWEEP_INTERVAL, plus comma-separated client IP lists in
// RATE_LIMIT_EXEMPT and RATE_LIMIT_BLOCKED.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{}
	}

	return &Config{
		Enabled:       true,
		DefaultLimit:  envInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow: envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		SweepInterval: envDuration("RATE_LIMIT_SWEEP_INTERVAL", 5*time.Minute),
		Exempt:        clientSet(os.Getenv("RATE_LIMIT_EXEMPT")),
		Blocked:       clientSet(os.Getenv("RATE_LIMIT_BLOCKED")),
		Routes:        DefaultRoutes(),
	}
}

// DefaultRoutes returns the per-endpoint limits. Endpoints that trigger a
// model call get the tightest budgets, credential endpoints come next, and
// plain writes are looser; reads fall through to the default limit.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/jobs/conversations", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},
		{Path: "/jobs/import", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/jobs/", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		{Path: "/auth/register", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/auth/login", Method: "POST", Limit: 30, Window: time.Minute, Burst: 10},
		{Path: "/auth/password", Method: "PUT", Limit: 10, Window: time.Minute, Burst: 3},

		{Path: "/jobs/", Method: "PATCH", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/jobs/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
	}
}

func envBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}

// clientSet parses a comma-separated list of client IPs into a lookup set.
func clientSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, entry := range strings.Split(list, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			set[entry] = true
		}
	}
	return set
}
