package statsapi

import (
	"os"
	"strconv"
	"time"
)

// DefaultBaseURL is the development server address as seen from an
// Android emulator.
const DefaultBaseURL = "http://10.0.2.2:8000"

// Config holds remote service settings.
type Config struct {
	// BaseURL is the service root, without a trailing slash.
	BaseURL string

	// Timeout bounds each request. Default: 10s.
	Timeout time.Duration

	// Offline skips the network entirely; callers get fallback data.
	Offline bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 10 * time.Second,
	}
}

// ConfigFromEnv builds a Config from TRAPZ_API_URL, TRAPZ_API_TIMEOUT and
// TRAPZ_OFFLINE, falling back to defaults for unset or malformed values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if u := os.Getenv("TRAPZ_API_URL"); u != "" {
		cfg.BaseURL = u
	}
	if t := os.Getenv("TRAPZ_API_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if o := os.Getenv("TRAPZ_OFFLINE"); o != "" {
		if b, err := strconv.ParseBool(o); err == nil {
			cfg.Offline = b
		}
	}
	return cfg
}
