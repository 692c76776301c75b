package common

import (
	"os"
	"time"
)

// Environment variable fallbacks for target address and credentials.
const (
	EnvHost     = "SODOLA_HOST"
	EnvUsername = "SODOLA_USERNAME"
	EnvPassword = "SODOLA_PASSWORD"
)

// Config - The config. Populated by CLI flags, defaults apply if not set.
var Config = struct {
	HTTPEndpoint         string
	CredentialsPath      string
	ScrapeTimeoutSeconds float64
	PageTimeoutSeconds   float64
}{
	HTTPEndpoint:         ":9118",
	CredentialsPath:      "",
	ScrapeTimeoutSeconds: 30.0,
	PageTimeoutSeconds:   5.0,
}

// ScrapeTimeout - Deadline for one whole scrape of one target.
func ScrapeTimeout() time.Duration {
	return time.Duration(Config.ScrapeTimeoutSeconds * float64(time.Second))
}

// PageTimeout - Deadline for a single page fetch against a device.
func PageTimeout() time.Duration {
	return time.Duration(Config.PageTimeoutSeconds * float64(time.Second))
}

// EnvOrDefault - Read an environment variable, falling back to the given default.
func EnvOrDefault(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
