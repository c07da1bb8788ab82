// Package config reads application configuration from the environment.
package config

import (
	"os"
	"time"

	"github.com/deangi/MyAccountTracker/internal/autosave"
)

// Config holds the runtime configuration.
type Config struct {
	// OAuth client credentials for the spreadsheet backend.
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Title used for documents created without an explicit name.
	Title string

	// AutosaveInterval is the debounce delay for background saves.
	AutosaveInterval time.Duration
}

// Load reads configuration from environment variables, applying
// defaults for everything but the OAuth client.
func Load() Config {
	return Config{
		ClientID:         os.Getenv("TRACKER_CLIENT_ID"),
		ClientSecret:     os.Getenv("TRACKER_CLIENT_SECRET"),
		RedirectURL:      getEnv("TRACKER_REDIRECT_URL", "http://localhost:8089/callback"),
		Title:            getEnv("TRACKER_TITLE", "MyAccountTracker"),
		AutosaveInterval: getDuration("TRACKER_AUTOSAVE_INTERVAL", autosave.DefaultInterval),
	}
}

func getEnv(key, fallback string) string {
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
	if err != nil {
		return fallback
	}
	return d
}
