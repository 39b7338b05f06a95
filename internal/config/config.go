package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	Port        string
	DatabaseURL string

	// Upstream API keys. Open-Meteo needs none.
	GoogleAPIKey string
	YelpAPIKey   string
	MoviesAPIKey string
	MeetupAPIKey string
	TrailAPIKey  string
	Geocoder     string // "google" or "kelvins"

	HTTPTimeout     time.Duration
	ProviderTimeout time.Duration

	// WarmInterval controls how often WarmLocations are refreshed.
	WarmInterval  time.Duration
	WarmLocations []string

	LogLevel  logrus.Level
	LogFormat string // "text" or "json"
}

// Load reads configuration from environment with sensible defaults. An
// optional .env file is loaded first; variables already set take precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("[Config] No .env file loaded: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "3000")
	cfg.DatabaseURL = getenvDefault("DATABASE_URL", "file:city-explorer.db?_foreign_keys=on")

	cfg.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	cfg.YelpAPIKey = os.Getenv("YELP_API_KEY")
	cfg.MoviesAPIKey = os.Getenv("MOVIES_API_KEY")
	cfg.MeetupAPIKey = os.Getenv("MEETUP_API_KEY")
	cfg.TrailAPIKey = os.Getenv("TRAIL_API_KEY")

	cfg.Geocoder = strings.ToLower(getenvDefault("GEOCODER", "google"))
	if cfg.Geocoder != "google" && cfg.Geocoder != "kelvins" {
		return nil, fmt.Errorf("invalid GEOCODER %q: want google or kelvins", cfg.Geocoder)
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.ProviderTimeout, err = getenvDuration("PROVIDER_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.WarmInterval, err = getenvDuration("WARM_INTERVAL", "30m"); err != nil {
		return nil, err
	}
	cfg.WarmLocations = splitList(os.Getenv("WARM_LOCATIONS"))

	level, err := logrus.ParseLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	cfg.LogFormat = strings.ToLower(getenvDefault("LOG_FORMAT", "text"))
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", cfg.LogFormat)
	}

	return cfg, nil
}

// ConfigureLogger applies the level and format to the standard logrus logger.
func (c *AppConfig) ConfigureLogger() *logrus.Logger {
	logger := logrus.StandardLogger()
	logger.SetLevel(c.LogLevel)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
