package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"PORT", "DATABASE_URL", "GOOGLE_API_KEY", "YELP_API_KEY", "MOVIES_API_KEY",
	"MEETUP_API_KEY", "TRAIL_API_KEY", "GEOCODER", "HTTP_TIMEOUT", "PROVIDER_TIMEOUT",
	"WARM_INTERVAL", "WARM_LOCATIONS", "LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "file:city-explorer.db?_foreign_keys=on", cfg.DatabaseURL)
	assert.Equal(t, "google", cfg.Geocoder)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 30*time.Minute, cfg.WarmInterval)
	assert.Empty(t, cfg.WarmLocations)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://localhost/explorer")
	t.Setenv("YELP_API_KEY", "yelp")
	t.Setenv("GEOCODER", "Kelvins")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("WARM_LOCATIONS", "Seattle, Denver ,,Portland")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres://localhost/explorer", cfg.DatabaseURL)
	assert.Equal(t, "yelp", cfg.YelpAPIKey)
	assert.Equal(t, "kelvins", cfg.Geocoder)
	assert.Equal(t, 3*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, []string{"Seattle", "Denver", "Portland"}, cfg.WarmLocations)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"GEOCODER":         "bing",
		"HTTP_TIMEOUT":     "soon",
		"PROVIDER_TIMEOUT": "-1s",
		"WARM_INTERVAL":    "often",
		"LOG_LEVEL":        "loud",
		"LOG_FORMAT":       "xml",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}
