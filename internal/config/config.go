package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// SearchProvider is the web-search backend tag, fixed at startup.
type SearchProvider string

const (
	SearchProviderBing    SearchProvider = "bing"
	SearchProviderSerpAPI SearchProvider = "serpapi"
)

type SocialConfig struct {
	Provider   SearchProvider
	BingKey    string
	SerpAPIKey string
	IGAppID    string
	IGAppToken string
}

// HasInstagramOEmbed reports whether the Instagram credential pair is
// configured. Without it Instagram embeds resolve to their minimal form.
func (s SocialConfig) HasInstagramOEmbed() bool {
	return s.IGAppID != "" && s.IGAppToken != ""
}

type Config struct {
	Port            string
	GooglePlacesKey string
	Social          SocialConfig
}

// Load reads configuration from the environment, after loading a local .env
// when one exists. Missing social credentials are a valid degraded
// configuration; a missing places key is not.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		GooglePlacesKey: os.Getenv("GOOGLE_PLACES_KEY"),
		Social: SocialConfig{
			Provider:   SearchProvider(getEnvOrDefault("SEARCH_PROVIDER", string(SearchProviderBing))),
			BingKey:    os.Getenv("BING_KEY"),
			SerpAPIKey: os.Getenv("SERPAPI_KEY"),
			IGAppID:    os.Getenv("IG_APP_ID"),
			IGAppToken: os.Getenv("IG_APP_TOKEN"),
		},
	}

	if cfg.GooglePlacesKey == "" {
		return nil, fmt.Errorf("GOOGLE_PLACES_KEY environment variable is required")
	}
	switch cfg.Social.Provider {
	case SearchProviderBing, SearchProviderSerpAPI:
	default:
		return nil, fmt.Errorf("SEARCH_PROVIDER must be %q or %q", SearchProviderBing, SearchProviderSerpAPI)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
