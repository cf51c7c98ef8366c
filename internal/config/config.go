package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// UpstreamTimeout bounds every outbound request to a collaborator.
	UpstreamTimeout time.Duration

	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	NominatimBaseURL   string
	NominatimUserAgent string

	// Mapbox replaces Nominatim for location search when enabled.
	MapboxToken   string
	MapboxEnabled bool

	// Global alerts are disabled when NewsAPIKey is empty.
	NewsAPIKey        string
	NewsAPIBaseURL    string
	GlobalAlertsQuery string

	ForecastDays   int
	NoticeDuration time.Duration
	StarCount      int
	ThresholdsPath string

	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	upstreamTimeout, err := parsePositiveDuration("UPSTREAM_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	noticeDuration, err := parsePositiveDuration("NOTICE_DURATION", "5s")
	if err != nil {
		return nil, err
	}

	forecastDays, err := parseIntInRange("FORECAST_DAYS", 5, 1, 5)
	if err != nil {
		return nil, err
	}

	starCount, err := parseIntInRange("STAR_COUNT", 100, 0, 1000)
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		UpstreamTimeout: upstreamTimeout,

		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: sharedcfg.EnvOrDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5"),

		NominatimBaseURL:   sharedcfg.EnvOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: sharedcfg.EnvOrDefault("NOMINATIM_USER_AGENT", "parade-weather-service/1.0"),

		MapboxToken:   mapboxToken,
		MapboxEnabled: mapboxEnabled,

		NewsAPIKey:        os.Getenv("NEWSAPI_KEY"),
		NewsAPIBaseURL:    sharedcfg.EnvOrDefault("NEWSAPI_BASE_URL", "https://newsapi.org/v2"),
		GlobalAlertsQuery: sharedcfg.EnvOrDefault("GLOBAL_ALERTS_QUERY", "hurricane OR tornado OR flood OR wildfire OR earthquake"),

		ForecastDays:   forecastDays,
		NoticeDuration: noticeDuration,
		StarCount:      starCount,
		ThresholdsPath: os.Getenv("THRESHOLDS_PATH"),

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "parade-notifications"),
	}

	if cfg.OpenWeatherAPIKey == "" {
		return nil, errors.New("OPENWEATHER_API_KEY is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

// GlobalAlertsEnabled reports whether the headline search is configured.
func (c *Config) GlobalAlertsEnabled() bool {
	return c.NewsAPIKey != ""
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseIntInRange(key string, def, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: must be an integer between %d and %d", key, lo, hi)
	}
	return n, nil
}
