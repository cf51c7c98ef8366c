// Package app assembles the service's collaborators from configuration.
package app

import (
	"log/slog"

	"github.com/couchcryptid/parade-weather-service/internal/adapter/mapbox"
	"github.com/couchcryptid/parade-weather-service/internal/adapter/newsapi"
	"github.com/couchcryptid/parade-weather-service/internal/adapter/nominatim"
	"github.com/couchcryptid/parade-weather-service/internal/adapter/openweather"
	"github.com/couchcryptid/parade-weather-service/internal/config"
	"github.com/couchcryptid/parade-weather-service/internal/domain"
	"github.com/couchcryptid/parade-weather-service/internal/observability"
	"github.com/couchcryptid/parade-weather-service/internal/pipeline"
)

// NewGeocoder returns the Mapbox client when enabled, Nominatim otherwise.
func NewGeocoder(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) domain.Geocoder {
	if cfg.MapboxEnabled {
		logger.Info("mapbox geocoding enabled", "timeout", cfg.UpstreamTimeout)
		return mapbox.NewClient(cfg.MapboxToken, cfg.UpstreamTimeout, metrics, logger)
	}
	logger.Info("nominatim geocoding enabled", "base_url", cfg.NominatimBaseURL)
	return nominatim.NewClient(cfg.NominatimBaseURL, cfg.NominatimUserAgent, cfg.UpstreamTimeout, metrics, logger)
}

// NewWeatherSource returns the OpenWeatherMap client.
func NewWeatherSource(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *openweather.Client {
	return openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL, cfg.UpstreamTimeout, metrics, logger)
}

// NewGlobalAlerts returns a fetcher backed by NewsAPI, or one that always
// yields nothing when no key is configured.
func NewGlobalAlerts(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *pipeline.GlobalAlertFetcher {
	if !cfg.GlobalAlertsEnabled() {
		logger.Info("global alerts disabled")
		return pipeline.NewGlobalAlertFetcher(nil, cfg.GlobalAlertsQuery, logger, metrics)
	}
	client := newsapi.NewClient(cfg.NewsAPIKey, cfg.NewsAPIBaseURL, cfg.UpstreamTimeout, metrics, logger)
	return pipeline.NewGlobalAlertFetcher(client, cfg.GlobalAlertsQuery, logger, metrics)
}

// Settings builds orchestrator settings from configuration and thresholds.
func Settings(cfg *config.Config, th config.Thresholds) pipeline.Settings {
	return pipeline.Settings{
		ForecastDays:   cfg.ForecastDays,
		NoticeDuration: cfg.NoticeDuration,
		Risk:           th.Risk,
		Hazards:        th.Hazards,
	}
}
