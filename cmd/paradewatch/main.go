package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/parade-weather-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/parade-weather-service/internal/adapter/kafka"
	"github.com/couchcryptid/parade-weather-service/internal/app"
	"github.com/couchcryptid/parade-weather-service/internal/config"
	"github.com/couchcryptid/parade-weather-service/internal/observability"
	"github.com/couchcryptid/parade-weather-service/internal/pipeline"
	"github.com/couchcryptid/parade-weather-service/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	thresholds, err := config.LoadThresholds(cfg.ThresholdsPath)
	if err != nil {
		logger.Error("failed to load thresholds", "error", err)
		os.Exit(1)
	}

	renderer, err := web.NewRenderer(cfg.StarCount, web.DefaultSeed())
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	hub := httpadapter.NewHub(logger, metrics)
	notifiers := pipeline.MultiNotifier{pipeline.NewLogNotifier(logger), hub}

	settings := app.Settings(cfg, thresholds)
	settings.Observer = hub.BroadcastState

	// Kafka is an optional sink for notifications and assessments.
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		notifiers = append(notifiers, writer)
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	orch := pipeline.New(
		app.NewGeocoder(cfg, metrics, logger),
		app.NewWeatherSource(cfg, metrics, logger),
		notifiers, logger, metrics, settings,
	)
	if writer != nil {
		orch.WithSink(writer)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Assessor:     orch,
		Alerts:       app.NewGlobalAlerts(cfg, metrics, logger),
		Hub:          hub,
		Renderer:     renderer,
		Metrics:      metrics,
		WriteTimeout: 3*cfg.UpstreamTimeout + cfg.ShutdownTimeout,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go hub.Run()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	orch.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
