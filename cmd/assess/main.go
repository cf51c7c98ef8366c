// Command assess runs a single parade weather assessment and prints the
// verdict, hazard notices, forecast strip and share line.
//
// Usage:
//
//	go run ./cmd/assess -city "New York" -event "Pride March" -date 2024-06-28
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/couchcryptid/parade-weather-service/internal/app"
	"github.com/couchcryptid/parade-weather-service/internal/config"
	"github.com/couchcryptid/parade-weather-service/internal/domain"
	"github.com/couchcryptid/parade-weather-service/internal/observability"
	"github.com/couchcryptid/parade-weather-service/internal/pipeline"
	"github.com/couchcryptid/parade-weather-service/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(out io.Writer) error {
	city := flag.String("city", "", "city to assess")
	event := flag.String("event", "", "event name")
	date := flag.String("date", "", "event date (YYYY-MM-DD)")
	flag.Parse()

	sub, err := domain.ParseSubmission(*city, *event, *date)
	if err != nil {
		flag.Usage()
		return err
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	thresholds, err := config.LoadThresholds(cfg.ThresholdsPath)
	if err != nil {
		return err
	}

	logger := observability.NewLoggerTo(os.Stderr, cfg)
	metrics := observability.NewMetricsForTesting()

	orch := pipeline.New(
		app.NewGeocoder(cfg, metrics, logger),
		app.NewWeatherSource(cfg, metrics, logger),
		pipeline.NewLogNotifier(logger),
		logger, metrics, app.Settings(cfg, thresholds),
	)

	outcome, err := orch.Submit(context.Background(), sub)
	if err != nil {
		return err
	}
	if outcome.State == pipeline.StateFailure {
		return fmt.Errorf("%s", outcome.Message)
	}

	printReport(out, web.NewAssessmentView(outcome.Assessment))
	return nil
}

func printReport(w io.Writer, v web.AssessmentView) {
	fmt.Fprintf(w, "%s · %s · %s\n", v.EventName, v.City, v.LongDate)
	if v.Place != "" {
		fmt.Fprintf(w, "Location: %s\n", v.Place)
	}
	fmt.Fprintf(w, "\n%s\n%s\n\n", v.Banner.Title, v.Banner.Advice)

	for _, c := range v.Cards {
		fmt.Fprintf(w, "  %-14s %6s %-4s [%s]\n", c.Label, c.Value, c.Unit, strings.ToUpper(string(c.Status)))
	}

	if len(v.Hazards) > 0 {
		fmt.Fprintln(w, "\nHazards:")
		for _, h := range v.Hazards {
			fmt.Fprintf(w, "  %s\n", h)
		}
	}

	if len(v.Forecast) > 0 {
		fmt.Fprintln(w, "\nForecast:")
		for _, d := range v.Forecast {
			fmt.Fprintf(w, "  %-10s %6s  %-20s wind %s  rain %s\n", d.Date, d.Temperature, d.Description, d.Wind, d.Rain)
		}
	}

	fmt.Fprintf(w, "\nEco-Insight: %s\n", v.EcoInsight)
	fmt.Fprintf(w, "Daylight: %s\n", v.Daylight)
	fmt.Fprintf(w, "\n%s\n", v.ShareText)
}
