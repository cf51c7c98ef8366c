package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/parade-weather-service/internal/observability"
)

// MaxGlobalAlerts caps the headline ticker.
const MaxGlobalAlerts = 5

// HeadlineSource searches news headlines.
type HeadlineSource interface {
	Headlines(ctx context.Context, query string, limit int) ([]string, error)
}

// GlobalAlertFetcher retrieves disaster headlines for the dashboard ticker.
// It runs independently of the orchestrator and never fails its caller.
type GlobalAlertFetcher struct {
	source  HeadlineSource
	query   string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewGlobalAlertFetcher creates a fetcher. A nil source yields no alerts.
func NewGlobalAlertFetcher(source HeadlineSource, query string, logger *slog.Logger, metrics *observability.Metrics) *GlobalAlertFetcher {
	return &GlobalAlertFetcher{source: source, query: query, logger: logger, metrics: metrics}
}

// Fetch returns at most MaxGlobalAlerts headlines. Errors are logged and
// produce an empty list.
func (f *GlobalAlertFetcher) Fetch(ctx context.Context) []string {
	if f.source == nil {
		return []string{}
	}
	titles, err := f.source.Headlines(ctx, f.query, MaxGlobalAlerts)
	if err != nil {
		f.logger.Warn("global alerts fetch failed", "error", err)
		f.metrics.GlobalAlertFailures.Inc()
		return []string{}
	}
	if len(titles) > MaxGlobalAlerts {
		titles = titles[:MaxGlobalAlerts]
	}
	return titles
}
