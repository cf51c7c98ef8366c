package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/parade-weather-service/internal/domain"
)

// Notifier delivers a user-visible notification.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// MultiNotifier fans a notification out to every delivery channel.
type MultiNotifier []Notifier

// Notify delivers to each notifier and joins their errors.
func (m MultiNotifier) Notify(ctx context.Context, n domain.Notification) error {
	var errs []error
	for _, nt := range m {
		if err := nt.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(ctx context.Context, n domain.Notification) error {
	level := slog.LevelInfo
	switch n.Level {
	case domain.LevelWarning:
		level = slog.LevelWarn
	case domain.LevelError:
		level = slog.LevelError
	}
	l.logger.Log(ctx, level, "notification",
		"message", n.Message,
		"duration_ms", n.DurationMillis(),
		"assessment_id", n.AssessmentID,
	)
	return nil
}
