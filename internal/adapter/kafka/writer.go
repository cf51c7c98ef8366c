package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/parade-weather-service/internal/config"
	"github.com/couchcryptid/parade-weather-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	kindNotification = "notification"
	kindAssessment   = "assessment"
)

// Writer produces notification and assessment messages to a Kafka topic.
// It implements pipeline.Notifier and pipeline.AssessmentSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		WriteTimeout: cfg.UpstreamTimeout,
	}
	return &Writer{writer: w, logger: logger}
}

// Notify publishes a user-visible notification.
func (w *Writer) Notify(ctx context.Context, n domain.Notification) error {
	msg, err := serializeNotification(n)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

// Publish writes a successful assessment keyed by its ID.
func (w *Writer) Publish(ctx context.Context, a domain.Assessment) error {
	msg, err := serializeAssessment(a)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	w.logger.Debug("assessment published", "id", a.ID, "topic", w.writer.Topic)
	return nil
}

// Close flushes pending messages and closes the underlying writer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

func serializeNotification(n domain.Notification) (kafkago.Message, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize notification: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(n.AssessmentID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(kindNotification)},
			{Key: "level", Value: []byte(n.Level)},
			{Key: "emitted_at", Value: []byte(n.At.Format(time.RFC3339))},
		},
	}, nil
}

func serializeAssessment(a domain.Assessment) (kafkago.Message, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize assessment: %w", err)
	}
	verdict := "caution"
	if a.Verdict.ParadeSafe {
		verdict = "safe"
	}
	return kafkago.Message{
		Key:   []byte(a.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(kindAssessment)},
			{Key: "verdict", Value: []byte(verdict)},
			{Key: "emitted_at", Value: []byte(a.AssessedAt.Format(time.RFC3339))},
		},
	}, nil
}
