package services

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/dkotlyar/invest-ledger/internal/logger"
	"github.com/dkotlyar/invest-ledger/internal/models"
)

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// Notifier publishes a transient user-visible message. Delivery is
// best-effort: the channel is a queue, not a guaranteed push.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// NotificationService publishes user-visible notifications to Kafka,
// keyed by recipient so per-user ordering is preserved.
type NotificationService struct {
	writer KafkaWriter
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(writer KafkaWriter) *NotificationService {
	return &NotificationService{writer: writer}
}

// Notify publishes the notification. A nil writer drops the message with
// a warning, mirroring how transaction events degrade without Kafka.
func (s *NotificationService) Notify(ctx context.Context, n models.Notification) error {
	if s.writer == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping notification", "user_id", n.UserID, "message", n.Message)
		return nil
	}

	data, err := json.Marshal(n)
	if err != nil {
		logger.Log.Errorw("failed to marshal notification", "user_id", n.UserID, "error", err)
		return err
	}

	msg := kafka.Message{
		Key:   []byte(n.UserID),
		Value: data,
	}

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish notification", "user_id", n.UserID, "error", err)
		return err
	}

	logger.Log.Infow("notification published", "user_id", n.UserID, "severity", n.Severity)
	return nil
}
