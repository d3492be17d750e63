package events

import (
	"context"
	"time"

	"bouncebook/pkg/kafka"
	kafka_config "bouncebook/pkg/kafka/config"
	kafkamw "bouncebook/pkg/kafka/middleware"
	"bouncebook/pkg/logger"
)

// Publisher emits booking lifecycle events. Implementations must be safe
// for concurrent use.
type Publisher interface {
	PublishBookingEvent(ctx context.Context, event *BookingEvent) error
	Close() error
}

// KafkaPublisher publishes booking events to the booking.events topic,
// keyed by session so a session's events stay ordered within a partition.
type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

func NewKafkaPublisher(cfg *kafka_config.Config, source string, log *logger.Logger) (*KafkaPublisher, error) {
	producer, err := kafka.NewProducer(cfg, TopicBookingEvents, TopicBookingEventsDLQ)
	if err != nil {
		return nil, err
	}
	producer.Use(kafkamw.LoggingProducerMiddleware(log))
	producer.Use(kafkamw.MetricsProducerMiddleware())
	return &KafkaPublisher{
		producer: producer,
		source:   source,
		log:      log,
	}, nil
}

func (p *KafkaPublisher) PublishBookingEvent(ctx context.Context, event *BookingEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	key := event.SessionID
	if key == "" {
		key = event.BookingID
	}

	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(event).
		WithEventType(event.Type).
		WithSchemaVersion("1.0").
		WithSource(p.source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"event_type", event.Type,
			"booking_id", event.BookingID,
			"session_id", event.SessionID,
			"error", err)
		return err
	}

	p.log.Debug("Published booking event",
		"event_type", event.Type,
		"booking_id", event.BookingID,
		"session_id", event.SessionID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher drops events. It stands in when Kafka is not configured so
// the booking service never has to nil-check its publisher.
type NoopPublisher struct{}

func (NoopPublisher) PublishBookingEvent(ctx context.Context, event *BookingEvent) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
