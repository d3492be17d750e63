package kafka_middleware

import (
	"context"
	"time"

	"bouncebook/pkg/kafka"
	"bouncebook/pkg/logger"
)

// LoggingProducerMiddleware logs every publish with its outcome and
// latency. Event type and key identify the booking event in log search.
func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		duration := time.Since(start)

		if err != nil {
			log.Error("Kafka publish failed",
				"topic", msg.Topic,
				"key", msg.Key,
				"event_type", msg.GetEventType(),
				"event_id", msg.GetEventID(),
				"duration_ms", duration.Milliseconds(),
				"error", err)
			return err
		}

		log.Debug("Kafka message published",
			"topic", msg.Topic,
			"key", msg.Key,
			"event_type", msg.GetEventType(),
			"event_id", msg.GetEventID(),
			"duration_ms", duration.Milliseconds())
		return nil
	}
}

// LoggingConsumerMiddleware logs every handled message. Partition and
// offset make a stuck or replayed payment event traceable.
func LoggingConsumerMiddleware(log *logger.Logger) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		duration := time.Since(start)

		if err != nil {
			log.Error("Kafka message handling failed",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"key", msg.Key,
				"event_type", msg.GetEventType(),
				"retry_count", msg.GetRetryCount(),
				"duration_ms", duration.Milliseconds(),
				"error", err)
			return err
		}

		log.Info("Kafka message handled",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", msg.Key,
			"event_type", msg.GetEventType(),
			"duration_ms", duration.Milliseconds())
		return nil
	}
}
