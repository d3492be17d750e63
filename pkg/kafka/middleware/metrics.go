package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"bouncebook/pkg/kafka"
)

// Metrics accumulates publish and consume counters for the process. The
// payments worker reports a snapshot on shutdown; there is no metrics
// backend in this deployment, logs are the export path.
type Metrics struct {
	published       atomic.Int64
	publishFailed   atomic.Int64
	publishDuration atomic.Int64
	consumed        atomic.Int64
	consumeFailed   atomic.Int64
	consumeDuration atomic.Int64
}

var globalMetrics = &Metrics{}

// GetMetrics returns the process-wide metrics instance.
func GetMetrics() *Metrics {
	return globalMetrics
}

// Snapshot is a point-in-time reading suitable for structured logging.
type Snapshot struct {
	Published          int64
	PublishFailed      int64
	AvgPublishDuration time.Duration
	Consumed           int64
	ConsumeFailed      int64
	AvgConsumeDuration time.Duration
}

func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		Published:     m.published.Load(),
		PublishFailed: m.publishFailed.Load(),
		Consumed:      m.consumed.Load(),
		ConsumeFailed: m.consumeFailed.Load(),
	}
	if s.Published > 0 {
		s.AvgPublishDuration = time.Duration(m.publishDuration.Load() / s.Published)
	}
	if s.Consumed > 0 {
		s.AvgConsumeDuration = time.Duration(m.consumeDuration.Load() / s.Consumed)
	}
	return s
}

// Reset zeroes all counters. Test hook.
func (m *Metrics) Reset() {
	m.published.Store(0)
	m.publishFailed.Store(0)
	m.publishDuration.Store(0)
	m.consumed.Store(0)
	m.consumeFailed.Store(0)
	m.consumeDuration.Store(0)
}

// MetricsProducerMiddleware counts published booking events.
func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		globalMetrics.publishDuration.Add(int64(time.Since(start)))

		if err != nil {
			globalMetrics.publishFailed.Add(1)
		} else {
			globalMetrics.published.Add(1)
		}
		return err
	}
}

// MetricsConsumerMiddleware counts handled payment events.
func MetricsConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		globalMetrics.consumeDuration.Add(int64(time.Since(start)))

		if err != nil {
			globalMetrics.consumeFailed.Add(1)
		} else {
			globalMetrics.consumed.Add(1)
		}
		return err
	}
}
