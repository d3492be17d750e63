package kafka

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	kafka_config "bouncebook/pkg/kafka/config"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

// Producer writes messages to one topic, hashed by key so a session's
// events land on the same partition in order. Writes that exhaust their
// attempts divert to the DLQ topic when one is configured.
type Producer struct {
	writer     *kafka.Writer
	dlqWriter  *kafka.Writer
	topic      string
	middleware []ProducerMiddleware
	closed     bool
	mu         sync.RWMutex
}

// ProducerMiddleware wraps every publish, in registration order.
type ProducerMiddleware func(ctx context.Context, msg Message, next func(ctx context.Context, msg Message) error) error

// Use appends a middleware. Not safe to call concurrently with Publish.
func (p *Producer) Use(middleware ProducerMiddleware) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.middleware = append(p.middleware, middleware)
}

func NewProducer(cfg *kafka_config.Config, topic string, dlqTopic string) (*Producer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	producer := &Producer{
		writer: newWriter(cfg.Brokers, topic, writerOptions{
			compression:  compressionFor(cfg.ProducerCompression),
			requiredAcks: acksFor(cfg.ProducerRequireAcks),
			maxAttempts:  cfg.ProducerMaxAttempts,
			batchTimeout: cfg.ProducerBatchTimeout,
			async:        cfg.ProducerAsync,
		}),
		topic: topic,
	}

	if dlqTopic != "" {
		producer.dlqWriter = newWriter(cfg.Brokers, dlqTopic, writerOptions{
			compression:  compressionFor(cfg.ProducerCompression),
			requiredAcks: kafka.RequireAll,
			maxAttempts:  3,
		})
	}

	return producer, nil
}

type writerOptions struct {
	compression  compress.Compression
	requiredAcks kafka.RequiredAcks
	maxAttempts  int
	batchTimeout time.Duration
	async        bool
}

func newWriter(brokers []string, topic string, opts writerOptions) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: opts.requiredAcks,
		Compression:  opts.compression,
		MaxAttempts:  opts.maxAttempts,
		BatchTimeout: opts.batchTimeout,
		Async:        opts.async,
		Logger:       kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger:  kafka.LoggerFunc(log.Printf),
	}
}

func compressionFor(name string) compress.Compression {
	switch name {
	case "gzip":
		return compress.Gzip
	case "lz4":
		return compress.Lz4
	case "zstd":
		return compress.Zstd
	default:
		return compress.Snappy
	}
}

func acksFor(acks int) kafka.RequiredAcks {
	switch acks {
	case 0:
		return kafka.RequireNone
	case 1:
		return kafka.RequireOne
	default:
		return kafka.RequireAll
	}
}

// Publish writes one message. A write failure falls through to the DLQ
// so a broker hiccup does not silently drop a booking event.
func (p *Producer) Publish(ctx context.Context, msg Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrProducerClosed
	}
	p.mu.RUnlock()

	if msg.Key == "" {
		return ErrEmptyKey
	}
	if len(msg.Value) == 0 {
		return ErrEmptyValue
	}

	handler := p.write
	for i := len(p.middleware) - 1; i >= 0; i-- {
		middleware := p.middleware[i]
		next := handler
		handler = func(ctx context.Context, m Message) error {
			return middleware(ctx, m, next)
		}
	}
	return handler(ctx, msg)
}

func (p *Producer) write(ctx context.Context, msg Message) error {
	err := p.writer.WriteMessages(ctx, toKafkaMessage(msg))
	if err == nil {
		return nil
	}

	if p.dlqWriter != nil {
		annotateForDLQ(&msg, p.topic, err)
		if dlqErr := p.dlqWriter.WriteMessages(ctx, toKafkaMessage(msg)); dlqErr != nil {
			return fmt.Errorf("failed to send to DLQ: %v (original error: %v)", dlqErr, err)
		}
	}
	return err
}

// Close flushes and releases both writers.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	err := p.writer.Close()
	if p.dlqWriter != nil {
		if dlqErr := p.dlqWriter.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}

func toKafkaMessage(msg Message) kafka.Message {
	out := kafka.Message{
		Key:   []byte(msg.Key),
		Value: msg.Value,
		Time:  msg.Timestamp,
	}
	if out.Time.IsZero() {
		out.Time = time.Now()
	}
	for k, v := range msg.Headers {
		out.Headers = append(out.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return out
}

func annotateForDLQ(msg *Message, originalTopic string, cause error) {
	if msg.Headers == nil {
		msg.Headers = make(map[string]string)
	}
	msg.Headers[HeaderOriginalTopic] = originalTopic
	msg.Headers["dlq-error"] = cause.Error()
	msg.Headers["dlq-timestamp"] = time.Now().Format(time.RFC3339)
}
