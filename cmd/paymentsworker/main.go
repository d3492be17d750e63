package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bouncebook/internal/availability/engine"
	blocksrepo "bouncebook/internal/blocks/repository"
	bookingsrepo "bouncebook/internal/bookings/repository"
	bookingsservice "bouncebook/internal/bookings/service"
	bookingsvalidator "bouncebook/internal/bookings/validator"
	catalogrepo "bouncebook/internal/catalog/repository"
	"bouncebook/internal/events"
	holdsrepo "bouncebook/internal/holds/repository"
	"bouncebook/pkg/config"
	"bouncebook/pkg/kafka"
	kafka_config "bouncebook/pkg/kafka/config"
	kafkamw "bouncebook/pkg/kafka/middleware"
	"bouncebook/pkg/schedule"
)

const (
	ServiceName = "payments-worker"
	GroupID     = "payments-worker"
)

// The payments worker consumes payment outcomes from Kafka and drives the
// same promotion path as the HTTP webhook, for gateways that publish to a
// topic instead of calling back.
func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	bookingService := initServices(cfg)

	consumer, err := kafka.NewConsumer(
		kafka_config.Load(),
		events.TopicPaymentEvents,
		GroupID,
		events.TopicPaymentEventsDLQ,
		paymentHandler(bookingService, cfg),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create payment events consumer", "error", err)
	}
	consumer.Use(kafkamw.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(kafkamw.MetricsConsumerMiddleware())

	ctx, cancel := context.WithCancel(context.Background())
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	cfg.Log.Info("Starting payment events consumer",
		"topic", events.TopicPaymentEvents,
		"group_id", GroupID,
	)
	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Fatal("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}

	stats := kafkamw.GetMetrics().Snapshot()
	cfg.Log.Info("Payments worker stopped",
		"consumed", stats.Consumed,
		"consume_failed", stats.ConsumeFailed,
		"avg_consume_duration", stats.AvgConsumeDuration.String(),
	)
}

// paymentHandler decodes a payment event and runs promotion or release.
// A slot_lost outcome is a settled result: returning nil keeps the
// message out of the DLQ since retrying can never win the window back.
func paymentHandler(bookingService bookingsservice.BookingService, cfg *config.Config) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var event events.PaymentEvent
		if err := msg.DecodeValue(&event); err != nil {
			cfg.Log.Error("Failed to decode payment event", "event_id", msg.GetEventID(), "error", err)
			return err
		}

		result, err := bookingService.HandlePaymentEvent(ctx, &bookingsservice.PaymentWebhookRequest{
			SessionID:  event.SessionID,
			Status:     event.Status,
			PaymentRef: event.PaymentRef,
		})
		if err != nil {
			return err
		}

		cfg.Log.Info("Payment event processed",
			"session_id", event.SessionID,
			"status", event.Status,
			"outcome", result.Outcome,
		)
		return nil
	}
}

func initServices(cfg *config.Config) bookingsservice.BookingService {
	cal, err := schedule.NewCalendar(cfg.BusinessTimeZone)
	if err != nil {
		cfg.Log.Fatal("Invalid business time zone", "time_zone", cfg.BusinessTimeZone, "error", err)
	}

	blocks := blocksrepo.NewMongoBlockRepository(cfg)
	eng := engine.New(
		catalogrepo.NewMongoProductRepository(cfg),
		catalogrepo.NewMongoUnitRepository(cfg),
		catalogrepo.NewMongoCrewRepository(cfg),
		catalogrepo.NewMongoSlotRepository(cfg),
		catalogrepo.NewMongoBlackoutRepository(cfg),
		blocks,
		cal,
		cfg,
	)

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.EventsEnabled {
		p, err := events.NewKafkaPublisher(kafka_config.Load(), ServiceName, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create event publisher", "error", err)
		}
		publisher = p
	}

	return bookingsservice.NewBookingService(
		bookingsrepo.NewMongoBookingRepository(cfg),
		bookingsrepo.NewMongoCancellationRepository(cfg),
		holdsrepo.NewMongoHoldRepository(cfg),
		blocks,
		blocksrepo.NewBlockLockRepository(cfg),
		eng,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
}
