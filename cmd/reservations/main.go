package main

import (
	"github.com/julienschmidt/httprouter"

	"bouncebook/internal/availability/engine"
	blocksrepo "bouncebook/internal/blocks/repository"
	bookingshandler "bouncebook/internal/bookings/handler"
	bookingsrepo "bouncebook/internal/bookings/repository"
	bookingsservice "bouncebook/internal/bookings/service"
	bookingsvalidator "bouncebook/internal/bookings/validator"
	catalogrepo "bouncebook/internal/catalog/repository"
	"bouncebook/internal/events"
	holdshandler "bouncebook/internal/holds/handler"
	holdsrepo "bouncebook/internal/holds/repository"
	holdsservice "bouncebook/internal/holds/service"
	holdsvalidator "bouncebook/internal/holds/validator"
	"bouncebook/pkg/app"
	"bouncebook/pkg/config"
	kafka_config "bouncebook/pkg/kafka/config"
	"bouncebook/pkg/schedule"
)

const ServiceName = "reservations"

// reservationsHandler registers both the holds and bookings route sets on
// one router; the two share a conflict domain and deploy together.
type reservationsHandler struct {
	holds    *holdshandler.HoldHandler
	bookings *bookingshandler.BookingHandler
}

func (h *reservationsHandler) RegisterRoutes(router *httprouter.Router) {
	h.holds.RegisterRoutes(router)
	h.bookings.RegisterRoutes(router)
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")

	cal, err := schedule.NewCalendar(cfg.BusinessTimeZone)
	if err != nil {
		cfg.Log.Fatal("Invalid business time zone", "time_zone", cfg.BusinessTimeZone, "error", err)
	}

	blocks := blocksrepo.NewMongoBlockRepository(cfg)
	locks := blocksrepo.NewBlockLockRepository(cfg)
	holds := holdsrepo.NewMongoHoldRepository(cfg)

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

	holdService := holdsservice.NewHoldService(
		holds,
		blocks,
		locks,
		eng,
		holdsvalidator.NewHoldValidator(cfg.Log),
		cfg,
	)

	publisher := newPublisher(cfg)
	bookingService := bookingsservice.NewBookingService(
		bookingsrepo.NewMongoBookingRepository(cfg),
		bookingsrepo.NewMongoCancellationRepository(cfg),
		holds,
		blocks,
		locks,
		eng,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)

	reaper := holdsservice.NewReaper(holdService, cfg.HoldReaperInterval, cfg.Log)
	reaper.Start()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(&reservationsHandler{
		holds:    holdshandler.NewHoldHandler(holdService, cfg.Log),
		bookings: bookingshandler.NewBookingHandler(bookingService, cfg.Log),
	})
	serverApp.OnShutdown(reaper.Stop)
	serverApp.OnShutdown(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	})
	serverApp.Run()
}

func newPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Booking events disabled, using noop publisher")
		return events.NoopPublisher{}
	}

	publisher, err := events.NewKafkaPublisher(kafka_config.Load(), ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}
	return publisher
}
