package main

import (
	"bouncebook/internal/availability/engine"
	"bouncebook/internal/availability/handler"
	"bouncebook/internal/availability/service"
	blocksrepo "bouncebook/internal/blocks/repository"
	catalogrepo "bouncebook/internal/catalog/repository"
	"bouncebook/pkg/app"
	"bouncebook/pkg/config"
	"bouncebook/pkg/schedule"
)

const ServiceName = "availability"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Availability service")
	availabilityService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAvailabilityHandler(availabilityService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AvailabilityService {
	cal, err := schedule.NewCalendar(cfg.BusinessTimeZone)
	if err != nil {
		cfg.Log.Fatal("Invalid business time zone", "time_zone", cfg.BusinessTimeZone, "error", err)
	}

	eng := engine.New(
		catalogrepo.NewMongoProductRepository(cfg),
		catalogrepo.NewMongoUnitRepository(cfg),
		catalogrepo.NewMongoCrewRepository(cfg),
		catalogrepo.NewMongoSlotRepository(cfg),
		catalogrepo.NewMongoBlackoutRepository(cfg),
		blocksrepo.NewMongoBlockRepository(cfg),
		cal,
		cfg,
	)

	cfg.Log.Info("Availability service initialized",
		"database", cfg.MongoDatabaseName,
		"time_zone", cfg.BusinessTimeZone,
	)
	return service.NewAvailabilityService(eng, cfg)
}
