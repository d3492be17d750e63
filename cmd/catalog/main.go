package main

import (
	"bouncebook/internal/catalog/handler"
	"bouncebook/internal/catalog/repository"
	"bouncebook/internal/catalog/service"
	"bouncebook/internal/catalog/validator"
	"bouncebook/pkg/app"
	"bouncebook/pkg/config"
)

const ServiceName = "catalog"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Catalog service")
	catalogService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewCatalogHandler(catalogService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.CatalogService {
	catalogValidator := validator.NewCatalogValidator(cfg.Log)
	catalogService := service.NewCatalogService(
		repository.NewMongoProductRepository(cfg),
		repository.NewMongoUnitRepository(cfg),
		repository.NewMongoCrewRepository(cfg),
		repository.NewMongoSlotRepository(cfg),
		repository.NewMongoBlackoutRepository(cfg),
		catalogValidator,
		cfg,
	)

	cfg.Log.Info("Catalog service initialized", "database", cfg.MongoDatabaseName)
	return catalogService
}
