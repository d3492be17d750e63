package service

import (
	"context"

	"bouncebook/internal/catalog/repository"
	"bouncebook/internal/catalog/validator"
	"bouncebook/pkg/config"
	"bouncebook/pkg/model"
)

type CatalogService interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Product, int64, error)
	UpdateProduct(ctx context.Context, id string, updates *model.ProductUpdate) error
	RetireProduct(ctx context.Context, id string) error

	CreateUnit(ctx context.Context, unit *model.Unit) error
	GetUnit(ctx context.Context, id string) (*model.Unit, error)
	ListUnits(ctx context.Context, productID string, status model.UnitStatus) ([]*model.Unit, error)
	UpdateUnit(ctx context.Context, id string, updates *model.UnitUpdate) error

	CreateCrew(ctx context.Context, crew *model.Crew) error
	GetCrew(ctx context.Context, id string) (*model.Crew, error)
	ListCrews(ctx context.Context, limit int, offset int64) ([]*model.Crew, int64, error)
	UpdateCrew(ctx context.Context, id string, updates *model.CrewUpdate) error

	CreateSlot(ctx context.Context, slot *model.Slot) error
	ListSlots(ctx context.Context, productID string, activeOnly bool) ([]*model.Slot, error)
	UpdateSlot(ctx context.Context, id string, updates *model.SlotUpdate) error

	CreateBlackout(ctx context.Context, blackout *model.BlackoutDate) error
	ListBlackouts(ctx context.Context, limit int, offset int64) ([]*model.BlackoutDate, int64, error)
	DeleteBlackout(ctx context.Context, id string) error
}

type catalogService struct {
	products  repository.ProductRepository
	units     repository.UnitRepository
	crews     repository.CrewRepository
	slots     repository.SlotRepository
	blackouts repository.BlackoutRepository
	validator *validator.CatalogValidator
	cfg       *config.Config
}

func NewCatalogService(
	products repository.ProductRepository,
	units repository.UnitRepository,
	crews repository.CrewRepository,
	slots repository.SlotRepository,
	blackouts repository.BlackoutRepository,
	validator *validator.CatalogValidator,
	cfg *config.Config,
) CatalogService {
	return &catalogService{
		products:  products,
		units:     units,
		crews:     crews,
		slots:     slots,
		blackouts: blackouts,
		validator: validator,
		cfg:       cfg,
	}
}
