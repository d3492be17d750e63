package service

import (
	"context"
	"errors"
	"sync"

	catalogerrors "bouncebook/internal/catalog/errors"
	apperrors "bouncebook/pkg/errors"
	"bouncebook/pkg/model"
	"bouncebook/pkg/sanitizer"
)

func (s *catalogService) CreateProduct(ctx context.Context, product *model.Product) error {
	product.Name = sanitizer.NormalizeName(product.Name)
	if product.LeadTimeHours == 0 {
		product.LeadTimeHours = s.cfg.DefaultLeadTimeHours
	}
	product.Active = true

	if err := s.validator.ValidateProduct(product); err != nil {
		s.cfg.Log.Warn("Product validation failed", "error", err)
		return apperrors.Validation("Product validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.products.Create(ctx, product); err != nil {
		s.cfg.Log.Error("Failed to create product", "error", err)
		return apperrors.Internal("Failed to create product", err)
	}

	s.cfg.Log.Info("Product created successfully", "id", product.ID, "name", product.Name, "mode", product.Mode)
	return nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Product ID cannot be empty")
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Product", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid product ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve product", err)
	}

	return product, nil
}

func (s *catalogService) ListProducts(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Product, int64, error) {
	var count int64
	var products []*model.Product
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.products.Count(ctx, activeOnly)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count products", "error", errCount)
			errCount = apperrors.Internal("Failed to count products", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		products, errFind = s.products.FindAll(ctx, activeOnly, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list products", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve products", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return products, count, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id string, updates *model.ProductUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Product ID cannot be empty")
	}

	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateProductUpdate(updates); err != nil {
		s.cfg.Log.Warn("Product update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeProductUpdates(existing, updates)
	if err := s.validator.ValidateProduct(merged); err != nil {
		return apperrors.Validation("Product validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.products.Update(ctx, id, merged); err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Product", id)
		}
		s.cfg.Log.Error("Failed to update product", "id", id, "error", err)
		return apperrors.Internal("Failed to update product", err)
	}

	s.cfg.Log.Info("Product updated successfully", "id", id)
	return nil
}

// RetireProduct deactivates a product rather than deleting it. Bookings
// referencing the product stay intact; the product simply stops being
// offered.
func (s *catalogService) RetireProduct(ctx context.Context, id string) error {
	inactive := false
	return s.UpdateProduct(ctx, id, &model.ProductUpdate{Active: &inactive})
}

func (s *catalogService) mergeProductUpdates(existing *model.Product, updates *model.ProductUpdate) *model.Product {
	merged := *existing

	if updates.Name != "" {
		merged.Name = sanitizer.NormalizeName(updates.Name)
	}
	if updates.LeadTimeHours != nil {
		merged.LeadTimeHours = *updates.LeadTimeHours
	}
	if updates.SetupBufferMin != nil {
		merged.SetupBufferMin = *updates.SetupBufferMin
	}
	if updates.TeardownBufferMin != nil {
		merged.TeardownBufferMin = *updates.TeardownBufferMin
	}
	if updates.Active != nil {
		merged.Active = *updates.Active
	}

	return &merged
}
