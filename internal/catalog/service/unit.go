package service

import (
	"context"
	"errors"

	catalogerrors "bouncebook/internal/catalog/errors"
	apperrors "bouncebook/pkg/errors"
	"bouncebook/pkg/model"
	"bouncebook/pkg/sanitizer"
)

func (s *catalogService) CreateUnit(ctx context.Context, unit *model.Unit) error {
	unit.Label = sanitizer.SanitizeLabel(unit.Label)
	if unit.Status == "" {
		unit.Status = model.UnitAvailable
	}

	if err := s.validator.ValidateUnit(unit); err != nil {
		s.cfg.Log.Warn("Unit validation failed", "error", err)
		return apperrors.Validation("Unit validation failed", map[string]any{"error": err.Error()})
	}

	// The parent product must exist before a unit can point at it.
	if _, err := s.GetProduct(ctx, unit.ProductID); err != nil {
		return err
	}

	if err := s.units.Create(ctx, unit); err != nil {
		s.cfg.Log.Error("Failed to create unit", "error", err)
		return apperrors.Internal("Failed to create unit", err)
	}

	s.cfg.Log.Info("Unit created successfully", "id", unit.ID, "product_id", unit.ProductID, "label", unit.Label)
	return nil
}

func (s *catalogService) GetUnit(ctx context.Context, id string) (*model.Unit, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Unit ID cannot be empty")
	}

	unit, err := s.units.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Unit", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid unit ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve unit", err)
	}

	return unit, nil
}

func (s *catalogService) ListUnits(ctx context.Context, productID string, status model.UnitStatus) ([]*model.Unit, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}

	units, err := s.units.FindByProduct(ctx, productID, status)
	if err != nil {
		s.cfg.Log.Error("Failed to list units", "product_id", productID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve units", err)
	}

	return units, nil
}

func (s *catalogService) UpdateUnit(ctx context.Context, id string, updates *model.UnitUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Unit ID cannot be empty")
	}

	existing, err := s.GetUnit(ctx, id)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateUnitUpdate(updates); err != nil {
		s.cfg.Log.Warn("Unit update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := *existing
	if updates.Label != "" {
		merged.Label = sanitizer.SanitizeLabel(updates.Label)
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}

	if err := s.units.Update(ctx, id, &merged); err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Unit", id)
		}
		s.cfg.Log.Error("Failed to update unit", "id", id, "error", err)
		return apperrors.Internal("Failed to update unit", err)
	}

	s.cfg.Log.Info("Unit updated successfully", "id", id, "status", merged.Status)
	return nil
}
