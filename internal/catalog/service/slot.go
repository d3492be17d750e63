package service

import (
	"context"
	"errors"

	catalogerrors "bouncebook/internal/catalog/errors"
	apperrors "bouncebook/pkg/errors"
	"bouncebook/pkg/model"
	"bouncebook/pkg/sanitizer"
)

func (s *catalogService) CreateSlot(ctx context.Context, slot *model.Slot) error {
	slot.Label = sanitizer.SanitizeLabel(slot.Label)
	slot.Active = true

	if err := s.validator.ValidateSlot(slot); err != nil {
		s.cfg.Log.Warn("Slot validation failed", "error", err)
		return apperrors.Validation("Slot validation failed", map[string]any{"error": err.Error()})
	}

	// Slots only make sense on slot-based products.
	product, err := s.GetProduct(ctx, slot.ProductID)
	if err != nil {
		return err
	}
	if product.Mode != model.ModeSlotBased {
		return apperrors.InvalidInput("Slots can only be defined for slot-based products")
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		s.cfg.Log.Error("Failed to create slot", "error", err)
		return apperrors.Internal("Failed to create slot", err)
	}

	s.cfg.Log.Info("Slot created successfully",
		"id", slot.ID,
		"product_id", slot.ProductID,
		"window", slot.StartLocal+"-"+slot.EndLocal,
	)
	return nil
}

func (s *catalogService) ListSlots(ctx context.Context, productID string, activeOnly bool) ([]*model.Slot, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}

	slots, err := s.slots.FindByProduct(ctx, productID, activeOnly)
	if err != nil {
		s.cfg.Log.Error("Failed to list slots", "product_id", productID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve slots", err)
	}

	return slots, nil
}

func (s *catalogService) UpdateSlot(ctx context.Context, id string, updates *model.SlotUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Slot ID cannot be empty")
	}

	existing, err := s.slots.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Slot", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid slot ID format")
		}
		return apperrors.Internal("Failed to retrieve slot", err)
	}

	if err := s.validator.ValidateSlotUpdate(updates); err != nil {
		s.cfg.Log.Warn("Slot update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := *existing
	if updates.Label != "" {
		merged.Label = sanitizer.SanitizeLabel(updates.Label)
	}
	if updates.StartLocal != "" {
		merged.StartLocal = updates.StartLocal
	}
	if updates.EndLocal != "" {
		merged.EndLocal = updates.EndLocal
	}
	if updates.DisplayOrder != nil {
		merged.DisplayOrder = *updates.DisplayOrder
	}
	if updates.Active != nil {
		merged.Active = *updates.Active
	}

	if err := s.validator.ValidateSlot(&merged); err != nil {
		return apperrors.Validation("Slot validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.slots.Update(ctx, id, &merged); err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Slot", id)
		}
		s.cfg.Log.Error("Failed to update slot", "id", id, "error", err)
		return apperrors.Internal("Failed to update slot", err)
	}

	s.cfg.Log.Info("Slot updated successfully", "id", id)
	return nil
}
