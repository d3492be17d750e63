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

func (s *catalogService) CreateCrew(ctx context.Context, crew *model.Crew) error {
	crew.Name = sanitizer.NormalizeName(crew.Name)
	crew.Phone = sanitizer.NormalizePhone(crew.Phone)
	crew.Active = true

	if err := s.validator.ValidateCrew(crew); err != nil {
		s.cfg.Log.Warn("Crew validation failed", "error", err)
		return apperrors.Validation("Crew validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.crews.Create(ctx, crew); err != nil {
		s.cfg.Log.Error("Failed to create crew", "error", err)
		return apperrors.Internal("Failed to create crew", err)
	}

	s.cfg.Log.Info("Crew created successfully", "id", crew.ID, "name", crew.Name)
	return nil
}

func (s *catalogService) GetCrew(ctx context.Context, id string) (*model.Crew, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Crew ID cannot be empty")
	}

	crew, err := s.crews.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Crew", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid crew ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve crew", err)
	}

	return crew, nil
}

func (s *catalogService) ListCrews(ctx context.Context, limit int, offset int64) ([]*model.Crew, int64, error) {
	var count int64
	var crews []*model.Crew
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.crews.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count crews", "error", errCount)
			errCount = apperrors.Internal("Failed to count crews", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		crews, errFind = s.crews.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list crews", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve crews", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return crews, count, nil
}

func (s *catalogService) UpdateCrew(ctx context.Context, id string, updates *model.CrewUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Crew ID cannot be empty")
	}

	existing, err := s.GetCrew(ctx, id)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateCrewUpdate(updates); err != nil {
		s.cfg.Log.Warn("Crew update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := *existing
	if updates.Name != "" {
		merged.Name = sanitizer.NormalizeName(updates.Name)
	}
	if updates.Phone != "" {
		merged.Phone = sanitizer.NormalizePhone(updates.Phone)
	}
	if updates.Week != nil {
		merged.Week = *updates.Week
	}
	if updates.Active != nil {
		merged.Active = *updates.Active
	}

	if err := s.validator.ValidateCrew(&merged); err != nil {
		return apperrors.Validation("Crew validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.crews.Update(ctx, id, &merged); err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Crew", id)
		}
		s.cfg.Log.Error("Failed to update crew", "id", id, "error", err)
		return apperrors.Internal("Failed to update crew", err)
	}

	s.cfg.Log.Info("Crew updated successfully", "id", id)
	return nil
}
