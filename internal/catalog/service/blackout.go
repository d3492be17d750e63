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

func (s *catalogService) CreateBlackout(ctx context.Context, blackout *model.BlackoutDate) error {
	blackout.Reason = sanitizer.TrimAndNormalize(blackout.Reason)

	if err := s.validator.ValidateBlackout(blackout); err != nil {
		s.cfg.Log.Warn("Blackout validation failed", "error", err)
		return apperrors.Validation("Blackout validation failed", map[string]any{"error": err.Error()})
	}

	switch blackout.Scope {
	case model.BlackoutProduct:
		if _, err := s.GetProduct(ctx, blackout.RefID); err != nil {
			return err
		}
	case model.BlackoutUnit:
		if _, err := s.GetUnit(ctx, blackout.RefID); err != nil {
			return err
		}
	}

	if err := s.blackouts.Create(ctx, blackout); err != nil {
		s.cfg.Log.Error("Failed to create blackout", "error", err)
		return apperrors.Internal("Failed to create blackout", err)
	}

	s.cfg.Log.Info("Blackout created successfully",
		"id", blackout.ID,
		"scope", blackout.Scope,
		"range", blackout.StartDate+".."+blackout.EndDate,
	)
	return nil
}

func (s *catalogService) ListBlackouts(ctx context.Context, limit int, offset int64) ([]*model.BlackoutDate, int64, error) {
	var count int64
	var blackouts []*model.BlackoutDate
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.blackouts.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count blackouts", "error", errCount)
			errCount = apperrors.Internal("Failed to count blackouts", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		blackouts, errFind = s.blackouts.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list blackouts", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve blackouts", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return blackouts, count, nil
}

func (s *catalogService) DeleteBlackout(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Blackout ID cannot be empty")
	}

	if err := s.blackouts.Delete(ctx, id); err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Blackout", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid blackout ID format")
		}
		s.cfg.Log.Error("Failed to delete blackout", "id", id, "error", err)
		return apperrors.Internal("Failed to delete blackout", err)
	}

	s.cfg.Log.Info("Blackout deleted successfully", "id", id)
	return nil
}
