package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"bouncebook/internal/availability/engine"
	blockserrors "bouncebook/internal/blocks/errors"
	blocksrepo "bouncebook/internal/blocks/repository"
	holdserrors "bouncebook/internal/holds/errors"
	"bouncebook/internal/holds/repository"
	"bouncebook/internal/holds/validator"
	"bouncebook/pkg/config"
	apperrors "bouncebook/pkg/errors"
	"bouncebook/pkg/model"
	"bouncebook/pkg/sanitizer"
)

// CreateHoldRequest claims a window for one checkout session. A request
// for a session that already holds something supersedes the old hold.
type CreateHoldRequest struct {
	SessionID     string `json:"session_id" validate:"required,min=8,max=128"`
	ProductID     string `json:"product_id" validate:"required,mongodb"`
	EventDate     string `json:"event_date" validate:"required,datetime=2006-01-02"`
	SlotID        string `json:"slot_id,omitempty" validate:"omitempty,mongodb"`
	BookingType   string `json:"booking_type,omitempty" validate:"omitempty,oneof=daily weekend sunday"`
	UnitID        string `json:"unit_id,omitempty" validate:"omitempty,mongodb"`
	CustomerName  string `json:"customer_name,omitempty" validate:"omitempty,min=2,max=100"`
	CustomerPhone string `json:"customer_phone,omitempty" validate:"omitempty,e164"`
}

type HoldService interface {
	CreateHold(ctx context.Context, req *CreateHoldRequest) (*model.SoftHold, error)
	GetActiveHold(ctx context.Context, sessionID string) (*model.SoftHold, error)
	ReleaseHold(ctx context.Context, sessionID string) error
	ReapExpired(ctx context.Context) (int64, int64, error)
}

type holdService struct {
	holds     repository.HoldRepository
	blocks    blocksrepo.BlockRepository
	locks     blocksrepo.BlockLockRepository
	engine    *engine.Engine
	validator *validator.HoldValidator
	cfg       *config.Config
}

func NewHoldService(
	holds repository.HoldRepository,
	blocks blocksrepo.BlockRepository,
	locks blocksrepo.BlockLockRepository,
	eng *engine.Engine,
	validator *validator.HoldValidator,
	cfg *config.Config,
) HoldService {
	return &holdService{
		holds:     holds,
		blocks:    blocks,
		locks:     locks,
		engine:    eng,
		validator: validator,
		cfg:       cfg,
	}
}

// CreateHold runs the availability check, locks the chosen resources,
// then re-checks and materializes the hold and its blocks in one
// transaction. A losing concurrent writer gets an immediate conflict,
// never a wait.
func (s *holdService) CreateHold(ctx context.Context, req *CreateHoldRequest) (*model.SoftHold, error) {
	req.CustomerName = sanitizer.NormalizeName(req.CustomerName)
	if req.CustomerPhone != "" {
		req.CustomerPhone = sanitizer.NormalizePhone(req.CustomerPhone)
	}

	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Hold validation failed", "error", err)
		return nil, apperrors.Validation("Hold validation failed", map[string]any{"error": err.Error()})
	}

	now := time.Now()
	query := engine.Query{
		ProductID:       req.ProductID,
		EventDate:       req.EventDate,
		SlotID:          req.SlotID,
		BookingType:     model.BookingType(req.BookingType),
		UnitID:          req.UnitID,
		ExcludeOwnerRef: req.SessionID,
	}

	result, err := s.engine.Check(ctx, query, now)
	if err != nil {
		return nil, err
	}
	if !result.Available {
		return nil, apperrors.Conflict("Requested window is not available").
			WithDetails(map[string]any{"reason": result.Reason})
	}

	lockIDs, err := s.locks.AcquireAll(ctx, []blocksrepo.ResourceKey{
		{Type: model.ResourceUnit, ID: result.UnitID},
		{Type: model.ResourceCrew, ID: result.DeliveryCrewID},
		{Type: model.ResourceCrew, ID: result.PickupCrewID},
	})
	if err != nil {
		if errors.Is(err, blockserrors.ErrLockHeld) {
			return nil, apperrors.Conflict("This window is currently being booked by another request. Please try again.")
		}
		return nil, apperrors.Internal("Failed to acquire resource locks", err)
	}
	defer s.locks.ReleaseAll(ctx, lockIDs)

	var hold *model.SoftHold
	err = s.holds.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// Second check under the lock. Blocks written between the first
		// check and lock acquisition surface here.
		recheck, err := s.engine.Check(sessCtx, query, now)
		if err != nil {
			return err
		}
		if !recheck.Available {
			return apperrors.Conflict("Requested window is no longer available").
				WithDetails(map[string]any{"reason": recheck.Reason})
		}

		// Supersede any previous hold this session owns.
		if _, err := s.holds.DeleteBySession(sessCtx, req.SessionID); err != nil {
			return apperrors.Internal("Failed to supersede previous hold", err)
		}
		if _, err := s.blocks.DeleteByOwner(sessCtx, model.OwnerHold, req.SessionID); err != nil {
			return apperrors.Internal("Failed to supersede previous hold blocks", err)
		}

		expiresAt := now.Add(s.cfg.HoldTTL)
		hold = &model.SoftHold{
			SessionID:      req.SessionID,
			ProductID:      req.ProductID,
			UnitID:         recheck.UnitID,
			DeliveryCrewID: recheck.DeliveryCrewID,
			PickupCrewID:   recheck.PickupCrewID,
			EventDate:      req.EventDate,
			SlotID:         req.SlotID,
			BookingType:    model.BookingType(req.BookingType),
			Windows:        *recheck.Windows,
			CustomerName:   req.CustomerName,
			CustomerPhone:  req.CustomerPhone,
			ExpiresAt:      expiresAt,
		}
		if err := s.holds.Create(sessCtx, hold); err != nil {
			return apperrors.Internal("Failed to create hold", err)
		}

		if err := s.blocks.InsertMany(sessCtx, HoldBlocks(hold)); err != nil {
			return apperrors.Internal("Failed to create hold blocks", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create hold", "session_id", req.SessionID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Hold created successfully",
		"id", hold.ID,
		"session_id", hold.SessionID,
		"product_id", hold.ProductID,
		"unit_id", hold.UnitID,
		"event_date", hold.EventDate,
		"expires_at", hold.ExpiresAt,
	)
	return hold, nil
}

func (s *holdService) GetActiveHold(ctx context.Context, sessionID string) (*model.SoftHold, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("Session ID cannot be empty")
	}

	hold, err := s.holds.FindBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, holdserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Hold")
		}
		return nil, apperrors.Internal("Failed to retrieve hold", err)
	}
	if hold.Expired(time.Now()) {
		return nil, apperrors.NotFound("Hold")
	}

	return hold, nil
}

// ReleaseHold frees the session's hold and its blocks. Releasing a
// session with no hold is a no-op, so abandoned checkouts can always
// call it safely.
func (s *holdService) ReleaseHold(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("Session ID cannot be empty")
	}

	var holdsDeleted, blocksDeleted int64
	err := s.holds.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		if blocksDeleted, err = s.blocks.DeleteByOwner(sessCtx, model.OwnerHold, sessionID); err != nil {
			return apperrors.Internal("Failed to delete hold blocks", err)
		}
		if holdsDeleted, err = s.holds.DeleteBySession(sessCtx, sessionID); err != nil {
			return apperrors.Internal("Failed to delete hold", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to release hold", "session_id", sessionID, "error", err)
		return err
	}

	s.cfg.Log.Info("Hold released",
		"session_id", sessionID,
		"holds_deleted", holdsDeleted,
		"blocks_deleted", blocksDeleted,
	)
	return nil
}

// ReapExpired removes lapsed holds and their blocks. Readers already
// ignore expired blocks, so this is storage hygiene, not correctness.
func (s *holdService) ReapExpired(ctx context.Context) (int64, int64, error) {
	now := time.Now()

	blocksDeleted, err := s.blocks.DeleteExpiredHoldBlocks(ctx, now)
	if err != nil {
		return 0, 0, err
	}
	holdsDeleted, err := s.holds.DeleteExpired(ctx, now)
	if err != nil {
		return 0, blocksDeleted, err
	}

	return holdsDeleted, blocksDeleted, nil
}

// HoldBlocks materializes a hold's three occupancy claims: the unit over
// the full service window and each crew over its leg. All carry the
// hold's expiry so they lapse with it.
func HoldBlocks(hold *model.SoftHold) []*model.BookingBlock {
	expiresAt := hold.ExpiresAt
	return []*model.BookingBlock{
		{
			ResourceType: model.ResourceUnit,
			ResourceID:   hold.UnitID,
			Start:        hold.Windows.Service.Start,
			End:          hold.Windows.Service.End,
			OwnerType:    model.OwnerHold,
			OwnerRef:     hold.SessionID,
			ExpiresAt:    &expiresAt,
		},
		{
			ResourceType: model.ResourceCrew,
			ResourceID:   hold.DeliveryCrewID,
			Start:        hold.Windows.DeliveryLeg.Start,
			End:          hold.Windows.DeliveryLeg.End,
			OwnerType:    model.OwnerHold,
			OwnerRef:     hold.SessionID,
			ExpiresAt:    &expiresAt,
		},
		{
			ResourceType: model.ResourceCrew,
			ResourceID:   hold.PickupCrewID,
			Start:        hold.Windows.PickupLeg.Start,
			End:          hold.Windows.PickupLeg.End,
			OwnerType:    model.OwnerHold,
			OwnerRef:     hold.SessionID,
			ExpiresAt:    &expiresAt,
		},
	}
}
