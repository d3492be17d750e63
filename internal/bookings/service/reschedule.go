package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"bouncebook/internal/availability/engine"
	blockserrors "bouncebook/internal/blocks/errors"
	blocksrepo "bouncebook/internal/blocks/repository"
	bookingserrors "bouncebook/internal/bookings/errors"
	"bouncebook/internal/events"
	apperrors "bouncebook/pkg/errors"
	"bouncebook/pkg/model"
)

// reschedulable statuses. Completed and cancelled bookings keep their
// history; in-progress rentals cannot move either.
func reschedulable(status model.BookingStatus) bool {
	return status == model.BookingConfirmed || status == model.BookingPendingCancellation
}

// RescheduleOptions enumerates candidate dates over the horizon with the
// booking's own occupancy excluded, so its current window reads as free
// to itself.
func (s *bookingService) RescheduleOptions(ctx context.Context, bookingID string, horizonDays int) ([]*engine.DayAvailability, error) {
	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !reschedulable(booking.Status) {
		return nil, apperrors.Conflict("Booking in status " + string(booking.Status) + " cannot be rescheduled")
	}

	if horizonDays <= 0 || horizonDays > s.cfg.RescheduleHorizonDays {
		horizonDays = s.cfg.RescheduleHorizonDays
	}

	now := time.Now()
	cal := s.engine.Calendar()
	start, err := cal.ParseDate(cal.DateOf(now))
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve business date", err)
	}

	options := make([]*engine.DayAvailability, 0, horizonDays)
	for i := 0; i < horizonDays; i++ {
		date := cal.DateOf(start.AddDate(0, 0, i))
		result, err := s.engine.Check(ctx, engine.Query{
			ProductID:       booking.ProductID,
			EventDate:       date,
			SlotID:          booking.SlotID,
			BookingType:     booking.BookingType,
			ExcludeOwnerRef: booking.ID,
		}, now)
		if err != nil {
			return nil, err
		}
		options = append(options, &engine.DayAvailability{
			Date:      date,
			Available: result.Available,
			Reason:    result.Reason,
		})
	}

	return options, nil
}

// Reschedule moves a booking to a new window. The conflict check excludes
// the booking's own blocks, and the commit swaps old blocks for new ones
// in a single transaction, so the old window frees exactly when the new
// one is claimed. A concurrent claim of the target window surfaces as a
// conflict, never an overwrite.
func (s *bookingService) Reschedule(ctx context.Context, bookingID string, req *RescheduleRequest) (*model.Booking, error) {
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Reschedule validation failed", "booking_id", bookingID, "error", err)
		return nil, apperrors.Validation("Reschedule validation failed", map[string]any{"error": err.Error()})
	}

	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !reschedulable(booking.Status) {
		return nil, apperrors.Conflict("Booking in status " + string(booking.Status) + " cannot be rescheduled")
	}

	bookingType := booking.BookingType
	if req.BookingType != "" {
		bookingType = model.BookingType(req.BookingType)
	}
	slotID := booking.SlotID
	if req.SlotID != "" {
		slotID = req.SlotID
	}
	if booking.Mode == model.ModeSlotBased && slotID == "" {
		return nil, apperrors.InvalidInput("Slot ID is required for slot-based products")
	}

	now := time.Now()
	query := engine.Query{
		ProductID:       booking.ProductID,
		EventDate:       req.EventDate,
		SlotID:          slotID,
		BookingType:     bookingType,
		ExcludeOwnerRef: booking.ID,
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

	err = s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		recheck, err := s.engine.Check(sessCtx, query, now)
		if err != nil {
			return err
		}
		if !recheck.Available {
			return apperrors.Conflict("Requested window is no longer available").
				WithDetails(map[string]any{"reason": recheck.Reason})
		}

		booking.UnitID = recheck.UnitID
		booking.DeliveryCrewID = recheck.DeliveryCrewID
		booking.PickupCrewID = recheck.PickupCrewID
		booking.EventDate = req.EventDate
		booking.SlotID = slotID
		booking.BookingType = bookingType
		booking.Windows = *recheck.Windows
		booking.Status = model.BookingConfirmed

		if err := s.bookings.UpdateWindow(sessCtx, booking); err != nil {
			return translateBookingError(err, booking.ID)
		}

		if _, err := s.blocks.DeleteByOwner(sessCtx, model.OwnerBooking, booking.ID); err != nil {
			return apperrors.Internal("Failed to free previous booking blocks", err)
		}
		if err := s.blocks.InsertMany(sessCtx, BookingBlocks(booking)); err != nil {
			return apperrors.Internal("Failed to create booking blocks", err)
		}

		// A successful move settles any pending cancellation request.
		if err := s.resolvePendingCancellation(sessCtx, booking.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking rescheduled",
		"booking_id", booking.ID,
		"event_date", booking.EventDate,
		"unit_id", booking.UnitID,
	)
	s.publish(ctx, &events.BookingEvent{
		Type:      events.BookingEventRescheduled,
		BookingID: booking.ID,
		SessionID: booking.SessionID,
		ProductID: booking.ProductID,
		UnitID:    booking.UnitID,
		EventDate: booking.EventDate,
		SlotID:    booking.SlotID,
		Status:    string(booking.Status),
	})

	return booking, nil
}

func (s *bookingService) resolvePendingCancellation(ctx context.Context, bookingID string) error {
	request, err := s.cancellations.FindPendingByBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrRequestNotFound) {
			return nil
		}
		return apperrors.Internal("Failed to look up pending cancellation", err)
	}
	if err := s.cancellations.Resolve(ctx, request.ID, model.CancellationResolved); err != nil {
		return apperrors.Internal("Failed to resolve cancellation request", err)
	}
	return nil
}
