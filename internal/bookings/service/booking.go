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
	"bouncebook/internal/bookings/repository"
	"bouncebook/internal/bookings/validator"
	"bouncebook/internal/events"
	holdserrors "bouncebook/internal/holds/errors"
	holdsrepo "bouncebook/internal/holds/repository"
	"bouncebook/pkg/config"
	apperrors "bouncebook/pkg/errors"
	"bouncebook/pkg/model"
)

// PaymentWebhookRequest is the gateway's notification for a checkout
// session, delivered over the signed webhook or the payment events topic.
type PaymentWebhookRequest struct {
	SessionID  string `json:"session_id" validate:"required,min=8,max=128"`
	Status     string `json:"status" validate:"required,oneof=succeeded failed"`
	PaymentRef string `json:"payment_ref,omitempty" validate:"omitempty,max=200"`
}

// Promotion outcomes reported back to the gateway and the customer.
const (
	OutcomeConfirmed    = "confirmed"
	OutcomeSlotLost     = "slot_lost"
	OutcomeHoldReleased = "hold_released"
)

// PromotionResult is the answer to a payment notification. Outcome is
// always set; Booking only when the promotion committed.
type PromotionResult struct {
	Outcome string         `json:"outcome"`
	Reason  string         `json:"reason,omitempty"`
	Booking *model.Booking `json:"booking,omitempty"`
}

// RescheduleRequest names the target window for an existing booking.
type RescheduleRequest struct {
	EventDate   string `json:"event_date" validate:"required,datetime=2006-01-02"`
	SlotID      string `json:"slot_id,omitempty" validate:"omitempty,mongodb"`
	BookingType string `json:"booking_type,omitempty" validate:"omitempty,oneof=daily weekend sunday"`
}

type BookingService interface {
	HandlePaymentEvent(ctx context.Context, req *PaymentWebhookRequest) (*PromotionResult, error)
	PromoteHold(ctx context.Context, sessionID, paymentRef string) (*PromotionResult, error)
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	ListBookings(ctx context.Context, status string, limit int, offset int64) ([]*model.Booking, int64, error)
	AdvanceStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error)
	RequestCancellation(ctx context.Context, bookingID, reason string) (*model.CancellationRequest, error)
	ReviewCancellation(ctx context.Context, requestID string, approve bool) (*model.Booking, error)
	RescheduleOptions(ctx context.Context, bookingID string, horizonDays int) ([]*engine.DayAvailability, error)
	Reschedule(ctx context.Context, bookingID string, req *RescheduleRequest) (*model.Booking, error)
}

type bookingService struct {
	bookings      repository.BookingRepository
	cancellations repository.CancellationRepository
	holds         holdsrepo.HoldRepository
	blocks        blocksrepo.BlockRepository
	locks         blocksrepo.BlockLockRepository
	engine        *engine.Engine
	validator     *validator.BookingValidator
	publisher     events.Publisher
	cfg           *config.Config
}

func NewBookingService(
	bookings repository.BookingRepository,
	cancellations repository.CancellationRepository,
	holds holdsrepo.HoldRepository,
	blocks blocksrepo.BlockRepository,
	locks blocksrepo.BlockLockRepository,
	eng *engine.Engine,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		bookings:      bookings,
		cancellations: cancellations,
		holds:         holds,
		blocks:        blocks,
		locks:         locks,
		engine:        eng,
		validator:     validator,
		publisher:     publisher,
		cfg:           cfg,
	}
}

// allowedTransitions is the booking status machine. Cancellation is
// reachable from pending, confirmed, and delivered; completed bookings
// are immutable.
var allowedTransitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingPending:             {model.BookingConfirmed, model.BookingCancelled},
	model.BookingConfirmed:           {model.BookingDelivered, model.BookingPendingCancellation, model.BookingCancelled},
	model.BookingDelivered:           {model.BookingPickedUp, model.BookingCancelled},
	model.BookingPickedUp:            {model.BookingCompleted},
	model.BookingPendingCancellation: {model.BookingConfirmed, model.BookingCancelled},
}

func canTransition(from, to model.BookingStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// HandlePaymentEvent routes a gateway notification: success promotes the
// session's hold, failure releases it. Both paths are idempotent so
// gateway retries are harmless.
func (s *bookingService) HandlePaymentEvent(ctx context.Context, req *PaymentWebhookRequest) (*PromotionResult, error) {
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Payment webhook validation failed", "error", err)
		return nil, apperrors.Validation("Payment notification validation failed", map[string]any{"error": err.Error()})
	}

	if req.Status == events.PaymentFailed {
		if err := s.releaseHold(ctx, req.SessionID); err != nil {
			return nil, err
		}
		s.cfg.Log.Info("Hold released after payment failure", "session_id", req.SessionID)
		return &PromotionResult{Outcome: OutcomeHoldReleased}, nil
	}

	return s.PromoteHold(ctx, req.SessionID, req.PaymentRef)
}

// errSlotLost aborts the promotion transaction when the window was
// claimed by someone else between hold expiry and payment confirmation.
var errSlotLost = errors.New("window claimed by another owner")

// PromoteHold converts the session's soft hold into a confirmed booking.
// If the hold is still live its blocks change owner in place, so no
// re-check is needed. If it lapsed, the same availability query runs
// again; losing that race yields slot_lost, never a double booking.
func (s *bookingService) PromoteHold(ctx context.Context, sessionID, paymentRef string) (*PromotionResult, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("Session ID cannot be empty")
	}

	// A booking for this session means an earlier delivery of the same
	// notification already committed.
	existing, err := s.bookings.FindBySession(ctx, sessionID)
	if err == nil {
		s.cfg.Log.Info("Promotion replay ignored, booking already exists",
			"session_id", sessionID, "booking_id", existing.ID)
		return &PromotionResult{Outcome: OutcomeConfirmed, Booking: existing}, nil
	}
	if !errors.Is(err, bookingserrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to look up booking by session", err)
	}

	now := time.Now()
	hold, err := s.holds.FindBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, holdserrors.ErrNotFound) {
			s.cfg.Log.Warn("Promotion failed, hold already reaped", "session_id", sessionID)
			s.publish(ctx, &events.BookingEvent{
				Type:      events.BookingEventSlotLost,
				SessionID: sessionID,
				Status:    OutcomeSlotLost,
			})
			return &PromotionResult{Outcome: OutcomeSlotLost, Reason: "hold_expired"}, nil
		}
		return nil, apperrors.Internal("Failed to look up hold", err)
	}

	var result *PromotionResult
	if hold.Expired(now) {
		result, err = s.promoteLapsed(ctx, hold, paymentRef, now)
	} else {
		result, err = s.promoteLive(ctx, hold, paymentRef, now)
	}
	if err != nil {
		return nil, err
	}

	switch result.Outcome {
	case OutcomeConfirmed:
		b := result.Booking
		s.cfg.Log.Info("Hold promoted to booking",
			"session_id", sessionID,
			"booking_id", b.ID,
			"unit_id", b.UnitID,
			"event_date", b.EventDate,
		)
		s.publish(ctx, &events.BookingEvent{
			Type:       events.BookingEventConfirmed,
			BookingID:  b.ID,
			SessionID:  sessionID,
			ProductID:  b.ProductID,
			UnitID:     b.UnitID,
			EventDate:  b.EventDate,
			SlotID:     b.SlotID,
			Status:     string(b.Status),
			PaymentRef: paymentRef,
		})
	case OutcomeSlotLost:
		s.cfg.Log.Warn("Promotion lost the window",
			"session_id", sessionID,
			"product_id", hold.ProductID,
			"event_date", hold.EventDate,
			"reason", result.Reason,
		)
		s.publish(ctx, &events.BookingEvent{
			Type:      events.BookingEventSlotLost,
			SessionID: sessionID,
			ProductID: hold.ProductID,
			EventDate: hold.EventDate,
			SlotID:    hold.SlotID,
			Status:    OutcomeSlotLost,
		})
	}

	return result, nil
}

// promoteLive promotes a hold that has not expired. Its blocks already
// exclude every competing writer, so the transaction only has to verify
// the hold survived until the lock was taken, then flip block ownership.
func (s *bookingService) promoteLive(ctx context.Context, hold *model.SoftHold, paymentRef string, now time.Time) (*PromotionResult, error) {
	lockIDs, err := s.locks.AcquireAll(ctx, []blocksrepo.ResourceKey{
		{Type: model.ResourceUnit, ID: hold.UnitID},
		{Type: model.ResourceCrew, ID: hold.DeliveryCrewID},
		{Type: model.ResourceCrew, ID: hold.PickupCrewID},
	})
	if err != nil {
		if errors.Is(err, blockserrors.ErrLockHeld) {
			return nil, apperrors.Conflict("Booking is being processed by another request. Please try again.")
		}
		return nil, apperrors.Internal("Failed to acquire resource locks", err)
	}
	defer s.locks.ReleaseAll(ctx, lockIDs)

	var booking *model.Booking
	err = s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		current, err := s.holds.FindBySession(sessCtx, hold.SessionID)
		if err != nil {
			if errors.Is(err, holdserrors.ErrNotFound) {
				return errSlotLost
			}
			return apperrors.Internal("Failed to re-read hold", err)
		}
		if current.Expired(now) {
			return errSlotLost
		}

		booking = bookingFromHold(current, paymentRef)
		if err := s.bookings.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}

		transferred, err := s.blocks.TransferOwner(sessCtx, model.OwnerHold, current.SessionID, model.OwnerBooking, booking.ID)
		if err != nil {
			return apperrors.Internal("Failed to transfer hold blocks", err)
		}
		if transferred == 0 {
			return errSlotLost
		}

		if _, err := s.holds.DeleteBySession(sessCtx, current.SessionID); err != nil {
			return apperrors.Internal("Failed to delete promoted hold", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errSlotLost) {
			// The hold lapsed under the lock. Fall back to a fresh claim
			// of the same window.
			return s.promoteLapsed(ctx, hold, paymentRef, now)
		}
		return nil, err
	}

	return &PromotionResult{Outcome: OutcomeConfirmed, Booking: booking}, nil
}

// promoteLapsed re-runs the availability query for the hold's window and
// claims it fresh. The stale hold row supplied the window and customer
// details; its blocks no longer occupy anything.
func (s *bookingService) promoteLapsed(ctx context.Context, hold *model.SoftHold, paymentRef string, now time.Time) (*PromotionResult, error) {
	query := engine.Query{
		ProductID:       hold.ProductID,
		EventDate:       hold.EventDate,
		SlotID:          hold.SlotID,
		BookingType:     hold.BookingType,
		ExcludeOwnerRef: hold.SessionID,
	}

	result, err := s.engine.Check(ctx, query, now)
	if err != nil {
		return nil, err
	}
	if !result.Available {
		return &PromotionResult{Outcome: OutcomeSlotLost, Reason: result.Reason}, nil
	}

	lockIDs, err := s.locks.AcquireAll(ctx, []blocksrepo.ResourceKey{
		{Type: model.ResourceUnit, ID: result.UnitID},
		{Type: model.ResourceCrew, ID: result.DeliveryCrewID},
		{Type: model.ResourceCrew, ID: result.PickupCrewID},
	})
	if err != nil {
		if errors.Is(err, blockserrors.ErrLockHeld) {
			return nil, apperrors.Conflict("Booking is being processed by another request. Please try again.")
		}
		return nil, apperrors.Internal("Failed to acquire resource locks", err)
	}
	defer s.locks.ReleaseAll(ctx, lockIDs)

	var booking *model.Booking
	var lostReason string
	err = s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		recheck, err := s.engine.Check(sessCtx, query, now)
		if err != nil {
			return err
		}
		if !recheck.Available {
			lostReason = recheck.Reason
			return errSlotLost
		}

		booking = bookingFromHold(hold, paymentRef)
		booking.UnitID = recheck.UnitID
		booking.DeliveryCrewID = recheck.DeliveryCrewID
		booking.PickupCrewID = recheck.PickupCrewID
		booking.Windows = *recheck.Windows

		if err := s.bookings.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}

		// Retire the stale hold and its lapsed blocks, then claim fresh.
		if _, err := s.blocks.DeleteByOwner(sessCtx, model.OwnerHold, hold.SessionID); err != nil {
			return apperrors.Internal("Failed to delete stale hold blocks", err)
		}
		if _, err := s.holds.DeleteBySession(sessCtx, hold.SessionID); err != nil {
			return apperrors.Internal("Failed to delete stale hold", err)
		}
		if err := s.blocks.InsertMany(sessCtx, BookingBlocks(booking)); err != nil {
			return apperrors.Internal("Failed to create booking blocks", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errSlotLost) {
			return &PromotionResult{Outcome: OutcomeSlotLost, Reason: lostReason}, nil
		}
		return nil, err
	}

	return &PromotionResult{Outcome: OutcomeConfirmed, Booking: booking}, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, translateBookingError(err, id)
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, status string, limit int, offset int64) ([]*model.Booking, int64, error) {
	bookingStatus := model.BookingStatus(status)
	if status != "" && !validBookingStatus(bookingStatus) {
		return nil, 0, apperrors.InvalidInput("Unknown booking status: " + status)
	}

	type countResult struct {
		count int64
		err   error
	}
	type findResult struct {
		bookings []*model.Booking
		err      error
	}

	countCh := make(chan countResult, 1)
	findCh := make(chan findResult, 1)

	go func() {
		count, err := s.bookings.Count(ctx, bookingStatus)
		countCh <- countResult{count, err}
	}()
	go func() {
		bookings, err := s.bookings.FindAll(ctx, bookingStatus, limit, offset)
		findCh <- findResult{bookings, err}
	}()

	count := <-countCh
	find := <-findCh

	if count.err != nil {
		return nil, 0, apperrors.Internal("Failed to count bookings", count.err)
	}
	if find.err != nil {
		return nil, 0, apperrors.Internal("Failed to list bookings", find.err)
	}

	return find.bookings, count.count, nil
}

// AdvanceStatus moves a booking along its lifecycle. A transition to
// cancelled also frees the booking's blocks.
func (s *bookingService) AdvanceStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	if !validBookingStatus(status) {
		return nil, apperrors.InvalidInput("Unknown booking status: " + string(status))
	}

	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canTransition(booking.Status, status) {
		return nil, apperrors.Conflict("Cannot move booking from " + string(booking.Status) + " to " + string(status)).
			WithDetails(map[string]any{"from": booking.Status, "to": status})
	}

	if status == model.BookingCancelled {
		if err := s.cancelBooking(ctx, booking); err != nil {
			return nil, err
		}
	} else {
		if err := s.bookings.UpdateStatus(ctx, id, status); err != nil {
			return nil, translateBookingError(err, id)
		}
	}
	booking.Status = status

	s.cfg.Log.Info("Booking status changed", "booking_id", id, "status", status)
	eventType := events.BookingEventStatusChanged
	if status == model.BookingCancelled {
		eventType = events.BookingEventCancelled
	}
	s.publish(ctx, &events.BookingEvent{
		Type:      eventType,
		BookingID: booking.ID,
		SessionID: booking.SessionID,
		ProductID: booking.ProductID,
		UnitID:    booking.UnitID,
		EventDate: booking.EventDate,
		SlotID:    booking.SlotID,
		Status:    string(status),
	})

	return booking, nil
}

// RequestCancellation parks a confirmed booking in pending_cancellation
// while the request awaits review. The blocks stay in place; the window
// is only freed if the request is approved.
func (s *bookingService) RequestCancellation(ctx context.Context, bookingID, reason string) (*model.CancellationRequest, error) {
	booking, err := s.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !canTransition(booking.Status, model.BookingPendingCancellation) {
		return nil, apperrors.Conflict("Booking in status " + string(booking.Status) + " cannot request cancellation")
	}

	request := &model.CancellationRequest{
		BookingID: bookingID,
		Reason:    reason,
	}
	err = s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.cancellations.Create(sessCtx, request); err != nil {
			return apperrors.Internal("Failed to create cancellation request", err)
		}
		if err := s.bookings.UpdateStatus(sessCtx, bookingID, model.BookingPendingCancellation); err != nil {
			return translateBookingError(err, bookingID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Cancellation requested", "booking_id", bookingID, "request_id", request.ID)
	s.publish(ctx, &events.BookingEvent{
		Type:      events.BookingEventCancellationRequested,
		BookingID: booking.ID,
		SessionID: booking.SessionID,
		ProductID: booking.ProductID,
		UnitID:    booking.UnitID,
		EventDate: booking.EventDate,
		SlotID:    booking.SlotID,
		Status:    string(model.BookingPendingCancellation),
	})

	return request, nil
}

// ReviewCancellation settles a pending request. Approval cancels the
// booking and frees its window; denial returns it to confirmed.
func (s *bookingService) ReviewCancellation(ctx context.Context, requestID string, approve bool) (*model.Booking, error) {
	request, err := s.cancellations.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrRequestNotFound) {
			return nil, apperrors.NotFound("Cancellation request")
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid cancellation request ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve cancellation request", err)
	}
	if request.Status != model.CancellationPending {
		return nil, apperrors.Conflict("Cancellation request is already " + string(request.Status))
	}

	booking, err := s.GetBooking(ctx, request.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.BookingPendingCancellation {
		return nil, apperrors.Conflict("Booking is no longer awaiting cancellation review")
	}

	if approve {
		err = s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			if err := s.cancellations.Resolve(sessCtx, requestID, model.CancellationApproved); err != nil {
				return apperrors.Internal("Failed to resolve cancellation request", err)
			}
			if _, err := s.blocks.DeleteByOwner(sessCtx, model.OwnerBooking, booking.ID); err != nil {
				return apperrors.Internal("Failed to free booking blocks", err)
			}
			if err := s.bookings.UpdateStatus(sessCtx, booking.ID, model.BookingCancelled); err != nil {
				return translateBookingError(err, booking.ID)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		booking.Status = model.BookingCancelled
	} else {
		err = s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
			if err := s.cancellations.Resolve(sessCtx, requestID, model.CancellationDenied); err != nil {
				return apperrors.Internal("Failed to resolve cancellation request", err)
			}
			if err := s.bookings.UpdateStatus(sessCtx, booking.ID, model.BookingConfirmed); err != nil {
				return translateBookingError(err, booking.ID)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		booking.Status = model.BookingConfirmed
	}

	s.cfg.Log.Info("Cancellation request reviewed",
		"request_id", requestID,
		"booking_id", booking.ID,
		"approved", approve,
	)
	if approve {
		s.publish(ctx, &events.BookingEvent{
			Type:      events.BookingEventCancelled,
			BookingID: booking.ID,
			SessionID: booking.SessionID,
			ProductID: booking.ProductID,
			UnitID:    booking.UnitID,
			EventDate: booking.EventDate,
			SlotID:    booking.SlotID,
			Status:    string(model.BookingCancelled),
		})
	}

	return booking, nil
}

// cancelBooking flips the status and frees the blocks in one transaction
// so the window is never half-released.
func (s *bookingService) cancelBooking(ctx context.Context, booking *model.Booking) error {
	return s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.blocks.DeleteByOwner(sessCtx, model.OwnerBooking, booking.ID); err != nil {
			return apperrors.Internal("Failed to free booking blocks", err)
		}
		if err := s.bookings.UpdateStatus(sessCtx, booking.ID, model.BookingCancelled); err != nil {
			return translateBookingError(err, booking.ID)
		}
		return nil
	})
}

// releaseHold deletes the session's hold and blocks, mirroring the holds
// service release semantics for the payment-failure path.
func (s *bookingService) releaseHold(ctx context.Context, sessionID string) error {
	return s.holds.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.blocks.DeleteByOwner(sessCtx, model.OwnerHold, sessionID); err != nil {
			return apperrors.Internal("Failed to delete hold blocks", err)
		}
		if _, err := s.holds.DeleteBySession(sessCtx, sessionID); err != nil {
			return apperrors.Internal("Failed to delete hold", err)
		}
		return nil
	})
}

func (s *bookingService) publish(ctx context.Context, event *events.BookingEvent) {
	// Events are best-effort; the publisher logs failures.
	_ = s.publisher.PublishBookingEvent(ctx, event)
}

func bookingFromHold(hold *model.SoftHold, paymentRef string) *model.Booking {
	mode := model.ModeDayRental
	if hold.SlotID != "" {
		mode = model.ModeSlotBased
	}
	return &model.Booking{
		ProductID:      hold.ProductID,
		UnitID:         hold.UnitID,
		DeliveryCrewID: hold.DeliveryCrewID,
		PickupCrewID:   hold.PickupCrewID,
		Mode:           mode,
		EventDate:      hold.EventDate,
		SlotID:         hold.SlotID,
		BookingType:    hold.BookingType,
		Windows:        hold.Windows,
		Status:         model.BookingConfirmed,
		CustomerName:   hold.CustomerName,
		CustomerPhone:  hold.CustomerPhone,
		SessionID:      hold.SessionID,
		PaymentRef:     paymentRef,
	}
}

// BookingBlocks materializes a booking's three occupancy claims. Unlike
// hold blocks they carry no expiry and occupy until explicitly freed.
func BookingBlocks(booking *model.Booking) []*model.BookingBlock {
	return []*model.BookingBlock{
		{
			ResourceType: model.ResourceUnit,
			ResourceID:   booking.UnitID,
			Start:        booking.Windows.Service.Start,
			End:          booking.Windows.Service.End,
			OwnerType:    model.OwnerBooking,
			OwnerRef:     booking.ID,
		},
		{
			ResourceType: model.ResourceCrew,
			ResourceID:   booking.DeliveryCrewID,
			Start:        booking.Windows.DeliveryLeg.Start,
			End:          booking.Windows.DeliveryLeg.End,
			OwnerType:    model.OwnerBooking,
			OwnerRef:     booking.ID,
		},
		{
			ResourceType: model.ResourceCrew,
			ResourceID:   booking.PickupCrewID,
			Start:        booking.Windows.PickupLeg.Start,
			End:          booking.Windows.PickupLeg.End,
			OwnerType:    model.OwnerBooking,
			OwnerRef:     booking.ID,
		},
	}
}

func validBookingStatus(status model.BookingStatus) bool {
	switch status {
	case model.BookingPending, model.BookingConfirmed, model.BookingDelivered,
		model.BookingPickedUp, model.BookingCompleted, model.BookingCancelled,
		model.BookingPendingCancellation:
		return true
	}
	return false
}

func translateBookingError(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format: " + id)
	case apperrors.IsAppError(err):
		return err
	default:
		return apperrors.Internal("Booking operation failed", err)
	}
}
