package engine

import (
	"context"
	"errors"
	"time"

	blocksrepo "bouncebook/internal/blocks/repository"
	catalogerrors "bouncebook/internal/catalog/errors"
	catalogrepo "bouncebook/internal/catalog/repository"
	"bouncebook/pkg/config"
	apperrors "bouncebook/pkg/errors"
	"bouncebook/pkg/model"
	"bouncebook/pkg/schedule"
)

// Reason codes explain why a window is not bookable, in checking order:
// lead time first, then blackouts, then unit occupancy, then crew coverage.
const (
	ReasonLeadTime   = "lead_time"
	ReasonBlackout   = "blackout"
	ReasonUnitBooked = "unit_booked"
	ReasonNoCrew     = "no_crew"
)

// Query describes one concrete window to evaluate. ExcludeOwnerRef makes
// the engine ignore blocks owned by that hold or booking, which is how a
// reschedule avoids colliding with itself.
type Query struct {
	ProductID       string
	EventDate       string
	SlotID          string
	BookingType     model.BookingType
	UnitID          string
	ExcludeOwnerRef string
}

// Result is the engine's answer. When the window is bookable it names the
// unit and crews that would serve it; those choices are tentative until a
// hold materializes them as blocks.
type Result struct {
	Available      bool                    `json:"available"`
	Reason         string                  `json:"reason,omitempty"`
	EventDate      string                  `json:"event_date"`
	SlotID         string                  `json:"slot_id,omitempty"`
	BookingType    model.BookingType       `json:"booking_type,omitempty"`
	UnitID         string                  `json:"unit_id,omitempty"`
	DeliveryCrewID string                  `json:"delivery_crew_id,omitempty"`
	PickupCrewID   string                  `json:"pickup_crew_id,omitempty"`
	Windows        *model.OccupancyWindows `json:"windows,omitempty"`
}

// DayAvailability is one row of a calendar answer.
type DayAvailability struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// SlotAvailability is one row of a per-date slot answer.
type SlotAvailability struct {
	SlotID     string `json:"slot_id"`
	Label      string `json:"label"`
	StartLocal string `json:"start_local"`
	EndLocal   string `json:"end_local"`
	Available  bool   `json:"available"`
	Reason     string `json:"reason,omitempty"`
}

// Engine answers "can this window be booked" from current storage state.
// It never writes; the holds service re-runs the same checks inside its
// transaction before materializing anything.
type Engine struct {
	products  catalogrepo.ProductRepository
	units     catalogrepo.UnitRepository
	crews     catalogrepo.CrewRepository
	slots     catalogrepo.SlotRepository
	blackouts catalogrepo.BlackoutRepository
	blocks    blocksrepo.BlockRepository
	cal       *schedule.Calendar
	cfg       *config.Config
}

func New(
	products catalogrepo.ProductRepository,
	units catalogrepo.UnitRepository,
	crews catalogrepo.CrewRepository,
	slots catalogrepo.SlotRepository,
	blackouts catalogrepo.BlackoutRepository,
	blocks blocksrepo.BlockRepository,
	cal *schedule.Calendar,
	cfg *config.Config,
) *Engine {
	return &Engine{
		products:  products,
		units:     units,
		crews:     crews,
		slots:     slots,
		blackouts: blackouts,
		blocks:    blocks,
		cal:       cal,
		cfg:       cfg,
	}
}

func (e *Engine) Calendar() *schedule.Calendar {
	return e.cal
}

// Check evaluates one window at the given instant. The instant is a
// parameter so the holds service can re-evaluate inside a transaction with
// the same clock reading it used for the hold's expiry.
func (e *Engine) Check(ctx context.Context, q Query, now time.Time) (*Result, error) {
	product, err := e.loadProduct(ctx, q.ProductID)
	if err != nil {
		return nil, err
	}

	var slot *model.Slot
	if product.Mode == model.ModeSlotBased {
		slot, err = e.loadSlot(ctx, product, q.SlotID)
		if err != nil {
			return nil, err
		}
	}

	windows, err := e.cal.WindowsFor(product, slot, q.EventDate, q.BookingType)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	result := &Result{
		EventDate:   q.EventDate,
		SlotID:      q.SlotID,
		BookingType: q.BookingType,
		Windows:     &windows,
	}

	if !schedule.LeadTimeSatisfied(now, windows.Service.Start, product.LeadTimeHours) {
		result.Reason = ReasonLeadTime
		return result, nil
	}

	covering, err := e.coveringBlackouts(ctx, windows)
	if err != nil {
		return nil, err
	}
	if blackoutRejects(covering, product.ID) {
		result.Reason = ReasonBlackout
		return result, nil
	}

	unitID, blackedOut, err := e.pickUnit(ctx, q, product, windows, covering, now)
	if err != nil {
		return nil, err
	}
	if unitID == "" {
		if blackedOut {
			result.Reason = ReasonBlackout
		} else {
			result.Reason = ReasonUnitBooked
		}
		return result, nil
	}

	deliveryCrewID, pickupCrewID, err := e.pickCrews(ctx, q, windows, now)
	if err != nil {
		return nil, err
	}
	if deliveryCrewID == "" || pickupCrewID == "" {
		result.Reason = ReasonNoCrew
		return result, nil
	}

	result.Available = true
	result.UnitID = unitID
	result.DeliveryCrewID = deliveryCrewID
	result.PickupCrewID = pickupCrewID
	return result, nil
}

// Days answers availability for a run of calendar dates. For slot-based
// products a day counts as available when at least one active slot is.
func (e *Engine) Days(ctx context.Context, productID, from string, days int, bookingType model.BookingType, now time.Time) ([]*DayAvailability, error) {
	product, err := e.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	start, err := e.cal.ParseDate(from)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if days <= 0 || days > e.cfg.AvailabilityWindowDays {
		days = e.cfg.AvailabilityWindowDays
	}

	var activeSlots []*model.Slot
	if product.Mode == model.ModeSlotBased {
		activeSlots, err = e.slots.FindByProduct(ctx, productID, true)
		if err != nil {
			return nil, apperrors.Internal("Failed to retrieve slots", err)
		}
		if len(activeSlots) == 0 {
			return nil, apperrors.InvalidInput("Product has no active slots")
		}
	}

	out := make([]*DayAvailability, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(schedule.DateLayout)
		day := &DayAvailability{Date: date}

		if product.Mode == model.ModeSlotBased {
			for _, slot := range activeSlots {
				res, err := e.Check(ctx, Query{ProductID: productID, EventDate: date, SlotID: slot.ID}, now)
				if err != nil {
					return nil, err
				}
				if res.Available {
					day.Available = true
					day.Reason = ""
					break
				}
				if day.Reason == "" {
					day.Reason = res.Reason
				}
			}
		} else {
			res, err := e.Check(ctx, Query{ProductID: productID, EventDate: date, BookingType: bookingType}, now)
			if err != nil {
				return nil, err
			}
			day.Available = res.Available
			day.Reason = res.Reason
		}

		out = append(out, day)
	}

	return out, nil
}

// Slots answers per-slot availability for one date of a slot-based product.
func (e *Engine) Slots(ctx context.Context, productID, date string, now time.Time) ([]*SlotAvailability, error) {
	product, err := e.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Mode != model.ModeSlotBased {
		return nil, apperrors.InvalidInput("Slot availability only applies to slot-based products")
	}

	activeSlots, err := e.slots.FindByProduct(ctx, productID, true)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve slots", err)
	}

	out := make([]*SlotAvailability, 0, len(activeSlots))
	for _, slot := range activeSlots {
		res, err := e.Check(ctx, Query{ProductID: productID, EventDate: date, SlotID: slot.ID}, now)
		if err != nil {
			return nil, err
		}
		out = append(out, &SlotAvailability{
			SlotID:     slot.ID,
			Label:      slot.Label,
			StartLocal: slot.StartLocal,
			EndLocal:   slot.EndLocal,
			Available:  res.Available,
			Reason:     res.Reason,
		})
	}

	return out, nil
}

func (e *Engine) loadProduct(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}

	product, err := e.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Product", id)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid product ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve product", err)
	}
	if !product.Active {
		return nil, apperrors.InvalidInput("Product is not bookable")
	}

	return product, nil
}

func (e *Engine) loadSlot(ctx context.Context, product *model.Product, slotID string) (*model.Slot, error) {
	if slotID == "" {
		return nil, apperrors.InvalidInput("slot_id is required for slot-based products")
	}

	slot, err := e.slots.FindByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Slot", slotID)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid slot ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve slot", err)
	}
	if slot.ProductID != product.ID {
		return nil, apperrors.InvalidInput("Slot does not belong to the product")
	}
	if !slot.Active {
		return nil, apperrors.InvalidInput("Slot is not active")
	}

	return slot, nil
}

// coveringBlackouts returns the blackouts covering any date the service
// window touches. Scope is settled by the callers: global and product
// scope reject the whole query, unit scope excludes single candidates.
func (e *Engine) coveringBlackouts(ctx context.Context, windows model.OccupancyWindows) ([]*model.BlackoutDate, error) {
	dates := e.cal.DatesTouched(windows.Service)
	if len(dates) == 0 {
		return nil, nil
	}

	found, err := e.blackouts.FindCoveringRange(ctx, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve blackouts", err)
	}

	covering := make([]*model.BlackoutDate, 0, len(found))
	for _, bl := range found {
		for _, d := range dates {
			if bl.Covers(d) {
				covering = append(covering, bl)
				break
			}
		}
	}

	return covering, nil
}

// blackoutRejects reports whether a global or product-scoped blackout in
// the covering set applies to the product.
func blackoutRejects(covering []*model.BlackoutDate, productID string) bool {
	for _, bl := range covering {
		if bl.Scope != model.BlackoutUnit && bl.AppliesTo(productID, "") {
			return true
		}
	}
	return false
}

func unitBlackedOut(covering []*model.BlackoutDate, productID, unitID string) bool {
	for _, bl := range covering {
		if bl.Scope == model.BlackoutUnit && bl.AppliesTo(productID, unitID) {
			return true
		}
	}
	return false
}

// pickUnit returns the first available unit free over the service window,
// or "" when no unit qualifies. The second return distinguishes the two
// failure causes: true when unit-scoped blackouts alone excluded every
// candidate, false when at least one candidate was occupied. Candidate
// order is the repository's stable label order, so concurrent queries
// converge on the same unit and the advisory lock on it serializes them.
func (e *Engine) pickUnit(ctx context.Context, q Query, product *model.Product, windows model.OccupancyWindows, covering []*model.BlackoutDate, now time.Time) (string, bool, error) {
	var candidates []*model.Unit

	if q.UnitID != "" {
		unit, err := e.units.FindByID(ctx, q.UnitID)
		if err != nil {
			if errors.Is(err, catalogerrors.ErrNotFound) {
				return "", false, apperrors.NotFoundWithID("Unit", q.UnitID)
			}
			return "", false, apperrors.Internal("Failed to retrieve unit", err)
		}
		if unit.ProductID != product.ID {
			return "", false, apperrors.InvalidInput("Unit does not belong to the product")
		}
		if unit.Status != model.UnitAvailable {
			return "", false, nil
		}
		candidates = []*model.Unit{unit}
	} else {
		var err error
		candidates, err = e.units.FindByProduct(ctx, product.ID, model.UnitAvailable)
		if err != nil {
			return "", false, apperrors.Internal("Failed to retrieve units", err)
		}
	}

	var sawBlackout, sawOccupied bool
	for _, unit := range candidates {
		if unitBlackedOut(covering, product.ID, unit.ID) {
			sawBlackout = true
			continue
		}

		overlapping, err := e.blocks.FindActiveOverlapping(ctx, model.ResourceUnit, unit.ID, windows.Service, now, q.ExcludeOwnerRef)
		if err != nil {
			return "", false, apperrors.Internal("Failed to check unit occupancy", err)
		}
		if len(overlapping) > 0 {
			sawOccupied = true
			continue
		}

		return unit.ID, false, nil
	}

	return "", sawBlackout && !sawOccupied, nil
}

// pickCrews assigns the delivery and pickup legs. The delivery crew gets
// first refusal on the pickup leg; a crew's own tentative delivery block
// never conflicts with its pickup because both blocks will share the owner.
func (e *Engine) pickCrews(ctx context.Context, q Query, windows model.OccupancyWindows, now time.Time) (string, string, error) {
	crews, err := e.crews.FindActive(ctx)
	if err != nil {
		return "", "", apperrors.Internal("Failed to retrieve crews", err)
	}

	deliveryCrewID, err := e.pickCrewForLeg(ctx, crews, windows.DeliveryLeg, q.ExcludeOwnerRef, now, "")
	if err != nil || deliveryCrewID == "" {
		return "", "", err
	}

	pickupCrewID, err := e.pickCrewForLeg(ctx, crews, windows.PickupLeg, q.ExcludeOwnerRef, now, deliveryCrewID)
	if err != nil {
		return "", "", err
	}

	return deliveryCrewID, pickupCrewID, nil
}

func (e *Engine) pickCrewForLeg(ctx context.Context, crews []*model.Crew, leg model.Interval, excludeOwnerRef string, now time.Time, preferred string) (string, error) {
	ordered := crews
	if preferred != "" {
		ordered = make([]*model.Crew, 0, len(crews))
		for _, c := range crews {
			if c.ID == preferred {
				ordered = append(ordered, c)
			}
		}
		for _, c := range crews {
			if c.ID != preferred {
				ordered = append(ordered, c)
			}
		}
	}

	for _, crew := range ordered {
		if !e.cal.CrewServes(crew, leg) {
			continue
		}

		overlapping, err := e.blocks.FindActiveOverlapping(ctx, model.ResourceCrew, crew.ID, leg, now, excludeOwnerRef)
		if err != nil {
			return "", apperrors.Internal("Failed to check crew occupancy", err)
		}
		if len(overlapping) == 0 {
			return crew.ID, nil
		}
	}

	return "", nil
}
