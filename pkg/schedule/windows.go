package schedule

import (
	"fmt"
	"time"

	"bouncebook/pkg/model"
)

// SlotWindows derives the occupancy windows for a slot-based product on a
// concrete date. The delivery leg is the setup period ending at the slot's
// start, the pickup leg is the teardown period starting at the slot's end,
// and the unit's service window spans both buffers: a "15:00–19:00" slot
// with a 75-minute setup and 135-minute teardown occupies 13:45–21:15.
func (c *Calendar) SlotWindows(date string, slot *model.Slot, product *model.Product) (model.OccupancyWindows, error) {
	slotStart, err := c.At(date, slot.StartLocal)
	if err != nil {
		return model.OccupancyWindows{}, err
	}
	slotEnd, err := c.At(date, slot.EndLocal)
	if err != nil {
		return model.OccupancyWindows{}, err
	}
	if !slotEnd.After(slotStart) {
		return model.OccupancyWindows{}, fmt.Errorf("slot %q ends before it starts on %s", slot.Label, date)
	}

	deliveryStart := slotStart.Add(-time.Duration(product.SetupBufferMin) * time.Minute)
	pickupEnd := slotEnd.Add(time.Duration(product.TeardownBufferMin) * time.Minute)

	return model.OccupancyWindows{
		Service:     model.Interval{Start: deliveryStart, End: pickupEnd},
		DeliveryLeg: model.Interval{Start: deliveryStart, End: slotStart},
		PickupLeg:   model.Interval{Start: slotEnd, End: pickupEnd},
	}, nil
}

// DayRentalWindows derives the occupancy windows for a day-rental booking.
// Delivery and pickup dates follow the booking type: daily rents out and
// back the same day, weekend picks up two days after the event date, and
// sunday delivers the day before and picks up the day after. Legs occupy
// their whole business-local day; the unit is out from the delivery day
// through the end of the pickup day.
func (c *Calendar) DayRentalWindows(eventDate string, bookingType model.BookingType) (model.OccupancyWindows, error) {
	event, err := c.ParseDate(eventDate)
	if err != nil {
		return model.OccupancyWindows{}, err
	}

	var deliveryDay, pickupDay time.Time
	switch bookingType {
	case model.BookingDaily:
		deliveryDay, pickupDay = event, event
	case model.BookingWeekend:
		deliveryDay, pickupDay = event, event.AddDate(0, 0, 2)
	case model.BookingSunday:
		deliveryDay, pickupDay = event.AddDate(0, 0, -1), event.AddDate(0, 0, 1)
	default:
		return model.OccupancyWindows{}, fmt.Errorf("unknown booking type %q", bookingType)
	}

	deliveryLeg := model.Interval{Start: deliveryDay, End: deliveryDay.AddDate(0, 0, 1)}
	pickupLeg := model.Interval{Start: pickupDay, End: pickupDay.AddDate(0, 0, 1)}

	return model.OccupancyWindows{
		Service:     model.Interval{Start: deliveryLeg.Start, End: pickupLeg.End},
		DeliveryLeg: deliveryLeg,
		PickupLeg:   pickupLeg,
	}, nil
}

// WindowsFor dispatches on the product's scheduling mode. Slot-based
// products require a slot; day-rental products require a booking type.
func (c *Calendar) WindowsFor(product *model.Product, slot *model.Slot, eventDate string, bookingType model.BookingType) (model.OccupancyWindows, error) {
	switch product.Mode {
	case model.ModeSlotBased:
		if slot == nil {
			return model.OccupancyWindows{}, fmt.Errorf("slot-based product %s requires a slot", product.ID)
		}
		return c.SlotWindows(eventDate, slot, product)
	case model.ModeDayRental:
		if bookingType == "" {
			bookingType = model.BookingDaily
		}
		return c.DayRentalWindows(eventDate, bookingType)
	}
	return model.OccupancyWindows{}, fmt.Errorf("unknown scheduling mode %q", product.Mode)
}

// LeadTimeSatisfied reports whether the service start is far enough out.
// A violation is a policy outcome, not an error.
func LeadTimeSatisfied(now, serviceStart time.Time, leadTimeHours int) bool {
	return !now.Add(time.Duration(leadTimeHours) * time.Hour).After(serviceStart)
}

// CrewServes reports whether a crew's weekly template covers the leg. A
// whole-day leg (day-rental) only needs the crew rostered that weekday;
// a slot leg must also fit inside the day's working window.
func (c *Calendar) CrewServes(crew *model.Crew, leg model.Interval) bool {
	if !crew.Active {
		return false
	}
	local := leg.Start.In(c.loc)
	window, ok := crew.Week[local.Weekday().String()]
	if !ok {
		return false
	}

	date := local.Format(DateLayout)
	dayStart, err := c.ParseDate(date)
	if err != nil {
		return false
	}
	if leg.Start.Equal(dayStart) && leg.End.Equal(dayStart.AddDate(0, 0, 1)) {
		return true
	}

	workStart, err := c.At(date, window.Start)
	if err != nil {
		return false
	}
	workEnd, err := c.At(date, window.End)
	if err != nil {
		return false
	}
	return !leg.Start.Before(workStart) && !leg.End.After(workEnd)
}
