package schedule

import (
	"testing"
	"time"

	"bouncebook/pkg/model"
)

const testTZ = "America/Chicago"

func testCalendar(t *testing.T) *Calendar {
	t.Helper()
	cal, err := NewCalendar(testTZ)
	if err != nil {
		t.Fatalf("failed to load calendar: %v", err)
	}
	return cal
}

func TestSlotWindows_Buffers(t *testing.T) {
	cal := testCalendar(t)

	product := &model.Product{
		ID:                "665f1f77bcf86cd799439011",
		Mode:              model.ModeSlotBased,
		SetupBufferMin:    75,
		TeardownBufferMin: 135,
	}
	slot := &model.Slot{
		Label:      "15:00-19:00",
		StartLocal: "15:00",
		EndLocal:   "19:00",
	}

	windows, err := cal.SlotWindows("2025-06-14", slot, product)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantServiceStart, _ := cal.At("2025-06-14", "13:45")
	wantServiceEnd, _ := cal.At("2025-06-14", "21:15")

	if !windows.Service.Start.Equal(wantServiceStart) {
		t.Errorf("service start = %v, want %v", windows.Service.Start, wantServiceStart)
	}
	if !windows.Service.End.Equal(wantServiceEnd) {
		t.Errorf("service end = %v, want %v", windows.Service.End, wantServiceEnd)
	}

	slotStart, _ := cal.At("2025-06-14", "15:00")
	slotEnd, _ := cal.At("2025-06-14", "19:00")
	if !windows.DeliveryLeg.Start.Equal(wantServiceStart) || !windows.DeliveryLeg.End.Equal(slotStart) {
		t.Errorf("delivery leg = %v-%v, want %v-%v", windows.DeliveryLeg.Start, windows.DeliveryLeg.End, wantServiceStart, slotStart)
	}
	if !windows.PickupLeg.Start.Equal(slotEnd) || !windows.PickupLeg.End.Equal(wantServiceEnd) {
		t.Errorf("pickup leg = %v-%v, want %v-%v", windows.PickupLeg.Start, windows.PickupLeg.End, slotEnd, wantServiceEnd)
	}
}

func TestSlotWindows_ZeroBuffers(t *testing.T) {
	cal := testCalendar(t)

	product := &model.Product{Mode: model.ModeSlotBased}
	slot := &model.Slot{Label: "10:00-14:00", StartLocal: "10:00", EndLocal: "14:00"}

	windows, err := cal.SlotWindows("2025-06-14", slot, product)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !windows.Service.Start.Equal(windows.DeliveryLeg.End) {
		t.Error("with no setup buffer, service start should equal slot start")
	}
	if windows.DeliveryLeg.Start != windows.DeliveryLeg.End {
		t.Error("zero setup buffer should produce an empty delivery leg")
	}
}

func TestSlotWindows_InvertedSlot(t *testing.T) {
	cal := testCalendar(t)

	product := &model.Product{Mode: model.ModeSlotBased}
	slot := &model.Slot{Label: "bad", StartLocal: "19:00", EndLocal: "15:00"}

	if _, err := cal.SlotWindows("2025-06-14", slot, product); err == nil {
		t.Fatal("expected error for slot ending before it starts")
	}
}

func TestDayRentalWindows_BookingTypes(t *testing.T) {
	cal := testCalendar(t)

	tests := []struct {
		name         string
		bookingType  model.BookingType
		eventDate    string
		wantDelivery string
		wantPickup   string
	}{
		{"daily same day", model.BookingDaily, "2025-07-04", "2025-07-04", "2025-07-04"},
		{"weekend pickup plus two", model.BookingWeekend, "2025-07-04", "2025-07-04", "2025-07-06"},
		{"sunday straddles", model.BookingSunday, "2025-07-06", "2025-07-05", "2025-07-07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows, err := cal.DayRentalWindows(tt.eventDate, tt.bookingType)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := cal.DateOf(windows.DeliveryLeg.Start); got != tt.wantDelivery {
				t.Errorf("delivery date = %s, want %s", got, tt.wantDelivery)
			}
			if got := cal.DateOf(windows.PickupLeg.Start); got != tt.wantPickup {
				t.Errorf("pickup date = %s, want %s", got, tt.wantPickup)
			}
			if !windows.Service.Start.Equal(windows.DeliveryLeg.Start) {
				t.Error("unit occupancy should start with the delivery day")
			}
			if !windows.Service.End.Equal(windows.PickupLeg.End) {
				t.Error("unit occupancy should end with the pickup day")
			}
		})
	}
}

func TestDayRentalWindows_UnknownType(t *testing.T) {
	cal := testCalendar(t)
	if _, err := cal.DayRentalWindows("2025-07-04", model.BookingType("hourly")); err == nil {
		t.Fatal("expected error for unknown booking type")
	}
}

func TestDateOf_LocalCalendarNotUTC(t *testing.T) {
	cal := testCalendar(t)

	// 03:00 UTC on July 5th is still July 4th in Chicago.
	utcInstant := time.Date(2025, 7, 5, 3, 0, 0, 0, time.UTC)
	if got := cal.DateOf(utcInstant); got != "2025-07-04" {
		t.Errorf("DateOf = %s, want 2025-07-04", got)
	}
}

func TestLeadTimeSatisfied(t *testing.T) {
	cal := testCalendar(t)
	serviceStart, _ := cal.At("2025-07-04", "08:00")

	tests := []struct {
		name      string
		now       time.Time
		leadHours int
		want      bool
	}{
		{"well ahead", serviceStart.Add(-72 * time.Hour), 24, true},
		{"exactly at lead boundary", serviceStart.Add(-24 * time.Hour), 24, true},
		{"inside lead window", serviceStart.Add(-12 * time.Hour), 24, false},
		{"zero lead time", serviceStart.Add(-time.Minute), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LeadTimeSatisfied(tt.now, serviceStart, tt.leadHours); got != tt.want {
				t.Errorf("LeadTimeSatisfied = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCrewServes(t *testing.T) {
	cal := testCalendar(t)

	crew := &model.Crew{
		Name:   "North route",
		Active: true,
		Week: map[string]model.DayWindow{
			"Friday":   {Start: "08:00", End: "20:00"},
			"Saturday": {Start: "08:00", End: "20:00"},
		},
	}

	// 2025-07-04 is a Friday.
	legStart, _ := cal.At("2025-07-04", "13:45")
	legEnd, _ := cal.At("2025-07-04", "15:00")
	if !cal.CrewServes(crew, model.Interval{Start: legStart, End: legEnd}) {
		t.Error("crew should serve a leg inside its Friday window")
	}

	earlyStart, _ := cal.At("2025-07-04", "06:00")
	if cal.CrewServes(crew, model.Interval{Start: earlyStart, End: legEnd}) {
		t.Error("crew should not serve a leg starting before its window")
	}

	// Sunday is off entirely.
	sundayLeg, _ := cal.DayInterval("2025-07-06")
	if cal.CrewServes(crew, sundayLeg) {
		t.Error("crew should not serve on a day missing from the template")
	}

	// Whole-day legs only need the weekday rostered.
	fridayLeg, _ := cal.DayInterval("2025-07-04")
	if !cal.CrewServes(crew, fridayLeg) {
		t.Error("crew should serve a whole-day leg on a rostered weekday")
	}

	crew.Active = false
	if cal.CrewServes(crew, model.Interval{Start: legStart, End: legEnd}) {
		t.Error("inactive crew should never serve")
	}
}

func TestIntervalOverlaps(t *testing.T) {
	base := model.Interval{
		Start: time.Date(2025, 7, 4, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 7, 4, 14, 0, 0, 0, time.UTC),
	}

	touching := model.Interval{Start: base.End, End: base.End.Add(time.Hour)}
	if base.Overlaps(touching) {
		t.Error("half-open intervals sharing only a boundary must not overlap")
	}

	inside := model.Interval{Start: base.Start.Add(time.Hour), End: base.End.Add(-time.Hour)}
	if !base.Overlaps(inside) {
		t.Error("contained interval must overlap")
	}

	straddling := model.Interval{Start: base.Start.Add(-time.Hour), End: base.Start.Add(time.Hour)}
	if !base.Overlaps(straddling) {
		t.Error("straddling interval must overlap")
	}
}

func TestDatesTouched(t *testing.T) {
	cal := testCalendar(t)

	windows, err := cal.DayRentalWindows("2025-07-06", model.BookingSunday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dates := cal.DatesTouched(windows.Service)
	want := []string{"2025-07-05", "2025-07-06", "2025-07-07"}
	if len(dates) != len(want) {
		t.Fatalf("got %d dates, want %d: %v", len(dates), len(want), dates)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Errorf("dates[%d] = %s, want %s", i, dates[i], want[i])
		}
	}
}
