package testutil

import (
	"testing"
	"time"

	"bouncebook/pkg/model"
)

// Catalog holds the ids of a seeded rental inventory: one product, its
// units, and the crews that serve it.
type Catalog struct {
	ProductID string
	UnitIDs   []string
	CrewIDs   []string
}

// FullWeek is a crew template covering every weekday from early morning
// to late evening, wide enough for any test window.
func FullWeek() map[string]model.DayWindow {
	week := make(map[string]model.DayWindow, 7)
	for _, day := range []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"} {
		week[day] = model.DayWindow{Start: "06:00", End: "23:00"}
	}
	return week
}

// SeedDayRentalCatalog inserts a day-rental product with the given number
// of units and a single full-week crew, bypassing the catalog API.
func (m *MongoHelper) SeedDayRentalCatalog(t *testing.T, units int) *Catalog {
	t.Helper()

	productID := m.Insert(t, ProductsCollection, model.Product{
		Name:              "Bounce Castle Classic",
		Mode:              model.ModeDayRental,
		LeadTimeHours:     24,
		SetupBufferMin:    60,
		TeardownBufferMin: 60,
		Active:            true,
		CreatedAt:         time.Now(),
	})

	catalog := &Catalog{ProductID: productID}
	for i := 0; i < units; i++ {
		unitID := m.Insert(t, UnitsCollection, model.Unit{
			ProductID: productID,
			Label:     "castle-" + string(rune('a'+i)),
			Status:    model.UnitAvailable,
			CreatedAt: time.Now(),
		})
		catalog.UnitIDs = append(catalog.UnitIDs, unitID)
	}

	crewID := m.Insert(t, CrewsCollection, model.Crew{
		Name:      "Weekday Crew",
		Phone:     "+17735551234",
		Week:      FullWeek(),
		Active:    true,
		CreatedAt: time.Now(),
	})
	catalog.CrewIDs = append(catalog.CrewIDs, crewID)

	return catalog
}

// SeedExpiredHold fabricates a hold whose expiry already passed, together
// with its materialized blocks. The reaper has not run; lazy expiry must
// treat it as gone anyway.
func (m *MongoHelper) SeedExpiredHold(t *testing.T, catalog *Catalog, sessionID, eventDate string) {
	t.Helper()

	loc := time.Local
	day, err := time.ParseInLocation("2006-01-02", eventDate, loc)
	if err != nil {
		t.Fatalf("bad event date %q: %v", eventDate, err)
	}
	windows := model.OccupancyWindows{
		Service:     model.Interval{Start: day, End: day.AddDate(0, 0, 1)},
		DeliveryLeg: model.Interval{Start: day, End: day.AddDate(0, 0, 1)},
		PickupLeg:   model.Interval{Start: day, End: day.AddDate(0, 0, 1)},
	}

	expired := time.Now().Add(-time.Minute)
	m.Insert(t, HoldsCollection, model.SoftHold{
		SessionID:      sessionID,
		ProductID:      catalog.ProductID,
		UnitID:         catalog.UnitIDs[0],
		DeliveryCrewID: catalog.CrewIDs[0],
		PickupCrewID:   catalog.CrewIDs[0],
		EventDate:      eventDate,
		BookingType:    model.BookingDaily,
		Windows:        windows,
		CreatedAt:      expired.Add(-15 * time.Minute),
		ExpiresAt:      expired,
	})

	for _, block := range []model.BookingBlock{
		{ResourceType: model.ResourceUnit, ResourceID: catalog.UnitIDs[0], Start: windows.Service.Start, End: windows.Service.End, OwnerType: model.OwnerHold, OwnerRef: sessionID, ExpiresAt: &expired, CreatedAt: time.Now()},
		{ResourceType: model.ResourceCrew, ResourceID: catalog.CrewIDs[0], Start: windows.DeliveryLeg.Start, End: windows.DeliveryLeg.End, OwnerType: model.OwnerHold, OwnerRef: sessionID, ExpiresAt: &expired, CreatedAt: time.Now()},
	} {
		m.Insert(t, BlocksCollection, block)
	}
}
