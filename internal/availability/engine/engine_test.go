package engine

import (
	"context"
	"testing"
	"time"

	"bouncebook/pkg/config"
	mongotx "bouncebook/pkg/db/mongo"
	apperrors "bouncebook/pkg/errors"
	"bouncebook/pkg/model"
	"bouncebook/pkg/schedule"
)

const (
	testProductID = "665f1f77bcf86cd799439011"
	testSlotID    = "665f1f77bcf86cd799439021"
	testUnitA     = "665f1f77bcf86cd799439031"
	testUnitB     = "665f1f77bcf86cd799439032"
	testCrewA     = "665f1f77bcf86cd799439041"
	testCrewB     = "665f1f77bcf86cd799439042"
)

// Mock repositories for testing

type mockProductRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Product, error)
}

func (m *mockProductRepository) Create(ctx context.Context, product *model.Product) error {
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockProductRepository) FindAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Product, error) {
	return nil, nil
}

func (m *mockProductRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	return 0, nil
}

func (m *mockProductRepository) Update(ctx context.Context, id string, product *model.Product) error {
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	return nil
}

type mockUnitRepository struct {
	findByIDFunc      func(ctx context.Context, id string) (*model.Unit, error)
	findByProductFunc func(ctx context.Context, productID string, status model.UnitStatus) ([]*model.Unit, error)
}

func (m *mockUnitRepository) Create(ctx context.Context, unit *model.Unit) error {
	return nil
}

func (m *mockUnitRepository) FindByID(ctx context.Context, id string) (*model.Unit, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUnitRepository) FindByProduct(ctx context.Context, productID string, status model.UnitStatus) ([]*model.Unit, error) {
	if m.findByProductFunc != nil {
		return m.findByProductFunc(ctx, productID, status)
	}
	return []*model.Unit{}, nil
}

func (m *mockUnitRepository) Update(ctx context.Context, id string, unit *model.Unit) error {
	return nil
}

func (m *mockUnitRepository) Delete(ctx context.Context, id string) error {
	return nil
}

type mockCrewRepository struct {
	findActiveFunc func(ctx context.Context) ([]*model.Crew, error)
}

func (m *mockCrewRepository) Create(ctx context.Context, crew *model.Crew) error {
	return nil
}

func (m *mockCrewRepository) FindByID(ctx context.Context, id string) (*model.Crew, error) {
	return nil, nil
}

func (m *mockCrewRepository) FindActive(ctx context.Context) ([]*model.Crew, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx)
	}
	return []*model.Crew{}, nil
}

func (m *mockCrewRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Crew, error) {
	return nil, nil
}

func (m *mockCrewRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockCrewRepository) Update(ctx context.Context, id string, crew *model.Crew) error {
	return nil
}

func (m *mockCrewRepository) Delete(ctx context.Context, id string) error {
	return nil
}

type mockSlotRepository struct {
	findByIDFunc      func(ctx context.Context, id string) (*model.Slot, error)
	findByProductFunc func(ctx context.Context, productID string, activeOnly bool) ([]*model.Slot, error)
}

func (m *mockSlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	return nil
}

func (m *mockSlotRepository) FindByID(ctx context.Context, id string) (*model.Slot, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockSlotRepository) FindByProduct(ctx context.Context, productID string, activeOnly bool) ([]*model.Slot, error) {
	if m.findByProductFunc != nil {
		return m.findByProductFunc(ctx, productID, activeOnly)
	}
	return []*model.Slot{}, nil
}

func (m *mockSlotRepository) Update(ctx context.Context, id string, slot *model.Slot) error {
	return nil
}

func (m *mockSlotRepository) Delete(ctx context.Context, id string) error {
	return nil
}

type mockBlackoutRepository struct {
	findCoveringRangeFunc func(ctx context.Context, startDate, endDate string) ([]*model.BlackoutDate, error)
}

func (m *mockBlackoutRepository) Create(ctx context.Context, blackout *model.BlackoutDate) error {
	return nil
}

func (m *mockBlackoutRepository) FindByID(ctx context.Context, id string) (*model.BlackoutDate, error) {
	return nil, nil
}

func (m *mockBlackoutRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.BlackoutDate, error) {
	return nil, nil
}

func (m *mockBlackoutRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockBlackoutRepository) FindCoveringRange(ctx context.Context, startDate, endDate string) ([]*model.BlackoutDate, error) {
	if m.findCoveringRangeFunc != nil {
		return m.findCoveringRangeFunc(ctx, startDate, endDate)
	}
	return []*model.BlackoutDate{}, nil
}

func (m *mockBlackoutRepository) Delete(ctx context.Context, id string) error {
	return nil
}

type mockBlockRepository struct {
	findActiveOverlappingFunc func(ctx context.Context, resourceType model.ResourceType, resourceID string, interval model.Interval, now time.Time, excludeOwnerRef string) ([]*model.BookingBlock, error)
}

func (m *mockBlockRepository) InsertMany(ctx context.Context, blocks []*model.BookingBlock) error {
	return nil
}

func (m *mockBlockRepository) FindByOwner(ctx context.Context, ownerType model.OwnerType, ownerRef string) ([]*model.BookingBlock, error) {
	return nil, nil
}

func (m *mockBlockRepository) DeleteByOwner(ctx context.Context, ownerType model.OwnerType, ownerRef string) (int64, error) {
	return 0, nil
}

func (m *mockBlockRepository) TransferOwner(ctx context.Context, fromType model.OwnerType, fromRef string, toType model.OwnerType, toRef string) (int64, error) {
	return 0, nil
}

func (m *mockBlockRepository) FindActiveOverlapping(ctx context.Context, resourceType model.ResourceType, resourceID string, interval model.Interval, now time.Time, excludeOwnerRef string) ([]*model.BookingBlock, error) {
	if m.findActiveOverlappingFunc != nil {
		return m.findActiveOverlappingFunc(ctx, resourceType, resourceID, interval, now, excludeOwnerRef)
	}
	return []*model.BookingBlock{}, nil
}

func (m *mockBlockRepository) DeleteExpiredHoldBlocks(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (m *mockBlockRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return nil
}

// Fixture helpers

func testProduct() *model.Product {
	return &model.Product{
		ID:                testProductID,
		Name:              "Castle Bounce House",
		Mode:              model.ModeDayRental,
		LeadTimeHours:     24,
		SetupBufferMin:    60,
		TeardownBufferMin: 60,
		Active:            true,
	}
}

func fullWeek() map[string]model.DayWindow {
	week := make(map[string]model.DayWindow, 7)
	for _, day := range []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"} {
		week[day] = model.DayWindow{Start: "00:00", End: "23:59"}
	}
	return week
}

type engineMocks struct {
	products  *mockProductRepository
	units     *mockUnitRepository
	crews     *mockCrewRepository
	slots     *mockSlotRepository
	blackouts *mockBlackoutRepository
	blocks    *mockBlockRepository
}

func newTestEngine(t *testing.T, m engineMocks) *Engine {
	t.Helper()

	cal, err := schedule.NewCalendar("America/Chicago")
	if err != nil {
		t.Fatalf("failed to load calendar: %v", err)
	}

	if m.products == nil {
		m.products = &mockProductRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Product, error) {
				return testProduct(), nil
			},
		}
	}
	if m.units == nil {
		m.units = &mockUnitRepository{
			findByProductFunc: func(ctx context.Context, productID string, status model.UnitStatus) ([]*model.Unit, error) {
				return []*model.Unit{
					{ID: testUnitA, ProductID: testProductID, Label: "castle-1", Status: model.UnitAvailable},
					{ID: testUnitB, ProductID: testProductID, Label: "castle-2", Status: model.UnitAvailable},
				}, nil
			},
		}
	}
	if m.crews == nil {
		m.crews = &mockCrewRepository{
			findActiveFunc: func(ctx context.Context) ([]*model.Crew, error) {
				return []*model.Crew{
					{ID: testCrewA, Name: "North Crew", Week: fullWeek(), Active: true},
					{ID: testCrewB, Name: "South Crew", Week: fullWeek(), Active: true},
				}, nil
			},
		}
	}
	if m.slots == nil {
		m.slots = &mockSlotRepository{}
	}
	if m.blackouts == nil {
		m.blackouts = &mockBlackoutRepository{}
	}
	if m.blocks == nil {
		m.blocks = &mockBlockRepository{}
	}

	cfg := &config.Config{
		BusinessTimeZone:       "America/Chicago",
		AvailabilityWindowDays: 60,
	}

	return New(m.products, m.units, m.crews, m.slots, m.blackouts, m.blocks, cal, cfg)
}

// now far enough before the event that a 24h lead time is satisfied
func testNow(t *testing.T) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	return time.Date(2026, 6, 1, 9, 0, 0, 0, loc)
}

func TestCheck_AvailableDayRental(t *testing.T) {
	eng := newTestEngine(t, engineMocks{})

	res, err := eng.Check(context.Background(), Query{
		ProductID:   testProductID,
		EventDate:   "2026-06-13",
		BookingType: model.BookingDaily,
	}, testNow(t))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Available {
		t.Fatalf("expected available, got reason %q", res.Reason)
	}
	if res.UnitID != testUnitA {
		t.Errorf("expected first unit in label order %s, got %s", testUnitA, res.UnitID)
	}
	if res.DeliveryCrewID != testCrewA || res.PickupCrewID != testCrewA {
		t.Errorf("expected delivery crew to keep the pickup leg, got delivery=%s pickup=%s",
			res.DeliveryCrewID, res.PickupCrewID)
	}
	if res.Windows == nil {
		t.Fatal("expected occupancy windows on an available result")
	}
}

func TestCheck_LeadTimeViolation(t *testing.T) {
	eng := newTestEngine(t, engineMocks{})

	// 24h lead time, event starts at midnight tonight
	res, err := eng.Check(context.Background(), Query{
		ProductID:   testProductID,
		EventDate:   "2026-06-01",
		BookingType: model.BookingDaily,
	}, testNow(t))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Available {
		t.Fatal("expected unavailable")
	}
	if res.Reason != ReasonLeadTime {
		t.Errorf("expected reason %q, got %q", ReasonLeadTime, res.Reason)
	}
}

func TestCheck_GlobalBlackoutBeatsOccupancy(t *testing.T) {
	eng := newTestEngine(t, engineMocks{
		blackouts: &mockBlackoutRepository{
			findCoveringRangeFunc: func(ctx context.Context, startDate, endDate string) ([]*model.BlackoutDate, error) {
				return []*model.BlackoutDate{
					{Scope: model.BlackoutGlobal, StartDate: "2026-06-13", EndDate: "2026-06-14"},
				}, nil
			},
		},
		blocks: &mockBlockRepository{
			findActiveOverlappingFunc: func(ctx context.Context, resourceType model.ResourceType, resourceID string, interval model.Interval, now time.Time, excludeOwnerRef string) ([]*model.BookingBlock, error) {
				t.Error("occupancy must not be consulted once a blackout applies")
				return nil, nil
			},
		},
	})

	res, err := eng.Check(context.Background(), Query{
		ProductID:   testProductID,
		EventDate:   "2026-06-13",
		BookingType: model.BookingDaily,
	}, testNow(t))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reason != ReasonBlackout {
		t.Errorf("expected reason %q, got %q", ReasonBlackout, res.Reason)
	}
}

func TestCheck_ProductBlackoutOtherProductIgnored(t *testing.T) {
	eng := newTestEngine(t, engineMocks{
		blackouts: &mockBlackoutRepository{
			findCoveringRangeFunc: func(ctx context.Context, startDate, endDate string) ([]*model.BlackoutDate, error) {
				return []*model.BlackoutDate{
					{Scope: model.BlackoutProduct, RefID: "665f1f77bcf86cd799439099", StartDate: "2026-06-13", EndDate: "2026-06-13"},
				}, nil
			},
		},
	})

	res, err := eng.Check(context.Background(), Query{
		ProductID:   testProductID,
		EventDate:   "2026-06-13",
		BookingType: model.BookingDaily,
	}, testNow(t))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Available {
		t.Errorf("blackout for a different product must not apply, got reason %q", res.Reason)
	}
}

func TestCheck_UnitBlackoutFallsBackToNextUnit(t *testing.T) {
	eng := newTestEngine(t, engineMocks{
		blackouts: &mockBlackoutRepository{
			findCoveringRangeFunc: func(ctx context.Context, startDate, endDate string) ([]*model.BlackoutDate, error) {
				return []*model.BlackoutDate{
					{Scope: model.BlackoutUnit, RefID: testUnitA, StartDate: "2026-06-13", EndDate: "2026-06-13"},
				}, nil
			},
		},
	})

	res, err := eng.Check(context.Background(), Query{
		ProductID:   testProductID,
		EventDate:   "2026-06-13",
		BookingType: model.BookingDaily,
	}, testNow(t))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Available {
		t.Fatalf("expected available on the non-blacked-out unit, got reason %q", res.Reason)
	}
	if res.UnitID != testUnitB {
		t.Errorf("expected unit %s, got %s", testUnitB, res.UnitID)
	}
}

func TestCheck_PinnedUnitBlackout(t *testing.T) {
	eng := newTestEngine(t, engineMocks{
		units: &mockUnitRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Unit, error) {
				return &model.Unit{ID: id, ProductID: testProductID, Label: "castle-1", Status: model.UnitAvailable}, nil
			},
		},
		blackouts: &mockBlackoutRepository{
			findCoveringRangeFunc: func(ctx context.Context, startDate, endDate string) ([]*model.BlackoutDate, error) {
				return []*model.BlackoutDate{
					{Scope: model.BlackoutUnit, RefID: testUnitA, StartDate: "2026-06-13", EndDate: "2026-06-13"},
				}, nil
			},
		},
	})

	res, err := eng.Check(context.Background(), Query{
		ProductID:   testProductID,
		EventDate:   "2026-06-13",
		BookingType: model.BookingDaily,
		UnitID:      testUnitA,
	}, testNow(t))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Available {
		t.Fatal("a blacked-out pinned unit must not be bookable")
	}
	if res.Reason != ReasonBlackout {
		t.Errorf("expected reason %q, got %q", ReasonBlackout, res.Reason)
	}
}

func TestCheck_AllUnitsBlackedOutReadsBlackout(t *testing.T) {
	eng := newTestEngine(t, engineMocks{
		blackouts: &mockBlackoutRepository{
			findCoveringRangeFunc: func(ctx context.Context, startDate, endDate string) ([]*model.BlackoutDate, error) {
				return []*model.BlackoutDate{
					{Scope: model.BlackoutUnit, RefID: testUnitA, StartDate: "2026-06-13", EndDate: "2026-06-13"},
					{Scope: model.BlackoutUnit, RefID: testUnitB, StartDate: "2026-06-13", EndDate: "2026-06-13"},
				}, nil
			},
		},
	})

	res, err := eng.Check(context.Background(), Query{
		ProductID:   testProductID,
		EventDate:   "2026-06-13",
		BookingType: model.BookingDaily,
	}, testNow(t))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reason != ReasonBlackout {
		t.Errorf("expected reason %q, got %q", ReasonBlackout, res.Reason)
	}
}

func TestCheck_BlackoutPlusOccupancyReadsUnitBooked(t *testing.T) {
	eng := newTestEngine(t, engineMocks{
		blackouts: &mockBlackoutRepository{
			findCoveringRangeFunc: func(ctx context.Context, startDate, endDate string) ([]*model.BlackoutDate, error) {
				return []*model.BlackoutDate{
					{Scope: model.BlackoutUnit, RefID: testUnitA, StartDate: "2026-06-13", EndDate: "2026-06-13"},
				}, nil
			},
		},
		blocks: &mockBlockRepository{
			findActiveOverlappingFunc: func(ctx context.Context, resourceType model.ResourceType, resourceID string, interval model.Interval, now time.Time, excludeOwnerRef string) ([]*model.BookingBlock, error) {
				if resourceType == model.ResourceUnit {
					return []*model.BookingBlock{{ResourceID: resourceID, OwnerType: model.OwnerBooking}}, nil
				}
				return nil, nil
			},
		},
	})

	res, err := eng.Check(context.Background(), Query{
		ProductID:   testProductID,
		EventDate:   "2026-06-13",
		BookingType: model.BookingDaily,
	}, testNow(t))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reason != ReasonUnitBooked {
		t.Errorf("expected reason %q, got %q", ReasonUnitBooked, res.Reason)
	}
}

func TestCheck_AllUnitsBooked(t *testing.T) {
	eng := newTestEngine(t, engineMocks{
		blocks: &mockBlockRepository{
			findActiveOverlappingFunc: func(ctx context.Context, resourceType model.ResourceType, resourceID string, interval model.Interval, now time.Time, excludeOwnerRef string) ([]*model.BookingBlock, error) {
				if resourceType == model.ResourceUnit {
					return []*model.BookingBlock{{ResourceID: resourceID, OwnerType: model.OwnerBooking}}, nil
				}
				return nil, nil
			},
		},
	})

	res, err := eng.Check(context.Background(), Query{
		ProductID:   testProductID,
		EventDate:   "2026-06-13",
		BookingType: model.BookingDaily,
	}, testNow(t))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reason != ReasonUnitBooked {
		t.Errorf("expected reason %q, got %q", ReasonUnitBooked, res.Reason)
	}
}

func TestCheck_NoCrewCoverage(t *testing.T) {
	eng := newTestEngine(t, engineMocks{
		crews: &mockCrewRepository{
			findActiveFunc: func(ctx context.Context) ([]*model.Crew, error) {
				// Rostered Monday only; 2026-06-13 is a Saturday
				return []*model.Crew{
					{ID: testCrewA, Name: "Weekday Crew", Week: map[string]model.DayWindow{
						"Monday": {Start: "08:00", End: "18:00"},
					}, Active: true},
				}, nil
			},
		},
	})

	res, err := eng.Check(context.Background(), Query{
		ProductID:   testProductID,
		EventDate:   "2026-06-13",
		BookingType: model.BookingDaily,
	}, testNow(t))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reason != ReasonNoCrew {
		t.Errorf("expected reason %q, got %q", ReasonNoCrew, res.Reason)
	}
}

func TestCheck_ExcludeOwnerRefPropagates(t *testing.T) {
	const ownerRef = "665f1f77bcf86cd799439055"

	var seen []string
	eng := newTestEngine(t, engineMocks{
		blocks: &mockBlockRepository{
			findActiveOverlappingFunc: func(ctx context.Context, resourceType model.ResourceType, resourceID string, interval model.Interval, now time.Time, excludeOwnerRef string) ([]*model.BookingBlock, error) {
				seen = append(seen, excludeOwnerRef)
				return nil, nil
			},
		},
	})

	res, err := eng.Check(context.Background(), Query{
		ProductID:       testProductID,
		EventDate:       "2026-06-13",
		BookingType:     model.BookingDaily,
		ExcludeOwnerRef: ownerRef,
	}, testNow(t))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Available {
		t.Fatalf("expected available, got reason %q", res.Reason)
	}
	if len(seen) == 0 {
		t.Fatal("expected occupancy queries")
	}
	for _, ref := range seen {
		if ref != ownerRef {
			t.Errorf("expected exclude owner ref %q on every occupancy query, got %q", ownerRef, ref)
		}
	}
}

func TestCheck_PinnedUnitInMaintenance(t *testing.T) {
	eng := newTestEngine(t, engineMocks{
		units: &mockUnitRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Unit, error) {
				return &model.Unit{ID: id, ProductID: testProductID, Label: "castle-1", Status: model.UnitMaintenance}, nil
			},
		},
	})

	res, err := eng.Check(context.Background(), Query{
		ProductID:   testProductID,
		EventDate:   "2026-06-13",
		BookingType: model.BookingDaily,
		UnitID:      testUnitA,
	}, testNow(t))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Available {
		t.Fatal("a unit in maintenance must not be bookable")
	}
	if res.Reason != ReasonUnitBooked {
		t.Errorf("expected reason %q, got %q", ReasonUnitBooked, res.Reason)
	}
}

func TestCheck_SlotBasedRequiresSlot(t *testing.T) {
	eng := newTestEngine(t, engineMocks{
		products: &mockProductRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Product, error) {
				p := testProduct()
				p.Mode = model.ModeSlotBased
				return p, nil
			},
		},
	})

	_, err := eng.Check(context.Background(), Query{
		ProductID: testProductID,
		EventDate: "2026-06-13",
	}, testNow(t))

	if err == nil {
		t.Fatal("expected error for slot-based query without slot_id")
	}
}

func TestCheck_SlotBasedAvailable(t *testing.T) {
	eng := newTestEngine(t, engineMocks{
		products: &mockProductRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Product, error) {
				p := testProduct()
				p.Mode = model.ModeSlotBased
				return p, nil
			},
		},
		slots: &mockSlotRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
				return &model.Slot{
					ID: testSlotID, ProductID: testProductID,
					Label: "15:00-19:00", StartLocal: "15:00", EndLocal: "19:00",
					Active: true,
				}, nil
			},
		},
	})

	res, err := eng.Check(context.Background(), Query{
		ProductID: testProductID,
		EventDate: "2026-06-13",
		SlotID:    testSlotID,
	}, testNow(t))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Available {
		t.Fatalf("expected available, got reason %q", res.Reason)
	}
	if res.Windows.DeliveryLeg.End != res.Windows.Service.Start.Add(60*time.Minute) {
		t.Error("delivery leg must end at slot start, one setup buffer after service start")
	}
}

func TestDays_FirstFailureReasonKept(t *testing.T) {
	// Unit A busy on the 13th only
	loc, _ := time.LoadLocation("America/Chicago")
	busyStart := time.Date(2026, 6, 13, 0, 0, 0, 0, loc)
	busyEnd := busyStart.AddDate(0, 0, 1)

	eng := newTestEngine(t, engineMocks{
		units: &mockUnitRepository{
			findByProductFunc: func(ctx context.Context, productID string, status model.UnitStatus) ([]*model.Unit, error) {
				return []*model.Unit{
					{ID: testUnitA, ProductID: testProductID, Label: "castle-1", Status: model.UnitAvailable},
				}, nil
			},
		},
		blocks: &mockBlockRepository{
			findActiveOverlappingFunc: func(ctx context.Context, resourceType model.ResourceType, resourceID string, interval model.Interval, now time.Time, excludeOwnerRef string) ([]*model.BookingBlock, error) {
				if resourceType != model.ResourceUnit {
					return nil, nil
				}
				occupied := model.Interval{Start: busyStart, End: busyEnd}
				if interval.Overlaps(occupied) {
					return []*model.BookingBlock{{ResourceID: resourceID, OwnerType: model.OwnerBooking}}, nil
				}
				return nil, nil
			},
		},
	})

	days, err := eng.Days(context.Background(), testProductID, "2026-06-12", 3, model.BookingDaily, testNow(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}

	if !days[0].Available {
		t.Errorf("2026-06-12 should be free, got reason %q", days[0].Reason)
	}
	if days[1].Available || days[1].Reason != ReasonUnitBooked {
		t.Errorf("2026-06-13 should be unit_booked, got available=%v reason=%q", days[1].Available, days[1].Reason)
	}
	if !days[2].Available {
		t.Errorf("2026-06-14 should be free, got reason %q", days[2].Reason)
	}
}

func TestDays_ClampsToConfiguredWindow(t *testing.T) {
	eng := newTestEngine(t, engineMocks{})

	days, err := eng.Days(context.Background(), testProductID, "2026-06-12", 500, model.BookingDaily, testNow(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 60 {
		t.Errorf("expected window clamped to 60 days, got %d", len(days))
	}
}

func TestDays_SlotBasedWithoutActiveSlots(t *testing.T) {
	eng := newTestEngine(t, engineMocks{
		products: &mockProductRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Product, error) {
				p := testProduct()
				p.Mode = model.ModeSlotBased
				return p, nil
			},
		},
		slots: &mockSlotRepository{
			findByProductFunc: func(ctx context.Context, productID string, activeOnly bool) ([]*model.Slot, error) {
				return []*model.Slot{}, nil
			},
		},
	})

	_, err := eng.Days(context.Background(), testProductID, "2026-06-12", 3, "", testNow(t))
	if err == nil {
		t.Fatal("expected error for a slot-based product with no active slots")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected %s error, got %v", apperrors.CodeInvalidInput, err)
	}
}

func TestSlots_PerSlotReasons(t *testing.T) {
	slotFree := &model.Slot{
		ID: testSlotID, ProductID: testProductID,
		Label: "10:00-14:00", StartLocal: "10:00", EndLocal: "14:00",
		Active: true,
	}
	slotBusy := &model.Slot{
		ID: "665f1f77bcf86cd799439022", ProductID: testProductID,
		Label: "15:00-19:00", StartLocal: "15:00", EndLocal: "19:00",
		Active: true,
	}

	// The morning slot's service window runs 09:00-15:00 once the hour of
	// setup and teardown is added, so the busy interval starts at 15:00 to
	// collide with the afternoon slot only.
	loc, _ := time.LoadLocation("America/Chicago")
	busy := model.Interval{
		Start: time.Date(2026, 6, 13, 15, 0, 0, 0, loc),
		End:   time.Date(2026, 6, 13, 21, 0, 0, 0, loc),
	}

	eng := newTestEngine(t, engineMocks{
		products: &mockProductRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Product, error) {
				p := testProduct()
				p.Mode = model.ModeSlotBased
				return p, nil
			},
		},
		slots: &mockSlotRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Slot, error) {
				if id == slotFree.ID {
					return slotFree, nil
				}
				return slotBusy, nil
			},
			findByProductFunc: func(ctx context.Context, productID string, activeOnly bool) ([]*model.Slot, error) {
				return []*model.Slot{slotFree, slotBusy}, nil
			},
		},
		blocks: &mockBlockRepository{
			findActiveOverlappingFunc: func(ctx context.Context, resourceType model.ResourceType, resourceID string, interval model.Interval, now time.Time, excludeOwnerRef string) ([]*model.BookingBlock, error) {
				if resourceType == model.ResourceUnit && interval.Overlaps(busy) {
					return []*model.BookingBlock{{ResourceID: resourceID, OwnerType: model.OwnerBooking}}, nil
				}
				return nil, nil
			},
		},
	})

	out, err := eng.Slots(context.Background(), testProductID, "2026-06-13", testNow(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(out))
	}
	if !out[0].Available {
		t.Errorf("morning slot should be free, got reason %q", out[0].Reason)
	}
	if out[1].Available || out[1].Reason != ReasonUnitBooked {
		t.Errorf("afternoon slot should be unit_booked, got available=%v reason=%q", out[1].Available, out[1].Reason)
	}
}
