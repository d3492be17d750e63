package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bouncebook/internal/availability/engine"
	blockserrors "bouncebook/internal/blocks/errors"
	blocksrepo "bouncebook/internal/blocks/repository"
	catalogrepo "bouncebook/internal/catalog/repository"
	holdserrors "bouncebook/internal/holds/errors"
	"bouncebook/internal/holds/validator"
	"bouncebook/pkg/config"
	mongotx "bouncebook/pkg/db/mongo"
	apperrors "bouncebook/pkg/errors"
	"bouncebook/pkg/logger"
	"bouncebook/pkg/model"
	"bouncebook/pkg/schedule"
)

const (
	testSessionID = "sess_4f8a2b9c1d3e"
	testProductID = "665f1f77bcf86cd799439011"
	testUnitID    = "665f1f77bcf86cd799439031"
	testCrewID    = "665f1f77bcf86cd799439041"
)

// Mock repositories for testing

type mockHoldRepository struct {
	createFunc          func(ctx context.Context, hold *model.SoftHold) error
	findBySessionFunc   func(ctx context.Context, sessionID string) (*model.SoftHold, error)
	deleteBySessionFunc func(ctx context.Context, sessionID string) (int64, error)
	deleteExpiredFunc   func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockHoldRepository) Create(ctx context.Context, hold *model.SoftHold) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, hold)
	}
	hold.ID = "665f1f77bcf86cd799439051"
	return nil
}

func (m *mockHoldRepository) FindBySession(ctx context.Context, sessionID string) (*model.SoftHold, error) {
	if m.findBySessionFunc != nil {
		return m.findBySessionFunc(ctx, sessionID)
	}
	return nil, holdserrors.ErrNotFound
}

func (m *mockHoldRepository) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	if m.deleteBySessionFunc != nil {
		return m.deleteBySessionFunc(ctx, sessionID)
	}
	return 0, nil
}

func (m *mockHoldRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpiredFunc != nil {
		return m.deleteExpiredFunc(ctx, now)
	}
	return 0, nil
}

func (m *mockHoldRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockBlockRepository struct {
	insertManyFunc            func(ctx context.Context, blocks []*model.BookingBlock) error
	deleteByOwnerFunc         func(ctx context.Context, ownerType model.OwnerType, ownerRef string) (int64, error)
	findActiveOverlappingFunc func(ctx context.Context, resourceType model.ResourceType, resourceID string, interval model.Interval, now time.Time, excludeOwnerRef string) ([]*model.BookingBlock, error)
	deleteExpiredFunc         func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockBlockRepository) InsertMany(ctx context.Context, blocks []*model.BookingBlock) error {
	if m.insertManyFunc != nil {
		return m.insertManyFunc(ctx, blocks)
	}
	return nil
}

func (m *mockBlockRepository) FindByOwner(ctx context.Context, ownerType model.OwnerType, ownerRef string) ([]*model.BookingBlock, error) {
	return nil, nil
}

func (m *mockBlockRepository) DeleteByOwner(ctx context.Context, ownerType model.OwnerType, ownerRef string) (int64, error) {
	if m.deleteByOwnerFunc != nil {
		return m.deleteByOwnerFunc(ctx, ownerType, ownerRef)
	}
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
	if m.deleteExpiredFunc != nil {
		return m.deleteExpiredFunc(ctx, now)
	}
	return 0, nil
}

func (m *mockBlockRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepository struct {
	acquireAllFunc func(ctx context.Context, keys []blocksrepo.ResourceKey) ([]string, error)
	released       []string
}

func (m *mockLockRepository) Acquire(ctx context.Context, resourceType model.ResourceType, resourceID string) (string, error) {
	return string(resourceType) + ":" + resourceID, nil
}

func (m *mockLockRepository) AcquireAll(ctx context.Context, keys []blocksrepo.ResourceKey) ([]string, error) {
	if m.acquireAllFunc != nil {
		return m.acquireAllFunc(ctx, keys)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, string(k.Type)+":"+k.ID)
	}
	return ids, nil
}

func (m *mockLockRepository) Release(ctx context.Context, lockID string) error {
	m.released = append(m.released, lockID)
	return nil
}

func (m *mockLockRepository) ReleaseAll(ctx context.Context, lockIDs []string) {
	m.released = append(m.released, lockIDs...)
}

// Minimal catalog mocks so the service can run a real engine.

type stubProductRepo struct{ catalogrepo.ProductRepository }

func (stubProductRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return &model.Product{ID: testProductID, Name: "Castle Bounce House", Mode: model.ModeDayRental, Active: true}, nil
}

type stubUnitRepo struct{ catalogrepo.UnitRepository }

func (stubUnitRepo) FindByProduct(ctx context.Context, productID string, status model.UnitStatus) ([]*model.Unit, error) {
	return []*model.Unit{{ID: testUnitID, ProductID: testProductID, Label: "castle-1", Status: model.UnitAvailable}}, nil
}

type stubCrewRepo struct{ catalogrepo.CrewRepository }

func (stubCrewRepo) FindActive(ctx context.Context) ([]*model.Crew, error) {
	week := make(map[string]model.DayWindow, 7)
	for _, day := range []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"} {
		week[day] = model.DayWindow{Start: "00:00", End: "23:59"}
	}
	return []*model.Crew{{ID: testCrewID, Name: "North Crew", Week: week, Active: true}}, nil
}

type stubSlotRepo struct{ catalogrepo.SlotRepository }

type stubBlackoutRepo struct{ catalogrepo.BlackoutRepository }

func (stubBlackoutRepo) FindCoveringRange(ctx context.Context, startDate, endDate string) ([]*model.BlackoutDate, error) {
	return []*model.BlackoutDate{}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	return &config.Config{
		Log:                    log,
		BusinessTimeZone:       "America/Chicago",
		HoldTTL:                15 * time.Minute,
		AvailabilityWindowDays: 60,
	}
}

func newTestService(t *testing.T, holds *mockHoldRepository, blocks *mockBlockRepository, locks *mockLockRepository) HoldService {
	t.Helper()
	cfg := testConfig(t)

	cal, err := schedule.NewCalendar(cfg.BusinessTimeZone)
	if err != nil {
		t.Fatalf("failed to load calendar: %v", err)
	}

	eng := engine.New(stubProductRepo{}, stubUnitRepo{}, stubCrewRepo{}, stubSlotRepo{}, stubBlackoutRepo{}, blocks, cal, cfg)
	return NewHoldService(holds, blocks, locks, eng, validator.NewHoldValidator(cfg.Log), cfg)
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 30).Format(schedule.DateLayout)
}

func createReq() *CreateHoldRequest {
	return &CreateHoldRequest{
		SessionID:   testSessionID,
		ProductID:   testProductID,
		EventDate:   futureDate(),
		BookingType: "daily",
	}
}

func TestCreateHold_Success(t *testing.T) {
	var inserted []*model.BookingBlock
	var supersededSessions []string
	var supersededOwners []string

	holds := &mockHoldRepository{
		deleteBySessionFunc: func(ctx context.Context, sessionID string) (int64, error) {
			supersededSessions = append(supersededSessions, sessionID)
			return 0, nil
		},
	}
	blocks := &mockBlockRepository{
		insertManyFunc: func(ctx context.Context, bs []*model.BookingBlock) error {
			inserted = bs
			return nil
		},
		deleteByOwnerFunc: func(ctx context.Context, ownerType model.OwnerType, ownerRef string) (int64, error) {
			supersededOwners = append(supersededOwners, ownerRef)
			return 0, nil
		},
	}
	locks := &mockLockRepository{}

	svc := newTestService(t, holds, blocks, locks)

	hold, err := svc.CreateHold(context.Background(), createReq())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hold.UnitID != testUnitID {
		t.Errorf("expected unit %s, got %s", testUnitID, hold.UnitID)
	}
	if hold.DeliveryCrewID != testCrewID || hold.PickupCrewID != testCrewID {
		t.Errorf("expected crew %s on both legs, got %s/%s", testCrewID, hold.DeliveryCrewID, hold.PickupCrewID)
	}

	remaining := time.Until(hold.ExpiresAt)
	if remaining < 14*time.Minute || remaining > 15*time.Minute {
		t.Errorf("expected expiry about 15 minutes out, got %v", remaining)
	}

	if len(inserted) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(inserted))
	}
	for _, b := range inserted {
		if b.OwnerType != model.OwnerHold || b.OwnerRef != testSessionID {
			t.Errorf("block owner = %s/%s, want hold/%s", b.OwnerType, b.OwnerRef, testSessionID)
		}
		if b.ExpiresAt == nil || !b.ExpiresAt.Equal(hold.ExpiresAt) {
			t.Error("hold blocks must carry the hold's expiry")
		}
	}

	if len(supersededSessions) != 1 || supersededSessions[0] != testSessionID {
		t.Errorf("expected previous hold for session to be superseded, got %v", supersededSessions)
	}
	if len(supersededOwners) != 1 || supersededOwners[0] != testSessionID {
		t.Errorf("expected previous hold blocks to be superseded, got %v", supersededOwners)
	}

	if len(locks.released) != 3 {
		t.Errorf("expected all 3 resource locks released, got %d", len(locks.released))
	}
}

func TestCreateHold_WindowUnavailable(t *testing.T) {
	blocks := &mockBlockRepository{
		findActiveOverlappingFunc: func(ctx context.Context, resourceType model.ResourceType, resourceID string, interval model.Interval, now time.Time, excludeOwnerRef string) ([]*model.BookingBlock, error) {
			return []*model.BookingBlock{{ResourceID: resourceID, OwnerType: model.OwnerBooking}}, nil
		},
	}
	svc := newTestService(t, &mockHoldRepository{}, blocks, &mockLockRepository{})

	_, err := svc.CreateHold(context.Background(), createReq())
	if err == nil {
		t.Fatal("expected conflict")
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if appErr.Details["reason"] != engine.ReasonUnitBooked {
		t.Errorf("expected reason %q in details, got %v", engine.ReasonUnitBooked, appErr.Details)
	}
}

func TestCreateHold_LockContention(t *testing.T) {
	locks := &mockLockRepository{
		acquireAllFunc: func(ctx context.Context, keys []blocksrepo.ResourceKey) ([]string, error) {
			return nil, blockserrors.ErrLockHeld
		},
	}
	svc := newTestService(t, &mockHoldRepository{}, &mockBlockRepository{}, locks)

	_, err := svc.CreateHold(context.Background(), createReq())
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict on lock contention, got %v", err)
	}
}

func TestCreateHold_LosesRaceOnRecheck(t *testing.T) {
	// Free on the first check, occupied on the re-check under the lock.
	var unitChecks int
	created := false

	holds := &mockHoldRepository{
		createFunc: func(ctx context.Context, hold *model.SoftHold) error {
			created = true
			return nil
		},
	}
	blocks := &mockBlockRepository{
		findActiveOverlappingFunc: func(ctx context.Context, resourceType model.ResourceType, resourceID string, interval model.Interval, now time.Time, excludeOwnerRef string) ([]*model.BookingBlock, error) {
			if resourceType != model.ResourceUnit {
				return nil, nil
			}
			unitChecks++
			if unitChecks > 1 {
				return []*model.BookingBlock{{ResourceID: resourceID, OwnerType: model.OwnerBooking}}, nil
			}
			return nil, nil
		},
	}

	svc := newTestService(t, holds, blocks, &mockLockRepository{})

	_, err := svc.CreateHold(context.Background(), createReq())
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict when the re-check loses, got %v", err)
	}
	if created {
		t.Error("hold must not be created when the re-check fails")
	}
}

func TestCreateHold_ValidationFailure(t *testing.T) {
	svc := newTestService(t, &mockHoldRepository{}, &mockBlockRepository{}, &mockLockRepository{})

	req := createReq()
	req.SessionID = "short"

	_, err := svc.CreateHold(context.Background(), req)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetActiveHold_ExpiredReadsAsGone(t *testing.T) {
	holds := &mockHoldRepository{
		findBySessionFunc: func(ctx context.Context, sessionID string) (*model.SoftHold, error) {
			return &model.SoftHold{
				SessionID: sessionID,
				ExpiresAt: time.Now().Add(-time.Minute),
			}, nil
		},
	}
	svc := newTestService(t, holds, &mockBlockRepository{}, &mockLockRepository{})

	_, err := svc.GetActiveHold(context.Background(), testSessionID)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found for a lapsed hold, got %v", err)
	}
}

func TestReleaseHold_NoHoldIsNoop(t *testing.T) {
	svc := newTestService(t, &mockHoldRepository{}, &mockBlockRepository{}, &mockLockRepository{})

	if err := svc.ReleaseHold(context.Background(), testSessionID); err != nil {
		t.Fatalf("releasing a session with no hold must succeed, got %v", err)
	}
}

func TestReapExpired(t *testing.T) {
	holds := &mockHoldRepository{
		deleteExpiredFunc: func(ctx context.Context, now time.Time) (int64, error) {
			return 2, nil
		},
	}
	blocks := &mockBlockRepository{
		deleteExpiredFunc: func(ctx context.Context, now time.Time) (int64, error) {
			return 6, nil
		},
	}
	svc := newTestService(t, holds, blocks, &mockLockRepository{})

	holdsDeleted, blocksDeleted, err := svc.ReapExpired(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if holdsDeleted != 2 || blocksDeleted != 6 {
		t.Errorf("expected 2 holds and 6 blocks reaped, got %d/%d", holdsDeleted, blocksDeleted)
	}
}

func TestHoldBlocks_Materialization(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)
	hold := &model.SoftHold{
		SessionID:      testSessionID,
		UnitID:         testUnitID,
		DeliveryCrewID: testCrewID,
		PickupCrewID:   "665f1f77bcf86cd799439042",
		Windows: model.OccupancyWindows{
			Service:     model.Interval{Start: now, End: now.Add(8 * time.Hour)},
			DeliveryLeg: model.Interval{Start: now, End: now.Add(time.Hour)},
			PickupLeg:   model.Interval{Start: now.Add(7 * time.Hour), End: now.Add(8 * time.Hour)},
		},
		ExpiresAt: now.Add(15 * time.Minute),
	}

	blocks := HoldBlocks(hold)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}

	if blocks[0].ResourceType != model.ResourceUnit || blocks[0].ResourceID != testUnitID {
		t.Error("first block must occupy the unit")
	}
	if !blocks[0].Start.Equal(hold.Windows.Service.Start) || !blocks[0].End.Equal(hold.Windows.Service.End) {
		t.Error("unit block must span the full service window")
	}
	if blocks[1].ResourceID != hold.DeliveryCrewID || blocks[2].ResourceID != hold.PickupCrewID {
		t.Error("crew blocks must target the assigned crews")
	}
	for _, b := range blocks {
		if b.ExpiresAt == nil || !b.ExpiresAt.Equal(hold.ExpiresAt) {
			t.Error("every hold block must lapse with the hold")
		}
	}
}
