package validator

import (
	"strings"
	"testing"

	"bouncebook/pkg/logger"
	"bouncebook/pkg/model"
)

func newTestValidator(t *testing.T) *CatalogValidator {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	return NewCatalogValidator(log)
}

func TestValidateProduct(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name    string
		product model.Product
		wantErr string
	}{
		{
			name: "valid day rental",
			product: model.Product{
				Name: "Castle Bounce House", Mode: model.ModeDayRental,
				LeadTimeHours: 24, SetupBufferMin: 60, TeardownBufferMin: 60, Active: true,
			},
		},
		{
			name:    "missing name",
			product: model.Product{Mode: model.ModeSlotBased},
			wantErr: "Name is required",
		},
		{
			name:    "unknown mode",
			product: model.Product{Name: "Castle Bounce House", Mode: "hourly"},
			wantErr: "Mode must be one of",
		},
		{
			name: "lead time over cap",
			product: model.Product{
				Name: "Castle Bounce House", Mode: model.ModeDayRental, LeadTimeHours: 1000,
			},
			wantErr: "LeadTimeHours must be at most 720",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateProduct(&tt.product)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateCrew(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name    string
		crew    model.Crew
		wantErr string
	}{
		{
			name: "valid",
			crew: model.Crew{
				Name:  "North Crew",
				Phone: "+17735551234",
				Week: map[string]model.DayWindow{
					"Saturday": {Start: "08:00", End: "20:00"},
				},
				Active: true,
			},
		},
		{
			name: "empty week",
			crew: model.Crew{
				Name: "North Crew",
				Week: map[string]model.DayWindow{},
			},
			wantErr: "Week must be at least 1",
		},
		{
			name: "unknown weekday",
			crew: model.Crew{
				Name: "North Crew",
				Week: map[string]model.DayWindow{
					"Caturday": {Start: "08:00", End: "20:00"},
				},
			},
			wantErr: "must be one of",
		},
		{
			name: "window ends before it starts",
			crew: model.Crew{
				Name: "North Crew",
				Week: map[string]model.DayWindow{
					"Saturday": {Start: "20:00", End: "08:00"},
				},
			},
			wantErr: "must end after it starts",
		},
		{
			name: "not a wall clock time",
			crew: model.Crew{
				Name: "North Crew",
				Week: map[string]model.DayWindow{
					"Saturday": {Start: "8am", End: "8pm"},
				},
			},
			wantErr: "wall-clock",
		},
		{
			name: "bad phone",
			crew: model.Crew{
				Name:  "North Crew",
				Phone: "773-555-1234",
				Week: map[string]model.DayWindow{
					"Saturday": {Start: "08:00", End: "20:00"},
				},
			},
			wantErr: "E.164",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateCrew(&tt.crew)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateSlot_OrderedWindow(t *testing.T) {
	v := newTestValidator(t)

	slot := model.Slot{
		ProductID:  "665f1f77bcf86cd799439011",
		Label:      "15:00-19:00",
		StartLocal: "19:00",
		EndLocal:   "15:00",
		Active:     true,
	}
	err := v.ValidateSlot(&slot)
	if err == nil || !strings.Contains(err.Error(), "end_local must be after start_local") {
		t.Fatalf("expected window order error, got %v", err)
	}

	slot.StartLocal, slot.EndLocal = "15:00", "19:00"
	if err := v.ValidateSlot(&slot); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateBlackout_ScopeRefRules(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name     string
		blackout model.BlackoutDate
		wantErr  string
	}{
		{
			name: "valid global",
			blackout: model.BlackoutDate{
				Scope: model.BlackoutGlobal, StartDate: "2026-07-03", EndDate: "2026-07-05",
			},
		},
		{
			name: "global with ref",
			blackout: model.BlackoutDate{
				Scope: model.BlackoutGlobal, RefID: "665f1f77bcf86cd799439011",
				StartDate: "2026-07-03", EndDate: "2026-07-05",
			},
			wantErr: "must not reference",
		},
		{
			name: "unit scope without ref",
			blackout: model.BlackoutDate{
				Scope: model.BlackoutUnit, StartDate: "2026-07-03", EndDate: "2026-07-05",
			},
			wantErr: "require ref_id",
		},
		{
			name: "inverted range",
			blackout: model.BlackoutDate{
				Scope: model.BlackoutGlobal, StartDate: "2026-07-05", EndDate: "2026-07-03",
			},
			wantErr: "must not precede",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateBlackout(&tt.blackout)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
