package model

import "testing"

func TestBlackoutDateAppliesTo(t *testing.T) {
	const (
		productID = "665f1f77bcf86cd799439011"
		unitID    = "665f1f77bcf86cd799439031"
	)

	tests := []struct {
		name     string
		blackout BlackoutDate
		want     bool
	}{
		{"global applies to everything", BlackoutDate{Scope: BlackoutGlobal}, true},
		{"product scope matches the product", BlackoutDate{Scope: BlackoutProduct, RefID: productID}, true},
		{"product scope skips other products", BlackoutDate{Scope: BlackoutProduct, RefID: unitID}, false},
		{"unit scope matches the unit", BlackoutDate{Scope: BlackoutUnit, RefID: unitID}, true},
		{"unit scope skips other units", BlackoutDate{Scope: BlackoutUnit, RefID: productID}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.blackout.AppliesTo(productID, unitID); got != tt.want {
				t.Errorf("AppliesTo = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlackoutDateCovers(t *testing.T) {
	b := BlackoutDate{StartDate: "2026-07-01", EndDate: "2026-07-04"}

	for _, date := range []string{"2026-07-01", "2026-07-03", "2026-07-04"} {
		if !b.Covers(date) {
			t.Errorf("expected %s covered", date)
		}
	}
	for _, date := range []string{"2026-06-30", "2026-07-05"} {
		if b.Covers(date) {
			t.Errorf("expected %s not covered", date)
		}
	}
}
