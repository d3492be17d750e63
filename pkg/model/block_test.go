package model

import (
	"testing"
	"time"
)

func TestBookingBlockActive(t *testing.T) {
	now := time.Date(2026, 6, 13, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name  string
		block BookingBlock
		want  bool
	}{
		{"booking block never lapses", BookingBlock{OwnerType: OwnerBooking}, true},
		{"hold block before expiry", BookingBlock{OwnerType: OwnerHold, ExpiresAt: &future}, true},
		{"hold block past expiry", BookingBlock{OwnerType: OwnerHold, ExpiresAt: &past}, false},
		{"hold block without expiry", BookingBlock{OwnerType: OwnerHold}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.block.Active(now); got != tt.want {
				t.Errorf("Active = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntervalOverlapsHalfOpen(t *testing.T) {
	base := time.Date(2026, 6, 13, 9, 0, 0, 0, time.UTC)
	a := Interval{Start: base, End: base.Add(6 * time.Hour)}

	touching := Interval{Start: a.End, End: a.End.Add(time.Hour)}
	if a.Overlaps(touching) {
		t.Error("intervals sharing only a boundary must not overlap")
	}

	inside := Interval{Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)}
	if !a.Overlaps(inside) {
		t.Error("contained interval must overlap")
	}
}
