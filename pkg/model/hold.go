package model

import "time"

// SoftHold is a short-lived provisional claim created during checkout.
// At most one active hold exists per checkout session; creating another
// supersedes the previous one. Expiry is lazy: readers treat a hold past
// its expires_at as non-occupying regardless of whether it has been
// reaped from storage.
type SoftHold struct {
	ID             string           `json:"id,omitempty" bson:"_id,omitempty"`
	SessionID      string           `json:"session_id" bson:"session_id" validate:"required,min=8,max=128"`
	ProductID      string           `json:"product_id" bson:"product_id" validate:"required,mongodb"`
	UnitID         string           `json:"unit_id" bson:"unit_id" validate:"required,mongodb"`
	DeliveryCrewID string           `json:"delivery_crew_id" bson:"delivery_crew_id" validate:"required,mongodb"`
	PickupCrewID   string           `json:"pickup_crew_id" bson:"pickup_crew_id" validate:"required,mongodb"`
	EventDate      string           `json:"event_date" bson:"event_date" validate:"required,datetime=2006-01-02"`
	SlotID         string           `json:"slot_id,omitempty" bson:"slot_id,omitempty" validate:"omitempty,mongodb"`
	BookingType    BookingType      `json:"booking_type,omitempty" bson:"booking_type,omitempty" validate:"omitempty,oneof=daily weekend sunday"`
	Windows        OccupancyWindows `json:"windows" bson:"windows"`
	CustomerName   string           `json:"customer_name,omitempty" bson:"customer_name,omitempty" validate:"omitempty,min=2,max=100"`
	CustomerPhone  string           `json:"customer_phone,omitempty" bson:"customer_phone,omitempty" validate:"omitempty,e164"`
	CreatedAt      time.Time        `json:"created_at" bson:"created_at"`
	ExpiresAt      time.Time        `json:"expires_at" bson:"expires_at"`
}

// Expired reports whether the hold no longer occupies its resources.
func (h *SoftHold) Expired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}
