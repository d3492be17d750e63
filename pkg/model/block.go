package model

import "time"

type ResourceType string

const (
	ResourceUnit ResourceType = "unit"
	ResourceCrew ResourceType = "crew"
)

type OwnerType string

const (
	OwnerHold    OwnerType = "hold"
	OwnerBooking OwnerType = "booking"
)

// Interval is a half-open time span [Start, End).
type Interval struct {
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
}

// Overlaps reports whether two half-open intervals intersect.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// OccupancyWindows are the three intervals a booking or hold claims: the
// customer-facing service window on the unit, and the delivery and pickup
// legs on crews.
type OccupancyWindows struct {
	Service     Interval `json:"service" bson:"service"`
	DeliveryLeg Interval `json:"delivery_leg" bson:"delivery_leg"`
	PickupLeg   Interval `json:"pickup_leg" bson:"pickup_leg"`
}

// BookingBlock is the single source of truth for "is this resource busy".
// Confirmed bookings and active soft holds both materialize as blocks;
// hold-owned blocks carry the hold's expiry and stop occupying once it
// passes, whether or not the row has been reaped.
type BookingBlock struct {
	ID           string       `json:"id,omitempty" bson:"_id,omitempty"`
	ResourceType ResourceType `json:"resource_type" bson:"resource_type" validate:"required,oneof=unit crew"`
	ResourceID   string       `json:"resource_id" bson:"resource_id" validate:"required,mongodb"`
	Start        time.Time    `json:"start" bson:"start" validate:"required"`
	End          time.Time    `json:"end" bson:"end" validate:"required,gtfield=Start"`
	OwnerType    OwnerType    `json:"owner_type" bson:"owner_type" validate:"required,oneof=hold booking"`
	OwnerRef     string       `json:"owner_ref" bson:"owner_ref" validate:"required"`
	ExpiresAt    *time.Time   `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
}

// Active reports whether the block still occupies its resource at the
// given instant. Booking-owned blocks never lapse; hold-owned blocks lapse
// at their expiry.
func (b *BookingBlock) Active(now time.Time) bool {
	if b.OwnerType == OwnerBooking {
		return true
	}
	return b.ExpiresAt != nil && b.ExpiresAt.After(now)
}

// Interval returns the block's occupancy span.
func (b *BookingBlock) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// BlockLock is a storage-level advisory lock keyed by resource. Inserting
// it races on the unique _id index; the loser of the insert receives a
// duplicate-key error and must re-query rather than wait.
type BlockLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
