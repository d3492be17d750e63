package model

import "time"

type BookingStatus string

const (
	BookingPending             BookingStatus = "pending"
	BookingConfirmed           BookingStatus = "confirmed"
	BookingDelivered           BookingStatus = "delivered"
	BookingPickedUp            BookingStatus = "picked_up"
	BookingCompleted           BookingStatus = "completed"
	BookingCancelled           BookingStatus = "cancelled"
	BookingPendingCancellation BookingStatus = "pending_cancellation"
)

type BookingType string

const (
	BookingDaily   BookingType = "daily"
	BookingWeekend BookingType = "weekend"
	BookingSunday  BookingType = "sunday"
)

// Booking is the permanent reservation produced by promoting a soft hold.
// Its occupancy windows are copied from the hold at promotion time and are
// only rewritten by the reschedule path.
type Booking struct {
	ID             string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProductID      string           `json:"product_id" bson:"product_id" validate:"required,mongodb"`
	UnitID         string           `json:"unit_id" bson:"unit_id" validate:"required,mongodb"`
	DeliveryCrewID string           `json:"delivery_crew_id" bson:"delivery_crew_id" validate:"required,mongodb"`
	PickupCrewID   string           `json:"pickup_crew_id" bson:"pickup_crew_id" validate:"required,mongodb"`
	Mode           SchedulingMode   `json:"mode" bson:"mode" validate:"required,oneof=day_rental slot_based"`
	EventDate      string           `json:"event_date" bson:"event_date" validate:"required,datetime=2006-01-02"`
	SlotID         string           `json:"slot_id,omitempty" bson:"slot_id,omitempty" validate:"omitempty,mongodb"`
	BookingType    BookingType      `json:"booking_type,omitempty" bson:"booking_type,omitempty" validate:"omitempty,oneof=daily weekend sunday"`
	Windows        OccupancyWindows `json:"windows" bson:"windows"`
	Status         BookingStatus    `json:"status" bson:"status" validate:"required,oneof=pending confirmed delivered picked_up completed cancelled pending_cancellation"`
	CustomerName   string           `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone  string           `json:"customer_phone" bson:"customer_phone" validate:"required,e164"`
	SessionID      string           `json:"session_id,omitempty" bson:"session_id,omitempty"`
	PaymentRef     string           `json:"payment_ref,omitempty" bson:"payment_ref,omitempty"`
	CreatedAt      time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" bson:"updated_at"`
}

type CancellationStatus string

const (
	CancellationPending  CancellationStatus = "pending"
	CancellationApproved CancellationStatus = "approved"
	CancellationDenied   CancellationStatus = "denied"
	CancellationResolved CancellationStatus = "resolved"
)

// CancellationRequest tracks a customer's cancellation while it awaits
// review. The owning booking sits in pending_cancellation until the
// request is approved, denied, or resolved by a successful reschedule.
type CancellationRequest struct {
	ID         string             `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID  string             `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
	Reason     string             `json:"reason,omitempty" bson:"reason" validate:"omitempty,max=500"`
	Status     CancellationStatus `json:"status" bson:"status"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	ResolvedAt *time.Time         `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
}
