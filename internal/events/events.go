// Package events defines the domain events the reservation services emit
// and consume, plus a thin publisher over the shared Kafka producer.
package events

import "time"

const (
	// TopicBookingEvents carries booking lifecycle events for downstream
	// consumers (notifications, analytics).
	TopicBookingEvents = "booking.events"

	// TopicPaymentEvents carries payment outcomes from the payment gateway
	// integration. The payments worker consumes this topic and promotes the
	// matching hold.
	TopicPaymentEvents = "payment.events"

	// Dead letter topics for messages that exhaust retries.
	TopicBookingEventsDLQ = "booking.events.dlq"
	TopicPaymentEventsDLQ = "payment.events.dlq"
)

// Booking event types.
const (
	BookingEventConfirmed             = "booking.confirmed"
	BookingEventSlotLost              = "booking.slot_lost"
	BookingEventStatusChanged         = "booking.status_changed"
	BookingEventRescheduled           = "booking.rescheduled"
	BookingEventCancellationRequested = "booking.cancellation_requested"
	BookingEventCancelled             = "booking.cancelled"
)

// Payment statuses carried on payment events.
const (
	PaymentSucceeded = "succeeded"
	PaymentFailed    = "failed"
)

// BookingEvent describes a change in a booking's lifecycle. BookingID is
// empty for slot_lost events since no booking was created.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id,omitempty"`
	SessionID  string    `json:"session_id,omitempty"`
	ProductID  string    `json:"product_id"`
	UnitID     string    `json:"unit_id,omitempty"`
	EventDate  string    `json:"event_date"`
	SlotID     string    `json:"slot_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	PaymentRef string    `json:"payment_ref,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentEvent is the gateway's verdict for a checkout session. SessionID
// ties the payment back to the soft hold it should promote.
type PaymentEvent struct {
	SessionID   string    `json:"session_id"`
	Status      string    `json:"status"`
	PaymentRef  string    `json:"payment_ref,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
