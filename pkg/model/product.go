package model

import "time"

type SchedulingMode string

const (
	ModeDayRental SchedulingMode = "day_rental"
	ModeSlotBased SchedulingMode = "slot_based"
)

// Product is a rentable catalog item. Its scheduling mode is fixed for the
// lifetime of the product; day-rental and slot-based behavior never mix.
type Product struct {
	ID                string         `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name              string         `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Mode              SchedulingMode `json:"mode" bson:"mode" validate:"required,oneof=day_rental slot_based"`
	LeadTimeHours     int            `json:"lead_time_hours" bson:"lead_time_hours" validate:"min=0,max=720"`
	SetupBufferMin    int            `json:"setup_buffer_min" bson:"setup_buffer_min" validate:"min=0,max=480"`
	TeardownBufferMin int            `json:"teardown_buffer_min" bson:"teardown_buffer_min" validate:"min=0,max=480"`
	Active            bool           `json:"active" bson:"active"`
	CreatedAt         time.Time      `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ProductUpdate struct {
	Name              string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	LeadTimeHours     *int   `json:"lead_time_hours,omitempty" validate:"omitempty,min=0,max=720"`
	SetupBufferMin    *int   `json:"setup_buffer_min,omitempty" validate:"omitempty,min=0,max=480"`
	TeardownBufferMin *int   `json:"teardown_buffer_min,omitempty" validate:"omitempty,min=0,max=480"`
	Active            *bool  `json:"active,omitempty"`
}
