package model

import "time"

// Slot is a named time-of-day window owned by a slot-based product, e.g.
// "15:00–19:00". Local times are anchored to the business time zone when
// a concrete date is evaluated.
type Slot struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProductID    string    `json:"product_id" bson:"product_id" validate:"required,mongodb"`
	Label        string    `json:"label" bson:"label" validate:"required,min=2,max=50"`
	StartLocal   string    `json:"start_local" bson:"start_local" validate:"required,valid_wall_clock"`
	EndLocal     string    `json:"end_local" bson:"end_local" validate:"required,valid_wall_clock"`
	DisplayOrder int       `json:"display_order" bson:"display_order" validate:"min=0,max=100"`
	Active       bool      `json:"active" bson:"active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type SlotUpdate struct {
	Label        string `json:"label,omitempty" validate:"omitempty,min=2,max=50"`
	StartLocal   string `json:"start_local,omitempty" validate:"omitempty,valid_wall_clock"`
	EndLocal     string `json:"end_local,omitempty" validate:"omitempty,valid_wall_clock"`
	DisplayOrder *int   `json:"display_order,omitempty" validate:"omitempty,min=0,max=100"`
	Active       *bool  `json:"active,omitempty"`
}
