package model

import "time"

type UnitStatus string

const (
	UnitAvailable   UnitStatus = "available"
	UnitMaintenance UnitStatus = "maintenance"
	UnitRetired     UnitStatus = "retired"
)

// Unit is one physical instance of a Product. A booking always targets
// exactly one unit.
type Unit struct {
	ID        string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProductID string     `json:"product_id" bson:"product_id" validate:"required,mongodb"`
	Label     string     `json:"label" bson:"label" validate:"required,min=1,max=50"`
	Status    UnitStatus `json:"status" bson:"status" validate:"required,oneof=available maintenance retired"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type UnitUpdate struct {
	Label  string     `json:"label,omitempty" validate:"omitempty,min=1,max=50"`
	Status UnitStatus `json:"status,omitempty" validate:"omitempty,oneof=available maintenance retired"`
}
