package model

import "time"

type BlackoutScope string

const (
	BlackoutGlobal  BlackoutScope = "global"
	BlackoutProduct BlackoutScope = "product"
	BlackoutUnit    BlackoutScope = "unit"
)

// BlackoutDate forbids bookings over an inclusive business-local date
// range. Scope narrows it to one product or one unit; global blackouts
// apply to everything.
type BlackoutDate struct {
	ID        string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Scope     BlackoutScope `json:"scope" bson:"scope" validate:"required,oneof=global product unit"`
	RefID     string        `json:"ref_id,omitempty" bson:"ref_id" validate:"omitempty,mongodb"`
	StartDate string        `json:"start_date" bson:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string        `json:"end_date" bson:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string        `json:"reason,omitempty" bson:"reason" validate:"omitempty,max=200"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Covers reports whether the given business-local date (2006-01-02 form)
// falls inside the blackout range.
func (b *BlackoutDate) Covers(date string) bool {
	return date >= b.StartDate && date <= b.EndDate
}

// AppliesTo reports whether the blackout constrains the given product/unit
// pair.
func (b *BlackoutDate) AppliesTo(productID, unitID string) bool {
	switch b.Scope {
	case BlackoutGlobal:
		return true
	case BlackoutProduct:
		return b.RefID == productID
	case BlackoutUnit:
		return b.RefID == unitID
	}
	return false
}
