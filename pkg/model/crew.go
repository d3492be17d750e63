package model

import "time"

// DayWindow is a crew's working window for one weekday, in business-local
// wall-clock time ("08:00"–"20:00"). A missing weekday means the crew is
// off that day.
type DayWindow struct {
	Start string `json:"start" bson:"start" validate:"required,valid_wall_clock"`
	End   string `json:"end" bson:"end" validate:"required,valid_wall_clock"`
}

// Crew is a labor resource performing delivery or pickup legs. The same
// crew may serve both legs of a booking, or different crews may.
type Crew struct {
	ID        string               `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string               `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Phone     string               `json:"phone,omitempty" bson:"phone" validate:"omitempty,e164"`
	Week      map[string]DayWindow `json:"week" bson:"week" validate:"required,min=1,max=7,dive,keys,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday,endkeys"`
	Active    bool                 `json:"active" bson:"active"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type CrewUpdate struct {
	Name   string                `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone  string                `json:"phone,omitempty" validate:"omitempty,e164"`
	Week   *map[string]DayWindow `json:"week,omitempty" validate:"omitempty,min=1,max=7"`
	Active *bool                 `json:"active,omitempty"`
}
