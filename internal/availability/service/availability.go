package service

import (
	"context"
	"time"

	"bouncebook/internal/availability/engine"
	"bouncebook/pkg/config"
	apperrors "bouncebook/pkg/errors"
	"bouncebook/pkg/model"
)

// ValidateRequest asks whether one concrete window is bookable right now.
type ValidateRequest struct {
	ProductID   string `json:"product_id"`
	EventDate   string `json:"event_date"`
	SlotID      string `json:"slot_id,omitempty"`
	BookingType string `json:"booking_type,omitempty"`
	UnitID      string `json:"unit_id,omitempty"`
}

type AvailabilityService interface {
	Days(ctx context.Context, productID, from string, days int, bookingType string) ([]*engine.DayAvailability, error)
	Slots(ctx context.Context, productID, date string) ([]*engine.SlotAvailability, error)
	Validate(ctx context.Context, req *ValidateRequest) (*engine.Result, error)
}

type availabilityService struct {
	engine *engine.Engine
	cfg    *config.Config
}

func NewAvailabilityService(eng *engine.Engine, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		engine: eng,
		cfg:    cfg,
	}
}

func (s *availabilityService) Days(ctx context.Context, productID, from string, days int, bookingType string) ([]*engine.DayAvailability, error) {
	now := time.Now()
	if from == "" {
		from = s.engine.Calendar().DateOf(now)
	}
	bt, err := parseBookingType(bookingType)
	if err != nil {
		return nil, err
	}

	out, err := s.engine.Days(ctx, productID, from, days, bt, now)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Debug("Day availability computed",
		"product_id", productID,
		"from", from,
		"days", len(out),
	)
	return out, nil
}

func (s *availabilityService) Slots(ctx context.Context, productID, date string) ([]*engine.SlotAvailability, error) {
	if date == "" {
		return nil, apperrors.InvalidInput("date is required")
	}

	out, err := s.engine.Slots(ctx, productID, date, time.Now())
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Debug("Slot availability computed",
		"product_id", productID,
		"date", date,
		"slots", len(out),
	)
	return out, nil
}

func (s *availabilityService) Validate(ctx context.Context, req *ValidateRequest) (*engine.Result, error) {
	if req.ProductID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}
	if req.EventDate == "" {
		return nil, apperrors.InvalidInput("event_date is required")
	}
	bt, err := parseBookingType(req.BookingType)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Check(ctx, engine.Query{
		ProductID:   req.ProductID,
		EventDate:   req.EventDate,
		SlotID:      req.SlotID,
		BookingType: bt,
		UnitID:      req.UnitID,
	}, time.Now())
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Availability validated",
		"product_id", req.ProductID,
		"event_date", req.EventDate,
		"slot_id", req.SlotID,
		"available", result.Available,
		"reason", result.Reason,
	)
	return result, nil
}

func parseBookingType(s string) (model.BookingType, error) {
	switch model.BookingType(s) {
	case "", model.BookingDaily:
		return model.BookingDaily, nil
	case model.BookingWeekend:
		return model.BookingWeekend, nil
	case model.BookingSunday:
		return model.BookingSunday, nil
	}
	return "", apperrors.InvalidInput("booking_type must be one of: daily, weekend, sunday")
}
