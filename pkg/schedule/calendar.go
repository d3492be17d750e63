package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"bouncebook/pkg/model"
)

const (
	// DateLayout is the business-local calendar date form used everywhere
	// a date crosses a service boundary.
	DateLayout = "2006-01-02"

	wallClockLayout = "15:04"
)

// Calendar anchors all interval arithmetic to the single fixed business
// time zone. Day-rental date math runs on the business-local calendar
// date, never on UTC, so bookings near midnight land on the right day.
type Calendar struct {
	loc *time.Location
}

func NewCalendar(timeZone string) (*Calendar, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid business time zone %q: %w", timeZone, err)
	}
	return &Calendar{loc: loc}, nil
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// ParseDate returns business-local midnight of the given calendar date.
func (c *Calendar) ParseDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// DateOf returns the business-local calendar date the instant falls on.
func (c *Calendar) DateOf(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// At anchors a wall-clock time ("15:04") on a business-local calendar date.
func (c *Calendar) At(date string, wallClock string) (time.Time, error) {
	day, err := c.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	h, m, err := parseWallClock(wallClock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, c.loc), nil
}

// DayInterval returns the half-open interval covering one whole
// business-local day.
func (c *Calendar) DayInterval(date string) (model.Interval, error) {
	start, err := c.ParseDate(date)
	if err != nil {
		return model.Interval{}, err
	}
	return model.Interval{Start: start, End: start.AddDate(0, 0, 1)}, nil
}

// DatesTouched lists every business-local calendar date an interval
// covers, in order. Used for blackout checks against multi-day windows.
func (c *Calendar) DatesTouched(iv model.Interval) []string {
	var dates []string
	day := iv.Start.In(c.loc)
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, c.loc)
	for day.Before(iv.End) {
		dates = append(dates, day.Format(DateLayout))
		day = day.AddDate(0, 0, 1)
	}
	return dates
}

func parseWallClock(s string) (int, int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid wall-clock time %q, want %s", s, wallClockLayout)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid hour in wall-clock time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid minute in wall-clock time %q", s)
	}
	return h, m, nil
}
