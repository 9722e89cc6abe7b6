// Package sun computes sunrise and sunset for a fixed observer and caches the
// results per local calendar date.
package sun

import (
	"fmt"
	"time"

	"github.com/sj14/astral/pkg/astral"
)

// Times holds the sun events of one local calendar date.
type Times struct {
	Sunrise time.Time
	Sunset  time.Time
}

// Calculator computes sun events for one location and timezone.
type Calculator struct {
	observer astral.Observer
	loc      *time.Location
}

func NewCalculator(lat, lon float64, loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{
		observer: astral.Observer{Latitude: lat, Longitude: lon},
		loc:      loc,
	}
}

// Location returns the timezone the calculator reports events in.
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// Times returns sunrise and sunset for the local date of d. Only the year,
// month and day of d in the calculator's timezone are used.
func (c *Calculator) Times(d time.Time) (Times, error) {
	local := d.In(c.loc)
	date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)

	rise, err := c.event(astral.Sunrise, date)
	if err != nil {
		return Times{}, fmt.Errorf("sunrise %s: %w", date.Format(time.DateOnly), err)
	}
	set, err := c.event(astral.Sunset, date)
	if err != nil {
		return Times{}, fmt.Errorf("sunset %s: %w", date.Format(time.DateOnly), err)
	}
	return Times{Sunrise: rise, Sunset: set}, nil
}

// event evaluates fn for date and, when the resulting instant lands on another
// local date, re-evaluates for the neighbouring UTC date so the event belongs
// to the requested local day.
func (c *Calculator) event(fn func(astral.Observer, time.Time) (time.Time, error), date time.Time) (time.Time, error) {
	utcDate := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	t, err := fn(c.observer, utcDate)
	if err != nil {
		return time.Time{}, err
	}

	got := t.In(c.loc)
	switch cmp := compareDates(got, date); {
	case cmp < 0:
		t, err = fn(c.observer, utcDate.AddDate(0, 0, 1))
	case cmp > 0:
		t, err = fn(c.observer, utcDate.AddDate(0, 0, -1))
	}
	if err != nil {
		return time.Time{}, err
	}
	return t.In(c.loc), nil
}

func compareDates(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	switch {
	case ay != by:
		return ay - by
	case am != bm:
		return int(am) - int(bm)
	default:
		return ad - bd
	}
}

// DecimalHours returns the time of day of t as fractional hours.
func DecimalHours(t time.Time) float64 {
	return float64(t.Hour()) +
		float64(t.Minute())/60 +
		float64(t.Second())/3600 +
		float64(t.Nanosecond())/3.6e12
}
