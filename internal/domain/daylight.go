package domain

import (
	"time"

	"github.com/sixdouglas/suncalc"
)

// Daylight is the sunrise/sunset window on the event date at the event
// location. Known is false during polar day or night.
type Daylight struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
	Known   bool      `json:"known"`
}

// Duration returns the length of the daylight window.
func (d Daylight) Duration() time.Duration {
	if !d.Known {
		return 0
	}
	return d.Sunset.Sub(d.Sunrise)
}

// DaylightFor computes the daylight window for the calendar day of date at
// geo. Times are returned in loc (UTC when nil).
func DaylightFor(date time.Time, geo Geo, loc *time.Location) Daylight {
	if loc == nil {
		loc = time.UTC
	}
	noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, loc)
	times := suncalc.GetTimes(noon, geo.Lat, geo.Lon)

	sunrise := times["sunrise"].Value
	sunset := times["sunset"].Value
	// suncalc yields out-of-range times when the sun never crosses the horizon.
	if sunrise.IsZero() || sunset.IsZero() || !sunset.After(sunrise) ||
		absDuration(sunrise.Sub(noon)) > 24*time.Hour || absDuration(sunset.Sub(noon)) > 24*time.Hour {
		return Daylight{}
	}

	return Daylight{Sunrise: sunrise.In(loc), Sunset: sunset.In(loc), Known: true}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
