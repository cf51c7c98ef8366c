package domain

import (
	"slices"
	"time"
)

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Alert is an active weather alert reported by the upstream provider.
type Alert struct {
	Event       string `json:"event"`
	Description string `json:"description"`
}

// CurrentConditions is the current-conditions payload as reported upstream.
// Precipitation is nil when the provider reports no recent volume.
type CurrentConditions struct {
	Precipitation *float64
	WindSpeed     float64
	Humidity      float64
	Temperature   float64
	Description   string
	Alerts        []Alert
}

// WeatherSnapshot is one immutable bundle of current weather metrics for a
// single submission.
type WeatherSnapshot struct {
	Precipitation float64 `json:"precipitation"`
	WindSpeed     float64 `json:"wind_speed"`
	Humidity      float64 `json:"humidity"`
	Temperature   float64 `json:"temperature"`
	Description   string  `json:"description"`
	Alerts        []Alert `json:"alerts,omitempty"`
}

// NewSnapshot builds a snapshot from upstream conditions. A missing
// precipitation reading defaults to 0.
func NewSnapshot(c CurrentConditions) WeatherSnapshot {
	s := WeatherSnapshot{
		WindSpeed:   c.WindSpeed,
		Humidity:    c.Humidity,
		Temperature: c.Temperature,
		Description: c.Description,
	}
	if c.Precipitation != nil {
		s.Precipitation = *c.Precipitation
	}
	if len(c.Alerts) > 0 {
		s.Alerts = append([]Alert(nil), c.Alerts...)
	}
	return s
}

// ForecastSample is one point of the upstream forecast time series.
type ForecastSample struct {
	Time          time.Time
	Temperature   float64
	Humidity      float64
	WindSpeed     float64
	Precipitation float64
	Description   string
}

// ForecastSeries is the forecast time series together with the time zone of
// the forecast location. A nil Location means UTC.
type ForecastSeries struct {
	Samples  []ForecastSample
	Location *time.Location
}

// ForecastDay is one reduced daily sample.
type ForecastDay struct {
	Date          string  `json:"date"`
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"`
	WindSpeed     float64 `json:"wind_speed"`
	Humidity      float64 `json:"humidity"`
	Description   string  `json:"description"`
}

// Submission is a validated request to assess an event.
type Submission struct {
	City      string    `json:"city"`
	EventName string    `json:"event_name"`
	Date      time.Time `json:"date"`
}

// Assessment is the published result of one successful submission.
type Assessment struct {
	ID         string          `json:"id"`
	Submission Submission      `json:"submission"`
	Place      GeocodingResult `json:"place"`
	Snapshot   WeatherSnapshot `json:"snapshot"`
	Forecast   []ForecastDay   `json:"forecast"`
	Verdict    Verdict         `json:"verdict"`
	Hazards    []string        `json:"hazards"`
	Daylight   Daylight        `json:"daylight"`
	AssessedAt time.Time       `json:"assessed_at"`
}

// Clone returns a copy of a that shares no slices with it.
func (a Assessment) Clone() Assessment {
	a.Snapshot.Alerts = slices.Clone(a.Snapshot.Alerts)
	a.Forecast = slices.Clone(a.Forecast)
	a.Hazards = slices.Clone(a.Hazards)
	return a
}
