// Package web renders the parade dashboard.
package web

import (
	"fmt"
	"time"

	"github.com/couchcryptid/parade-weather-service/internal/domain"
)

// LongDateLayout formats the event date on the dashboard.
const LongDateLayout = "Monday, January 2, 2006"

// Eco-insight lines.
const (
	EcoRain     = "Heavy precipitation can help reduce air pollutants and improve air quality naturally."
	EcoWind     = "High wind speeds can disperse air pollution, contributing to better air quality in urban areas."
	EcoModerate = "Moderate conditions support sustainable outdoor events with minimal environmental impact."
)

// Banner is the verdict headline.
type Banner struct {
	Title  string
	Advice string
	Class  string
}

// Card is one metric tile.
type Card struct {
	Label  string
	Value  string
	Unit   string
	Status domain.RiskStatus
}

// DayView is one entry of the forecast strip.
type DayView struct {
	Date        string
	Temperature string
	Description string
	Wind        string
	Rain        string
}

// Toast is a notification replayed on the next page render.
type Toast struct {
	Level      string
	Message    string
	DurationMs int64
}

// ToastsFor converts dispatched notifications into toasts, keeping order.
func ToastsFor(notes []domain.Notification) []Toast {
	if len(notes) == 0 {
		return nil
	}
	toasts := make([]Toast, len(notes))
	for i, n := range notes {
		toasts[i] = Toast{Level: string(n.Level), Message: n.Message, DurationMs: n.Duration.Milliseconds()}
	}
	return toasts
}

// AssessmentView is an assessment formatted for display.
type AssessmentView struct {
	ID         string
	EventName  string
	City       string
	Place      string
	LongDate   string
	Banner     Banner
	Cards      []Card
	Forecast   []DayView
	Hazards    []string
	EcoInsight string
	Daylight   string
	ShareText  string
}

// NewAssessmentView formats a. Status values are recomputed from the
// assessment's snapshot via its verdict.
func NewAssessmentView(a domain.Assessment) AssessmentView {
	v := AssessmentView{
		ID:         a.ID,
		EventName:  a.Submission.EventName,
		City:       a.Submission.City,
		Place:      a.Place.FormattedAddress,
		LongDate:   a.Submission.Date.Format(LongDateLayout),
		Banner:     BannerFor(a.Verdict),
		Cards:      Cards(a.Snapshot, a.Verdict),
		Hazards:    a.Hazards,
		EcoInsight: EcoInsight(a.Snapshot),
		Daylight:   formatDaylight(a.Daylight),
		ShareText:  domain.ShareText(a),
	}
	for _, d := range a.Forecast {
		v.Forecast = append(v.Forecast, DayView{
			Date:        d.Date,
			Temperature: fmt.Sprintf("%.0f°C", d.Temperature),
			Description: d.Description,
			Wind:        fmt.Sprintf("%.1f m/s", d.WindSpeed),
			Rain:        fmt.Sprintf("%.1f mm", d.Precipitation),
		})
	}
	return v
}

// BannerFor picks the headline and advice for a verdict.
func BannerFor(v domain.Verdict) Banner {
	switch {
	case v.ParadeSafe:
		return Banner{
			Title:  "Parade-Safe Conditions!",
			Advice: "Weather conditions are favorable for your event.",
			Class:  "safe",
		}
	case v.HasDangers:
		return Banner{
			Title:  "High Risk Conditions",
			Advice: "Consider rescheduling or preparing backup plans.",
			Class:  "danger",
		}
	default:
		return Banner{
			Title:  "Moderate Risk Conditions",
			Advice: "Monitor weather closely and have contingency plans ready.",
			Class:  "warning",
		}
	}
}

// Cards returns the precipitation, wind and humidity tiles.
func Cards(s domain.WeatherSnapshot, v domain.Verdict) []Card {
	return []Card{
		{Label: "Precipitation", Value: fmt.Sprintf("%.1f", s.Precipitation), Unit: "mm", Status: v.Precipitation},
		{Label: "Wind Speed", Value: fmt.Sprintf("%.1f", s.WindSpeed), Unit: "m/s", Status: v.Wind},
		{Label: "Humidity", Value: fmt.Sprintf("%.0f", s.Humidity), Unit: "%", Status: v.Humidity},
	}
}

// EcoInsight returns the air-quality note for a snapshot.
func EcoInsight(s domain.WeatherSnapshot) string {
	switch {
	case s.Precipitation > 10:
		return EcoRain
	case s.WindSpeed > 20:
		return EcoWind
	default:
		return EcoModerate
	}
}

func formatDaylight(d domain.Daylight) string {
	if !d.Known {
		return "No sunrise or sunset on this date"
	}
	h := d.Duration().Round(time.Minute)
	return fmt.Sprintf("Sunrise %s, sunset %s (%dh %02dm of daylight)",
		d.Sunrise.Format("15:04 MST"), d.Sunset.Format("15:04 MST"),
		int(h.Hours()), int(h.Minutes())%60)
}
