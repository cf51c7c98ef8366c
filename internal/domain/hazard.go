package domain

import "fmt"

// HazardRules holds the bounds used by EvaluateHazards. All comparisons are
// strict.
type HazardRules struct {
	WindExtreme  float64 `yaml:"wind_extreme" json:"wind_extreme"`
	WindElevated float64 `yaml:"wind_elevated" json:"wind_elevated"`
	RainSevere   float64 `yaml:"rain_severe" json:"rain_severe"`
	RainElevated float64 `yaml:"rain_elevated" json:"rain_elevated"`
	ColdBelow    float64 `yaml:"cold_below" json:"cold_below"`
	HotAbove     float64 `yaml:"hot_above" json:"hot_above"`
}

// DefaultHazardRules returns the built-in hazard bounds.
func DefaultHazardRules() HazardRules {
	return HazardRules{
		WindExtreme:  50,
		WindElevated: 20,
		RainSevere:   50,
		RainElevated: 10,
		ColdBelow:    5,
		HotAbove:     35,
	}
}

// EvaluateHazards returns the hazard notices triggered by s, in rule order:
// wind, precipitation, cold, heat, then one notice per upstream alert.
func EvaluateHazards(s WeatherSnapshot, r HazardRules) []string {
	notices := make([]string, 0, 4+len(s.Alerts))

	switch {
	case s.WindSpeed > r.WindExtreme:
		notices = append(notices, fmt.Sprintf("🌪️ Extreme wind warning: %.1f m/s winds, secure or cancel outdoor structures", s.WindSpeed))
	case s.WindSpeed > r.WindElevated:
		notices = append(notices, fmt.Sprintf("💨 Strong wind advisory: %.1f m/s winds expected", s.WindSpeed))
	}

	switch {
	case s.Precipitation > r.RainSevere:
		notices = append(notices, fmt.Sprintf("🌊 Severe rain warning: %.1f mm of precipitation, flooding possible", s.Precipitation))
	case s.Precipitation > r.RainElevated:
		notices = append(notices, fmt.Sprintf("🌧️ Heavy rain notice: %.1f mm of precipitation", s.Precipitation))
	}

	if s.Temperature < r.ColdBelow {
		notices = append(notices, fmt.Sprintf("🥶 Cold conditions: %.1f°C, dress warmly", s.Temperature))
	}
	if s.Temperature > r.HotAbove {
		notices = append(notices, fmt.Sprintf("🥵 Hot conditions: %.1f°C, plan for shade and water", s.Temperature))
	}

	for _, a := range s.Alerts {
		notices = append(notices, "🚨 "+a.Event+": "+a.Description)
	}

	return notices
}
