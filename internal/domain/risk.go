package domain

// RiskStatus is the three-level classification of a single metric.
type RiskStatus string

const (
	StatusSafe    RiskStatus = "safe"
	StatusWarning RiskStatus = "warning"
	StatusDanger  RiskStatus = "danger"
)

// Thresholds is a (warning, danger) pair with inclusive lower bounds.
type Thresholds struct {
	Warning float64 `yaml:"warning" json:"warning"`
	Danger  float64 `yaml:"danger" json:"danger"`
}

// Classify applies the thresholds to value.
func (t Thresholds) Classify(value float64) RiskStatus {
	return Classify(value, t.Warning, t.Danger)
}

// RiskProfile holds the thresholds for each tracked dashboard metric.
type RiskProfile struct {
	Precipitation Thresholds `yaml:"precipitation" json:"precipitation"`
	Wind          Thresholds `yaml:"wind" json:"wind"`
	Humidity      Thresholds `yaml:"humidity" json:"humidity"`
}

// DefaultRiskProfile returns the fixed dashboard thresholds.
func DefaultRiskProfile() RiskProfile {
	return RiskProfile{
		Precipitation: Thresholds{Warning: 5, Danger: 10},
		Wind:          Thresholds{Warning: 20, Danger: 30},
		Humidity:      Thresholds{Warning: 70, Danger: 85},
	}
}

// Verdict is the per-metric classification of a snapshot and the composite
// predicates derived from it.
type Verdict struct {
	Precipitation RiskStatus `json:"precipitation"`
	Wind          RiskStatus `json:"wind"`
	Humidity      RiskStatus `json:"humidity"`
	ParadeSafe    bool       `json:"parade_safe"`
	HasWarnings   bool       `json:"has_warnings"`
	HasDangers    bool       `json:"has_dangers"`
}

// Classify returns danger if value >= danger, warning if value >= warning,
// and safe otherwise.
func Classify(value, warning, danger float64) RiskStatus {
	switch {
	case value >= danger:
		return StatusDanger
	case value >= warning:
		return StatusWarning
	default:
		return StatusSafe
	}
}

// AssessRisk classifies the snapshot's precipitation, wind and humidity.
func AssessRisk(s WeatherSnapshot, p RiskProfile) Verdict {
	v := Verdict{
		Precipitation: p.Precipitation.Classify(s.Precipitation),
		Wind:          p.Wind.Classify(s.WindSpeed),
		Humidity:      p.Humidity.Classify(s.Humidity),
	}

	statuses := []RiskStatus{v.Precipitation, v.Wind, v.Humidity}
	warnings, dangers := 0, 0
	for _, st := range statuses {
		switch st {
		case StatusWarning:
			warnings++
		case StatusDanger:
			dangers++
		}
	}

	v.ParadeSafe = warnings == 0 && dangers == 0
	v.HasDangers = dangers > 0
	v.HasWarnings = warnings > 0 && dangers == 0
	return v
}
