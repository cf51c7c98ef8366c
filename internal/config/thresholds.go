package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/couchcryptid/parade-weather-service/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed thresholds.yaml
var embeddedThresholds []byte

// Thresholds is the risk profile and hazard rule set used by assessments.
type Thresholds struct {
	Risk    domain.RiskProfile `yaml:"risk"`
	Hazards domain.HazardRules `yaml:"hazards"`
}

// LoadThresholds reads the thresholds document at path, or the embedded
// defaults when path is empty. Keys missing from the file keep their
// default values.
func LoadThresholds(path string) (Thresholds, error) {
	data := embeddedThresholds
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Thresholds{}, fmt.Errorf("read thresholds %s: %w", path, err)
		}
		data = b
	}

	t := Thresholds{
		Risk:    domain.DefaultRiskProfile(),
		Hazards: domain.DefaultHazardRules(),
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Thresholds{}, fmt.Errorf("parse thresholds: %w", err)
	}
	if err := t.validate(); err != nil {
		return Thresholds{}, err
	}
	return t, nil
}

func (t Thresholds) validate() error {
	metrics := map[string]domain.Thresholds{
		"precipitation": t.Risk.Precipitation,
		"wind":          t.Risk.Wind,
		"humidity":      t.Risk.Humidity,
	}
	for name, m := range metrics {
		if m.Warning > m.Danger {
			return fmt.Errorf("thresholds: %s warning %.1f exceeds danger %.1f", name, m.Warning, m.Danger)
		}
	}
	if t.Hazards.WindElevated > t.Hazards.WindExtreme {
		return errors.New("thresholds: wind_elevated exceeds wind_extreme")
	}
	if t.Hazards.RainElevated > t.Hazards.RainSevere {
		return errors.New("thresholds: rain_elevated exceeds rain_severe")
	}
	return nil
}
