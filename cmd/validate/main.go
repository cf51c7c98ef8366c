// Command validate checks a thresholds document before it is deployed via
// THRESHOLDS_PATH. It loads the file the same way the service does, then
// probes every bound to confirm that risk classification is inclusive and
// hazard comparisons are strict.
//
// Usage:
//
//	go run ./cmd/validate -thresholds deploy/thresholds.yaml
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/couchcryptid/parade-weather-service/internal/config"
	"github.com/couchcryptid/parade-weather-service/internal/domain"
)

// epsilon is the step used to probe just below a bound.
const epsilon = 0.01

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("thresholds", "", "thresholds YAML file (empty checks the embedded defaults)")
	flag.Parse()

	os.Exit(run(os.Stdout, *path))
}

func run(w io.Writer, path string) int {
	fmt.Fprintln(w, "=== Thresholds Validation ===")
	source := path
	if source == "" {
		source = "(embedded defaults)"
	}
	fmt.Fprintf(w, "Source: %s\n\n", source)

	th, err := config.LoadThresholds(path)
	if err != nil {
		fmt.Fprintf(w, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRiskBounds(th.Risk),
		validateHazardBounds(th.Hazards),
		validateHazardOrder(th.Hazards),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  %d. %s\n", i+1, e)
		}
	}

	fmt.Fprintln(w)
	if !allPassed {
		fmt.Fprintln(w, "RESULT: FAIL")
		return 1
	}
	fmt.Fprintln(w, "RESULT: PASS")
	return 0
}

func validateRiskBounds(p domain.RiskProfile) *phase {
	ph := &phase{name: "Risk bounds classify inclusively"}
	metrics := []struct {
		name string
		t    domain.Thresholds
	}{
		{"precipitation", p.Precipitation},
		{"wind", p.Wind},
		{"humidity", p.Humidity},
	}
	for _, m := range metrics {
		probes := []struct {
			value float64
			want  domain.RiskStatus
		}{
			{m.t.Warning - epsilon, domain.StatusSafe},
			{m.t.Warning, domain.StatusWarning},
			{m.t.Danger, domain.StatusDanger},
			{m.t.Danger + epsilon, domain.StatusDanger},
		}
		if m.t.Danger > m.t.Warning {
			probes = append(probes, struct {
				value float64
				want  domain.RiskStatus
			}{m.t.Danger - epsilon, domain.StatusWarning})
		}
		for _, pr := range probes {
			if got := m.t.Classify(pr.value); got != pr.want {
				ph.errorf("%s %.2f: got %s, want %s", m.name, pr.value, got, pr.want)
			}
		}
	}
	return ph
}

func validateHazardBounds(r domain.HazardRules) *phase {
	ph := &phase{name: "Hazard bounds compare strictly"}

	check := func(label string, snap domain.WeatherSnapshot, wantPrefix string, want bool) {
		notices := domain.EvaluateHazards(snap, r)
		got := slices.ContainsFunc(notices, func(n string) bool { return strings.Contains(n, wantPrefix) })
		if got != want {
			ph.errorf("%s: notice %q present=%t, want %t", label, wantPrefix, got, want)
		}
	}

	// A temperature between the cold and hot bounds keeps those rules quiet.
	mild := (r.ColdBelow + r.HotAbove) / 2

	check("wind at extreme bound", domain.WeatherSnapshot{WindSpeed: r.WindExtreme, Temperature: mild}, "Extreme wind", false)
	check("wind above extreme bound", domain.WeatherSnapshot{WindSpeed: r.WindExtreme + epsilon, Temperature: mild}, "Extreme wind", true)
	check("wind at elevated bound", domain.WeatherSnapshot{WindSpeed: r.WindElevated, Temperature: mild}, "Strong wind", false)
	check("wind above elevated bound", domain.WeatherSnapshot{WindSpeed: r.WindElevated + epsilon, Temperature: mild}, "Strong wind", r.WindElevated+epsilon <= r.WindExtreme)
	check("rain at severe bound", domain.WeatherSnapshot{Precipitation: r.RainSevere, Temperature: mild}, "Severe rain", false)
	check("rain above severe bound", domain.WeatherSnapshot{Precipitation: r.RainSevere + epsilon, Temperature: mild}, "Severe rain", true)
	check("rain at elevated bound", domain.WeatherSnapshot{Precipitation: r.RainElevated, Temperature: mild}, "Heavy rain", false)
	check("cold at bound", domain.WeatherSnapshot{Temperature: r.ColdBelow}, "Cold conditions", false)
	check("cold below bound", domain.WeatherSnapshot{Temperature: r.ColdBelow - epsilon}, "Cold conditions", true)
	check("hot at bound", domain.WeatherSnapshot{Temperature: r.HotAbove}, "Hot conditions", false)
	check("hot above bound", domain.WeatherSnapshot{Temperature: r.HotAbove + epsilon}, "Hot conditions", true)
	return ph
}

func validateHazardOrder(r domain.HazardRules) *phase {
	ph := &phase{name: "Hazard bounds are ordered"}
	if r.ColdBelow >= r.HotAbove {
		ph.errorf("cold_below (%.1f) must be below hot_above (%.1f)", r.ColdBelow, r.HotAbove)
	}
	if r.WindElevated > r.WindExtreme {
		ph.errorf("wind_elevated (%.1f) exceeds wind_extreme (%.1f)", r.WindElevated, r.WindExtreme)
	}
	if r.RainElevated > r.RainSevere {
		ph.errorf("rain_elevated (%.1f) exceeds rain_severe (%.1f)", r.RainElevated, r.RainSevere)
	}
	return ph
}
