package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMildTemperature = 20

func countPrefix(notices []string, prefix string) int {
	n := 0
	for _, s := range notices {
		if strings.HasPrefix(s, prefix) {
			n++
		}
	}
	return n
}

func TestEvaluateHazards_NoHazards(t *testing.T) {
	notices := EvaluateHazards(WeatherSnapshot{WindSpeed: 10, Precipitation: 2, Temperature: testMildTemperature}, DefaultHazardRules())
	assert.Empty(t, notices)
}

func TestEvaluateHazards_ExtremeWindOnly(t *testing.T) {
	notices := EvaluateHazards(WeatherSnapshot{WindSpeed: 55, Temperature: testMildTemperature}, DefaultHazardRules())
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0], "Extreme wind warning")
	assert.Contains(t, notices[0], "55.0 m/s")
}

func TestEvaluateHazards_ElevatedWind(t *testing.T) {
	notices := EvaluateHazards(WeatherSnapshot{WindSpeed: 25, Temperature: testMildTemperature}, DefaultHazardRules())
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0], "Strong wind advisory")
}

func TestEvaluateHazards_WindBoundariesAreStrict(t *testing.T) {
	rules := DefaultHazardRules()

	atElevated := EvaluateHazards(WeatherSnapshot{WindSpeed: rules.WindElevated, Temperature: testMildTemperature}, rules)
	assert.Empty(t, atElevated)

	atExtreme := EvaluateHazards(WeatherSnapshot{WindSpeed: rules.WindExtreme, Temperature: testMildTemperature}, rules)
	require.Len(t, atExtreme, 1)
	assert.Contains(t, atExtreme[0], "Strong wind advisory")
}

func TestEvaluateHazards_Rain(t *testing.T) {
	severe := EvaluateHazards(WeatherSnapshot{Precipitation: 60, Temperature: testMildTemperature}, DefaultHazardRules())
	require.Len(t, severe, 1)
	assert.Contains(t, severe[0], "Severe rain warning")

	heavy := EvaluateHazards(WeatherSnapshot{Precipitation: 11, Temperature: testMildTemperature}, DefaultHazardRules())
	require.Len(t, heavy, 1)
	assert.Contains(t, heavy[0], "Heavy rain notice")

	atBound := EvaluateHazards(WeatherSnapshot{Precipitation: 10, Temperature: testMildTemperature}, DefaultHazardRules())
	assert.Empty(t, atBound)
}

func TestEvaluateHazards_Temperature(t *testing.T) {
	cold := EvaluateHazards(WeatherSnapshot{Temperature: -2}, DefaultHazardRules())
	require.Len(t, cold, 1)
	assert.Contains(t, cold[0], "Cold conditions")

	hot := EvaluateHazards(WeatherSnapshot{Temperature: 38.5}, DefaultHazardRules())
	require.Len(t, hot, 1)
	assert.Contains(t, hot[0], "Hot conditions: 38.5°C")

	assert.Empty(t, EvaluateHazards(WeatherSnapshot{Temperature: 5}, DefaultHazardRules()))
	assert.Empty(t, EvaluateHazards(WeatherSnapshot{Temperature: 35}, DefaultHazardRules()))
}

func TestEvaluateHazards_Order(t *testing.T) {
	s := WeatherSnapshot{
		WindSpeed:     35,
		Precipitation: 70,
		Temperature:   40,
		Alerts: []Alert{
			{Event: "Heat Advisory", Description: "Heat index up to 45C"},
			{Event: "Flood Watch", Description: "River levels rising"},
		},
	}

	notices := EvaluateHazards(s, DefaultHazardRules())
	require.Len(t, notices, 5)
	assert.Contains(t, notices[0], "wind")
	assert.Contains(t, notices[1], "Severe rain warning")
	assert.Contains(t, notices[2], "Hot conditions")
	assert.Equal(t, "🚨 Heat Advisory: Heat index up to 45C", notices[3])
	assert.Equal(t, "🚨 Flood Watch: River levels rising", notices[4])
	assert.Equal(t, 1, countPrefix(notices, "💨"))
}

func TestEvaluateHazards_CustomRules(t *testing.T) {
	rules := DefaultHazardRules()
	rules.WindElevated = 30

	assert.Empty(t, EvaluateHazards(WeatherSnapshot{WindSpeed: 25, Temperature: testMildTemperature}, rules))
	assert.Len(t, EvaluateHazards(WeatherSnapshot{WindSpeed: 31, Temperature: testMildTemperature}, rules), 1)
}
