// Package domain models the weather risk assessment behind the parade
// planner dashboard.
//
// # Data Flow
//
// A submission names a city, an event and a calendar date. The city is
// resolved to a coordinate by a location-search provider, then current
// conditions and a 3-hour forecast time series are fetched for that
// coordinate. The current conditions become a [WeatherSnapshot]; the time
// series is collapsed into at most five [ForecastDay] values by
// [ReduceForecast].
//
// # Units
//
//	precipitation  mm (most recent 1h volume, 3h volume when 1h is absent, 0 when neither is reported)
//	wind speed     m/s
//	humidity       %, 0..100
//	temperature    °C
//
// # Risk Classification
//
// Each tracked metric is classified against a (warning, danger) pair with
// inclusive lower bounds:
//
//	value >= danger   → danger
//	value >= warning  → warning
//	otherwise         → safe
//
// Dashboard thresholds:
//
//	precipitation   5 mm   | 10 mm
//	wind           20 m/s  | 30 m/s
//	humidity       70 %    | 85 %
//
// An event is parade-safe only when all three metrics are safe. See
// [AssessRisk].
//
// # Hazard Notices
//
// Hazard notices are short texts whose emoji prefix carries the severity.
// Rules run in a fixed order (wind, precipitation, cold, heat, upstream
// alerts) and are exclusive within the wind and precipitation categories.
// See [EvaluateHazards].
//
// # Calendar Days
//
// Forecast days are keyed by the en-US short date ("1/2/2006") in the time
// zone of the forecast location, so a sample at 23:00 local time belongs to
// that local day even when it is already the next day in UTC.
package domain
