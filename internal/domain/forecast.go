package domain

import "time"

// DayKeyLayout is the en-US short date used to key forecast days.
const DayKeyLayout = "1/2/2006"

// ReduceForecast keeps the first sample of each distinct calendar day, in
// input order, until maxDays days have been collected. Samples after the
// cap are not inspected. Day keys are computed in loc (UTC when nil).
func ReduceForecast(samples []ForecastSample, maxDays int, loc *time.Location) []ForecastDay {
	if loc == nil {
		loc = time.UTC
	}
	if maxDays <= 0 {
		return []ForecastDay{}
	}
	days := make([]ForecastDay, 0, min(maxDays, len(samples)))

	seen := make(map[string]struct{}, maxDays)
	for _, s := range samples {
		key := s.Time.In(loc).Format(DayKeyLayout)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, ForecastDay{
			Date:          key,
			Temperature:   s.Temperature,
			Precipitation: s.Precipitation,
			WindSpeed:     s.WindSpeed,
			Humidity:      s.Humidity,
			Description:   s.Description,
		})
		if len(days) == maxDays {
			break
		}
	}
	return days
}
