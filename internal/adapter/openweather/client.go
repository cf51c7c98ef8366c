// Package openweather retrieves current conditions and the 3-hour forecast
// from the OpenWeatherMap 2.5 API.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/parade-weather-service/internal/domain"
	"github.com/couchcryptid/parade-weather-service/internal/observability"
)

const (
	collaboratorCurrent  = "current"
	collaboratorForecast = "forecast"
)

// Client queries OpenWeatherMap for a coordinate pair in metric units.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client. baseURL is the API root
// without a trailing slash, e.g. https://api.openweathermap.org/data/2.5.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// CurrentConditions returns the latest observation at geo.
func (c *Client) CurrentConditions(ctx context.Context, geo domain.Geo) (domain.CurrentConditions, error) {
	start := time.Now()
	var payload currentResponse
	err := c.get(ctx, "/weather", geo, &payload)
	if err == nil {
		err = payload.validate()
	}
	c.metrics.ObserveUpstream(collaboratorCurrent, start, err)
	if err != nil {
		return domain.CurrentConditions{}, err
	}
	return payload.toDomain(), nil
}

// Forecast returns the 3-hour forecast series at geo, tagged with the
// location's UTC offset.
func (c *Client) Forecast(ctx context.Context, geo domain.Geo) (domain.ForecastSeries, error) {
	start := time.Now()
	var payload forecastResponse
	err := c.get(ctx, "/forecast", geo, &payload)
	c.metrics.ObserveUpstream(collaboratorForecast, start, err)
	if err != nil {
		return domain.ForecastSeries{}, err
	}
	return payload.toDomain(), nil
}

func (c *Client) get(ctx context.Context, path string, geo domain.Geo, out any) error {
	params := url.Values{
		"lat":   {strconv.FormatFloat(geo.Lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(geo.Lon, 'f', -1, 64)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openweather %s request: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &domain.UpstreamError{Collaborator: "openweather", StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	c.logger.Debug("openweather response", "path", path, "lat", geo.Lat, "lon", geo.Lon)
	return nil
}

// OpenWeatherMap response types.

type mainBlock struct {
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
}

type windBlock struct {
	Speed float64 `json:"speed"`
}

type condition struct {
	Description string `json:"description"`
}

// rainBlock holds the volume for the last 1 or 3 hours; either may be absent.
type rainBlock struct {
	OneHour   *float64 `json:"1h"`
	ThreeHour *float64 `json:"3h"`
}

func (r *rainBlock) volume() *float64 {
	if r == nil {
		return nil
	}
	if r.OneHour != nil {
		return r.OneHour
	}
	return r.ThreeHour
}

type alert struct {
	Event       string `json:"event"`
	Description string `json:"description"`
}

type currentResponse struct {
	Main    *mainBlock  `json:"main"`
	Wind    *windBlock  `json:"wind"`
	Weather []condition `json:"weather"`
	Rain    *rainBlock  `json:"rain"`
	Alerts  []alert     `json:"alerts"`
}

func (r currentResponse) validate() error {
	if r.Main == nil || r.Wind == nil {
		return errors.New("openweather current response missing main or wind")
	}
	return nil
}

func (r currentResponse) toDomain() domain.CurrentConditions {
	cc := domain.CurrentConditions{
		Precipitation: r.Rain.volume(),
		WindSpeed:     r.Wind.Speed,
		Humidity:      r.Main.Humidity,
		Temperature:   r.Main.Temp,
		Description:   firstDescription(r.Weather),
	}
	for _, a := range r.Alerts {
		cc.Alerts = append(cc.Alerts, domain.Alert{Event: a.Event, Description: a.Description})
	}
	return cc
}

type forecastEntry struct {
	Dt      int64       `json:"dt"`
	Main    mainBlock   `json:"main"`
	Wind    windBlock   `json:"wind"`
	Weather []condition `json:"weather"`
	Rain    *rainBlock  `json:"rain"`
}

type forecastResponse struct {
	List []forecastEntry `json:"list"`
	City struct {
		Name     string `json:"name"`
		Timezone int    `json:"timezone"` // seconds east of UTC
	} `json:"city"`
}

func (r forecastResponse) toDomain() domain.ForecastSeries {
	series := domain.ForecastSeries{
		Samples:  make([]domain.ForecastSample, 0, len(r.List)),
		Location: time.FixedZone(zoneName(r.City.Timezone), r.City.Timezone),
	}
	for _, e := range r.List {
		s := domain.ForecastSample{
			Time:        time.Unix(e.Dt, 0).UTC(),
			Temperature: e.Main.Temp,
			Humidity:    e.Main.Humidity,
			WindSpeed:   e.Wind.Speed,
			Description: firstDescription(e.Weather),
		}
		if v := e.Rain.volume(); v != nil {
			s.Precipitation = *v
		}
		series.Samples = append(series.Samples, s)
	}
	return series
}

func firstDescription(cs []condition) string {
	if len(cs) == 0 {
		return ""
	}
	return cs[0].Description
}

// zoneName renders an offset as UTC±hh:mm.
func zoneName(offset int) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, offset/3600, (offset%3600)/60)
}
