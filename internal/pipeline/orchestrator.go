package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/parade-weather-service/internal/domain"
	"github.com/couchcryptid/parade-weather-service/internal/observability"
	"github.com/google/uuid"
)

// State is the orchestrator's position in the submission lifecycle.
type State int32

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateFailure
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// FailureReason distinguishes the two user-visible failure kinds.
type FailureReason string

const (
	ReasonLocationNotFound FailureReason = "location_not_found"
	ReasonFetchFailed      FailureReason = "fetch_failed"
)

// User-visible messages.
const (
	MessageSuccess  = "Weather data retrieved successfully!"
	MessageNotFound = "City not found. Please try another city name."
	MessageFetch    = "Failed to fetch weather data. Please try again."
)

var (
	// ErrBusy is returned by Submit while another submission is in flight.
	ErrBusy = errors.New("a submission is already in progress")

	// ErrStopped is returned by Submit after Stop.
	ErrStopped = errors.New("orchestrator stopped")
)

// WeatherSource fetches current conditions and the forecast for a point.
type WeatherSource interface {
	CurrentConditions(ctx context.Context, geo domain.Geo) (domain.CurrentConditions, error)
	Forecast(ctx context.Context, geo domain.Geo) (domain.ForecastSeries, error)
}

// AssessmentSink receives every successful assessment.
type AssessmentSink interface {
	Publish(ctx context.Context, a domain.Assessment) error
}

// Outcome is the terminal result of one submission.
type Outcome struct {
	State         State
	Reason        FailureReason
	Message       string
	Assessment    domain.Assessment
	Notifications []domain.Notification
}

// Settings tunes a single orchestrator.
type Settings struct {
	ForecastDays   int
	NoticeDuration time.Duration
	Risk           domain.RiskProfile
	Hazards        domain.HazardRules

	// Observer, when set, is called on every state transition.
	Observer func(from, to State)
}

// Orchestrator runs the geocode, current-conditions and forecast sequence
// for one submission at a time and keeps the last successful assessment.
type Orchestrator struct {
	geocoder domain.Geocoder
	weather  WeatherSource
	notifier Notifier
	sink     AssessmentSink
	logger   *slog.Logger
	metrics  *observability.Metrics
	settings Settings

	state   atomic.Int32
	stopped atomic.Bool

	mu     sync.RWMutex
	latest *domain.Assessment
}

// New creates an Orchestrator in the Idle state.
func New(geocoder domain.Geocoder, weather WeatherSource, notifier Notifier, logger *slog.Logger, metrics *observability.Metrics, settings Settings) *Orchestrator {
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return &Orchestrator{
		geocoder: geocoder,
		weather:  weather,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
		settings: settings,
	}
}

// WithSink attaches a sink for successful assessments.
func (o *Orchestrator) WithSink(sink AssessmentSink) *Orchestrator {
	o.sink = sink
	return o
}

// State reports the current lifecycle state.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// Latest returns the last successful assessment, if any.
func (o *Orchestrator) Latest() (domain.Assessment, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.latest == nil {
		return domain.Assessment{}, false
	}
	return o.latest.Clone(), true
}

// CheckReadiness fails once the orchestrator has been stopped.
func (o *Orchestrator) CheckReadiness(_ context.Context) error {
	if o.stopped.Load() {
		return ErrStopped
	}
	return nil
}

// Stop rejects further submissions. A submission already in flight completes.
func (o *Orchestrator) Stop() {
	o.stopped.Store(true)
}

// Submit runs one submission to completion. It returns ErrBusy without
// side effects when another submission is loading. Failures are reported
// in the Outcome, not as an error.
//
// Cancelling ctx does not abort a started submission; each upstream call is
// bounded by its client timeout instead. Values carried by ctx are kept.
func (o *Orchestrator) Submit(ctx context.Context, sub domain.Submission) (Outcome, error) {
	if o.stopped.Load() {
		return Outcome{}, ErrStopped
	}
	if !o.state.CompareAndSwap(int32(StateIdle), int32(StateLoading)) {
		o.metrics.Submissions.WithLabelValues("busy").Inc()
		return Outcome{}, ErrBusy
	}
	o.observe(StateIdle, StateLoading)

	start := time.Now()
	o.metrics.Loading.Set(1)
	terminal := StateLoading
	defer func() {
		o.metrics.Loading.Set(0)
		o.metrics.SubmissionDuration.Observe(time.Since(start).Seconds())
		o.state.Store(int32(StateIdle))
		o.observe(terminal, StateIdle)
	}()

	ctx = context.WithoutCancel(ctx)
	out := o.run(ctx, sub)

	terminal = out.State
	o.state.Store(int32(terminal))
	o.observe(StateLoading, terminal)

	out.Notifications = o.dispatch(ctx, out)
	return out, nil
}

func (o *Orchestrator) run(ctx context.Context, sub domain.Submission) Outcome {
	log := o.logger.With("city", sub.City, "event", sub.EventName)

	place, err := o.geocoder.ForwardGeocode(ctx, sub.City)
	if errors.Is(err, domain.ErrLocationNotFound) {
		log.Info("location not found")
		return o.fail(ReasonLocationNotFound, MessageNotFound)
	}
	if err != nil {
		log.Error("geocode failed", "error", err)
		return o.fail(ReasonFetchFailed, MessageFetch)
	}

	geo := place.Geo()
	current, err := o.weather.CurrentConditions(ctx, geo)
	if err != nil {
		log.Error("current conditions failed", "error", err, "lat", geo.Lat, "lon", geo.Lon)
		return o.fail(ReasonFetchFailed, MessageFetch)
	}

	series, err := o.weather.Forecast(ctx, geo)
	if err != nil {
		log.Error("forecast failed", "error", err, "lat", geo.Lat, "lon", geo.Lon)
		return o.fail(ReasonFetchFailed, MessageFetch)
	}

	snapshot := domain.NewSnapshot(current)
	a := domain.Assessment{
		ID:         uuid.NewString(),
		Submission: sub,
		Place:      place,
		Snapshot:   snapshot,
		Forecast:   domain.ReduceForecast(series.Samples, o.settings.ForecastDays, series.Location),
		Verdict:    domain.AssessRisk(snapshot, o.settings.Risk),
		Hazards:    domain.EvaluateHazards(snapshot, o.settings.Hazards),
		Daylight:   domain.DaylightFor(sub.Date, geo, series.Location),
		AssessedAt: domain.Now(),
	}

	published := a.Clone()
	o.mu.Lock()
	o.latest = &published
	o.mu.Unlock()

	o.metrics.Submissions.WithLabelValues("success").Inc()
	o.metrics.HazardNotices.Add(float64(len(a.Hazards)))
	log.Info("assessment complete",
		"id", a.ID,
		"parade_safe", a.Verdict.ParadeSafe,
		"hazards", len(a.Hazards),
		"forecast_days", len(a.Forecast),
	)

	if o.sink != nil {
		if err := o.sink.Publish(ctx, a); err != nil {
			log.Warn("publish assessment failed", "id", a.ID, "error", err)
		}
	}

	return Outcome{State: StateSuccess, Message: MessageSuccess, Assessment: a}
}

func (o *Orchestrator) fail(reason FailureReason, message string) Outcome {
	label := "fetch_failed"
	if reason == ReasonLocationNotFound {
		label = "not_found"
	}
	o.metrics.Submissions.WithLabelValues(label).Inc()
	return Outcome{State: StateFailure, Reason: reason, Message: message}
}

// dispatch sends hazard notices in order followed by the outcome
// acknowledgement. Delivery errors are logged and do not change the outcome.
func (o *Orchestrator) dispatch(ctx context.Context, out Outcome) []domain.Notification {
	now := domain.Now()
	var notes []domain.Notification

	if out.State == StateSuccess {
		for _, h := range out.Assessment.Hazards {
			notes = append(notes, domain.Notification{
				Level:        domain.LevelWarning,
				Message:      h,
				Duration:     o.settings.NoticeDuration,
				AssessmentID: out.Assessment.ID,
				At:           now,
			})
		}
		notes = append(notes, domain.Notification{
			Level:        domain.LevelSuccess,
			Message:      out.Message,
			Duration:     o.settings.NoticeDuration,
			AssessmentID: out.Assessment.ID,
			At:           now,
		})
	} else {
		notes = append(notes, domain.Notification{
			Level:    domain.LevelError,
			Message:  out.Message,
			Duration: o.settings.NoticeDuration,
			At:       now,
		})
	}

	for _, n := range notes {
		o.metrics.Notifications.WithLabelValues(string(n.Level)).Inc()
		if err := o.notifier.Notify(ctx, n); err != nil {
			o.logger.Warn("notification delivery failed", "level", n.Level, "error", err)
		}
	}
	return notes
}

func (o *Orchestrator) observe(from, to State) {
	o.logger.Debug("state transition", "from", from, "to", to)
	if o.settings.Observer != nil {
		o.settings.Observer(from, to)
	}
}
