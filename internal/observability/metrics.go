package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// assessment service.
type Metrics struct {
	Submissions        *prometheus.CounterVec // labels: outcome={success,not_found,fetch_failed,invalid,busy}
	SubmissionDuration prometheus.Histogram
	Loading            prometheus.Gauge

	// Upstream collaborator metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: collaborator={geocode,current,forecast,headlines}, outcome={success,error,empty}
	UpstreamDuration *prometheus.HistogramVec // labels: collaborator

	HazardNotices       prometheus.Counter
	Notifications       *prometheus.CounterVec // labels: level={success,warning,error}
	GlobalAlertFailures prometheus.Counter
	WebsocketClients    prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Submissions,
		m.SubmissionDuration,
		m.Loading,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.HazardNotices,
		m.Notifications,
		m.GlobalAlertFailures,
		m.WebsocketClients,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parade",
			Name:      "submissions_total",
			Help:      "Assessment submissions by outcome.",
		}, []string{"outcome"}),
		SubmissionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "parade",
			Name:      "submission_duration_seconds",
			Help:      "Duration of a complete geocode-current-forecast assessment.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		Loading: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "parade",
			Name:      "loading",
			Help:      "1 while a submission is in flight, 0 otherwise.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parade",
			Name:      "upstream_requests_total",
			Help:      "Requests to external collaborators by outcome.",
		}, []string{"collaborator", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "parade",
			Name:      "upstream_duration_seconds",
			Help:      "External collaborator request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"collaborator"}),
		HazardNotices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parade",
			Name:      "hazard_notices_total",
			Help:      "Hazard notices generated by successful assessments.",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parade",
			Name:      "notifications_total",
			Help:      "User-visible notifications dispatched by level.",
		}, []string{"level"}),
		GlobalAlertFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parade",
			Name:      "global_alert_failures_total",
			Help:      "Global alert headline fetches that failed and were suppressed.",
		}),
		WebsocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "parade",
			Name:      "websocket_clients",
			Help:      "Dashboards connected to the notification stream.",
		}),
	}
}
