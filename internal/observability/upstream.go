package observability

import (
	"errors"
	"time"

	"github.com/couchcryptid/parade-weather-service/internal/domain"
)

// ObserveUpstream records the latency and outcome of one collaborator request.
// An empty location search counts as "empty" rather than "error".
func (m *Metrics) ObserveUpstream(collaborator string, start time.Time, err error) {
	m.UpstreamDuration.WithLabelValues(collaborator).Observe(time.Since(start).Seconds())

	outcome := "success"
	switch {
	case errors.Is(err, domain.ErrLocationNotFound):
		outcome = "empty"
	case err != nil:
		outcome = "error"
	}
	m.UpstreamRequests.WithLabelValues(collaborator, outcome).Inc()
}
