package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/parade-weather-service/internal/adapter/http"
	"github.com/couchcryptid/parade-weather-service/internal/domain"
	"github.com/couchcryptid/parade-weather-service/internal/observability"
	"github.com/couchcryptid/parade-weather-service/internal/pipeline"
	"github.com/couchcryptid/parade-weather-service/internal/web"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssessor struct {
	outcome  pipeline.Outcome
	err      error
	latest   *domain.Assessment
	state    pipeline.State
	readyErr error
	got      []domain.Submission
}

func (f *fakeAssessor) Submit(_ context.Context, sub domain.Submission) (pipeline.Outcome, error) {
	f.got = append(f.got, sub)
	if f.err == nil && f.outcome.State == pipeline.StateSuccess {
		a := f.outcome.Assessment
		f.latest = &a
	}
	return f.outcome, f.err
}

func (f *fakeAssessor) Latest() (domain.Assessment, bool) {
	if f.latest == nil {
		return domain.Assessment{}, false
	}
	return *f.latest, true
}

func (f *fakeAssessor) State() pipeline.State                  { return f.state }
func (f *fakeAssessor) CheckReadiness(_ context.Context) error { return f.readyErr }

type fakeAlerts struct{ titles []string }

func (f *fakeAlerts) Fetch(_ context.Context) []string { return f.titles }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleAssessment() domain.Assessment {
	snap := domain.WeatherSnapshot{WindSpeed: 4, Humidity: 40, Temperature: 21}
	return domain.Assessment{
		ID:         "asm-1",
		Submission: domain.Submission{City: "Austin", EventName: "Pride", Date: time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)},
		Snapshot:   snap,
		Verdict:    domain.AssessRisk(snap, domain.DefaultRiskProfile()),
		Hazards:    []string{},
	}
}

func newTestServer(t *testing.T, a *fakeAssessor, alerts httpadapter.AlertFetcher) (*httpadapter.Server, *observability.Metrics) {
	t.Helper()
	r, err := web.NewRenderer(3, 1)
	require.NoError(t, err)
	m := observability.NewMetricsForTesting()
	return httpadapter.NewServer(":0", httpadapter.Deps{
		Assessor: a,
		Alerts:   alerts,
		Renderer: r,
		Metrics:  m,
	}, discardLogger()), m
}

func do(srv http.Handler, method, target, body, contentType string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthzReturns200(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAssessor{}, nil)
	rec := do(srv, http.MethodGet, "/healthz", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]string](t, rec)["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAssessor{readyErr: errors.New("orchestrator stopped")}, nil)
	rec := do(srv, http.MethodGet, "/readyz", "", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "orchestrator stopped", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAssessor{}, nil)
	rec := do(srv, http.MethodGet, "/metrics", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestCreateAssessment_Success(t *testing.T) {
	a := sampleAssessment()
	fa := &fakeAssessor{outcome: pipeline.Outcome{
		State:      pipeline.StateSuccess,
		Message:    pipeline.MessageSuccess,
		Assessment: a,
		Notifications: []domain.Notification{
			{Level: domain.LevelSuccess, Message: pipeline.MessageSuccess, Duration: 5 * time.Second},
		},
	}}
	srv, _ := newTestServer(t, fa, nil)

	rec := do(srv, http.MethodPost, "/api/assessments", `{"city":" Austin ","event_name":"Pride","date":"2024-06-21"}`, "application/json")

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, fa.got, 1)
	assert.Equal(t, "Austin", fa.got[0].City)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "SpaceShield Parade Forecast for Pride in Austin on 2024-06-21: ✅ Parade-Safe!", body["share_text"])
	assert.Len(t, body["notifications"], 1)
}

func TestCreateAssessment_Errors(t *testing.T) {
	tests := []struct {
		name       string
		assessor   *fakeAssessor
		body       string
		wantStatus int
		wantError  string
		wantReason string
	}{
		{
			name:       "malformed body",
			assessor:   &fakeAssessor{},
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantError:  "malformed request body",
		},
		{
			name:       "missing field",
			assessor:   &fakeAssessor{},
			body:       `{"city":"Austin","date":"2024-06-21"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid submission: event name is required",
		},
		{
			name:       "busy",
			assessor:   &fakeAssessor{err: pipeline.ErrBusy},
			body:       `{"city":"Austin","event_name":"Pride","date":"2024-06-21"}`,
			wantStatus: http.StatusConflict,
			wantError:  httpadapter.MessageBusy,
		},
		{
			name:       "not found",
			assessor:   &fakeAssessor{outcome: pipeline.Outcome{State: pipeline.StateFailure, Reason: pipeline.ReasonLocationNotFound, Message: pipeline.MessageNotFound}},
			body:       `{"city":"Atlantis","event_name":"Pride","date":"2024-06-21"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  pipeline.MessageNotFound,
			wantReason: "location_not_found",
		},
		{
			name:       "fetch failed",
			assessor:   &fakeAssessor{outcome: pipeline.Outcome{State: pipeline.StateFailure, Reason: pipeline.ReasonFetchFailed, Message: pipeline.MessageFetch}},
			body:       `{"city":"Austin","event_name":"Pride","date":"2024-06-21"}`,
			wantStatus: http.StatusBadGateway,
			wantError:  pipeline.MessageFetch,
			wantReason: "fetch_failed",
		},
		{
			name:       "stopped",
			assessor:   &fakeAssessor{err: pipeline.ErrStopped},
			body:       `{"city":"Austin","event_name":"Pride","date":"2024-06-21"}`,
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "Service is shutting down.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.assessor, nil)
			rec := do(srv, http.MethodPost, "/api/assessments", tt.body, "application/json")

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode[map[string]string](t, rec)
			assert.Equal(t, tt.wantError, body["error"])
			assert.Equal(t, tt.wantReason, body["reason"])
		})
	}
}

func TestCreateAssessment_InvalidCountsMetric(t *testing.T) {
	srv, m := newTestServer(t, &fakeAssessor{}, nil)
	do(srv, http.MethodPost, "/api/assessments", `{"city":"Austin","event_name":"Pride","date":"21/06/2024"}`, "application/json")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("invalid")))
}

func TestLatestAndShare(t *testing.T) {
	fa := &fakeAssessor{}
	srv, _ := newTestServer(t, fa, nil)

	assert.Equal(t, http.StatusNotFound, do(srv, http.MethodGet, "/api/assessments/latest", "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(srv, http.MethodGet, "/api/assessments/latest/share", "", "").Code)

	a := sampleAssessment()
	fa.latest = &a

	rec := do(srv, http.MethodGet, "/api/assessments/latest", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "asm-1", decode[domain.Assessment](t, rec).ID)

	rec = do(srv, http.MethodGet, "/api/assessments/latest/share", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ShareText(a), decode[map[string]string](t, rec)["text"])
}

func TestGlobalAlerts(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAssessor{}, &fakeAlerts{titles: []string{"Wildfire spreads"}})
	rec := do(srv, http.MethodGet, "/api/global-alerts", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Wildfire spreads"}, decode[map[string][]string](t, rec)["alerts"])
}

func TestGlobalAlerts_DisabledReturnsEmptyList(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAssessor{}, nil)
	rec := do(srv, http.MethodGet, "/api/global-alerts", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"alerts":[]}`, rec.Body.String())
}

func TestState(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAssessor{state: pipeline.StateLoading}, nil)
	rec := do(srv, http.MethodGet, "/api/state", "", "")

	assert.JSONEq(t, `{"state":"loading"}`, rec.Body.String())
}

func TestDashboard_DisablesSubmitWhileLoading(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAssessor{state: pipeline.StateLoading}, nil)
	rec := do(srv, http.MethodGet, "/", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `id="submit" disabled`)
}

func TestDashboard_UnknownPathIs404(t *testing.T) {
	srv, _ := newTestServer(t, &fakeAssessor{}, nil)
	assert.Equal(t, http.StatusNotFound, do(srv, http.MethodGet, "/nope", "", "").Code)
}

func TestAssessForm_SuccessRedirects(t *testing.T) {
	fa := &fakeAssessor{outcome: pipeline.Outcome{State: pipeline.StateSuccess, Assessment: sampleAssessment()}}
	srv, _ := newTestServer(t, fa, nil)

	form := url.Values{"city": {"Austin"}, "event_name": {"Pride"}, "date": {"2024-06-21"}}
	rec := do(srv, http.MethodPost, "/assess", form.Encode(), "application/x-www-form-urlencoded")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?notices=asm-1", rec.Header().Get("Location"))

	rec = do(srv, http.MethodGet, "/", "", "")
	assert.Contains(t, rec.Body.String(), "Parade-Safe Conditions!")
}

func TestAssessForm_NotificationsShownAfterRedirect(t *testing.T) {
	out := pipeline.Outcome{
		State:      pipeline.StateSuccess,
		Message:    pipeline.MessageSuccess,
		Assessment: sampleAssessment(),
		Notifications: []domain.Notification{
			{Level: domain.LevelWarning, Message: "Elevated wind notice", Duration: 5 * time.Second, AssessmentID: "asm-1"},
			{Level: domain.LevelSuccess, Message: pipeline.MessageSuccess, Duration: 5 * time.Second, AssessmentID: "asm-1"},
		},
	}
	srv, _ := newTestServer(t, &fakeAssessor{outcome: out}, nil)

	form := url.Values{"city": {"Austin"}, "event_name": {"Pride"}, "date": {"2024-06-21"}}
	rec := do(srv, http.MethodPost, "/assess", form.Encode(), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusSeeOther, rec.Code)

	// Another submission's id gets nothing and leaves the held notices alone.
	rec = do(srv, http.MethodGet, "/?notices=other", "", "")
	assert.NotContains(t, rec.Body.String(), `id="pending-toasts"`)

	rec = do(srv, http.MethodGet, "/?notices=asm-1", "", "")
	body := rec.Body.String()
	require.Contains(t, body, `id="pending-toasts"`)
	assert.Contains(t, body, `data-level="warning" data-duration="5000">Elevated wind notice</li>`)
	assert.Less(t, strings.Index(body, "Elevated wind notice</li>"), strings.Index(body, pipeline.MessageSuccess+"</li>"))

	// Shown once.
	rec = do(srv, http.MethodGet, "/?notices=asm-1", "", "")
	assert.NotContains(t, rec.Body.String(), `id="pending-toasts"`)
}

func TestAssessForm_NotFoundShowsMessage(t *testing.T) {
	fa := &fakeAssessor{outcome: pipeline.Outcome{State: pipeline.StateFailure, Reason: pipeline.ReasonLocationNotFound, Message: pipeline.MessageNotFound}}
	srv, _ := newTestServer(t, fa, nil)

	form := url.Values{"city": {"Atlantis"}, "event_name": {"Pride"}, "date": {"2024-06-21"}}
	rec := do(srv, http.MethodPost, "/assess", form.Encode(), "application/x-www-form-urlencoded")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), pipeline.MessageNotFound)
	assert.Contains(t, rec.Body.String(), `value="Atlantis"`)
}

func TestAssessForm_MissingFields(t *testing.T) {
	fa := &fakeAssessor{}
	srv, _ := newTestServer(t, fa, nil)

	rec := do(srv, http.MethodPost, "/assess", url.Values{"city": {"Austin"}}.Encode(), "application/x-www-form-urlencoded")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please fill in all fields.")
	assert.Empty(t, fa.got)
}
