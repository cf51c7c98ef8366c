package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/couchcryptid/parade-weather-service/internal/domain"
	"github.com/couchcryptid/parade-weather-service/internal/observability"
	"github.com/couchcryptid/parade-weather-service/internal/pipeline"
	"github.com/couchcryptid/parade-weather-service/internal/web"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MessageBusy is shown when a submission arrives while another is loading.
const MessageBusy = "A forecast is already being retrieved. Please wait."

// Assessor runs submissions and exposes the published assessment.
type Assessor interface {
	Submit(ctx context.Context, sub domain.Submission) (pipeline.Outcome, error)
	Latest() (domain.Assessment, bool)
	State() pipeline.State
	CheckReadiness(ctx context.Context) error
}

// AlertFetcher returns global alert headlines. It never fails.
type AlertFetcher interface {
	Fetch(ctx context.Context) []string
}

// Deps are the collaborators behind the HTTP routes. Alerts and Hub may be nil.
type Deps struct {
	Assessor Assessor
	Alerts   AlertFetcher
	Hub      *Hub
	Renderer *web.Renderer
	Metrics  *observability.Metrics

	// WriteTimeout must cover a full geocode, current and forecast sequence.
	WriteTimeout time.Duration
}

// Server exposes the dashboard, the JSON API, the notification stream, and
// health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger

	// Notifications of the last form submission, held for the page the
	// browser is redirected to.
	mu      sync.Mutex
	flashID string
	flash   []domain.Notification
}

// NewServer creates an HTTP server with all routes registered.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	writeTimeout := deps.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: writeTimeout,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(deps.Assessor))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("POST /assess", s.handleAssessForm)

	mux.HandleFunc("POST /api/assessments", s.handleCreateAssessment)
	mux.HandleFunc("GET /api/assessments/latest", s.handleLatest)
	mux.HandleFunc("GET /api/assessments/latest/share", s.handleShare)
	mux.HandleFunc("GET /api/global-alerts", s.handleGlobalAlerts)
	mux.HandleFunc("GET /api/state", s.handleState)

	if deps.Hub != nil {
		mux.HandleFunc("GET /ws", deps.Hub.ServeWS)
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// --- dashboard ---

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	toasts := web.ToastsFor(s.takeFlash(r.URL.Query().Get("notices")))
	s.renderPage(w, http.StatusOK, web.Form{}, "", toasts)
}

func (s *Server) putFlash(id string, notes []domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flashID = id
	s.flash = notes
}

// takeFlash returns the held notifications once, and only for the
// submission that produced them.
func (s *Server) takeFlash(id string) []domain.Notification {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.flashID {
		return nil
	}
	notes := s.flash
	s.flashID, s.flash = "", nil
	return notes
}

func (s *Server) handleAssessForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, http.StatusBadRequest, web.Form{}, "Please fill in all fields.", nil)
		return
	}
	form := web.Form{
		City:      r.PostFormValue("city"),
		EventName: r.PostFormValue("event_name"),
		Date:      r.PostFormValue("date"),
	}

	sub, err := domain.ParseSubmission(form.City, form.EventName, form.Date)
	if err != nil {
		s.deps.Metrics.Submissions.WithLabelValues("invalid").Inc()
		s.renderPage(w, http.StatusBadRequest, form, "Please fill in all fields.", nil)
		return
	}

	out, err := s.deps.Assessor.Submit(r.Context(), sub)
	if err != nil {
		status, msg := submitErrorStatus(err)
		s.renderPage(w, status, form, msg, nil)
		return
	}
	if out.State == pipeline.StateFailure {
		s.renderPage(w, failureStatus(out.Reason), form, out.Message, nil)
		return
	}

	s.putFlash(out.Assessment.ID, out.Notifications)
	http.Redirect(w, r, "/?notices="+url.QueryEscape(out.Assessment.ID), http.StatusSeeOther)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, form web.Form, errMsg string, toasts []web.Toast) {
	var latest *domain.Assessment
	if a, ok := s.deps.Assessor.Latest(); ok {
		latest = &a
	}
	loading := s.deps.Assessor.State() == pipeline.StateLoading
	page := s.deps.Renderer.NewPage(form, loading, latest, errMsg, s.deps.Alerts != nil)
	page.Toasts = toasts

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.deps.Renderer.Render(w, page); err != nil {
		s.logger.Error("render dashboard failed", "error", err)
	}
}

// --- JSON API ---

type assessmentRequest struct {
	City      string `json:"city"`
	EventName string `json:"event_name"`
	Date      string `json:"date"`
}

type assessmentResponse struct {
	Assessment    domain.Assessment     `json:"assessment"`
	ShareText     string                `json:"share_text"`
	Notifications []domain.Notification `json:"notifications"`
}

type errorResponse struct {
	Error  string                 `json:"error"`
	Reason pipeline.FailureReason `json:"reason,omitempty"`
}

func (s *Server) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		s.deps.Metrics.Submissions.WithLabelValues("invalid").Inc()
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	sub, err := domain.ParseSubmission(req.City, req.EventName, req.Date)
	if err != nil {
		s.deps.Metrics.Submissions.WithLabelValues("invalid").Inc()
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	out, err := s.deps.Assessor.Submit(r.Context(), sub)
	if err != nil {
		status, msg := submitErrorStatus(err)
		sharedobs.WriteJSON(w, status, errorResponse{Error: msg})
		return
	}
	if out.State == pipeline.StateFailure {
		sharedobs.WriteJSON(w, failureStatus(out.Reason), errorResponse{Error: out.Message, Reason: out.Reason})
		return
	}

	sharedobs.WriteJSON(w, http.StatusCreated, assessmentResponse{
		Assessment:    out.Assessment,
		ShareText:     domain.ShareText(out.Assessment),
		Notifications: out.Notifications,
	})
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	a, ok := s.deps.Assessor.Latest()
	if !ok {
		sharedobs.WriteJSON(w, http.StatusNotFound, errorResponse{Error: "no assessment yet"})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, a)
}

func (s *Server) handleShare(w http.ResponseWriter, _ *http.Request) {
	a, ok := s.deps.Assessor.Latest()
	if !ok {
		sharedobs.WriteJSON(w, http.StatusNotFound, errorResponse{Error: "no assessment yet"})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]string{"text": domain.ShareText(a)})
}

func (s *Server) handleGlobalAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := []string{}
	if s.deps.Alerts != nil {
		alerts = s.deps.Alerts.Fetch(r.Context())
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string][]string{"alerts": alerts})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string]string{"state": s.deps.Assessor.State().String()})
}

func submitErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, pipeline.ErrBusy):
		return http.StatusConflict, MessageBusy
	case errors.Is(err, pipeline.ErrStopped):
		return http.StatusServiceUnavailable, "Service is shutting down."
	default:
		return http.StatusInternalServerError, pipeline.MessageFetch
	}
}

func failureStatus(reason pipeline.FailureReason) int {
	if reason == pipeline.ReasonLocationNotFound {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}
